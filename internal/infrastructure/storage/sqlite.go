// Package storage persists missions, crews, comments, brawlers and the
// durable notification feed in SQLite.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
)

const schema = `
CREATE TABLE IF NOT EXISTS brawlers (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	username     TEXT NOT NULL UNIQUE,
	display_name TEXT NOT NULL,
	avatar_url   TEXT NOT NULL DEFAULT '',
	created_at   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS missions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL DEFAULT 'Open',
	chief_id    INTEGER NOT NULL REFERENCES brawlers(id),
	max_crew    INTEGER NOT NULL DEFAULT 4,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL,
	deleted_at  INTEGER
);

CREATE TABLE IF NOT EXISTS crew_memberships (
	mission_id INTEGER NOT NULL REFERENCES missions(id),
	brawler_id INTEGER NOT NULL REFERENCES brawlers(id),
	created_at INTEGER NOT NULL,
	PRIMARY KEY (mission_id, brawler_id)
);

CREATE TABLE IF NOT EXISTS mission_comments (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	mission_id INTEGER NOT NULL REFERENCES missions(id),
	brawler_id INTEGER NOT NULL REFERENCES brawlers(id),
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	brawler_id INTEGER NOT NULL REFERENCES brawlers(id),
	type       TEXT NOT NULL,
	content    TEXT NOT NULL,
	related_id INTEGER,
	is_read    INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_comments_mission ON mission_comments(mission_id);
CREATE INDEX IF NOT EXISTS idx_notifications_brawler ON notifications(brawler_id);
`

// Store wraps the SQLite handle behind the repository methods.
type Store struct {
	db *sql.DB
}

// Open opens the database at path and ensures the schema exists. Use
// ":memory:" for tests.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// modernc sqlite serializes writes; one connection avoids
	// SQLITE_BUSY churn under concurrent handlers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}
