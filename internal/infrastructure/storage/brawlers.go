package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateBrawler inserts an account record and returns its id. Account
// registration proper (passwords, login) belongs to the identity
// service; this exists for seeding and tests.
func (s *Store) CreateBrawler(ctx context.Context, username, displayName string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO brawlers (username, display_name, created_at) VALUES (?, ?, ?)`,
		username, displayName, toMillis(time.Now()))
	if err != nil {
		return 0, fmt.Errorf("insert brawler: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("brawler id: %w", err)
	}
	return id, nil
}

// GetBrawler returns one account by id.
func (s *Store) GetBrawler(ctx context.Context, id int64) (*Brawler, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, avatar_url, created_at FROM brawlers WHERE id = ?`, id)

	var b Brawler
	var createdAt int64
	if err := row.Scan(&b.ID, &b.Username, &b.DisplayName, &b.AvatarURL, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan brawler: %w", err)
	}
	b.CreatedAt = fromMillis(createdAt)
	return &b, nil
}
