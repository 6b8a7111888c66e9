package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const missionSelect = `
SELECT m.id,
       m.name,
       m.description,
       m.status,
       m.chief_id,
       COALESCE(b.display_name, '') AS chief_display_name,
       (SELECT COUNT(*) FROM crew_memberships cm WHERE cm.mission_id = m.id) AS crew_count,
       m.max_crew,
       m.created_at,
       m.updated_at
FROM missions m
LEFT JOIN brawlers b ON b.id = m.chief_id
WHERE m.deleted_at IS NULL`

func scanMission(row interface{ Scan(...any) error }) (*Mission, error) {
	var m Mission
	var createdAt, updatedAt int64
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Status, &m.ChiefID,
		&m.ChiefDisplayName, &m.CrewCount, &m.MaxCrew, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan mission: %w", err)
	}
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	return &m, nil
}

// GetMission returns one live mission with chief context and crew count.
func (s *Store) GetMission(ctx context.Context, missionID int64) (*Mission, error) {
	return scanMission(s.db.QueryRowContext(ctx, missionSelect+` AND m.id = ?`, missionID))
}

// ListMissions returns all live missions, newest first, optionally
// filtered by status.
func (s *Store) ListMissions(ctx context.Context, status string) ([]*Mission, error) {
	query := missionSelect
	args := []any{}
	if status != "" {
		query += ` AND m.status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY m.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	missions := []*Mission{}
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}

// CreateMission inserts an Open mission owned by the chief.
func (s *Store) CreateMission(ctx context.Context, chiefID int64, add AddMission) (int64, error) {
	maxCrew := add.MaxCrew
	if maxCrew <= 0 {
		maxCrew = 4
	}
	now := toMillis(time.Now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO missions (name, description, status, chief_id, max_crew, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		add.Name, add.Description, StatusOpen, chiefID, maxCrew, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert mission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("mission id: %w", err)
	}
	return id, nil
}

// EditMission applies a partial update. Chief only.
func (s *Store) EditMission(ctx context.Context, missionID, actorID int64, edit EditMission) error {
	mission, err := s.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	if mission.ChiefID != actorID {
		return fmt.Errorf("%w: only the chief may edit the mission", ErrForbidden)
	}

	name, description, maxCrew := mission.Name, mission.Description, mission.MaxCrew
	if edit.Name != nil {
		name = *edit.Name
	}
	if edit.Description != nil {
		description = *edit.Description
	}
	if edit.MaxCrew != nil {
		maxCrew = *edit.MaxCrew
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE missions SET name = ?, description = ?, max_crew = ?, updated_at = ? WHERE id = ?`,
		name, description, maxCrew, toMillis(time.Now()), missionID)
	if err != nil {
		return fmt.Errorf("update mission: %w", err)
	}
	return nil
}

// DeleteMission soft-deletes a mission. Chief only.
func (s *Store) DeleteMission(ctx context.Context, missionID, actorID int64) error {
	mission, err := s.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	if mission.ChiefID != actorID {
		return fmt.Errorf("%w: only the chief may remove the mission", ErrForbidden)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE missions SET deleted_at = ?, updated_at = ? WHERE id = ?`,
		toMillis(time.Now()), toMillis(time.Now()), missionID)
	if err != nil {
		return fmt.Errorf("delete mission: %w", err)
	}
	return nil
}

// TransitionStatus moves a mission along Open -> InProgress ->
// Completed|Failed. Chief only.
func (s *Store) TransitionStatus(ctx context.Context, missionID, actorID int64, to string) error {
	mission, err := s.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	if mission.ChiefID != actorID {
		return fmt.Errorf("%w: only the chief may change mission status", ErrForbidden)
	}

	valid := false
	switch to {
	case StatusInProgress:
		valid = mission.Status == StatusOpen
	case StatusCompleted, StatusFailed:
		valid = mission.Status == StatusInProgress
	}
	if !valid {
		return fmt.Errorf("%w: cannot move mission from %s to %s", ErrConflict, mission.Status, to)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE missions SET status = ?, updated_at = ? WHERE id = ?`,
		to, toMillis(time.Now()), missionID)
	if err != nil {
		return fmt.Errorf("update mission status: %w", err)
	}
	return nil
}

// Crew returns the mission's current roster.
func (s *Store) Crew(ctx context.Context, missionID int64) ([]CrewMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, b.display_name, b.avatar_url
		 FROM crew_memberships cm
		 JOIN brawlers b ON b.id = cm.brawler_id
		 WHERE cm.mission_id = ?
		 ORDER BY cm.created_at`, missionID)
	if err != nil {
		return nil, fmt.Errorf("list crew: %w", err)
	}
	defer rows.Close()

	crew := []CrewMember{}
	for rows.Next() {
		var m CrewMember
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan crew member: %w", err)
		}
		crew = append(crew, m)
	}
	return crew, rows.Err()
}

// JoinCrew adds a brawler to an Open mission with free capacity.
func (s *Store) JoinCrew(ctx context.Context, missionID, brawlerID int64) error {
	mission, err := s.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	if mission.Status != StatusOpen {
		return fmt.Errorf("%w: mission is not open for joining", ErrConflict)
	}
	if mission.ChiefID == brawlerID {
		return fmt.Errorf("%w: the chief is not crew", ErrConflict)
	}
	if mission.CrewCount >= mission.MaxCrew {
		return fmt.Errorf("%w: crew is full", ErrConflict)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO crew_memberships (mission_id, brawler_id, created_at) VALUES (?, ?, ?)`,
		missionID, brawlerID, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("%w: already a crew member", ErrConflict)
	}
	return nil
}

// LeaveCrew removes the brawler's own membership.
func (s *Store) LeaveCrew(ctx context.Context, missionID, brawlerID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM crew_memberships WHERE mission_id = ? AND brawler_id = ?`,
		missionID, brawlerID)
	if err != nil {
		return fmt.Errorf("leave crew: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: not a crew member", ErrNotFound)
	}
	return nil
}

// KickCrew removes another brawler from the crew. Chief only.
func (s *Store) KickCrew(ctx context.Context, missionID, brawlerID, actorID int64) error {
	mission, err := s.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	if mission.ChiefID != actorID {
		return fmt.Errorf("%w: only the chief may kick crew members", ErrForbidden)
	}
	return s.LeaveCrew(ctx, missionID, brawlerID)
}

// JoinedMissions lists the live missions a brawler is crew on.
func (s *Store) JoinedMissions(ctx context.Context, brawlerID int64) ([]*Mission, error) {
	rows, err := s.db.QueryContext(ctx,
		missionSelect+` AND m.id IN (SELECT mission_id FROM crew_memberships WHERE brawler_id = ?)
		 ORDER BY m.created_at DESC`, brawlerID)
	if err != nil {
		return nil, fmt.Errorf("list joined missions: %w", err)
	}
	defer rows.Close()

	missions := []*Mission{}
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		missions = append(missions, m)
	}
	return missions, rows.Err()
}
