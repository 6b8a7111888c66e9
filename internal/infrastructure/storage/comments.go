package storage

import (
	"context"
	"fmt"
	"time"
)

// CommentsByMission returns a mission's chat history, oldest first, with
// sender display fields joined in.
func (s *Store) CommentsByMission(ctx context.Context, missionID int64) ([]*Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.mission_id, c.brawler_id,
		        COALESCE(b.display_name, ''), COALESCE(b.avatar_url, ''),
		        c.content, c.created_at
		 FROM mission_comments c
		 LEFT JOIN brawlers b ON b.id = c.brawler_id
		 WHERE c.mission_id = ?
		 ORDER BY c.created_at`, missionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		var c Comment
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.MissionID, &c.BrawlerID, &c.BrawlerName,
			&c.BrawlerAvatarURL, &c.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = fromMillis(createdAt)
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}

// AddComment stores a chat message and returns the full record with the
// sender's display fields, ready for broadcast.
func (s *Store) AddComment(ctx context.Context, missionID, brawlerID int64, content string) (*Comment, error) {
	if _, err := s.GetMission(ctx, missionID); err != nil {
		return nil, err
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO mission_comments (mission_id, brawler_id, content, created_at) VALUES (?, ?, ?, ?)`,
		missionID, brawlerID, content, toMillis(now))
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("comment id: %w", err)
	}

	c := &Comment{
		ID:        id,
		MissionID: missionID,
		BrawlerID: brawlerID,
		Content:   content,
		CreatedAt: fromMillis(toMillis(now)),
	}
	if b, err := s.GetBrawler(ctx, brawlerID); err == nil {
		c.BrawlerName = b.DisplayName
		c.BrawlerAvatarURL = b.AvatarURL
	}
	return c, nil
}

// ClearComments wipes a mission's chat. Chief only.
func (s *Store) ClearComments(ctx context.Context, missionID, actorID int64) error {
	mission, err := s.GetMission(ctx, missionID)
	if err != nil {
		return err
	}
	if mission.ChiefID != actorID {
		return fmt.Errorf("%w: only the chief may clear the chat", ErrForbidden)
	}

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM mission_comments WHERE mission_id = ?`, missionID); err != nil {
		return fmt.Errorf("clear comments: %w", err)
	}
	return nil
}
