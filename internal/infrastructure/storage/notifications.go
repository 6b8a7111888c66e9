package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// AddNotification persists one entry of the durable notification feed.
// Callers treat failures as best-effort; real-time delivery never waits
// on this write.
func (s *Store) AddNotification(ctx context.Context, add AddNotification) (*Notification, error) {
	now := time.Now()
	var related sql.NullInt64
	if add.RelatedID != 0 {
		related = sql.NullInt64{Int64: add.RelatedID, Valid: true}
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (brawler_id, type, content, related_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		add.BrawlerID, add.Type, add.Content, related, toMillis(now))
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("notification id: %w", err)
	}

	return &Notification{
		ID:        id,
		BrawlerID: add.BrawlerID,
		Type:      add.Type,
		Content:   add.Content,
		RelatedID: add.RelatedID,
		CreatedAt: fromMillis(toMillis(now)),
	}, nil
}

// NotificationsByBrawler returns a brawler's feed, newest first.
func (s *Store) NotificationsByBrawler(ctx context.Context, brawlerID int64) ([]*Notification, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brawler_id, type, content, related_id, is_read, created_at
		 FROM notifications WHERE brawler_id = ? ORDER BY created_at DESC`, brawlerID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*Notification{}
	for rows.Next() {
		var n Notification
		var related sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.BrawlerID, &n.Type, &n.Content, &related,
			&n.IsRead, &createdAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.RelatedID = related.Int64
		n.CreatedAt = fromMillis(createdAt)
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead marks one of the brawler's notifications read.
func (s *Store) MarkNotificationRead(ctx context.Context, notificationID, brawlerID int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND brawler_id = ?`,
		notificationID, brawlerID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead marks the brawler's whole feed read.
func (s *Store) MarkAllNotificationsRead(ctx context.Context, brawlerID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE brawler_id = ?`, brawlerID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// ClearNotifications deletes the brawler's whole feed.
func (s *Store) ClearNotifications(ctx context.Context, brawlerID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE brawler_id = ?`, brawlerID); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
