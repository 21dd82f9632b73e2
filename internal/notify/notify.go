// Package notify persists match notifications for registry users.
//
// The pipeline only creates records; delivery transport and read-state
// management belong to the surrounding application.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"recovr/internal/storage"
)

// TypeMatchFound tags notifications produced by the matching pipeline.
const TypeMatchFound = "MATCH_FOUND"

// Notification is one stored notification record.
type Notification struct {
	ID            int64
	UserID        int64
	Title         string
	Message       string
	Type          string
	Read          bool
	RelatedItemID *int64
	CreatedAt     time.Time
}

// Service creates and lists notification records.
type Service struct {
	db *storage.DB
}

// NewService wraps the shared database handle.
func NewService(db *storage.DB) *Service {
	return &Service{db: db}
}

// Create persists a notification for a user. New records are unread.
func (s *Service) Create(ctx context.Context, userID int64, title, message, typ string, relatedItemID *int64) (*Notification, error) {
	now := time.Now().UTC()
	var related any
	if relatedItemID != nil {
		related = *relatedItemID
	}
	res, err := s.db.Exec(
		ctx,
		`INSERT INTO notifications (user_id, title, message, type, read, related_item_id, created_at)
         VALUES (?, ?, ?, ?, 0, ?, ?)`,
		userID,
		title,
		message,
		typ,
		related,
		storage.FormatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches one notification, or nil when unknown.
func (s *Service) GetByID(ctx context.Context, id int64) (*Notification, error) {
	row := s.db.QueryRow(
		ctx,
		`SELECT id, user_id, title, message, type, read, related_item_id, created_at
         FROM notifications WHERE id = ?`,
		id,
	)
	notification, err := scanNotification(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return notification, nil
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Notification, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT id, user_id, title, message, type, read, related_item_id, created_at
         FROM notifications WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

// UnreadCount returns the number of unread notifications for a user.
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	row := s.db.QueryRow(ctx, `SELECT COUNT(1) FROM notifications WHERE user_id = ? AND read = 0`, userID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkRead flags a notification as read.
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	if _, err := s.db.Exec(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func scanNotification(scanner interface{ Scan(dest ...any) error }) (*Notification, error) {
	var (
		id         int64
		userID     int64
		title      string
		message    string
		typ        string
		read       int
		related    sql.NullInt64
		createdRaw sql.NullString
	)
	if err := scanner.Scan(&id, &userID, &title, &message, &typ, &read, &related, &createdRaw); err != nil {
		return nil, err
	}
	notification := &Notification{
		ID:      id,
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    typ,
		Read:    read != 0,
	}
	if related.Valid {
		value := related.Int64
		notification.RelatedItemID = &value
	}
	if created, err := storage.ParseTime(createdRaw.String); err == nil {
		notification.CreatedAt = created
	}
	return notification, nil
}
