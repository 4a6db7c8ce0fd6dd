package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// NotificationRepository implements persistence.NotificationRepository using SQLite.
type NotificationRepository struct {
	pool *ConnectionPool
}

// NewNotificationRepository creates a new SQLite notification repository.
func NewNotificationRepository(pool *ConnectionPool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// CreateNotification inserts a notification. The UNIQUE constraint on
// (user, rehearsal, kind) makes reminder delivery idempotent; callers treat
// ErrDuplicate as already-delivered.
func (r *NotificationRepository) CreateNotification(ctx context.Context, notification persistence.Notification) error {
	if notification.ID == "" || notification.UserID == "" {
		return persistence.ErrConstraintViolation
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO notifications (id, user_id, rehearsal_id, kind, message, read_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		nullString(notification.RehearsalID),
		notification.Kind,
		notification.Message,
		nullTime(notification.ReadAt),
		formatTime(notification.CreatedAt),
	)
	return mapSQLiteError(err)
}

// ListNotificationsForUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListNotificationsForUser(ctx context.Context, userID string) ([]persistence.Notification, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		selectNotificationQuery+` WHERE user_id = ? ORDER BY created_at DESC, id`,
		userID,
	)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var notifications []persistence.Notification
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead stamps read_at; the user filter prevents marking
// another user's notifications.
func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, id, userID string, readAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE notifications SET read_at = ? WHERE id = ? AND user_id = ?`,
		formatTime(readAt), id, userID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

const selectNotificationQuery = `
	SELECT id, user_id, rehearsal_id, kind, message, read_at, created_at
	FROM notifications`

func scanNotification(row rowScanner) (persistence.Notification, error) {
	var (
		notification persistence.Notification
		rehearsalID  sql.NullString
		readAt       sql.NullString
		createdAt    string
	)
	if err := row.Scan(&notification.ID, &notification.UserID, &rehearsalID, &notification.Kind, &notification.Message, &readAt, &createdAt); err != nil {
		return persistence.Notification{}, mapSQLiteError(err)
	}

	notification.RehearsalID = stringPtr(rehearsalID)

	var err error
	if notification.ReadAt, err = timePtr(readAt); err != nil {
		return persistence.Notification{}, err
	}
	if notification.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.Notification{}, err
	}
	return notification, nil
}
