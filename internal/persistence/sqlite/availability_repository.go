package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// AvailabilityRepository implements persistence.AvailabilityRepository using SQLite.
type AvailabilityRepository struct {
	pool *ConnectionPool
}

// NewAvailabilityRepository creates a new SQLite availability repository.
func NewAvailabilityRepository(pool *ConnectionPool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// CreateWindow inserts a recurring weekly window. Overlapping windows are
// permitted; blackout precedence is resolved at prediction time.
func (r *AvailabilityRepository) CreateWindow(ctx context.Context, window persistence.AvailabilityWindow) error {
	if window.ID == "" || window.UserID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if window.CreatedAt.IsZero() {
		window.CreatedAt = now
	}
	if window.UpdatedAt.IsZero() {
		window.UpdatedAt = now
	}

	query := `
		INSERT INTO availability_windows (id, user_id, weekday, start_time, end_time, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		window.ID,
		window.UserID,
		window.Weekday,
		window.StartTime,
		window.EndTime,
		window.Available,
		formatTime(window.CreatedAt),
		formatTime(window.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateWindow updates an existing window.
func (r *AvailabilityRepository) UpdateWindow(ctx context.Context, window persistence.AvailabilityWindow) error {
	query := `
		UPDATE availability_windows
		SET weekday = ?, start_time = ?, end_time = ?, available = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		window.Weekday,
		window.StartTime,
		window.EndTime,
		window.Available,
		formatTime(time.Now().UTC()),
		window.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

// GetWindow retrieves a window by ID.
func (r *AvailabilityRepository) GetWindow(ctx context.Context, id string) (persistence.AvailabilityWindow, error) {
	if id == "" {
		return persistence.AvailabilityWindow{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectWindowQuery+` WHERE id = ?`, id)
	return scanWindow(row)
}

// ListWindowsForUser returns windows ordered by weekday then start time.
func (r *AvailabilityRepository) ListWindowsForUser(ctx context.Context, userID string) ([]persistence.AvailabilityWindow, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		selectWindowQuery+` WHERE user_id = ? ORDER BY weekday, start_time, id`,
		userID,
	)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()
	return collectWindows(rows)
}

// ListWindowsForUsers batches window lookups for a roster in one query.
// Users without windows are absent from the returned map.
func (r *AvailabilityRepository) ListWindowsForUsers(ctx context.Context, userIDs []string) (map[string][]persistence.AvailabilityWindow, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(userIDs)), ", ")
	args := make([]any, 0, len(userIDs))
	for _, id := range userIDs {
		args = append(args, id)
	}

	rows, err := r.pool.db.QueryContext(ctx,
		selectWindowQuery+` WHERE user_id IN (`+placeholders+`) ORDER BY user_id, weekday, start_time, id`,
		args...,
	)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	windows, err := collectWindows(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]persistence.AvailabilityWindow)
	for _, window := range windows {
		out[window.UserID] = append(out[window.UserID], window)
	}
	return out, nil
}

// DeleteWindow removes a window by ID.
func (r *AvailabilityRepository) DeleteWindow(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM availability_windows WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

const selectWindowQuery = `
	SELECT id, user_id, weekday, start_time, end_time, available, created_at, updated_at
	FROM availability_windows`

func scanWindow(row rowScanner) (persistence.AvailabilityWindow, error) {
	var (
		window    persistence.AvailabilityWindow
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&window.ID, &window.UserID, &window.Weekday, &window.StartTime, &window.EndTime, &window.Available, &createdAt, &updatedAt); err != nil {
		return persistence.AvailabilityWindow{}, mapSQLiteError(err)
	}

	var err error
	if window.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.AvailabilityWindow{}, err
	}
	if window.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.AvailabilityWindow{}, err
	}
	return window, nil
}

func collectWindows(rows *sql.Rows) ([]persistence.AvailabilityWindow, error) {
	var windows []persistence.AvailabilityWindow
	for rows.Next() {
		window, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	return windows, rows.Err()
}
