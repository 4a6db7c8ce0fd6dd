package sqlite

import (
	"context"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// AttendanceRepository implements persistence.AttendanceRepository using SQLite.
type AttendanceRepository struct {
	pool *ConnectionPool
}

// NewAttendanceRepository creates a new SQLite attendance repository.
func NewAttendanceRepository(pool *ConnectionPool) *AttendanceRepository {
	return &AttendanceRepository{pool: pool}
}

// UpsertAttendance inserts or overwrites the single row keyed by
// (rehearsal, member). The UNIQUE constraint makes concurrent writers for
// the same pair serialize to last-writer-wins; distinct pairs touch
// distinct rows and never contend.
func (r *AttendanceRepository) UpsertAttendance(ctx context.Context, attendance persistence.Attendance) (persistence.Attendance, error) {
	if attendance.RehearsalID == "" || attendance.MemberID == "" {
		return persistence.Attendance{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if attendance.CreatedAt.IsZero() {
		attendance.CreatedAt = now
	}
	attendance.UpdatedAt = now

	query := `
		INSERT INTO attendance (id, rehearsal_id, member_id, user_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(rehearsal_id, member_id)
		DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		attendance.ID,
		attendance.RehearsalID,
		attendance.MemberID,
		attendance.UserID,
		attendance.Status,
		formatTime(attendance.CreatedAt),
		formatTime(attendance.UpdatedAt),
	)
	if err != nil {
		return persistence.Attendance{}, mapSQLiteError(err)
	}

	return r.GetAttendance(ctx, attendance.RehearsalID, attendance.MemberID)
}

// GetAttendance retrieves the response row for one (rehearsal, member) pair.
func (r *AttendanceRepository) GetAttendance(ctx context.Context, rehearsalID, memberID string) (persistence.Attendance, error) {
	row := r.pool.db.QueryRowContext(ctx,
		selectAttendanceQuery+` WHERE rehearsal_id = ? AND member_id = ?`,
		rehearsalID, memberID,
	)
	return scanAttendance(row)
}

// ListAttendance returns all recorded responses for a rehearsal.
func (r *AttendanceRepository) ListAttendance(ctx context.Context, rehearsalID string) ([]persistence.Attendance, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		selectAttendanceQuery+` WHERE rehearsal_id = ? ORDER BY member_id`,
		rehearsalID,
	)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var records []persistence.Attendance
	for rows.Next() {
		record, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

const selectAttendanceQuery = `
	SELECT id, rehearsal_id, member_id, user_id, status, created_at, updated_at
	FROM attendance`

func scanAttendance(row rowScanner) (persistence.Attendance, error) {
	var (
		attendance persistence.Attendance
		createdAt  string
		updatedAt  string
	)
	if err := row.Scan(&attendance.ID, &attendance.RehearsalID, &attendance.MemberID, &attendance.UserID, &attendance.Status, &createdAt, &updatedAt); err != nil {
		return persistence.Attendance{}, mapSQLiteError(err)
	}

	var err error
	if attendance.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.Attendance{}, err
	}
	if attendance.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.Attendance{}, err
	}
	return attendance, nil
}
