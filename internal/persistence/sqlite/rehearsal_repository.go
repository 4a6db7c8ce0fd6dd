package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// RehearsalRepository implements persistence.RehearsalRepository using SQLite.
type RehearsalRepository struct {
	pool *ConnectionPool
}

// NewRehearsalRepository creates a new SQLite rehearsal repository.
func NewRehearsalRepository(pool *ConnectionPool) *RehearsalRepository {
	return &RehearsalRepository{pool: pool}
}

// CreateRehearsal inserts a new rehearsal.
func (r *RehearsalRepository) CreateRehearsal(ctx context.Context, rehearsal persistence.Rehearsal) error {
	if rehearsal.ID == "" || rehearsal.BandID == "" {
		return persistence.ErrConstraintViolation
	}
	if !rehearsal.Start.Before(rehearsal.End) {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if rehearsal.CreatedAt.IsZero() {
		rehearsal.CreatedAt = now
	}
	if rehearsal.UpdatedAt.IsZero() {
		rehearsal.UpdatedAt = now
	}

	query := `
		INSERT INTO rehearsals (id, band_id, creator_id, title, description, location, start_time, end_time, setlist_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		rehearsal.ID,
		rehearsal.BandID,
		rehearsal.CreatorID,
		rehearsal.Title,
		nullString(rehearsal.Description),
		nullString(rehearsal.Location),
		formatTime(rehearsal.Start),
		formatTime(rehearsal.End),
		nullString(rehearsal.SetlistID),
		formatTime(rehearsal.CreatedAt),
		formatTime(rehearsal.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateRehearsal updates an existing rehearsal. The creator is preserved.
func (r *RehearsalRepository) UpdateRehearsal(ctx context.Context, rehearsal persistence.Rehearsal) error {
	if !rehearsal.Start.Before(rehearsal.End) {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE rehearsals
		SET title = ?, description = ?, location = ?, start_time = ?, end_time = ?, setlist_id = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		rehearsal.Title,
		nullString(rehearsal.Description),
		nullString(rehearsal.Location),
		formatTime(rehearsal.Start),
		formatTime(rehearsal.End),
		nullString(rehearsal.SetlistID),
		formatTime(time.Now().UTC()),
		rehearsal.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

// GetRehearsal retrieves a rehearsal by ID.
func (r *RehearsalRepository) GetRehearsal(ctx context.Context, id string) (persistence.Rehearsal, error) {
	if id == "" {
		return persistence.Rehearsal{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectRehearsalQuery+` WHERE id = ?`, id)
	return scanRehearsal(row)
}

// ListRehearsals returns rehearsals matching the filter ordered by start time.
func (r *RehearsalRepository) ListRehearsals(ctx context.Context, filter persistence.RehearsalFilter) ([]persistence.Rehearsal, error) {
	query := selectRehearsalQuery + ` WHERE 1 = 1`
	args := make([]any, 0, 3)

	if filter.BandID != "" {
		query += ` AND band_id = ?`
		args = append(args, filter.BandID)
	}
	if filter.StartsAfter != nil {
		query += ` AND start_time >= ?`
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.EndsBefore != nil {
		query += ` AND end_time <= ?`
		args = append(args, formatTime(*filter.EndsBefore))
	}
	query += ` ORDER BY start_time, id`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var rehearsals []persistence.Rehearsal
	for rows.Next() {
		rehearsal, err := scanRehearsal(rows)
		if err != nil {
			return nil, err
		}
		rehearsals = append(rehearsals, rehearsal)
	}
	return rehearsals, rows.Err()
}

// DeleteRehearsal removes a rehearsal; attendance rows cascade.
func (r *RehearsalRepository) DeleteRehearsal(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM rehearsals WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

const selectRehearsalQuery = `
	SELECT id, band_id, creator_id, title, description, location, start_time, end_time, setlist_id, created_at, updated_at
	FROM rehearsals`

func scanRehearsal(row rowScanner) (persistence.Rehearsal, error) {
	var (
		rehearsal   persistence.Rehearsal
		description sql.NullString
		location    sql.NullString
		setlistID   sql.NullString
		start       string
		end         string
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(&rehearsal.ID, &rehearsal.BandID, &rehearsal.CreatorID, &rehearsal.Title, &description, &location, &start, &end, &setlistID, &createdAt, &updatedAt); err != nil {
		return persistence.Rehearsal{}, mapSQLiteError(err)
	}

	rehearsal.Description = stringPtr(description)
	rehearsal.Location = stringPtr(location)
	rehearsal.SetlistID = stringPtr(setlistID)

	var err error
	if rehearsal.Start, err = parseStoredTime(start); err != nil {
		return persistence.Rehearsal{}, err
	}
	if rehearsal.End, err = parseStoredTime(end); err != nil {
		return persistence.Rehearsal{}, err
	}
	if rehearsal.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.Rehearsal{}, err
	}
	if rehearsal.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.Rehearsal{}, err
	}
	return rehearsal, nil
}
