package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// BandRepository implements persistence.BandRepository using SQLite.
type BandRepository struct {
	pool *ConnectionPool
}

// NewBandRepository creates a new SQLite band repository.
func NewBandRepository(pool *ConnectionPool) *BandRepository {
	return &BandRepository{pool: pool}
}

// CreateBand inserts a new band.
func (r *BandRepository) CreateBand(ctx context.Context, band persistence.Band) error {
	if band.ID == "" || band.CreatorID == "" {
		return persistence.ErrConstraintViolation
	}
	if band.Timezone == "" {
		band.Timezone = "UTC"
	}

	now := time.Now().UTC()
	if band.CreatedAt.IsZero() {
		band.CreatedAt = now
	}
	if band.UpdatedAt.IsZero() {
		band.UpdatedAt = now
	}

	query := `
		INSERT INTO bands (id, name, description, timezone, creator_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		band.ID,
		band.Name,
		nullString(band.Description),
		band.Timezone,
		band.CreatorID,
		formatTime(band.CreatedAt),
		formatTime(band.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateBand updates name, description, and timezone of an existing band.
func (r *BandRepository) UpdateBand(ctx context.Context, band persistence.Band) error {
	query := `
		UPDATE bands
		SET name = ?, description = ?, timezone = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		band.Name,
		nullString(band.Description),
		band.Timezone,
		formatTime(time.Now().UTC()),
		band.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

// GetBand retrieves a band by ID.
func (r *BandRepository) GetBand(ctx context.Context, id string) (persistence.Band, error) {
	if id == "" {
		return persistence.Band{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectBandQuery+` WHERE id = ?`, id)
	return scanBand(row)
}

// ListBandsForUser returns the bands where the user holds an active
// membership at the given instant, ordered by name.
func (r *BandRepository) ListBandsForUser(ctx context.Context, userID string, asOf time.Time) ([]persistence.Band, error) {
	query := selectBandQuery + `
		JOIN band_members m ON m.band_id = bands.id
		WHERE m.user_id = ? AND m.joined_at <= ? AND (m.left_at IS NULL OR m.left_at > ?)
		ORDER BY bands.name, bands.id
	`
	reference := formatTime(asOf)
	rows, err := r.pool.db.QueryContext(ctx, query, userID, reference, reference)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var bands []persistence.Band
	for rows.Next() {
		band, err := scanBand(rows)
		if err != nil {
			return nil, err
		}
		bands = append(bands, band)
	}
	return bands, rows.Err()
}

// DeleteBand removes a band and, via cascades, its dependent records.
func (r *BandRepository) DeleteBand(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM bands WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

// AddMember opens a new membership interval.
func (r *BandRepository) AddMember(ctx context.Context, member persistence.BandMember) error {
	if member.ID == "" || member.BandID == "" || member.UserID == "" {
		return persistence.ErrConstraintViolation
	}
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO band_members (id, band_id, user_id, role, joined_at, left_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		member.ID,
		member.BandID,
		member.UserID,
		member.Role,
		formatTime(member.JoinedAt),
		nullTime(member.LeftAt),
	)
	return mapSQLiteError(err)
}

// GetMember retrieves a membership row by ID.
func (r *BandRepository) GetMember(ctx context.Context, id string) (persistence.BandMember, error) {
	if id == "" {
		return persistence.BandMember{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectMemberQuery+` WHERE id = ?`, id)
	return scanMember(row)
}

// CloseMembership sets left_at on an open membership interval.
func (r *BandRepository) CloseMembership(ctx context.Context, memberID string, leftAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE band_members SET left_at = ? WHERE id = ? AND left_at IS NULL`,
		formatTime(leftAt), memberID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

// ListMembersAsOf returns memberships active at the given instant.
func (r *BandRepository) ListMembersAsOf(ctx context.Context, bandID string, asOf time.Time) ([]persistence.BandMember, error) {
	query := selectMemberQuery + `
		WHERE band_id = ? AND joined_at <= ? AND (left_at IS NULL OR left_at > ?)
		ORDER BY joined_at, id
	`
	reference := formatTime(asOf)
	rows, err := r.pool.db.QueryContext(ctx, query, bandID, reference, reference)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var members []persistence.BandMember
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

const selectBandQuery = `
	SELECT bands.id, bands.name, bands.description, bands.timezone, bands.creator_id, bands.created_at, bands.updated_at
	FROM bands`

func scanBand(row rowScanner) (persistence.Band, error) {
	var (
		band        persistence.Band
		description sql.NullString
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(&band.ID, &band.Name, &description, &band.Timezone, &band.CreatorID, &createdAt, &updatedAt); err != nil {
		return persistence.Band{}, mapSQLiteError(err)
	}

	band.Description = stringPtr(description)

	var err error
	if band.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.Band{}, err
	}
	if band.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.Band{}, err
	}
	return band, nil
}

const selectMemberQuery = `
	SELECT id, band_id, user_id, role, joined_at, left_at
	FROM band_members`

func scanMember(row rowScanner) (persistence.BandMember, error) {
	var (
		member   persistence.BandMember
		joinedAt string
		leftAt   sql.NullString
	)
	if err := row.Scan(&member.ID, &member.BandID, &member.UserID, &member.Role, &joinedAt, &leftAt); err != nil {
		return persistence.BandMember{}, mapSQLiteError(err)
	}

	var err error
	if member.JoinedAt, err = parseStoredTime(joinedAt); err != nil {
		return persistence.BandMember{}, err
	}
	if member.LeftAt, err = timePtr(leftAt); err != nil {
		return persistence.BandMember{}, err
	}
	return member, nil
}
