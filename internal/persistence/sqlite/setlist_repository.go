package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// SetlistRepository implements persistence.SetlistRepository using SQLite.
type SetlistRepository struct {
	pool *ConnectionPool
}

// NewSetlistRepository creates a new SQLite setlist repository.
func NewSetlistRepository(pool *ConnectionPool) *SetlistRepository {
	return &SetlistRepository{pool: pool}
}

// CreateSetlist inserts a setlist together with its ordered items in one
// transaction.
func (r *SetlistRepository) CreateSetlist(ctx context.Context, setlist persistence.Setlist) error {
	if setlist.ID == "" || setlist.BandID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if setlist.CreatedAt.IsZero() {
		setlist.CreatedAt = now
	}
	if setlist.UpdatedAt.IsZero() {
		setlist.UpdatedAt = now
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO setlists (id, band_id, creator_id, name, description, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			setlist.ID,
			setlist.BandID,
			setlist.CreatorID,
			setlist.Name,
			nullString(setlist.Description),
			formatTime(setlist.CreatedAt),
			formatTime(setlist.UpdatedAt),
		)
		if err != nil {
			return mapSQLiteError(err)
		}
		return insertSetlistItems(tx, setlist.ID, setlist.Items)
	})
}

// UpdateSetlist replaces the setlist row and its items atomically.
func (r *SetlistRepository) UpdateSetlist(ctx context.Context, setlist persistence.Setlist) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.Exec(
			`UPDATE setlists SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
			setlist.Name,
			nullString(setlist.Description),
			formatTime(time.Now().UTC()),
			setlist.ID,
		)
		if err != nil {
			return mapSQLiteError(err)
		}
		if err := requireRowAffected(result); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM setlist_items WHERE setlist_id = ?`, setlist.ID); err != nil {
			return mapSQLiteError(err)
		}
		return insertSetlistItems(tx, setlist.ID, setlist.Items)
	})
}

// GetSetlist retrieves a setlist with its items ordered by position.
func (r *SetlistRepository) GetSetlist(ctx context.Context, id string) (persistence.Setlist, error) {
	if id == "" {
		return persistence.Setlist{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectSetlistQuery+` WHERE id = ?`, id)
	setlist, err := scanSetlist(row)
	if err != nil {
		return persistence.Setlist{}, err
	}

	items, err := r.listItems(ctx, setlist.ID)
	if err != nil {
		return persistence.Setlist{}, err
	}
	setlist.Items = items
	return setlist, nil
}

// ListSetlists returns a band's setlists, each with items, ordered by name.
func (r *SetlistRepository) ListSetlists(ctx context.Context, bandID string) ([]persistence.Setlist, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectSetlistQuery+` WHERE band_id = ? ORDER BY name, id`, bandID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var setlists []persistence.Setlist
	for rows.Next() {
		setlist, err := scanSetlist(rows)
		if err != nil {
			return nil, err
		}
		setlists = append(setlists, setlist)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range setlists {
		items, err := r.listItems(ctx, setlists[i].ID)
		if err != nil {
			return nil, err
		}
		setlists[i].Items = items
	}
	return setlists, nil
}

// DeleteSetlist removes a setlist; items cascade.
func (r *SetlistRepository) DeleteSetlist(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM setlists WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

func (r *SetlistRepository) listItems(ctx context.Context, setlistID string) ([]persistence.SetlistItem, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, setlist_id, song_id, position, notes FROM setlist_items WHERE setlist_id = ? ORDER BY position`,
		setlistID,
	)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var items []persistence.SetlistItem
	for rows.Next() {
		var (
			item  persistence.SetlistItem
			notes sql.NullString
		)
		if err := rows.Scan(&item.ID, &item.SetlistID, &item.SongID, &item.Position, &notes); err != nil {
			return nil, mapSQLiteError(err)
		}
		item.Notes = stringPtr(notes)
		items = append(items, item)
	}
	return items, rows.Err()
}

func insertSetlistItems(tx *sql.Tx, setlistID string, items []persistence.SetlistItem) error {
	for _, item := range items {
		_, err := tx.Exec(
			`INSERT INTO setlist_items (id, setlist_id, song_id, position, notes) VALUES (?, ?, ?, ?, ?)`,
			item.ID,
			setlistID,
			item.SongID,
			item.Position,
			nullString(item.Notes),
		)
		if err != nil {
			return mapSQLiteError(err)
		}
	}
	return nil
}

const selectSetlistQuery = `
	SELECT id, band_id, creator_id, name, description, created_at, updated_at
	FROM setlists`

func scanSetlist(row rowScanner) (persistence.Setlist, error) {
	var (
		setlist     persistence.Setlist
		description sql.NullString
		createdAt   string
		updatedAt   string
	)
	if err := row.Scan(&setlist.ID, &setlist.BandID, &setlist.CreatorID, &setlist.Name, &description, &createdAt, &updatedAt); err != nil {
		return persistence.Setlist{}, mapSQLiteError(err)
	}

	setlist.Description = stringPtr(description)

	var err error
	if setlist.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.Setlist{}, err
	}
	if setlist.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.Setlist{}, err
	}
	return setlist, nil
}
