package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// SongRepository implements persistence.SongRepository using SQLite.
type SongRepository struct {
	pool *ConnectionPool
}

// NewSongRepository creates a new SQLite song repository.
func NewSongRepository(pool *ConnectionPool) *SongRepository {
	return &SongRepository{pool: pool}
}

// CreateSong inserts a new song.
func (r *SongRepository) CreateSong(ctx context.Context, song persistence.Song) error {
	if song.ID == "" || song.BandID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if song.CreatedAt.IsZero() {
		song.CreatedAt = now
	}
	if song.UpdatedAt.IsZero() {
		song.UpdatedAt = now
	}

	query := `
		INSERT INTO songs (id, band_id, creator_id, title, artist, duration_seconds, key, bpm, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		song.ID,
		song.BandID,
		song.CreatorID,
		song.Title,
		song.Artist,
		song.DurationSeconds,
		nullString(song.Key),
		song.BPM,
		nullString(song.Notes),
		formatTime(song.CreatedAt),
		formatTime(song.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateSong updates an existing song.
func (r *SongRepository) UpdateSong(ctx context.Context, song persistence.Song) error {
	query := `
		UPDATE songs
		SET title = ?, artist = ?, duration_seconds = ?, key = ?, bpm = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		song.Title,
		song.Artist,
		song.DurationSeconds,
		nullString(song.Key),
		song.BPM,
		nullString(song.Notes),
		formatTime(time.Now().UTC()),
		song.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

// GetSong retrieves a song by ID.
func (r *SongRepository) GetSong(ctx context.Context, id string) (persistence.Song, error) {
	if id == "" {
		return persistence.Song{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectSongQuery+` WHERE id = ?`, id)
	return scanSong(row)
}

// ListSongs returns a band's songs ordered by title.
func (r *SongRepository) ListSongs(ctx context.Context, bandID string) ([]persistence.Song, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectSongQuery+` WHERE band_id = ? ORDER BY title, id`, bandID)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var songs []persistence.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

// DeleteSong removes a song by ID.
func (r *SongRepository) DeleteSong(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

const selectSongQuery = `
	SELECT id, band_id, creator_id, title, artist, duration_seconds, key, bpm, notes, created_at, updated_at
	FROM songs`

func scanSong(row rowScanner) (persistence.Song, error) {
	var (
		song      persistence.Song
		key       sql.NullString
		notes     sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&song.ID, &song.BandID, &song.CreatorID, &song.Title, &song.Artist, &song.DurationSeconds, &key, &song.BPM, &notes, &createdAt, &updatedAt); err != nil {
		return persistence.Song{}, mapSQLiteError(err)
	}

	song.Key = stringPtr(key)
	song.Notes = stringPtr(notes)

	var err error
	if song.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.Song{}, err
	}
	if song.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.Song{}, err
	}
	return song, nil
}
