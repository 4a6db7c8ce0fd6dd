package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migration is one versioned schema step. Steps run in order inside a
// transaction and are recorded in schema_migrations, so startup is
// idempotent.
type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "users, sessions",
		statements: []string{
			`CREATE TABLE users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				display_name TEXT NOT NULL,
				phone_number TEXT,
				password_hash TEXT NOT NULL,
				is_admin INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				revoked_at TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX idx_sessions_user ON sessions(user_id)`,
		},
	},
	{
		version:     2,
		description: "bands, effective-dated memberships",
		statements: []string{
			`CREATE TABLE bands (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT,
				timezone TEXT NOT NULL DEFAULT 'UTC',
				creator_id TEXT NOT NULL REFERENCES users(id),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE band_members (
				id TEXT PRIMARY KEY,
				band_id TEXT NOT NULL REFERENCES bands(id) ON DELETE CASCADE,
				user_id TEXT NOT NULL REFERENCES users(id),
				role TEXT NOT NULL DEFAULT 'member',
				joined_at TEXT NOT NULL,
				left_at TEXT
			)`,
			`CREATE INDEX idx_band_members_band ON band_members(band_id)`,
			`CREATE INDEX idx_band_members_user ON band_members(user_id)`,
		},
	},
	{
		version:     3,
		description: "songs, setlists, setlist items",
		statements: []string{
			`CREATE TABLE songs (
				id TEXT PRIMARY KEY,
				band_id TEXT NOT NULL REFERENCES bands(id) ON DELETE CASCADE,
				creator_id TEXT NOT NULL REFERENCES users(id),
				title TEXT NOT NULL,
				artist TEXT NOT NULL DEFAULT '',
				duration_seconds INTEGER NOT NULL DEFAULT 0,
				key TEXT,
				bpm INTEGER NOT NULL DEFAULT 0,
				notes TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE setlists (
				id TEXT PRIMARY KEY,
				band_id TEXT NOT NULL REFERENCES bands(id) ON DELETE CASCADE,
				creator_id TEXT NOT NULL REFERENCES users(id),
				name TEXT NOT NULL,
				description TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE setlist_items (
				id TEXT PRIMARY KEY,
				setlist_id TEXT NOT NULL REFERENCES setlists(id) ON DELETE CASCADE,
				song_id TEXT NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
				position INTEGER NOT NULL,
				notes TEXT,
				UNIQUE(setlist_id, position)
			)`,
		},
	},
	{
		version:     4,
		description: "rehearsals, attendance, availability windows",
		statements: []string{
			`CREATE TABLE rehearsals (
				id TEXT PRIMARY KEY,
				band_id TEXT NOT NULL REFERENCES bands(id) ON DELETE CASCADE,
				creator_id TEXT NOT NULL REFERENCES users(id),
				title TEXT NOT NULL,
				description TEXT,
				location TEXT,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				setlist_id TEXT REFERENCES setlists(id) ON DELETE SET NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			)`,
			`CREATE INDEX idx_rehearsals_band_start ON rehearsals(band_id, start_time)`,
			`CREATE TABLE attendance (
				id TEXT PRIMARY KEY,
				rehearsal_id TEXT NOT NULL REFERENCES rehearsals(id) ON DELETE CASCADE,
				member_id TEXT NOT NULL REFERENCES band_members(id),
				user_id TEXT NOT NULL REFERENCES users(id),
				status TEXT NOT NULL CHECK (status IN ('confirmed', 'pending', 'declined')),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				UNIQUE(rehearsal_id, member_id)
			)`,
			`CREATE TABLE availability_windows (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				available INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				CHECK (start_time < end_time)
			)`,
			`CREATE INDEX idx_availability_user_day ON availability_windows(user_id, weekday, start_time)`,
		},
	},
	{
		version:     5,
		description: "notifications",
		statements: []string{
			`CREATE TABLE notifications (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				rehearsal_id TEXT REFERENCES rehearsals(id) ON DELETE CASCADE,
				kind TEXT NOT NULL,
				message TEXT NOT NULL,
				read_at TEXT,
				created_at TEXT NOT NULL,
				UNIQUE(user_id, rehearsal_id, kind)
			)`,
			`CREATE INDEX idx_notifications_user ON notifications(user_id, created_at)`,
		},
	},
}

// Migrate applies all pending migrations in sequential order.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	if _, err := cp.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("initialize schema_migrations: %w", err)
	}

	var current int
	if err := cp.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := cp.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.version, m.description, err)
		}
	}
	return nil
}

func (cp *ConnectionPool) applyMigration(ctx context.Context, m migration) error {
	return cp.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range m.statements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("execute statement: %w", err)
			}
		}
		_, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, datetime('now'))`,
			m.version, m.description,
		)
		return err
	})
}
