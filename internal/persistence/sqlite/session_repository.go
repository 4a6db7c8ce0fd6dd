package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool *ConnectionPool
}

// NewSessionRepository creates a new SQLite session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// CreateSession stores a new session token for a user.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.Session) (persistence.Session, error) {
	if session.ID == "" || session.UserID == "" || strings.TrimSpace(session.Token) == "" {
		return persistence.Session{}, persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}

	query := `
		INSERT INTO sessions (id, user_id, token, expires_at, revoked_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.Token,
		formatTime(session.ExpiresAt),
		nullTime(session.RevokedAt),
		formatTime(session.CreatedAt),
		formatTime(session.UpdatedAt),
	)
	if err != nil {
		return persistence.Session{}, mapSQLiteError(err)
	}
	return r.GetSession(ctx, session.Token)
}

// GetSession retrieves a session by token.
func (r *SessionRepository) GetSession(ctx context.Context, token string) (persistence.Session, error) {
	if strings.TrimSpace(token) == "" {
		return persistence.Session{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectSessionQuery+` WHERE token = ?`, token)
	return scanSession(row)
}

// RevokeSession marks a session revoked at the given instant.
func (r *SessionRepository) RevokeSession(ctx context.Context, token string, revokedAt time.Time) (persistence.Session, error) {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ?, updated_at = ? WHERE token = ?`,
		formatTime(revokedAt), formatTime(time.Now().UTC()), token,
	)
	if err != nil {
		return persistence.Session{}, mapSQLiteError(err)
	}
	if err := requireRowAffected(result); err != nil {
		return persistence.Session{}, err
	}
	return r.GetSession(ctx, token)
}

// DeleteExpiredSessions prunes sessions whose expiry has passed.
func (r *SessionRepository) DeleteExpiredSessions(ctx context.Context, reference time.Time) error {
	_, err := r.pool.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, formatTime(reference))
	return mapSQLiteError(err)
}

const selectSessionQuery = `
	SELECT id, user_id, token, expires_at, revoked_at, created_at, updated_at
	FROM sessions`

func scanSession(row rowScanner) (persistence.Session, error) {
	var (
		session   persistence.Session
		expiresAt string
		revokedAt sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&session.ID, &session.UserID, &session.Token, &expiresAt, &revokedAt, &createdAt, &updatedAt); err != nil {
		return persistence.Session{}, mapSQLiteError(err)
	}

	var err error
	if session.ExpiresAt, err = parseStoredTime(expiresAt); err != nil {
		return persistence.Session{}, err
	}
	if session.RevokedAt, err = timePtr(revokedAt); err != nil {
		return persistence.Session{}, err
	}
	if session.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.Session{}, err
	}
	if session.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.Session{}, err
	}
	return session, nil
}
