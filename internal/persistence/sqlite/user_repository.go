package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

// UserRepository implements persistence.UserRepository using SQLite.
type UserRepository struct {
	pool *ConnectionPool
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(pool *ConnectionPool) *UserRepository {
	return &UserRepository{pool: pool}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	query := `
		INSERT INTO users (id, email, display_name, phone_number, password_hash, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.pool.db.ExecContext(ctx, query,
		user.ID,
		normalizeEmail(user.Email),
		user.DisplayName,
		nullString(user.PhoneNumber),
		user.PasswordHash,
		user.IsAdmin,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	return mapSQLiteError(err)
}

// UpdateUser updates an existing user in the database.
func (r *UserRepository) UpdateUser(ctx context.Context, user persistence.User) error {
	if user.ID == "" || user.PasswordHash == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		UPDATE users
		SET email = ?, display_name = ?, phone_number = ?, password_hash = ?, is_admin = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.pool.db.ExecContext(ctx, query,
		normalizeEmail(user.Email),
		user.DisplayName,
		nullString(user.PhoneNumber),
		user.PasswordHash,
		user.IsAdmin,
		formatTime(time.Now().UTC()),
		user.ID,
	)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

// GetUser retrieves a user by ID.
func (r *UserRepository) GetUser(ctx context.Context, id string) (persistence.User, error) {
	if id == "" {
		return persistence.User{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, selectUserQuery+` WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by normalized email address.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (persistence.User, error) {
	row := r.pool.db.QueryRowContext(ctx, selectUserQuery+` WHERE email = ?`, normalizeEmail(email))
	return scanUser(row)
}

// ListUsers returns all users ordered by creation time.
func (r *UserRepository) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := r.pool.db.QueryContext(ctx, selectUserQuery+` ORDER BY created_at, id`)
	if err != nil {
		return nil, mapSQLiteError(err)
	}
	defer rows.Close()

	var users []persistence.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes a user by ID.
func (r *UserRepository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return mapSQLiteError(err)
	}
	return requireRowAffected(result)
}

const selectUserQuery = `
	SELECT id, email, display_name, phone_number, password_hash, is_admin, created_at, updated_at
	FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (persistence.User, error) {
	var (
		user      persistence.User
		phone     sql.NullString
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &phone, &user.PasswordHash, &user.IsAdmin, &createdAt, &updatedAt); err != nil {
		return persistence.User{}, mapSQLiteError(err)
	}

	user.PhoneNumber = stringPtr(phone)

	var err error
	if user.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}
