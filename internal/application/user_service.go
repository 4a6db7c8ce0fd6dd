package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// UserRepository captures the persistence operations needed by the user service.
type UserRepository interface {
	CreateUser(ctx context.Context, user User, passwordHash string) (User, error)
	GetUser(ctx context.Context, id string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher func(password string) (string, error)

// UserService orchestrates validation and persistence for musician accounts.
// Registration is open; profile changes require the owner or an administrator.
type UserService struct {
	users        UserRepository
	hashPassword PasswordHasher
	idGenerator  func() string
	now          func() time.Time
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time) *UserService {
	if hashPassword == nil {
		hashPassword = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, hashPassword: hashPassword, idGenerator: idGenerator, now: now}
}

// RegisterUser validates input and persists a new account.
func (s *UserService) RegisterUser(ctx context.Context, params RegisterUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized, true)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	hash, err := s.hashPassword(normalized.Password)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:          s.idGenerator(),
		Email:       normalized.Email,
		DisplayName: normalized.DisplayName,
		PhoneNumber: normalized.PhoneNumber,
		CreatedAt:   s.now(),
	}
	user.UpdatedAt = user.CreatedAt

	persisted, err := s.users.CreateUser(ctx, user, hash)
	if err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			vErr := &ValidationError{}
			vErr.add("email", "email is already registered")
			return User{}, vErr
		}
		return User{}, err
	}

	return persisted, nil
}

// GetUser returns a single account. Any authenticated user may look up
// another musician's public profile.
func (s *UserService) GetUser(ctx context.Context, principal Principal, userID string) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if principal.UserID == "" {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// UpdateUser updates an account profile for its owner or an administrator.
func (s *UserService) UpdateUser(ctx context.Context, params UpdateUserParams) (User, error) {
	if s == nil {
		return User{}, fmt.Errorf("UserService is nil")
	}
	if params.Principal.UserID != params.UserID && !params.Principal.IsAdmin {
		return User{}, ErrUnauthorized
	}
	if s.users == nil {
		return User{}, fmt.Errorf("user repository not configured")
	}

	existing, err := s.users.GetUser(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	normalized := normalizeUserInput(params.Input)
	vErr := validateUserInput(normalized, false)
	if vErr.HasErrors() {
		return User{}, vErr
	}

	updated := existing
	updated.Email = normalized.Email
	updated.DisplayName = normalized.DisplayName
	updated.PhoneNumber = normalized.PhoneNumber
	updated.UpdatedAt = s.now()

	persisted, err := s.users.UpdateUser(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrNotFound
		}
		if errors.Is(err, ErrAlreadyExists) {
			vErr := &ValidationError{}
			vErr.add("email", "email is already registered")
			return User{}, vErr
		}
		return User{}, err
	}

	if normalized.Password != "" {
		hash, err := s.hashPassword(normalized.Password)
		if err != nil {
			return User{}, err
		}
		if err := s.users.UpdatePasswordHash(ctx, params.UserID, hash); err != nil {
			return User{}, err
		}
	}

	return persisted, nil
}

func normalizeUserInput(input UserInput) UserInput {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	displayName := strings.TrimSpace(input.DisplayName)

	var phone *string
	if input.PhoneNumber != nil {
		if trimmed := strings.TrimSpace(*input.PhoneNumber); trimmed != "" {
			phone = &trimmed
		}
	}

	return UserInput{
		Email:       email,
		DisplayName: displayName,
		PhoneNumber: phone,
		Password:    input.Password,
	}
}

func validateUserInput(input UserInput, passwordRequired bool) *ValidationError {
	vErr := &ValidationError{}

	if input.Email == "" {
		vErr.add("email", "email is required")
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		vErr.add("email", "email is invalid")
	}

	if input.DisplayName == "" {
		vErr.add("display_name", "display name is required")
	}

	if passwordRequired && input.Password == "" {
		vErr.add("password", "password is required")
	}
	if input.Password != "" && utf8.RuneCountInString(input.Password) < 8 {
		vErr.add("password", "password must be at least 8 characters")
	}

	return vErr
}
