package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// BandRepository captures the persistence operations needed by the band service.
type BandRepository interface {
	CreateBand(ctx context.Context, band Band) (Band, error)
	GetBand(ctx context.Context, id string) (Band, error)
	UpdateBand(ctx context.Context, band Band) (Band, error)
	DeleteBand(ctx context.Context, id string) error
	ListBandsForUser(ctx context.Context, userID string, asOf time.Time) ([]Band, error)
	AddMember(ctx context.Context, member BandMember) (BandMember, error)
	GetMember(ctx context.Context, memberID string) (BandMember, error)
	CloseMembership(ctx context.Context, memberID string, leftAt time.Time) error
	ListMembersAsOf(ctx context.Context, bandID string, asOf time.Time) ([]BandMember, error)
}

// BandUserDirectory resolves user accounts referenced by membership changes.
type BandUserDirectory interface {
	GetUser(ctx context.Context, id string) (User, error)
}

// BandService orchestrates band lifecycle and roster membership.
type BandService struct {
	bands       BandRepository
	users       BandUserDirectory
	idGenerator func() string
	now         func() time.Time
}

// NewBandService wires dependencies for the band service.
func NewBandService(bands BandRepository, users BandUserDirectory, idGenerator func() string, now func() time.Time) *BandService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BandService{bands: bands, users: users, idGenerator: idGenerator, now: now}
}

// CreateBand persists a new band and enrolls its creator as leader.
func (s *BandService) CreateBand(ctx context.Context, params CreateBandParams) (Band, error) {
	if s == nil {
		return Band{}, fmt.Errorf("BandService is nil")
	}
	if params.Principal.UserID == "" {
		return Band{}, ErrUnauthorized
	}
	if s.bands == nil {
		return Band{}, fmt.Errorf("band repository not configured")
	}

	normalized := normalizeBandInput(params.Input)
	vErr := validateBandInput(normalized)
	if vErr.HasErrors() {
		return Band{}, vErr
	}

	now := s.now()
	band := Band{
		ID:          s.idGenerator(),
		Name:        normalized.Name,
		Description: normalized.Description,
		Timezone:    normalized.Timezone,
		CreatorID:   params.Principal.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.bands.CreateBand(ctx, band)
	if err != nil {
		return Band{}, err
	}

	_, err = s.bands.AddMember(ctx, BandMember{
		ID:       s.idGenerator(),
		BandID:   persisted.ID,
		UserID:   params.Principal.UserID,
		Role:     RoleLeader,
		JoinedAt: now,
	})
	if err != nil {
		return Band{}, err
	}

	return persisted, nil
}

// GetBand returns a band visible to one of its members.
func (s *BandService) GetBand(ctx context.Context, principal Principal, bandID string) (Band, error) {
	if s == nil {
		return Band{}, fmt.Errorf("BandService is nil")
	}
	if s.bands == nil {
		return Band{}, fmt.Errorf("band repository not configured")
	}

	band, err := s.bands.GetBand(ctx, bandID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Band{}, ErrNotFound
		}
		return Band{}, err
	}

	if _, ok, err := s.activeMember(ctx, bandID, principal.UserID); err != nil {
		return Band{}, err
	} else if !ok && !principal.IsAdmin {
		return Band{}, ErrUnauthorized
	}

	return band, nil
}

// ListBands returns the bands the principal currently belongs to.
func (s *BandService) ListBands(ctx context.Context, principal Principal) ([]Band, error) {
	if s == nil {
		return nil, fmt.Errorf("BandService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.bands == nil {
		return nil, fmt.Errorf("band repository not configured")
	}
	return s.bands.ListBandsForUser(ctx, principal.UserID, s.now())
}

// UpdateBand updates band attributes for a leader or administrator.
func (s *BandService) UpdateBand(ctx context.Context, params UpdateBandParams) (Band, error) {
	if s == nil {
		return Band{}, fmt.Errorf("BandService is nil")
	}
	if s.bands == nil {
		return Band{}, fmt.Errorf("band repository not configured")
	}

	existing, err := s.bands.GetBand(ctx, params.BandID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Band{}, ErrNotFound
		}
		return Band{}, err
	}

	if err := s.requireLeader(ctx, params.Principal, params.BandID); err != nil {
		return Band{}, err
	}

	normalized := normalizeBandInput(params.Input)
	vErr := validateBandInput(normalized)
	if vErr.HasErrors() {
		return Band{}, vErr
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Description = normalized.Description
	updated.Timezone = normalized.Timezone
	updated.UpdatedAt = s.now()

	persisted, err := s.bands.UpdateBand(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Band{}, ErrNotFound
		}
		return Band{}, err
	}
	return persisted, nil
}

// DeleteBand removes a band and, via cascade, its dependent records.
func (s *BandService) DeleteBand(ctx context.Context, principal Principal, bandID string) error {
	if s == nil {
		return fmt.Errorf("BandService is nil")
	}
	if s.bands == nil {
		return fmt.Errorf("band repository not configured")
	}

	if err := s.requireLeader(ctx, principal, bandID); err != nil {
		return err
	}

	if err := s.bands.DeleteBand(ctx, bandID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// AddMember enrolls a user into a band. Leaders and administrators only.
func (s *BandService) AddMember(ctx context.Context, params AddMemberParams) (BandMember, error) {
	if s == nil {
		return BandMember{}, fmt.Errorf("BandService is nil")
	}
	if s.bands == nil {
		return BandMember{}, fmt.Errorf("band repository not configured")
	}

	if err := s.requireLeader(ctx, params.Principal, params.BandID); err != nil {
		return BandMember{}, err
	}

	role := strings.TrimSpace(strings.ToLower(params.Role))
	if role == "" {
		role = RoleMember
	}
	if role != RoleLeader && role != RoleMember {
		vErr := &ValidationError{}
		vErr.add("role", "role must be leader or member")
		return BandMember{}, vErr
	}

	if s.users != nil {
		if _, err := s.users.GetUser(ctx, params.UserID); err != nil {
			if errors.Is(err, ErrNotFound) {
				vErr := &ValidationError{}
				vErr.add("user_id", "user does not exist")
				return BandMember{}, vErr
			}
			return BandMember{}, err
		}
	}

	if _, ok, err := s.activeMember(ctx, params.BandID, params.UserID); err != nil {
		return BandMember{}, err
	} else if ok {
		return BandMember{}, ErrAlreadyExists
	}

	member := BandMember{
		ID:       s.idGenerator(),
		BandID:   params.BandID,
		UserID:   params.UserID,
		Role:     role,
		JoinedAt: s.now(),
	}
	return s.bands.AddMember(ctx, member)
}

// RemoveMember closes a membership span. Leaders may remove anyone; a member
// may leave on their own. The row is retained so past rosters stay intact.
func (s *BandService) RemoveMember(ctx context.Context, principal Principal, memberID string) error {
	if s == nil {
		return fmt.Errorf("BandService is nil")
	}
	if s.bands == nil {
		return fmt.Errorf("band repository not configured")
	}

	member, err := s.bands.GetMember(ctx, memberID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if member.UserID != principal.UserID {
		if err := s.requireLeader(ctx, principal, member.BandID); err != nil {
			return err
		}
	}

	if err := s.bands.CloseMembership(ctx, memberID, s.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListMembers returns the roster active at the given moment. A zero asOf
// means now.
func (s *BandService) ListMembers(ctx context.Context, principal Principal, bandID string, asOf time.Time) ([]BandMember, error) {
	if s == nil {
		return nil, fmt.Errorf("BandService is nil")
	}
	if s.bands == nil {
		return nil, fmt.Errorf("band repository not configured")
	}

	if _, ok, err := s.activeMember(ctx, bandID, principal.UserID); err != nil {
		return nil, err
	} else if !ok && !principal.IsAdmin {
		return nil, ErrUnauthorized
	}

	if asOf.IsZero() {
		asOf = s.now()
	}
	return s.bands.ListMembersAsOf(ctx, bandID, asOf)
}

// activeMember reports the principal's current membership in a band, if any.
func (s *BandService) activeMember(ctx context.Context, bandID, userID string) (BandMember, bool, error) {
	if userID == "" {
		return BandMember{}, false, nil
	}
	members, err := s.bands.ListMembersAsOf(ctx, bandID, s.now())
	if err != nil {
		return BandMember{}, false, err
	}
	for _, member := range members {
		if member.UserID == userID {
			return member, true, nil
		}
	}
	return BandMember{}, false, nil
}

func (s *BandService) requireLeader(ctx context.Context, principal Principal, bandID string) error {
	if principal.IsAdmin {
		return nil
	}
	member, ok, err := s.activeMember(ctx, bandID, principal.UserID)
	if err != nil {
		return err
	}
	if !ok || member.Role != RoleLeader {
		return ErrUnauthorized
	}
	return nil
}

func normalizeBandInput(input BandInput) BandInput {
	name := strings.TrimSpace(input.Name)
	timezone := strings.TrimSpace(input.Timezone)
	if timezone == "" {
		timezone = "UTC"
	}

	var description *string
	if input.Description != nil {
		if trimmed := strings.TrimSpace(*input.Description); trimmed != "" {
			description = &trimmed
		}
	}

	return BandInput{Name: name, Description: description, Timezone: timezone}
}

func validateBandInput(input BandInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}

	if _, err := time.LoadLocation(input.Timezone); err != nil {
		vErr.add("timezone", "timezone must be a valid IANA zone name")
	}

	return vErr
}
