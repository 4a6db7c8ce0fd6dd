package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/rehearsal-scheduler/internal/reconcile"
)

// AvailabilityRepository captures the persistence operations for weekly windows.
type AvailabilityRepository interface {
	CreateWindow(ctx context.Context, window AvailabilityWindow) (AvailabilityWindow, error)
	GetWindow(ctx context.Context, id string) (AvailabilityWindow, error)
	UpdateWindow(ctx context.Context, window AvailabilityWindow) (AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, id string) error
	ListWindowsForUser(ctx context.Context, userID string) ([]AvailabilityWindow, error)
}

// AvailabilityService manages the recurring weekly windows users declare.
// Every mutation invalidates the prediction cache since cached roster
// predictions were derived from the old windows.
type AvailabilityService struct {
	windows     AvailabilityRepository
	cache       PredictionCache
	idGenerator func() string
	now         func() time.Time
}

// NewAvailabilityService wires dependencies for the availability service.
func NewAvailabilityService(windows AvailabilityRepository, cache PredictionCache, idGenerator func() string, now func() time.Time) *AvailabilityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{windows: windows, cache: cache, idGenerator: idGenerator, now: now}
}

// CreateWindow declares a new weekly window for the principal.
func (s *AvailabilityService) CreateWindow(ctx context.Context, params CreateWindowParams) (AvailabilityWindow, error) {
	if s == nil {
		return AvailabilityWindow{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.windows == nil {
		return AvailabilityWindow{}, fmt.Errorf("availability repository not configured")
	}

	userID := params.UserID
	if userID == "" {
		userID = params.Principal.UserID
	}
	if userID != params.Principal.UserID && !params.Principal.IsAdmin {
		return AvailabilityWindow{}, ErrUnauthorized
	}

	vErr := validateWindowInput(params.Input)
	if vErr.HasErrors() {
		return AvailabilityWindow{}, vErr
	}

	now := s.now()
	window := AvailabilityWindow{
		ID:        s.idGenerator(),
		UserID:    userID,
		Weekday:   params.Input.Weekday,
		StartTime: params.Input.StartTime,
		EndTime:   params.Input.EndTime,
		Available: params.Input.Available,
		CreatedAt: now,
		UpdatedAt: now,
	}

	persisted, err := s.windows.CreateWindow(ctx, window)
	if err != nil {
		return AvailabilityWindow{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return persisted, nil
}

// ListWindows returns a user's declared windows ordered by weekday and start.
func (s *AvailabilityService) ListWindows(ctx context.Context, principal Principal, userID string) ([]AvailabilityWindow, error) {
	if s == nil {
		return nil, fmt.Errorf("AvailabilityService is nil")
	}
	if s.windows == nil {
		return nil, fmt.Errorf("availability repository not configured")
	}

	if userID == "" {
		userID = principal.UserID
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	return s.windows.ListWindowsForUser(ctx, userID)
}

// UpdateWindow updates one of the principal's windows.
func (s *AvailabilityService) UpdateWindow(ctx context.Context, params UpdateWindowParams) (AvailabilityWindow, error) {
	if s == nil {
		return AvailabilityWindow{}, fmt.Errorf("AvailabilityService is nil")
	}
	if s.windows == nil {
		return AvailabilityWindow{}, fmt.Errorf("availability repository not configured")
	}

	existing, err := s.windows.GetWindow(ctx, params.WindowID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AvailabilityWindow{}, ErrNotFound
		}
		return AvailabilityWindow{}, err
	}
	if existing.UserID != params.Principal.UserID && !params.Principal.IsAdmin {
		return AvailabilityWindow{}, ErrUnauthorized
	}

	vErr := validateWindowInput(params.Input)
	if vErr.HasErrors() {
		return AvailabilityWindow{}, vErr
	}

	updated := existing
	updated.Weekday = params.Input.Weekday
	updated.StartTime = params.Input.StartTime
	updated.EndTime = params.Input.EndTime
	updated.Available = params.Input.Available
	updated.UpdatedAt = s.now()

	persisted, err := s.windows.UpdateWindow(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AvailabilityWindow{}, ErrNotFound
		}
		return AvailabilityWindow{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return persisted, nil
}

// DeleteWindow removes one of the principal's windows.
func (s *AvailabilityService) DeleteWindow(ctx context.Context, principal Principal, windowID string) error {
	if s == nil {
		return fmt.Errorf("AvailabilityService is nil")
	}
	if s.windows == nil {
		return fmt.Errorf("availability repository not configured")
	}

	existing, err := s.windows.GetWindow(ctx, windowID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if existing.UserID != principal.UserID && !principal.IsAdmin {
		return ErrUnauthorized
	}

	if err := s.windows.DeleteWindow(ctx, windowID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return nil
}

func validateWindowInput(input WindowInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Weekday < 0 || input.Weekday > 6 {
		vErr.add("weekday", "weekday must be between 0 (Sunday) and 6 (Saturday)")
	}

	start, err := reconcile.ParseClock(input.StartTime)
	if err != nil {
		vErr.add("start_time", "start time must be HH:MM")
	}
	end, err := reconcile.ParseClock(input.EndTime)
	if err != nil {
		vErr.add("end_time", "end time must be HH:MM")
	}
	if !vErr.HasErrors() && start >= end {
		vErr.add("end_time", "end time must be after start time")
	}

	return vErr
}
