package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/rehearsal-scheduler/internal/reconcile"
)

// RehearsalRepository captures the persistence operations needed by the rehearsal service.
type RehearsalRepository interface {
	CreateRehearsal(ctx context.Context, rehearsal Rehearsal) (Rehearsal, error)
	GetRehearsal(ctx context.Context, id string) (Rehearsal, error)
	UpdateRehearsal(ctx context.Context, rehearsal Rehearsal) (Rehearsal, error)
	DeleteRehearsal(ctx context.Context, id string) error
	ListRehearsals(ctx context.Context, params ListRehearsalsParams) ([]Rehearsal, error)
}

// RehearsalBandDirectory resolves the band context a rehearsal runs in.
type RehearsalBandDirectory interface {
	GetBand(ctx context.Context, id string) (Band, error)
	GetMember(ctx context.Context, memberID string) (BandMember, error)
	ListMembersAsOf(ctx context.Context, bandID string, asOf time.Time) ([]BandMember, error)
}

// AttendanceRepository captures the per-rehearsal response ledger.
type AttendanceRepository interface {
	UpsertAttendance(ctx context.Context, attendance Attendance) (Attendance, error)
	GetAttendance(ctx context.Context, rehearsalID, memberID string) (Attendance, error)
	ListAttendance(ctx context.Context, rehearsalID string) ([]Attendance, error)
}

// WindowDirectory resolves the recurring weekly windows declared by users.
type WindowDirectory interface {
	ListWindowsForUsers(ctx context.Context, userIDs []string) (map[string][]AvailabilityWindow, error)
}

// RehearsalSetlistCatalog resolves setlists attached to rehearsals.
type RehearsalSetlistCatalog interface {
	GetSetlist(ctx context.Context, id string) (Setlist, error)
}

// PredictionCache stores recently computed roster predictions so repeated
// detail requests skip the window reconciliation pass.
type PredictionCache interface {
	Get(ctx context.Context, key string) (map[string]reconcile.Prediction, bool)
	Store(ctx context.Context, key string, predictions map[string]reconcile.Prediction)
	Invalidate(ctx context.Context)
}

// RehearsalService schedules practice sessions and reconciles the roster's
// declared availability against them.
type RehearsalService struct {
	rehearsals  RehearsalRepository
	bands       RehearsalBandDirectory
	attendance  AttendanceRepository
	windows     WindowDirectory
	setlists    RehearsalSetlistCatalog
	cache       PredictionCache
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRehearsalService wires dependencies for the rehearsal service.
func NewRehearsalService(rehearsals RehearsalRepository, bands RehearsalBandDirectory, attendance AttendanceRepository, windows WindowDirectory, setlists RehearsalSetlistCatalog, cache PredictionCache, idGenerator func() string, now func() time.Time) *RehearsalService {
	return NewRehearsalServiceWithLogger(rehearsals, bands, attendance, windows, setlists, cache, idGenerator, now, nil)
}

// NewRehearsalServiceWithLogger constructs a RehearsalService with a specified logger.
func NewRehearsalServiceWithLogger(rehearsals RehearsalRepository, bands RehearsalBandDirectory, attendance AttendanceRepository, windows WindowDirectory, setlists RehearsalSetlistCatalog, cache PredictionCache, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RehearsalService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RehearsalService{
		rehearsals:  rehearsals,
		bands:       bands,
		attendance:  attendance,
		windows:     windows,
		setlists:    setlists,
		cache:       cache,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RehearsalService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RehearsalService", operation, attrs...)
}

// CreateRehearsal validates the proposal and persists it.
func (s *RehearsalService) CreateRehearsal(ctx context.Context, params CreateRehearsalParams) (Rehearsal, error) {
	if s == nil {
		return Rehearsal{}, fmt.Errorf("RehearsalService is nil")
	}
	if s.rehearsals == nil {
		return Rehearsal{}, fmt.Errorf("rehearsal repository not configured")
	}
	if s.bands == nil {
		return Rehearsal{}, fmt.Errorf("band directory not configured")
	}

	if _, err := s.bands.GetBand(ctx, params.BandID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Rehearsal{}, ErrNotFound
		}
		return Rehearsal{}, err
	}

	if err := requireActiveMembership(ctx, s.bands, params.Principal, params.BandID, s.now()); err != nil {
		return Rehearsal{}, err
	}

	normalized := normalizeRehearsalInput(params.Input)
	vErr := s.validateRehearsalInput(ctx, params.BandID, normalized)
	if vErr.HasErrors() {
		return Rehearsal{}, vErr
	}

	now := s.now()
	rehearsal := Rehearsal{
		ID:          s.idGenerator(),
		BandID:      params.BandID,
		CreatorID:   params.Principal.UserID,
		Title:       normalized.Title,
		Description: normalized.Description,
		Location:    normalized.Location,
		Start:       normalized.Start,
		End:         normalized.End,
		SetlistID:   normalized.SetlistID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.rehearsals.CreateRehearsal(ctx, rehearsal)
	if err != nil {
		return Rehearsal{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.loggerWith(ctx, "CreateRehearsal", "rehearsal_id", persisted.ID, "band_id", persisted.BandID).
		InfoContext(ctx, "rehearsal scheduled")
	return persisted, nil
}

// GetRehearsal returns a rehearsal with the roster overlay: every member
// active at the rehearsal start, their recorded response, and the
// availability prediction derived from their weekly windows.
func (s *RehearsalService) GetRehearsal(ctx context.Context, principal Principal, rehearsalID string) (RehearsalDetail, error) {
	if s == nil {
		return RehearsalDetail{}, fmt.Errorf("RehearsalService is nil")
	}
	if s.rehearsals == nil {
		return RehearsalDetail{}, fmt.Errorf("rehearsal repository not configured")
	}
	if s.bands == nil {
		return RehearsalDetail{}, fmt.Errorf("band directory not configured")
	}

	rehearsal, err := s.rehearsals.GetRehearsal(ctx, rehearsalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RehearsalDetail{}, ErrNotFound
		}
		return RehearsalDetail{}, err
	}

	if err := requireActiveMembership(ctx, s.bands, principal, rehearsal.BandID, s.now()); err != nil {
		return RehearsalDetail{}, err
	}

	roster, err := s.bands.ListMembersAsOf(ctx, rehearsal.BandID, rehearsal.Start)
	if err != nil {
		return RehearsalDetail{}, err
	}

	statuses := make(map[string]string, len(roster))
	if s.attendance != nil {
		responses, err := s.attendance.ListAttendance(ctx, rehearsalID)
		if err != nil {
			return RehearsalDetail{}, err
		}
		for _, response := range responses {
			statuses[response.MemberID] = response.Status
		}
	}

	predictions, err := s.rosterPredictions(ctx, rehearsal, roster)
	if err != nil {
		return RehearsalDetail{}, err
	}

	detail := RehearsalDetail{Rehearsal: rehearsal, Roster: make([]MemberStanding, 0, len(roster))}
	for _, member := range roster {
		status, ok := statuses[member.ID]
		if !ok {
			status = AttendancePending
		}
		prediction, ok := predictions[member.UserID]
		if !ok {
			prediction = reconcile.PredictionUnknown
		}
		detail.Roster = append(detail.Roster, MemberStanding{
			Member:     member,
			Status:     status,
			Prediction: prediction,
		})
	}
	return detail, nil
}

// ListRehearsals returns a band's rehearsals within the optional time bounds.
func (s *RehearsalService) ListRehearsals(ctx context.Context, params ListRehearsalsParams) ([]Rehearsal, error) {
	if s == nil {
		return nil, fmt.Errorf("RehearsalService is nil")
	}
	if s.rehearsals == nil {
		return nil, fmt.Errorf("rehearsal repository not configured")
	}
	if s.bands == nil {
		return nil, fmt.Errorf("band directory not configured")
	}

	if err := requireActiveMembership(ctx, s.bands, params.Principal, params.BandID, s.now()); err != nil {
		return nil, err
	}
	return s.rehearsals.ListRehearsals(ctx, params)
}

// UpdateRehearsal updates a rehearsal for its creator or a band leader.
func (s *RehearsalService) UpdateRehearsal(ctx context.Context, params UpdateRehearsalParams) (Rehearsal, error) {
	if s == nil {
		return Rehearsal{}, fmt.Errorf("RehearsalService is nil")
	}
	if s.rehearsals == nil {
		return Rehearsal{}, fmt.Errorf("rehearsal repository not configured")
	}
	if s.bands == nil {
		return Rehearsal{}, fmt.Errorf("band directory not configured")
	}

	existing, err := s.rehearsals.GetRehearsal(ctx, params.RehearsalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Rehearsal{}, ErrNotFound
		}
		return Rehearsal{}, err
	}

	if err := s.requireOrganizer(ctx, params.Principal, existing); err != nil {
		return Rehearsal{}, err
	}

	normalized := normalizeRehearsalInput(params.Input)
	vErr := s.validateRehearsalInput(ctx, existing.BandID, normalized)
	if vErr.HasErrors() {
		return Rehearsal{}, vErr
	}

	updated := existing
	updated.Title = normalized.Title
	updated.Description = normalized.Description
	updated.Location = normalized.Location
	updated.Start = normalized.Start
	updated.End = normalized.End
	updated.SetlistID = normalized.SetlistID
	updated.UpdatedAt = s.now()

	persisted, err := s.rehearsals.UpdateRehearsal(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Rehearsal{}, ErrNotFound
		}
		return Rehearsal{}, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	return persisted, nil
}

// DeleteRehearsal cancels a rehearsal for its creator or a band leader.
func (s *RehearsalService) DeleteRehearsal(ctx context.Context, principal Principal, rehearsalID string) error {
	if s == nil {
		return fmt.Errorf("RehearsalService is nil")
	}
	if s.rehearsals == nil {
		return fmt.Errorf("rehearsal repository not configured")
	}

	existing, err := s.rehearsals.GetRehearsal(ctx, rehearsalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.requireOrganizer(ctx, principal, existing); err != nil {
		return err
	}

	if err := s.rehearsals.DeleteRehearsal(ctx, rehearsalID); err != nil {
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

// RecordAttendance stores a member's response for a rehearsal. Recording the
// same response twice is a no-op; a changed status overwrites the previous
// one. Members answer for themselves; leaders may answer on anyone's behalf.
func (s *RehearsalService) RecordAttendance(ctx context.Context, params RecordAttendanceParams) (Attendance, error) {
	if s == nil {
		return Attendance{}, fmt.Errorf("RehearsalService is nil")
	}
	if s.rehearsals == nil {
		return Attendance{}, fmt.Errorf("rehearsal repository not configured")
	}
	if s.attendance == nil {
		return Attendance{}, fmt.Errorf("attendance repository not configured")
	}
	if s.bands == nil {
		return Attendance{}, fmt.Errorf("band directory not configured")
	}

	status := strings.TrimSpace(strings.ToLower(params.Status))
	switch status {
	case AttendanceConfirmed, AttendancePending, AttendanceDeclined:
	default:
		vErr := &ValidationError{}
		vErr.add("status", "status must be confirmed, pending, or declined")
		return Attendance{}, vErr
	}

	rehearsal, err := s.rehearsals.GetRehearsal(ctx, params.RehearsalID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Attendance{}, ErrNotFound
		}
		return Attendance{}, err
	}

	subjectID := params.UserID
	if subjectID == "" {
		subjectID = params.Principal.UserID
	}
	if subjectID != params.Principal.UserID {
		if err := s.requireOrganizer(ctx, params.Principal, rehearsal); err != nil {
			return Attendance{}, err
		}
	}

	// The subject must have been on the roster when the rehearsal starts.
	roster, err := s.bands.ListMembersAsOf(ctx, rehearsal.BandID, rehearsal.Start)
	if err != nil {
		return Attendance{}, err
	}
	var member *BandMember
	for i := range roster {
		if roster[i].UserID == subjectID {
			member = &roster[i]
			break
		}
	}
	if member == nil {
		return Attendance{}, ErrUnauthorized
	}

	now := s.now()
	attendance := Attendance{
		ID:          s.idGenerator(),
		RehearsalID: rehearsal.ID,
		MemberID:    member.ID,
		UserID:      subjectID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	persisted, err := s.attendance.UpsertAttendance(ctx, attendance)
	if err != nil {
		return Attendance{}, err
	}

	s.loggerWith(ctx, "RecordAttendance",
		"rehearsal_id", rehearsal.ID,
		"member_id", member.ID,
		"status", status,
	).InfoContext(ctx, "attendance recorded")
	return persisted, nil
}

// rosterPredictions reconciles the roster's weekly windows against the
// rehearsal interval, evaluated in the band's timezone.
func (s *RehearsalService) rosterPredictions(ctx context.Context, rehearsal Rehearsal, roster []BandMember) (map[string]reconcile.Prediction, error) {
	if len(roster) == 0 {
		return nil, nil
	}

	cacheKey := predictionCacheKey(rehearsal)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, cacheKey); ok {
			return cached, nil
		}
	}

	userIDs := make([]string, 0, len(roster))
	for _, member := range roster {
		userIDs = append(userIDs, member.UserID)
	}

	windowsByUser := make(map[string][]AvailabilityWindow, len(userIDs))
	if s.windows != nil {
		var err error
		windowsByUser, err = s.windows.ListWindowsForUsers(ctx, userIDs)
		if err != nil {
			return nil, err
		}
	}

	band, err := s.bands.GetBand(ctx, rehearsal.BandID)
	if err != nil {
		return nil, err
	}
	location, err := time.LoadLocation(band.Timezone)
	if err != nil {
		s.loggerWith(ctx, "rosterPredictions", "band_id", band.ID).
			WarnContext(ctx, "unknown band timezone, falling back to UTC", "timezone", band.Timezone)
		location = time.UTC
	}

	engineWindows := make(map[string][]reconcile.Window, len(windowsByUser))
	for userID, declared := range windowsByUser {
		converted := make([]reconcile.Window, 0, len(declared))
		for _, window := range declared {
			start, err := reconcile.ParseClock(window.StartTime)
			if err != nil {
				continue
			}
			end, err := reconcile.ParseClock(window.EndTime)
			if err != nil {
				continue
			}
			converted = append(converted, reconcile.Window{
				UserID:    userID,
				Weekday:   time.Weekday(window.Weekday),
				Start:     start,
				End:       end,
				Available: window.Available,
			})
		}
		engineWindows[userID] = converted
	}

	engine := reconcile.NewEngine(location)
	predictions, err := engine.PredictRoster(reconcile.Interval{Start: rehearsal.Start, End: rehearsal.End}, engineWindows)
	if err != nil {
		if errors.Is(err, reconcile.ErrInvalidInterval) {
			// Stored rehearsals always satisfy start < end; treat a
			// violation as data corruption rather than a user error.
			return nil, fmt.Errorf("rehearsal %s has an invalid interval: %w", rehearsal.ID, err)
		}
		return nil, err
	}

	// Members with no windows at all are absent from the engine input.
	for _, member := range roster {
		if _, ok := predictions[member.UserID]; !ok {
			predictions[member.UserID] = reconcile.PredictionUnknown
		}
	}

	if s.cache != nil {
		s.cache.Store(ctx, cacheKey, predictions)
	}
	return predictions, nil
}

func (s *RehearsalService) requireOrganizer(ctx context.Context, principal Principal, rehearsal Rehearsal) error {
	if principal.IsAdmin {
		return nil
	}
	if principal.UserID == "" {
		return ErrUnauthorized
	}
	if rehearsal.CreatorID == principal.UserID {
		return nil
	}
	members, err := s.bands.ListMembersAsOf(ctx, rehearsal.BandID, s.now())
	if err != nil {
		return err
	}
	for _, member := range members {
		if member.UserID == principal.UserID && member.Role == RoleLeader {
			return nil
		}
	}
	return ErrUnauthorized
}

func (s *RehearsalService) validateRehearsalInput(ctx context.Context, bandID string, input RehearsalInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.Start.IsZero() {
		vErr.add("start", "start is required")
	}
	if input.End.IsZero() {
		vErr.add("end", "end is required")
	}
	if !input.Start.IsZero() && !input.End.IsZero() && !input.Start.Before(input.End) {
		vErr.add("end", "end must be after start")
	}

	if input.SetlistID != nil && s.setlists != nil {
		setlist, err := s.setlists.GetSetlist(ctx, *input.SetlistID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				vErr.add("setlist_id", "setlist does not exist")
			}
		} else if setlist.BandID != bandID {
			vErr.add("setlist_id", "setlist belongs to another band")
		}
	}

	return vErr
}

func normalizeRehearsalInput(input RehearsalInput) RehearsalInput {
	out := RehearsalInput{
		Title: strings.TrimSpace(input.Title),
		Start: input.Start,
		End:   input.End,
	}
	if input.Description != nil {
		if trimmed := strings.TrimSpace(*input.Description); trimmed != "" {
			out.Description = &trimmed
		}
	}
	if input.Location != nil {
		if trimmed := strings.TrimSpace(*input.Location); trimmed != "" {
			out.Location = &trimmed
		}
	}
	if input.SetlistID != nil {
		if trimmed := strings.TrimSpace(*input.SetlistID); trimmed != "" {
			out.SetlistID = &trimmed
		}
	}
	return out
}

func predictionCacheKey(rehearsal Rehearsal) string {
	return rehearsal.ID + "|" + rehearsal.UpdatedAt.UTC().Format(time.RFC3339Nano)
}
