package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/rehearsal-scheduler/internal/reconcile"
)

type rehearsalRepositoryStub struct {
	rehearsals map[string]Rehearsal
}

func newRehearsalRepositoryStub() *rehearsalRepositoryStub {
	return &rehearsalRepositoryStub{rehearsals: make(map[string]Rehearsal)}
}

func (s *rehearsalRepositoryStub) CreateRehearsal(ctx context.Context, rehearsal Rehearsal) (Rehearsal, error) {
	s.rehearsals[rehearsal.ID] = rehearsal
	return rehearsal, nil
}

func (s *rehearsalRepositoryStub) GetRehearsal(ctx context.Context, id string) (Rehearsal, error) {
	rehearsal, ok := s.rehearsals[id]
	if !ok {
		return Rehearsal{}, ErrNotFound
	}
	return rehearsal, nil
}

func (s *rehearsalRepositoryStub) UpdateRehearsal(ctx context.Context, rehearsal Rehearsal) (Rehearsal, error) {
	if _, ok := s.rehearsals[rehearsal.ID]; !ok {
		return Rehearsal{}, ErrNotFound
	}
	s.rehearsals[rehearsal.ID] = rehearsal
	return rehearsal, nil
}

func (s *rehearsalRepositoryStub) DeleteRehearsal(ctx context.Context, id string) error {
	if _, ok := s.rehearsals[id]; !ok {
		return ErrNotFound
	}
	delete(s.rehearsals, id)
	return nil
}

func (s *rehearsalRepositoryStub) ListRehearsals(ctx context.Context, params ListRehearsalsParams) ([]Rehearsal, error) {
	var out []Rehearsal
	for _, rehearsal := range s.rehearsals {
		if rehearsal.BandID != params.BandID {
			continue
		}
		if params.StartsAfter != nil && rehearsal.Start.Before(*params.StartsAfter) {
			continue
		}
		if params.EndsBefore != nil && rehearsal.End.After(*params.EndsBefore) {
			continue
		}
		out = append(out, rehearsal)
	}
	return out, nil
}

type attendanceRepositoryStub struct {
	rows map[string]Attendance
}

func newAttendanceRepositoryStub() *attendanceRepositoryStub {
	return &attendanceRepositoryStub{rows: make(map[string]Attendance)}
}

func attendanceKey(rehearsalID, memberID string) string {
	return rehearsalID + "|" + memberID
}

func (s *attendanceRepositoryStub) UpsertAttendance(ctx context.Context, attendance Attendance) (Attendance, error) {
	key := attendanceKey(attendance.RehearsalID, attendance.MemberID)
	if existing, ok := s.rows[key]; ok {
		existing.Status = attendance.Status
		existing.UpdatedAt = attendance.UpdatedAt
		s.rows[key] = existing
		return existing, nil
	}
	s.rows[key] = attendance
	return attendance, nil
}

func (s *attendanceRepositoryStub) GetAttendance(ctx context.Context, rehearsalID, memberID string) (Attendance, error) {
	attendance, ok := s.rows[attendanceKey(rehearsalID, memberID)]
	if !ok {
		return Attendance{}, ErrNotFound
	}
	return attendance, nil
}

func (s *attendanceRepositoryStub) ListAttendance(ctx context.Context, rehearsalID string) ([]Attendance, error) {
	var out []Attendance
	for _, attendance := range s.rows {
		if attendance.RehearsalID == rehearsalID {
			out = append(out, attendance)
		}
	}
	return out, nil
}

type windowDirectoryStub struct {
	windows map[string][]AvailabilityWindow
}

func (s *windowDirectoryStub) ListWindowsForUsers(ctx context.Context, userIDs []string) (map[string][]AvailabilityWindow, error) {
	out := make(map[string][]AvailabilityWindow)
	for _, userID := range userIDs {
		if windows, ok := s.windows[userID]; ok {
			out[userID] = windows
		}
	}
	return out, nil
}

type rehearsalFixture struct {
	svc        *RehearsalService
	rehearsals *rehearsalRepositoryStub
	bands      *bandRepositoryStub
	attendance *attendanceRepositoryStub
	windows    *windowDirectoryStub
	now        time.Time
}

// newRehearsalFixture builds a band with a leader, a drummer, and one
// Monday-evening rehearsal.
func newRehearsalFixture(t *testing.T) *rehearsalFixture {
	t.Helper()

	now := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	joined := now.Add(-90 * 24 * time.Hour)

	bands := newBandRepositoryStub()
	bands.bands["b1"] = Band{ID: "b1", Name: "The Offbeats", Timezone: "UTC"}
	bands.members["m-leader"] = BandMember{ID: "m-leader", BandID: "b1", UserID: "leader", Role: RoleLeader, JoinedAt: joined}
	bands.members["m-drummer"] = BandMember{ID: "m-drummer", BandID: "b1", UserID: "drummer", Role: RoleMember, JoinedAt: joined}

	rehearsals := newRehearsalRepositoryStub()
	// 2024-03-04 is a Monday.
	start := time.Date(2024, time.March, 4, 19, 0, 0, 0, time.UTC)
	rehearsals.rehearsals["r1"] = Rehearsal{
		ID: "r1", BandID: "b1", CreatorID: "leader", Title: "weekly run-through",
		Start: start, End: start.Add(2 * time.Hour), UpdatedAt: now,
	}

	windows := &windowDirectoryStub{windows: map[string][]AvailabilityWindow{
		"leader": {{ID: "w1", UserID: "leader", Weekday: 1, StartTime: "18:00", EndTime: "22:00", Available: true}},
	}}

	attendance := newAttendanceRepositoryStub()
	svc := NewRehearsalService(rehearsals, bands, attendance, windows, nil, nil,
		sequentialIDs("id"), func() time.Time { return now })

	return &rehearsalFixture{svc: svc, rehearsals: rehearsals, bands: bands, attendance: attendance, windows: windows, now: now}
}

func TestRehearsalService_GetRehearsal(t *testing.T) {
	t.Parallel()

	t.Run("overlays responses and predictions on the roster", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		fx.attendance.rows[attendanceKey("r1", "m-drummer")] = Attendance{
			ID: "a1", RehearsalID: "r1", MemberID: "m-drummer", UserID: "drummer", Status: AttendanceDeclined,
		}

		detail, err := fx.svc.GetRehearsal(context.Background(), Principal{UserID: "drummer"}, "r1")
		if err != nil {
			t.Fatalf("GetRehearsal failed: %v", err)
		}
		if len(detail.Roster) != 2 {
			t.Fatalf("expected two roster entries, got %d", len(detail.Roster))
		}

		byUser := make(map[string]MemberStanding)
		for _, standing := range detail.Roster {
			byUser[standing.Member.UserID] = standing
		}

		leader := byUser["leader"]
		if leader.Status != AttendancePending {
			t.Errorf("leader without response should default to pending, got %q", leader.Status)
		}
		if leader.Prediction != reconcile.PredictionAvailable {
			t.Errorf("leader prediction = %q, want available", leader.Prediction)
		}

		drummer := byUser["drummer"]
		if drummer.Status != AttendanceDeclined {
			t.Errorf("drummer status = %q, want declined", drummer.Status)
		}
		if drummer.Prediction != reconcile.PredictionUnknown {
			t.Errorf("drummer without windows should predict unknown, got %q", drummer.Prediction)
		}
	})

	t.Run("excludes members who joined after the rehearsal", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		fx.bands.members["m-late"] = BandMember{
			ID: "m-late", BandID: "b1", UserID: "latecomer", Role: RoleMember,
			JoinedAt: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		}

		detail, err := fx.svc.GetRehearsal(context.Background(), Principal{UserID: "leader"}, "r1")
		if err != nil {
			t.Fatalf("GetRehearsal failed: %v", err)
		}
		for _, standing := range detail.Roster {
			if standing.Member.UserID == "latecomer" {
				t.Fatalf("latecomer should not be on the roster of an earlier rehearsal")
			}
		}
	})

	t.Run("rejects non-members", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		_, err := fx.svc.GetRehearsal(context.Background(), Principal{UserID: "stranger"}, "r1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("evaluates windows in the band timezone", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		fx.bands.bands["b1"] = Band{ID: "b1", Name: "The Offbeats", Timezone: "America/New_York"}
		// 19:00 UTC on Monday is 14:00 in New York; the 18:00 window no
		// longer covers it.
		fx.windows.windows["leader"] = []AvailabilityWindow{
			{ID: "w1", UserID: "leader", Weekday: 1, StartTime: "13:00", EndTime: "17:00", Available: true},
		}

		detail, err := fx.svc.GetRehearsal(context.Background(), Principal{UserID: "leader"}, "r1")
		if err != nil {
			t.Fatalf("GetRehearsal failed: %v", err)
		}
		for _, standing := range detail.Roster {
			if standing.Member.UserID == "leader" && standing.Prediction != reconcile.PredictionAvailable {
				t.Fatalf("leader prediction = %q, want available in band zone", standing.Prediction)
			}
		}
	})
}

func TestRehearsalService_RecordAttendance(t *testing.T) {
	t.Parallel()

	t.Run("members answer for themselves", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		attendance, err := fx.svc.RecordAttendance(context.Background(), RecordAttendanceParams{
			Principal:   Principal{UserID: "drummer"},
			RehearsalID: "r1",
			Status:      "Confirmed",
		})
		if err != nil {
			t.Fatalf("RecordAttendance failed: %v", err)
		}
		if attendance.Status != AttendanceConfirmed {
			t.Fatalf("status = %q, want confirmed", attendance.Status)
		}
		if attendance.MemberID != "m-drummer" {
			t.Fatalf("resolved wrong member %q", attendance.MemberID)
		}
	})

	t.Run("a changed response overwrites the previous one", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		params := RecordAttendanceParams{
			Principal:   Principal{UserID: "drummer"},
			RehearsalID: "r1",
			Status:      AttendanceConfirmed,
		}
		if _, err := fx.svc.RecordAttendance(context.Background(), params); err != nil {
			t.Fatalf("first response failed: %v", err)
		}

		params.Status = AttendanceDeclined
		updated, err := fx.svc.RecordAttendance(context.Background(), params)
		if err != nil {
			t.Fatalf("second response failed: %v", err)
		}
		if updated.Status != AttendanceDeclined {
			t.Fatalf("status = %q, want declined", updated.Status)
		}

		rows, err := fx.attendance.ListAttendance(context.Background(), "r1")
		if err != nil {
			t.Fatalf("ListAttendance failed: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected one attendance row, got %d", len(rows))
		}
	})

	t.Run("leaders answer on behalf of members", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		attendance, err := fx.svc.RecordAttendance(context.Background(), RecordAttendanceParams{
			Principal:   Principal{UserID: "leader"},
			RehearsalID: "r1",
			UserID:      "drummer",
			Status:      AttendanceDeclined,
		})
		if err != nil {
			t.Fatalf("RecordAttendance failed: %v", err)
		}
		if attendance.UserID != "drummer" {
			t.Fatalf("recorded for wrong user %q", attendance.UserID)
		}
	})

	t.Run("plain members cannot answer for others", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		_, err := fx.svc.RecordAttendance(context.Background(), RecordAttendanceParams{
			Principal:   Principal{UserID: "drummer"},
			RehearsalID: "r1",
			UserID:      "leader",
			Status:      AttendanceDeclined,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects responses from users off the roster", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		_, err := fx.svc.RecordAttendance(context.Background(), RecordAttendanceParams{
			Principal:   Principal{UserID: "stranger", IsAdmin: true},
			RehearsalID: "r1",
			UserID:      "stranger",
			Status:      AttendanceConfirmed,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		_, err := fx.svc.RecordAttendance(context.Background(), RecordAttendanceParams{
			Principal:   Principal{UserID: "drummer"},
			RehearsalID: "r1",
			Status:      "maybe",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestRehearsalService_CreateRehearsal(t *testing.T) {
	t.Parallel()

	t.Run("rejects an inverted interval", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		start := time.Date(2024, time.March, 11, 19, 0, 0, 0, time.UTC)
		_, err := fx.svc.CreateRehearsal(context.Background(), CreateRehearsalParams{
			Principal: Principal{UserID: "leader"},
			BandID:    "b1",
			Input:     RehearsalInput{Title: "bad", Start: start, End: start.Add(-time.Hour)},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["end"]; !ok {
			t.Fatalf("expected end field error, got %+v", vErr.FieldErrors)
		}
	})

	t.Run("rejects non-members", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		start := time.Date(2024, time.March, 11, 19, 0, 0, 0, time.UTC)
		_, err := fx.svc.CreateRehearsal(context.Background(), CreateRehearsalParams{
			Principal: Principal{UserID: "stranger"},
			BandID:    "b1",
			Input:     RehearsalInput{Title: "session", Start: start, End: start.Add(time.Hour)},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("persists a valid proposal", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		start := time.Date(2024, time.March, 11, 19, 0, 0, 0, time.UTC)
		rehearsal, err := fx.svc.CreateRehearsal(context.Background(), CreateRehearsalParams{
			Principal: Principal{UserID: "drummer"},
			BandID:    "b1",
			Input:     RehearsalInput{Title: " new songs ", Start: start, End: start.Add(time.Hour)},
		})
		if err != nil {
			t.Fatalf("CreateRehearsal failed: %v", err)
		}
		if rehearsal.Title != "new songs" {
			t.Fatalf("title not trimmed: %q", rehearsal.Title)
		}
		if _, ok := fx.rehearsals.rehearsals[rehearsal.ID]; !ok {
			t.Fatalf("rehearsal not persisted")
		}
	})
}

func TestRehearsalService_UpdateRehearsal(t *testing.T) {
	t.Parallel()

	t.Run("plain members cannot update others' rehearsals", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		start := time.Date(2024, time.March, 4, 20, 0, 0, 0, time.UTC)
		_, err := fx.svc.UpdateRehearsal(context.Background(), UpdateRehearsalParams{
			Principal:   Principal{UserID: "drummer"},
			RehearsalID: "r1",
			Input:       RehearsalInput{Title: "moved", Start: start, End: start.Add(time.Hour)},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("the creator may update", func(t *testing.T) {
		t.Parallel()

		fx := newRehearsalFixture(t)
		start := time.Date(2024, time.March, 4, 20, 0, 0, 0, time.UTC)
		updated, err := fx.svc.UpdateRehearsal(context.Background(), UpdateRehearsalParams{
			Principal:   Principal{UserID: "leader"},
			RehearsalID: "r1",
			Input:       RehearsalInput{Title: "moved", Start: start, End: start.Add(time.Hour)},
		})
		if err != nil {
			t.Fatalf("UpdateRehearsal failed: %v", err)
		}
		if !updated.Start.Equal(start) {
			t.Fatalf("start not updated: %v", updated.Start)
		}
	})
}
