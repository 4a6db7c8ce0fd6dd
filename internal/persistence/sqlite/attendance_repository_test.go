package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/rehearsal-scheduler/internal/persistence"
)

func seedRehearsal(t *testing.T, pool *ConnectionPool, id, bandID, creatorID string) string {
	t.Helper()

	repo := NewRehearsalRepository(pool)
	start := time.Date(2024, time.April, 8, 19, 0, 0, 0, time.UTC)
	err := repo.CreateRehearsal(context.Background(), persistence.Rehearsal{
		ID:        id,
		BandID:    bandID,
		CreatorID: creatorID,
		Title:     "weekly run-through",
		Start:     start,
		End:       start.Add(2 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed rehearsal %s: %v", id, err)
	}
	return id
}

func TestAttendanceRepository_UpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	pool := openTestPool(t)
	bands := NewBandRepository(pool)
	repo := NewAttendanceRepository(pool)
	ctx := context.Background()

	seedUser(t, pool, "u1", "u1@example.com")
	seedBand(t, pool, "b1", "u1")
	if err := bands.AddMember(ctx, persistence.BandMember{
		ID: "m1", BandID: "b1", UserID: "u1", Role: "leader",
		JoinedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	seedRehearsal(t, pool, "r1", "b1", "u1")

	now := time.Now().UTC()
	first, err := repo.UpsertAttendance(ctx, persistence.Attendance{
		ID: "a1", RehearsalID: "r1", MemberID: "m1", UserID: "u1",
		Status: "pending", CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	later := now.Add(time.Minute)
	second, err := repo.UpsertAttendance(ctx, persistence.Attendance{
		ID: "a2", RehearsalID: "r1", MemberID: "m1", UserID: "u1",
		Status: "confirmed", CreatedAt: later, UpdatedAt: later,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("upsert created a second row: %q vs %q", second.ID, first.ID)
	}
	if second.Status != "confirmed" {
		t.Fatalf("status = %q, want confirmed", second.Status)
	}

	all, err := repo.ListAttendance(ctx, "r1")
	if err != nil {
		t.Fatalf("ListAttendance: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected a single attendance row, got %d", len(all))
	}
}

func TestAttendanceRepository_GetAttendanceMissing(t *testing.T) {
	t.Parallel()

	pool := openTestPool(t)
	repo := NewAttendanceRepository(pool)

	_, err := repo.GetAttendance(context.Background(), "nope", "nope")
	if !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRehearsalRepository_RejectsInvertedInterval(t *testing.T) {
	t.Parallel()

	pool := openTestPool(t)
	repo := NewRehearsalRepository(pool)
	ctx := context.Background()

	seedUser(t, pool, "u1", "u1@example.com")
	seedBand(t, pool, "b1", "u1")

	start := time.Date(2024, time.April, 8, 19, 0, 0, 0, time.UTC)
	err := repo.CreateRehearsal(ctx, persistence.Rehearsal{
		ID: "r1", BandID: "b1", CreatorID: "u1", Title: "bad",
		Start: start, End: start.Add(-time.Hour),
	})
	if !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation, got %v", err)
	}
}

func TestRehearsalRepository_ListFilters(t *testing.T) {
	t.Parallel()

	pool := openTestPool(t)
	repo := NewRehearsalRepository(pool)
	ctx := context.Background()

	seedUser(t, pool, "u1", "u1@example.com")
	seedBand(t, pool, "b1", "u1")
	seedBand(t, pool, "b2", "u1")

	base := time.Date(2024, time.April, 1, 19, 0, 0, 0, time.UTC)
	for i, spec := range []struct {
		id     string
		bandID string
		offset time.Duration
	}{
		{"r1", "b1", 0},
		{"r2", "b1", 7 * 24 * time.Hour},
		{"r3", "b2", 0},
	} {
		start := base.Add(spec.offset)
		err := repo.CreateRehearsal(ctx, persistence.Rehearsal{
			ID: spec.id, BandID: spec.bandID, CreatorID: "u1",
			Title: "session", Start: start, End: start.Add(2 * time.Hour),
		})
		if err != nil {
			t.Fatalf("create rehearsal %d: %v", i, err)
		}
	}

	bandID := "b1"
	after := base.Add(24 * time.Hour)
	got, err := repo.ListRehearsals(ctx, persistence.RehearsalFilter{
		BandID:      bandID,
		StartsAfter: &after,
	})
	if err != nil {
		t.Fatalf("ListRehearsals: %v", err)
	}
	if len(got) != 1 || got[0].ID != "r2" {
		t.Fatalf("expected only r2, got %+v", got)
	}
}
