package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type bandRepositoryStub struct {
	bands   map[string]Band
	members map[string]BandMember
}

func newBandRepositoryStub() *bandRepositoryStub {
	return &bandRepositoryStub{bands: make(map[string]Band), members: make(map[string]BandMember)}
}

func (s *bandRepositoryStub) CreateBand(ctx context.Context, band Band) (Band, error) {
	s.bands[band.ID] = band
	return band, nil
}

func (s *bandRepositoryStub) GetBand(ctx context.Context, id string) (Band, error) {
	band, ok := s.bands[id]
	if !ok {
		return Band{}, ErrNotFound
	}
	return band, nil
}

func (s *bandRepositoryStub) UpdateBand(ctx context.Context, band Band) (Band, error) {
	if _, ok := s.bands[band.ID]; !ok {
		return Band{}, ErrNotFound
	}
	s.bands[band.ID] = band
	return band, nil
}

func (s *bandRepositoryStub) DeleteBand(ctx context.Context, id string) error {
	if _, ok := s.bands[id]; !ok {
		return ErrNotFound
	}
	delete(s.bands, id)
	for memberID, member := range s.members {
		if member.BandID == id {
			delete(s.members, memberID)
		}
	}
	return nil
}

func (s *bandRepositoryStub) ListBandsForUser(ctx context.Context, userID string, asOf time.Time) ([]Band, error) {
	var out []Band
	for _, member := range s.members {
		if member.UserID != userID || !memberActiveAt(member, asOf) {
			continue
		}
		if band, ok := s.bands[member.BandID]; ok {
			out = append(out, band)
		}
	}
	return out, nil
}

func (s *bandRepositoryStub) AddMember(ctx context.Context, member BandMember) (BandMember, error) {
	s.members[member.ID] = member
	return member, nil
}

func (s *bandRepositoryStub) GetMember(ctx context.Context, memberID string) (BandMember, error) {
	member, ok := s.members[memberID]
	if !ok {
		return BandMember{}, ErrNotFound
	}
	return member, nil
}

func (s *bandRepositoryStub) CloseMembership(ctx context.Context, memberID string, leftAt time.Time) error {
	member, ok := s.members[memberID]
	if !ok || member.LeftAt != nil {
		return ErrNotFound
	}
	member.LeftAt = &leftAt
	s.members[memberID] = member
	return nil
}

func (s *bandRepositoryStub) ListMembersAsOf(ctx context.Context, bandID string, asOf time.Time) ([]BandMember, error) {
	var out []BandMember
	for _, member := range s.members {
		if member.BandID == bandID && memberActiveAt(member, asOf) {
			out = append(out, member)
		}
	}
	return out, nil
}

func memberActiveAt(member BandMember, asOf time.Time) bool {
	if member.JoinedAt.After(asOf) {
		return false
	}
	return member.LeftAt == nil || member.LeftAt.After(asOf)
}

type bandUserDirectoryStub struct {
	users map[string]User
}

func (s *bandUserDirectoryStub) GetUser(ctx context.Context, id string) (User, error) {
	user, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func sequentialIDs(prefix string) func() string {
	var counter int
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func TestBandService_CreateBand(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	t.Run("enrolls the creator as leader", func(t *testing.T) {
		t.Parallel()

		repo := newBandRepositoryStub()
		svc := NewBandService(repo, nil, sequentialIDs("id"), func() time.Time { return now })

		band, err := svc.CreateBand(context.Background(), CreateBandParams{
			Principal: Principal{UserID: "user-1"},
			Input:     BandInput{Name: "The Offbeats", Timezone: "Europe/Berlin"},
		})
		if err != nil {
			t.Fatalf("CreateBand failed: %v", err)
		}

		members, err := repo.ListMembersAsOf(context.Background(), band.ID, now)
		if err != nil {
			t.Fatalf("ListMembersAsOf failed: %v", err)
		}
		if len(members) != 1 {
			t.Fatalf("expected one member, got %d", len(members))
		}
		if members[0].UserID != "user-1" || members[0].Role != RoleLeader {
			t.Fatalf("creator not enrolled as leader: %+v", members[0])
		}
	})

	t.Run("defaults the timezone to UTC", func(t *testing.T) {
		t.Parallel()

		repo := newBandRepositoryStub()
		svc := NewBandService(repo, nil, sequentialIDs("id"), func() time.Time { return now })

		band, err := svc.CreateBand(context.Background(), CreateBandParams{
			Principal: Principal{UserID: "user-1"},
			Input:     BandInput{Name: "The Offbeats"},
		})
		if err != nil {
			t.Fatalf("CreateBand failed: %v", err)
		}
		if band.Timezone != "UTC" {
			t.Fatalf("timezone = %q, want UTC", band.Timezone)
		}
	})

	t.Run("rejects unknown timezones", func(t *testing.T) {
		t.Parallel()

		svc := NewBandService(newBandRepositoryStub(), nil, sequentialIDs("id"), nil)

		_, err := svc.CreateBand(context.Background(), CreateBandParams{
			Principal: Principal{UserID: "user-1"},
			Input:     BandInput{Name: "The Offbeats", Timezone: "Mars/Olympus"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["timezone"]; !ok {
			t.Fatalf("expected timezone field error, got %+v", vErr.FieldErrors)
		}
	})
}

func TestBandService_AddMember(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	setup := func() (*BandService, *bandRepositoryStub) {
		repo := newBandRepositoryStub()
		repo.bands["b1"] = Band{ID: "b1", Name: "The Offbeats", Timezone: "UTC", CreatorID: "leader"}
		repo.members["m1"] = BandMember{ID: "m1", BandID: "b1", UserID: "leader", Role: RoleLeader, JoinedAt: now.Add(-time.Hour)}

		users := &bandUserDirectoryStub{users: map[string]User{
			"leader":  {ID: "leader"},
			"drummer": {ID: "drummer"},
		}}
		return NewBandService(repo, users, sequentialIDs("id"), func() time.Time { return now }), repo
	}

	t.Run("leaders can add members", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup()
		member, err := svc.AddMember(context.Background(), AddMemberParams{
			Principal: Principal{UserID: "leader"},
			BandID:    "b1",
			UserID:    "drummer",
		})
		if err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}
		if member.Role != RoleMember {
			t.Fatalf("role defaulted to %q, want member", member.Role)
		}
	})

	t.Run("non-leaders cannot add members", func(t *testing.T) {
		t.Parallel()

		svc, repo := setup()
		repo.members["m2"] = BandMember{ID: "m2", BandID: "b1", UserID: "drummer", Role: RoleMember, JoinedAt: now.Add(-time.Hour)}

		_, err := svc.AddMember(context.Background(), AddMemberParams{
			Principal: Principal{UserID: "drummer"},
			BandID:    "b1",
			UserID:    "someone",
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects double enrollment", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup()
		_, err := svc.AddMember(context.Background(), AddMemberParams{
			Principal: Principal{UserID: "leader"},
			BandID:    "b1",
			UserID:    "leader",
		})
		if !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("rejects unknown users", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup()
		_, err := svc.AddMember(context.Background(), AddMemberParams{
			Principal: Principal{UserID: "leader"},
			BandID:    "b1",
			UserID:    "ghost",
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestBandService_RemoveMember(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	setup := func() (*BandService, *bandRepositoryStub) {
		repo := newBandRepositoryStub()
		repo.bands["b1"] = Band{ID: "b1", Name: "The Offbeats", Timezone: "UTC"}
		repo.members["m1"] = BandMember{ID: "m1", BandID: "b1", UserID: "leader", Role: RoleLeader, JoinedAt: now.Add(-time.Hour)}
		repo.members["m2"] = BandMember{ID: "m2", BandID: "b1", UserID: "drummer", Role: RoleMember, JoinedAt: now.Add(-time.Hour)}
		return NewBandService(repo, nil, sequentialIDs("id"), func() time.Time { return now }), repo
	}

	t.Run("members may leave on their own", func(t *testing.T) {
		t.Parallel()

		svc, repo := setup()
		if err := svc.RemoveMember(context.Background(), Principal{UserID: "drummer"}, "m2"); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if repo.members["m2"].LeftAt == nil {
			t.Fatalf("membership not closed")
		}
	})

	t.Run("leaders may remove anyone", func(t *testing.T) {
		t.Parallel()

		svc, repo := setup()
		if err := svc.RemoveMember(context.Background(), Principal{UserID: "leader"}, "m2"); err != nil {
			t.Fatalf("RemoveMember failed: %v", err)
		}
		if repo.members["m2"].LeftAt == nil {
			t.Fatalf("membership not closed")
		}
	})

	t.Run("plain members cannot remove others", func(t *testing.T) {
		t.Parallel()

		svc, _ := setup()
		err := svc.RemoveMember(context.Background(), Principal{UserID: "drummer"}, "m1")
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestBandService_ListMembers(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	left := now.Add(-30 * 24 * time.Hour)

	repo := newBandRepositoryStub()
	repo.bands["b1"] = Band{ID: "b1", Name: "The Offbeats", Timezone: "UTC"}
	repo.members["m1"] = BandMember{ID: "m1", BandID: "b1", UserID: "leader", Role: RoleLeader, JoinedAt: now.Add(-365 * 24 * time.Hour)}
	repo.members["m2"] = BandMember{ID: "m2", BandID: "b1", UserID: "former", Role: RoleMember, JoinedAt: now.Add(-365 * 24 * time.Hour), LeftAt: &left}

	svc := NewBandService(repo, nil, sequentialIDs("id"), func() time.Time { return now })

	current, err := svc.ListMembers(context.Background(), Principal{UserID: "leader"}, "b1", time.Time{})
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(current) != 1 || current[0].UserID != "leader" {
		t.Fatalf("current roster should exclude departed members: %+v", current)
	}

	// A point-in-time query inside the former member's span includes them.
	past, err := svc.ListMembers(context.Background(), Principal{UserID: "leader"}, "b1", left.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ListMembers as-of failed: %v", err)
	}
	if len(past) != 2 {
		t.Fatalf("historical roster should include departed members: %+v", past)
	}
}
