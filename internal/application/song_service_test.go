package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type songRepositoryStub struct {
	songs map[string]Song
}

func newSongRepositoryStub() *songRepositoryStub {
	return &songRepositoryStub{songs: make(map[string]Song)}
}

func (s *songRepositoryStub) CreateSong(ctx context.Context, song Song) (Song, error) {
	s.songs[song.ID] = song
	return song, nil
}

func (s *songRepositoryStub) GetSong(ctx context.Context, id string) (Song, error) {
	song, ok := s.songs[id]
	if !ok {
		return Song{}, ErrNotFound
	}
	return song, nil
}

func (s *songRepositoryStub) UpdateSong(ctx context.Context, song Song) (Song, error) {
	if _, ok := s.songs[song.ID]; !ok {
		return Song{}, ErrNotFound
	}
	s.songs[song.ID] = song
	return song, nil
}

func (s *songRepositoryStub) DeleteSong(ctx context.Context, id string) error {
	if _, ok := s.songs[id]; !ok {
		return ErrNotFound
	}
	delete(s.songs, id)
	return nil
}

func (s *songRepositoryStub) ListSongs(ctx context.Context, bandID string) ([]Song, error) {
	var out []Song
	for _, song := range s.songs {
		if song.BandID == bandID {
			out = append(out, song)
		}
	}
	return out, nil
}

func songFixture(now time.Time) (*SongService, *songRepositoryStub) {
	bands := newBandRepositoryStub()
	bands.bands["b1"] = Band{ID: "b1", Name: "The Offbeats", Timezone: "UTC"}
	bands.members["m1"] = BandMember{ID: "m1", BandID: "b1", UserID: "member", Role: RoleMember, JoinedAt: now.Add(-time.Hour)}

	repo := newSongRepositoryStub()
	svc := NewSongService(repo, bands, sequentialIDs("song"), func() time.Time { return now })
	return svc, repo
}

func TestSongService_CreateSong(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	t.Run("any active member may add a song", func(t *testing.T) {
		t.Parallel()

		svc, repo := songFixture(now)
		song, err := svc.CreateSong(context.Background(), CreateSongParams{
			Principal: Principal{UserID: "member"},
			BandID:    "b1",
			Input:     SongInput{Title: " Smoke on the Water ", Artist: "Deep Purple", DurationSeconds: 340, BPM: 112},
		})
		if err != nil {
			t.Fatalf("CreateSong failed: %v", err)
		}
		if song.Title != "Smoke on the Water" {
			t.Fatalf("title not trimmed: %q", song.Title)
		}
		if _, ok := repo.songs[song.ID]; !ok {
			t.Fatalf("song not persisted")
		}
	})

	t.Run("non-members are rejected", func(t *testing.T) {
		t.Parallel()

		svc, _ := songFixture(now)
		_, err := svc.CreateSong(context.Background(), CreateSongParams{
			Principal: Principal{UserID: "stranger"},
			BandID:    "b1",
			Input:     SongInput{Title: "Anything"},
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		t.Parallel()

		svc, _ := songFixture(now)
		_, err := svc.CreateSong(context.Background(), CreateSongParams{
			Principal: Principal{UserID: "member"},
			BandID:    "b1",
			Input:     SongInput{Artist: "Unknown"},
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestSongService_DeleteSong(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

	svc, repo := songFixture(now)
	repo.songs["s1"] = Song{ID: "s1", BandID: "b1", Title: "Opener"}

	if err := svc.DeleteSong(context.Background(), Principal{UserID: "member"}, "s1"); err != nil {
		t.Fatalf("DeleteSong failed: %v", err)
	}
	if err := svc.DeleteSong(context.Background(), Principal{UserID: "member"}, "s1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
