package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SongRepository captures the persistence operations needed by the song service.
type SongRepository interface {
	CreateSong(ctx context.Context, song Song) (Song, error)
	GetSong(ctx context.Context, id string) (Song, error)
	UpdateSong(ctx context.Context, song Song) (Song, error)
	DeleteSong(ctx context.Context, id string) error
	ListSongs(ctx context.Context, bandID string) ([]Song, error)
}

// BandMembershipChecker answers whether a user currently belongs to a band.
type BandMembershipChecker interface {
	ListMembersAsOf(ctx context.Context, bandID string, asOf time.Time) ([]BandMember, error)
}

// SongService manages a band's shared repertoire.
type SongService struct {
	songs       SongRepository
	memberships BandMembershipChecker
	idGenerator func() string
	now         func() time.Time
}

// NewSongService wires dependencies for the song service.
func NewSongService(songs SongRepository, memberships BandMembershipChecker, idGenerator func() string, now func() time.Time) *SongService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SongService{songs: songs, memberships: memberships, idGenerator: idGenerator, now: now}
}

// CreateSong adds a song to a band's repertoire. Any active member may do so.
func (s *SongService) CreateSong(ctx context.Context, params CreateSongParams) (Song, error) {
	if s == nil {
		return Song{}, fmt.Errorf("SongService is nil")
	}
	if s.songs == nil {
		return Song{}, fmt.Errorf("song repository not configured")
	}

	if err := s.requireMembership(ctx, params.Principal, params.BandID); err != nil {
		return Song{}, err
	}

	normalized := normalizeSongInput(params.Input)
	vErr := validateSongInput(normalized)
	if vErr.HasErrors() {
		return Song{}, vErr
	}

	now := s.now()
	song := Song{
		ID:              s.idGenerator(),
		BandID:          params.BandID,
		CreatorID:       params.Principal.UserID,
		Title:           normalized.Title,
		Artist:          normalized.Artist,
		DurationSeconds: normalized.DurationSeconds,
		Key:             normalized.Key,
		BPM:             normalized.BPM,
		Notes:           normalized.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	return s.songs.CreateSong(ctx, song)
}

// GetSong returns one song for an active member of its band.
func (s *SongService) GetSong(ctx context.Context, principal Principal, songID string) (Song, error) {
	if s == nil {
		return Song{}, fmt.Errorf("SongService is nil")
	}
	if s.songs == nil {
		return Song{}, fmt.Errorf("song repository not configured")
	}

	song, err := s.songs.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Song{}, ErrNotFound
		}
		return Song{}, err
	}

	if err := s.requireMembership(ctx, principal, song.BandID); err != nil {
		return Song{}, err
	}
	return song, nil
}

// ListSongs returns a band's repertoire ordered by title.
func (s *SongService) ListSongs(ctx context.Context, principal Principal, bandID string) ([]Song, error) {
	if s == nil {
		return nil, fmt.Errorf("SongService is nil")
	}
	if s.songs == nil {
		return nil, fmt.Errorf("song repository not configured")
	}

	if err := s.requireMembership(ctx, principal, bandID); err != nil {
		return nil, err
	}
	return s.songs.ListSongs(ctx, bandID)
}

// UpdateSong updates a song's attributes for an active member of its band.
func (s *SongService) UpdateSong(ctx context.Context, params UpdateSongParams) (Song, error) {
	if s == nil {
		return Song{}, fmt.Errorf("SongService is nil")
	}
	if s.songs == nil {
		return Song{}, fmt.Errorf("song repository not configured")
	}

	existing, err := s.songs.GetSong(ctx, params.SongID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Song{}, ErrNotFound
		}
		return Song{}, err
	}

	if err := s.requireMembership(ctx, params.Principal, existing.BandID); err != nil {
		return Song{}, err
	}

	normalized := normalizeSongInput(params.Input)
	vErr := validateSongInput(normalized)
	if vErr.HasErrors() {
		return Song{}, vErr
	}

	updated := existing
	updated.Title = normalized.Title
	updated.Artist = normalized.Artist
	updated.DurationSeconds = normalized.DurationSeconds
	updated.Key = normalized.Key
	updated.BPM = normalized.BPM
	updated.Notes = normalized.Notes
	updated.UpdatedAt = s.now()

	persisted, err := s.songs.UpdateSong(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Song{}, ErrNotFound
		}
		return Song{}, err
	}
	return persisted, nil
}

// DeleteSong removes a song from the repertoire.
func (s *SongService) DeleteSong(ctx context.Context, principal Principal, songID string) error {
	if s == nil {
		return fmt.Errorf("SongService is nil")
	}
	if s.songs == nil {
		return fmt.Errorf("song repository not configured")
	}

	song, err := s.songs.GetSong(ctx, songID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.requireMembership(ctx, principal, song.BandID); err != nil {
		return err
	}

	if err := s.songs.DeleteSong(ctx, songID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *SongService) requireMembership(ctx context.Context, principal Principal, bandID string) error {
	return requireActiveMembership(ctx, s.memberships, principal, bandID, s.now())
}

// requireActiveMembership authorizes a principal against a band's current
// roster. Administrators pass unconditionally.
func requireActiveMembership(ctx context.Context, memberships BandMembershipChecker, principal Principal, bandID string, asOf time.Time) error {
	if principal.IsAdmin {
		return nil
	}
	if principal.UserID == "" || memberships == nil {
		return ErrUnauthorized
	}
	members, err := memberships.ListMembersAsOf(ctx, bandID, asOf)
	if err != nil {
		return err
	}
	for _, member := range members {
		if member.UserID == principal.UserID {
			return nil
		}
	}
	return ErrUnauthorized
}

func normalizeSongInput(input SongInput) SongInput {
	out := SongInput{
		Title:           strings.TrimSpace(input.Title),
		Artist:          strings.TrimSpace(input.Artist),
		DurationSeconds: input.DurationSeconds,
		BPM:             input.BPM,
	}
	if input.Key != nil {
		if trimmed := strings.TrimSpace(*input.Key); trimmed != "" {
			out.Key = &trimmed
		}
	}
	if input.Notes != nil {
		if trimmed := strings.TrimSpace(*input.Notes); trimmed != "" {
			out.Notes = &trimmed
		}
	}
	return out
}

func validateSongInput(input SongInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Title == "" {
		vErr.add("title", "title is required")
	}
	if input.DurationSeconds < 0 {
		vErr.add("duration_seconds", "duration must not be negative")
	}
	if input.BPM < 0 {
		vErr.add("bpm", "bpm must not be negative")
	}

	return vErr
}
