package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SetlistRepository captures the persistence operations needed by the setlist service.
type SetlistRepository interface {
	CreateSetlist(ctx context.Context, setlist Setlist) (Setlist, error)
	GetSetlist(ctx context.Context, id string) (Setlist, error)
	UpdateSetlist(ctx context.Context, setlist Setlist) (Setlist, error)
	DeleteSetlist(ctx context.Context, id string) error
	ListSetlists(ctx context.Context, bandID string) ([]Setlist, error)
}

// SetlistSongCatalog resolves songs referenced by setlist entries.
type SetlistSongCatalog interface {
	GetSong(ctx context.Context, id string) (Song, error)
}

// SetlistService manages ordered song selections for rehearsals.
type SetlistService struct {
	setlists    SetlistRepository
	songs       SetlistSongCatalog
	memberships BandMembershipChecker
	idGenerator func() string
	now         func() time.Time
}

// NewSetlistService wires dependencies for the setlist service.
func NewSetlistService(setlists SetlistRepository, songs SetlistSongCatalog, memberships BandMembershipChecker, idGenerator func() string, now func() time.Time) *SetlistService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &SetlistService{setlists: setlists, songs: songs, memberships: memberships, idGenerator: idGenerator, now: now}
}

// CreateSetlist validates the song ordering and persists a new setlist.
func (s *SetlistService) CreateSetlist(ctx context.Context, params CreateSetlistParams) (Setlist, error) {
	if s == nil {
		return Setlist{}, fmt.Errorf("SetlistService is nil")
	}
	if s.setlists == nil {
		return Setlist{}, fmt.Errorf("setlist repository not configured")
	}

	if err := requireActiveMembership(ctx, s.memberships, params.Principal, params.BandID, s.now()); err != nil {
		return Setlist{}, err
	}

	normalized := normalizeSetlistInput(params.Input)
	vErr := s.validateSetlistInput(ctx, params.BandID, normalized)
	if vErr.HasErrors() {
		return Setlist{}, vErr
	}

	now := s.now()
	setlist := Setlist{
		ID:        s.idGenerator(),
		BandID:    params.BandID,
		CreatorID: params.Principal.UserID,
		Name:      normalized.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	setlist.Items = s.buildItems(setlist.ID, normalized.Items)

	return s.setlists.CreateSetlist(ctx, setlist)
}

// GetSetlist returns a setlist with its ordered items.
func (s *SetlistService) GetSetlist(ctx context.Context, principal Principal, setlistID string) (Setlist, error) {
	if s == nil {
		return Setlist{}, fmt.Errorf("SetlistService is nil")
	}
	if s.setlists == nil {
		return Setlist{}, fmt.Errorf("setlist repository not configured")
	}

	setlist, err := s.setlists.GetSetlist(ctx, setlistID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Setlist{}, ErrNotFound
		}
		return Setlist{}, err
	}

	if err := requireActiveMembership(ctx, s.memberships, principal, setlist.BandID, s.now()); err != nil {
		return Setlist{}, err
	}
	return setlist, nil
}

// ListSetlists returns a band's setlists.
func (s *SetlistService) ListSetlists(ctx context.Context, principal Principal, bandID string) ([]Setlist, error) {
	if s == nil {
		return nil, fmt.Errorf("SetlistService is nil")
	}
	if s.setlists == nil {
		return nil, fmt.Errorf("setlist repository not configured")
	}

	if err := requireActiveMembership(ctx, s.memberships, principal, bandID, s.now()); err != nil {
		return nil, err
	}
	return s.setlists.ListSetlists(ctx, bandID)
}

// UpdateSetlist replaces a setlist's name and full item ordering.
func (s *SetlistService) UpdateSetlist(ctx context.Context, params UpdateSetlistParams) (Setlist, error) {
	if s == nil {
		return Setlist{}, fmt.Errorf("SetlistService is nil")
	}
	if s.setlists == nil {
		return Setlist{}, fmt.Errorf("setlist repository not configured")
	}

	existing, err := s.setlists.GetSetlist(ctx, params.SetlistID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Setlist{}, ErrNotFound
		}
		return Setlist{}, err
	}

	if err := requireActiveMembership(ctx, s.memberships, params.Principal, existing.BandID, s.now()); err != nil {
		return Setlist{}, err
	}

	normalized := normalizeSetlistInput(params.Input)
	vErr := s.validateSetlistInput(ctx, existing.BandID, normalized)
	if vErr.HasErrors() {
		return Setlist{}, vErr
	}

	updated := existing
	updated.Name = normalized.Name
	updated.Items = s.buildItems(existing.ID, normalized.Items)
	updated.UpdatedAt = s.now()

	persisted, err := s.setlists.UpdateSetlist(ctx, updated)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Setlist{}, ErrNotFound
		}
		return Setlist{}, err
	}
	return persisted, nil
}

// DeleteSetlist removes a setlist. Rehearsals referencing it keep running
// with no setlist attached.
func (s *SetlistService) DeleteSetlist(ctx context.Context, principal Principal, setlistID string) error {
	if s == nil {
		return fmt.Errorf("SetlistService is nil")
	}
	if s.setlists == nil {
		return fmt.Errorf("setlist repository not configured")
	}

	setlist, err := s.setlists.GetSetlist(ctx, setlistID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := requireActiveMembership(ctx, s.memberships, principal, setlist.BandID, s.now()); err != nil {
		return err
	}

	if err := s.setlists.DeleteSetlist(ctx, setlistID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// buildItems assigns identifiers and contiguous positions to setlist entries.
func (s *SetlistService) buildItems(setlistID string, inputs []SetlistItemInput) []SetlistItem {
	items := make([]SetlistItem, 0, len(inputs))
	for position, input := range inputs {
		items = append(items, SetlistItem{
			ID:        s.idGenerator(),
			SetlistID: setlistID,
			SongID:    input.SongID,
			Position:  position + 1,
			Notes:     input.Notes,
		})
	}
	return items
}

func (s *SetlistService) validateSetlistInput(ctx context.Context, bandID string, input SetlistInput) *ValidationError {
	vErr := &ValidationError{}

	if input.Name == "" {
		vErr.add("name", "name is required")
	}

	seen := make(map[string]struct{}, len(input.Items))
	for i, item := range input.Items {
		field := fmt.Sprintf("items[%d].song_id", i)
		if item.SongID == "" {
			vErr.add(field, "song id is required")
			continue
		}
		if _, dup := seen[item.SongID]; dup {
			vErr.add(field, "song appears more than once")
			continue
		}
		seen[item.SongID] = struct{}{}

		if s.songs == nil {
			continue
		}
		song, err := s.songs.GetSong(ctx, item.SongID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				vErr.add(field, "song does not exist")
			}
			continue
		}
		if song.BandID != bandID {
			vErr.add(field, "song belongs to another band")
		}
	}

	return vErr
}

func normalizeSetlistInput(input SetlistInput) SetlistInput {
	out := SetlistInput{
		Name:  strings.TrimSpace(input.Name),
		Items: make([]SetlistItemInput, 0, len(input.Items)),
	}
	for _, item := range input.Items {
		normalized := SetlistItemInput{SongID: strings.TrimSpace(item.SongID)}
		if item.Notes != nil {
			if trimmed := strings.TrimSpace(*item.Notes); trimmed != "" {
				normalized.Notes = &trimmed
			}
		}
		out.Items = append(out.Items, normalized)
	}
	return out
}
