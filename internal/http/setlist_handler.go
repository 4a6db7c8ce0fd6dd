package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

type setlistService interface {
	CreateSetlist(ctx context.Context, params application.CreateSetlistParams) (application.Setlist, error)
	GetSetlist(ctx context.Context, principal application.Principal, setlistID string) (application.Setlist, error)
	ListSetlists(ctx context.Context, principal application.Principal, bandID string) ([]application.Setlist, error)
	UpdateSetlist(ctx context.Context, params application.UpdateSetlistParams) (application.Setlist, error)
	DeleteSetlist(ctx context.Context, principal application.Principal, setlistID string) error
}

// SetlistHandler serves setlist management.
type SetlistHandler struct {
	service   setlistService
	responder responder
	logger    *slog.Logger
}

// NewSetlistHandler constructs a SetlistHandler.
func NewSetlistHandler(service setlistService, logger *slog.Logger) *SetlistHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetlistHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type setlistItemRequest struct {
	SongID string  `json:"song_id"`
	Notes  *string `json:"notes"`
}

type setlistRequest struct {
	Name  string               `json:"name"`
	Items []setlistItemRequest `json:"items"`
}

type setlistItemResponse struct {
	ID       string  `json:"id"`
	SongID   string  `json:"song_id"`
	Position int     `json:"position"`
	Notes    *string `json:"notes,omitempty"`
}

type setlistResponse struct {
	ID        string                `json:"id"`
	BandID    string                `json:"band_id"`
	CreatorID string                `json:"creator_id"`
	Name      string                `json:"name"`
	Items     []setlistItemResponse `json:"items"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

func toSetlistResponse(setlist application.Setlist) setlistResponse {
	items := make([]setlistItemResponse, 0, len(setlist.Items))
	for _, item := range setlist.Items {
		items = append(items, setlistItemResponse{
			ID:       item.ID,
			SongID:   item.SongID,
			Position: item.Position,
			Notes:    item.Notes,
		})
	}
	return setlistResponse{
		ID:        setlist.ID,
		BandID:    setlist.BandID,
		CreatorID: setlist.CreatorID,
		Name:      setlist.Name,
		Items:     items,
		CreatedAt: setlist.CreatedAt,
		UpdatedAt: setlist.UpdatedAt,
	}
}

func (r setlistRequest) toInput() application.SetlistInput {
	items := make([]application.SetlistItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, application.SetlistItemInput{
			SongID: item.SongID,
			Notes:  item.Notes,
		})
	}
	return application.SetlistInput{Name: r.Name, Items: items}
}

// Create handles POST /bands/{id}/setlists.
func (h *SetlistHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	bandID, ok := bandIDFromContext(ctx)
	if !ok || bandID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidBandID)
		return
	}

	var req setlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	setlist, err := h.service.CreateSetlist(ctx, application.CreateSetlistParams{
		Principal: principal,
		BandID:    bandID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toSetlistResponse(setlist))
}

// List handles GET /bands/{id}/setlists.
func (h *SetlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	bandID, ok := bandIDFromContext(ctx)
	if !ok || bandID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidBandID)
		return
	}

	setlists, err := h.service.ListSetlists(ctx, principal, bandID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	responses := make([]setlistResponse, 0, len(setlists))
	for _, setlist := range setlists {
		responses = append(responses, toSetlistResponse(setlist))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, responses)
}

// Get handles GET /setlists/{id}.
func (h *SetlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	setlistID, ok := setlistIDFromContext(ctx)
	if !ok || setlistID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSetlistID)
		return
	}

	setlist, err := h.service.GetSetlist(ctx, principal, setlistID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toSetlistResponse(setlist))
}

// Update handles PUT /setlists/{id}.
func (h *SetlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	setlistID, ok := setlistIDFromContext(ctx)
	if !ok || setlistID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSetlistID)
		return
	}

	var req setlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	setlist, err := h.service.UpdateSetlist(ctx, application.UpdateSetlistParams{
		Principal: principal,
		SetlistID: setlistID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toSetlistResponse(setlist))
}

// Delete handles DELETE /setlists/{id}.
func (h *SetlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	setlistID, ok := setlistIDFromContext(ctx)
	if !ok || setlistID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSetlistID)
		return
	}

	if err := h.service.DeleteSetlist(ctx, principal, setlistID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
