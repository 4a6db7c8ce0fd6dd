package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

type songService interface {
	CreateSong(ctx context.Context, params application.CreateSongParams) (application.Song, error)
	GetSong(ctx context.Context, principal application.Principal, songID string) (application.Song, error)
	ListSongs(ctx context.Context, principal application.Principal, bandID string) ([]application.Song, error)
	UpdateSong(ctx context.Context, params application.UpdateSongParams) (application.Song, error)
	DeleteSong(ctx context.Context, principal application.Principal, songID string) error
}

// SongHandler serves repertoire management.
type SongHandler struct {
	service   songService
	responder responder
	logger    *slog.Logger
}

// NewSongHandler constructs a SongHandler.
func NewSongHandler(service songService, logger *slog.Logger) *SongHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SongHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type songRequest struct {
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	DurationSeconds int     `json:"duration_seconds"`
	Key             *string `json:"key"`
	BPM             int     `json:"bpm"`
	Notes           *string `json:"notes"`
}

type songResponse struct {
	ID              string    `json:"id"`
	BandID          string    `json:"band_id"`
	CreatorID       string    `json:"creator_id"`
	Title           string    `json:"title"`
	Artist          string    `json:"artist"`
	DurationSeconds int       `json:"duration_seconds"`
	Key             *string   `json:"key,omitempty"`
	BPM             int       `json:"bpm,omitempty"`
	Notes           *string   `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toSongResponse(song application.Song) songResponse {
	return songResponse{
		ID:              song.ID,
		BandID:          song.BandID,
		CreatorID:       song.CreatorID,
		Title:           song.Title,
		Artist:          song.Artist,
		DurationSeconds: song.DurationSeconds,
		Key:             song.Key,
		BPM:             song.BPM,
		Notes:           song.Notes,
		CreatedAt:       song.CreatedAt,
		UpdatedAt:       song.UpdatedAt,
	}
}

func (r songRequest) toInput() application.SongInput {
	return application.SongInput{
		Title:           r.Title,
		Artist:          r.Artist,
		DurationSeconds: r.DurationSeconds,
		Key:             r.Key,
		BPM:             r.BPM,
		Notes:           r.Notes,
	}
}

// Create handles POST /bands/{id}/songs.
func (h *SongHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	song, err := h.service.CreateSong(ctx, application.CreateSongParams{
		Principal: principal,
		BandID:    bandID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toSongResponse(song))
}

// List handles GET /bands/{id}/songs.
func (h *SongHandler) List(w http.ResponseWriter, r *http.Request) {
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

	songs, err := h.service.ListSongs(ctx, principal, bandID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	responses := make([]songResponse, 0, len(songs))
	for _, song := range songs {
		responses = append(responses, toSongResponse(song))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, responses)
}

// Get handles GET /songs/{id}.
func (h *SongHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	songID, ok := songIDFromContext(ctx)
	if !ok || songID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSongID)
		return
	}

	song, err := h.service.GetSong(ctx, principal, songID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toSongResponse(song))
}

// Update handles PUT /songs/{id}.
func (h *SongHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	songID, ok := songIDFromContext(ctx)
	if !ok || songID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSongID)
		return
	}

	var req songRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	song, err := h.service.UpdateSong(ctx, application.UpdateSongParams{
		Principal: principal,
		SongID:    songID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toSongResponse(song))
}

// Delete handles DELETE /songs/{id}.
func (h *SongHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	songID, ok := songIDFromContext(ctx)
	if !ok || songID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidSongID)
		return
	}

	if err := h.service.DeleteSong(ctx, principal, songID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
