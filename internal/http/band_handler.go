package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
	"github.com/example/rehearsal-scheduler/internal/ical"
)

type bandService interface {
	CreateBand(ctx context.Context, params application.CreateBandParams) (application.Band, error)
	GetBand(ctx context.Context, principal application.Principal, bandID string) (application.Band, error)
	ListBands(ctx context.Context, principal application.Principal) ([]application.Band, error)
	UpdateBand(ctx context.Context, params application.UpdateBandParams) (application.Band, error)
	DeleteBand(ctx context.Context, principal application.Principal, bandID string) error
	AddMember(ctx context.Context, params application.AddMemberParams) (application.BandMember, error)
	RemoveMember(ctx context.Context, principal application.Principal, memberID string) error
	ListMembers(ctx context.Context, principal application.Principal, bandID string, asOf time.Time) ([]application.BandMember, error)
}

type bandCalendarSource interface {
	ListRehearsals(ctx context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error)
}

// BandHandler serves band management, roster changes, and the published
// calendar feed.
type BandHandler struct {
	service   bandService
	calendar  bandCalendarSource
	responder responder
	logger    *slog.Logger
	now       func() time.Time
}

// NewBandHandler constructs a BandHandler.
func NewBandHandler(service bandService, calendar bandCalendarSource, logger *slog.Logger) *BandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BandHandler{
		service:   service,
		calendar:  calendar,
		responder: newResponder(logger),
		logger:    logger,
		now:       time.Now,
	}
}

type bandRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Timezone    string  `json:"timezone"`
}

type bandResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Timezone    string    `json:"timezone"`
	CreatorID   string    `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type addMemberRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type memberResponse struct {
	ID       string     `json:"id"`
	BandID   string     `json:"band_id"`
	UserID   string     `json:"user_id"`
	Role     string     `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

func toBandResponse(band application.Band) bandResponse {
	return bandResponse{
		ID:          band.ID,
		Name:        band.Name,
		Description: band.Description,
		Timezone:    band.Timezone,
		CreatorID:   band.CreatorID,
		CreatedAt:   band.CreatedAt,
		UpdatedAt:   band.UpdatedAt,
	}
}

func toMemberResponse(member application.BandMember) memberResponse {
	return memberResponse{
		ID:       member.ID,
		BandID:   member.BandID,
		UserID:   member.UserID,
		Role:     member.Role,
		JoinedAt: member.JoinedAt,
		LeftAt:   member.LeftAt,
	}
}

func (r bandRequest) toInput() application.BandInput {
	return application.BandInput{
		Name:        r.Name,
		Description: r.Description,
		Timezone:    r.Timezone,
	}
}

// Create handles POST /bands.
func (h *BandHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req bandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	band, err := h.service.CreateBand(ctx, application.CreateBandParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toBandResponse(band))
}

// List handles GET /bands.
func (h *BandHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	bands, err := h.service.ListBands(ctx, principal)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	responses := make([]bandResponse, 0, len(bands))
	for _, band := range bands {
		responses = append(responses, toBandResponse(band))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, responses)
}

// Get handles GET /bands/{id}.
func (h *BandHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	band, err := h.service.GetBand(ctx, principal, bandID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toBandResponse(band))
}

// Update handles PUT /bands/{id}.
func (h *BandHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req bandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	band, err := h.service.UpdateBand(ctx, application.UpdateBandParams{
		Principal: principal,
		BandID:    bandID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toBandResponse(band))
}

// Delete handles DELETE /bands/{id}.
func (h *BandHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteBand(ctx, principal, bandID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

// AddMember handles POST /bands/{id}/members.
func (h *BandHandler) AddMember(w http.ResponseWriter, r *http.Request) {
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

	var req addMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	member, err := h.service.AddMember(ctx, application.AddMemberParams{
		Principal: principal,
		BandID:    bandID,
		UserID:    req.UserID,
		Role:      req.Role,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toMemberResponse(member))
}

// ListMembers handles GET /bands/{id}/members. The optional as_of query
// parameter reconstructs a historical roster.
func (h *BandHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	var asOf time.Time
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.responder.writeError(ctx, w, http.StatusBadRequest, err)
			return
		}
		asOf = parsed
	}

	members, err := h.service.ListMembers(ctx, principal, bandID, asOf)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	responses := make([]memberResponse, 0, len(members))
	for _, member := range members {
		responses = append(responses, toMemberResponse(member))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, responses)
}

// RemoveMember handles DELETE /bands/{id}/members/{memberID}.
func (h *BandHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	memberID, ok := memberIDFromContext(ctx)
	if !ok || memberID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidMemberID)
		return
	}

	if err := h.service.RemoveMember(ctx, principal, memberID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

// Calendar handles GET /bands/{id}/calendar.ics.
func (h *BandHandler) Calendar(w http.ResponseWriter, r *http.Request) {
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

	band, err := h.service.GetBand(ctx, principal, bandID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	now := h.now()
	rehearsals, err := h.calendar.ListRehearsals(ctx, application.ListRehearsalsParams{
		Principal: principal,
		BandID:    bandID,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	feed := ical.Feed(band, rehearsals, now)
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		handlerLogger(ctx, h.logger).ErrorContext(ctx, "failed to write calendar feed", "error", err)
	}
}
