package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

type rehearsalService interface {
	CreateRehearsal(ctx context.Context, params application.CreateRehearsalParams) (application.Rehearsal, error)
	GetRehearsal(ctx context.Context, principal application.Principal, rehearsalID string) (application.RehearsalDetail, error)
	ListRehearsals(ctx context.Context, params application.ListRehearsalsParams) ([]application.Rehearsal, error)
	UpdateRehearsal(ctx context.Context, params application.UpdateRehearsalParams) (application.Rehearsal, error)
	DeleteRehearsal(ctx context.Context, principal application.Principal, rehearsalID string) error
	RecordAttendance(ctx context.Context, params application.RecordAttendanceParams) (application.Attendance, error)
}

type rehearsalChangeNotifier interface {
	NotifyRehearsalChanged(ctx context.Context, actorID string, rehearsal application.Rehearsal, message string) error
}

// RehearsalHandler serves rehearsal scheduling, the roster overlay, and
// attendance responses.
type RehearsalHandler struct {
	service   rehearsalService
	notifier  rehearsalChangeNotifier
	responder responder
	logger    *slog.Logger
}

// NewRehearsalHandler constructs a RehearsalHandler. The notifier may be
// nil, in which case schedule changes are not broadcast.
func NewRehearsalHandler(service rehearsalService, notifier rehearsalChangeNotifier, logger *slog.Logger) *RehearsalHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RehearsalHandler{
		service:   service,
		notifier:  notifier,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type rehearsalRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	SetlistID   *string   `json:"setlist_id"`
}

type rehearsalResponse struct {
	ID          string    `json:"id"`
	BandID      string    `json:"band_id"`
	CreatorID   string    `json:"creator_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	SetlistID   *string   `json:"setlist_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type standingResponse struct {
	Member     memberResponse `json:"member"`
	Status     string         `json:"status"`
	Prediction string         `json:"prediction"`
}

type rehearsalDetailResponse struct {
	rehearsalResponse
	Roster []standingResponse `json:"roster"`
}

type attendanceRequest struct {
	UserID string `json:"user_id"`
	Status string `json:"status"`
}

type attendanceResponse struct {
	ID          string    `json:"id"`
	RehearsalID string    `json:"rehearsal_id"`
	UserID      string    `json:"user_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRehearsalResponse(rehearsal application.Rehearsal) rehearsalResponse {
	return rehearsalResponse{
		ID:          rehearsal.ID,
		BandID:      rehearsal.BandID,
		CreatorID:   rehearsal.CreatorID,
		Title:       rehearsal.Title,
		Description: rehearsal.Description,
		Location:    rehearsal.Location,
		Start:       rehearsal.Start,
		End:         rehearsal.End,
		SetlistID:   rehearsal.SetlistID,
		CreatedAt:   rehearsal.CreatedAt,
		UpdatedAt:   rehearsal.UpdatedAt,
	}
}

func toRehearsalDetailResponse(detail application.RehearsalDetail) rehearsalDetailResponse {
	roster := make([]standingResponse, 0, len(detail.Roster))
	for _, standing := range detail.Roster {
		roster = append(roster, standingResponse{
			Member:     toMemberResponse(standing.Member),
			Status:     standing.Status,
			Prediction: string(standing.Prediction),
		})
	}
	return rehearsalDetailResponse{
		rehearsalResponse: toRehearsalResponse(detail.Rehearsal),
		Roster:            roster,
	}
}

func (r rehearsalRequest) toInput() application.RehearsalInput {
	return application.RehearsalInput{
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Start:       r.Start,
		End:         r.End,
		SetlistID:   r.SetlistID,
	}
}

// Create handles POST /bands/{id}/rehearsals.
func (h *RehearsalHandler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req rehearsalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	rehearsal, err := h.service.CreateRehearsal(ctx, application.CreateRehearsalParams{
		Principal: principal,
		BandID:    bandID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toRehearsalResponse(rehearsal))
}

// List handles GET /bands/{id}/rehearsals. The optional starts_after and
// ends_before query parameters bound the range.
func (h *RehearsalHandler) List(w http.ResponseWriter, r *http.Request) {
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

	params := application.ListRehearsalsParams{Principal: principal, BandID: bandID}
	query := r.URL.Query()
	if raw := query.Get("starts_after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.responder.writeError(ctx, w, http.StatusBadRequest, err)
			return
		}
		params.StartsAfter = &parsed
	}
	if raw := query.Get("ends_before"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.responder.writeError(ctx, w, http.StatusBadRequest, err)
			return
		}
		params.EndsBefore = &parsed
	}

	rehearsals, err := h.service.ListRehearsals(ctx, params)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	responses := make([]rehearsalResponse, 0, len(rehearsals))
	for _, rehearsal := range rehearsals {
		responses = append(responses, toRehearsalResponse(rehearsal))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, responses)
}

// Get handles GET /rehearsals/{id}. The response includes the roster with
// each member's recorded response and availability prediction.
func (h *RehearsalHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	rehearsalID, ok := rehearsalIDFromContext(ctx)
	if !ok || rehearsalID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRehearsalID)
		return
	}

	detail, err := h.service.GetRehearsal(ctx, principal, rehearsalID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toRehearsalDetailResponse(detail))
}

// Update handles PUT /rehearsals/{id}.
func (h *RehearsalHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	rehearsalID, ok := rehearsalIDFromContext(ctx)
	if !ok || rehearsalID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRehearsalID)
		return
	}

	var req rehearsalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	rehearsal, err := h.service.UpdateRehearsal(ctx, application.UpdateRehearsalParams{
		Principal:   principal,
		RehearsalID: rehearsalID,
		Input:       req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	if h.notifier != nil {
		if err := h.notifier.NotifyRehearsalChanged(ctx, principal.UserID, rehearsal, "the rehearsal details changed, please review your response"); err != nil {
			handlerLogger(ctx, h.logger).WarnContext(ctx, "failed to notify members of a schedule change",
				"rehearsal_id", rehearsal.ID, "error", err)
		}
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toRehearsalResponse(rehearsal))
}

// Delete handles DELETE /rehearsals/{id}.
func (h *RehearsalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	rehearsalID, ok := rehearsalIDFromContext(ctx)
	if !ok || rehearsalID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRehearsalID)
		return
	}

	if err := h.service.DeleteRehearsal(ctx, principal, rehearsalID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

// ListAttendance handles GET /rehearsals/{id}/attendance. The response is
// the roster overlay of recorded responses and availability predictions.
func (h *RehearsalHandler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	rehearsalID, ok := rehearsalIDFromContext(ctx)
	if !ok || rehearsalID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRehearsalID)
		return
	}

	detail, err := h.service.GetRehearsal(ctx, principal, rehearsalID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	roster := make([]standingResponse, 0, len(detail.Roster))
	for _, standing := range detail.Roster {
		roster = append(roster, standingResponse{
			Member:     toMemberResponse(standing.Member),
			Status:     standing.Status,
			Prediction: string(standing.Prediction),
		})
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, roster)
}

// RecordAttendance handles PUT /rehearsals/{id}/attendance. Without a
// user_id in the body the response is recorded for the caller.
func (h *RehearsalHandler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	rehearsalID, ok := rehearsalIDFromContext(ctx)
	if !ok || rehearsalID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidRehearsalID)
		return
	}

	var req attendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	attendance, err := h.service.RecordAttendance(ctx, application.RecordAttendanceParams{
		Principal:   principal,
		RehearsalID: rehearsalID,
		UserID:      req.UserID,
		Status:      req.Status,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, attendanceResponse{
		ID:          attendance.ID,
		RehearsalID: attendance.RehearsalID,
		UserID:      attendance.UserID,
		Status:      attendance.Status,
		CreatedAt:   attendance.CreatedAt,
		UpdatedAt:   attendance.UpdatedAt,
	})
}
