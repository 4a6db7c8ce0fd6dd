package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

type availabilityService interface {
	CreateWindow(ctx context.Context, params application.CreateWindowParams) (application.AvailabilityWindow, error)
	ListWindows(ctx context.Context, principal application.Principal, userID string) ([]application.AvailabilityWindow, error)
	UpdateWindow(ctx context.Context, params application.UpdateWindowParams) (application.AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, principal application.Principal, windowID string) error
}

// AvailabilityHandler serves recurring weekly availability windows.
type AvailabilityHandler struct {
	service   availabilityService
	responder responder
	logger    *slog.Logger
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type windowRequest struct {
	UserID    string `json:"user_id"`
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type windowResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Weekday   int       `json:"weekday"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Available bool      `json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toWindowResponse(window application.AvailabilityWindow) windowResponse {
	return windowResponse{
		ID:        window.ID,
		UserID:    window.UserID,
		Weekday:   window.Weekday,
		StartTime: window.StartTime,
		EndTime:   window.EndTime,
		Available: window.Available,
		CreatedAt: window.CreatedAt,
		UpdatedAt: window.UpdatedAt,
	}
}

func (r windowRequest) toInput() application.WindowInput {
	return application.WindowInput{
		Weekday:   r.Weekday,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Available: r.Available,
	}
}

// Create handles POST /availability. Without a user_id in the body the
// window is declared for the caller.
func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = principal.UserID
	}

	window, err := h.service.CreateWindow(ctx, application.CreateWindowParams{
		Principal: principal,
		UserID:    userID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toWindowResponse(window))
}

// List handles GET /availability. The optional user_id query parameter
// reads another member's declared windows.
func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = principal.UserID
	}

	windows, err := h.service.ListWindows(ctx, principal, userID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	responses := make([]windowResponse, 0, len(windows))
	for _, window := range windows {
		responses = append(responses, toWindowResponse(window))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, responses)
}

// Update handles PUT /availability/{id}.
func (h *AvailabilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	windowID, ok := windowIDFromContext(ctx)
	if !ok || windowID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidWindowID)
		return
	}

	var req windowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	window, err := h.service.UpdateWindow(ctx, application.UpdateWindowParams{
		Principal: principal,
		WindowID:  windowID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toWindowResponse(window))
}

// Delete handles DELETE /availability/{id}.
func (h *AvailabilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	windowID, ok := windowIDFromContext(ctx)
	if !ok || windowID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidWindowID)
		return
	}

	if err := h.service.DeleteWindow(ctx, principal, windowID); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}
