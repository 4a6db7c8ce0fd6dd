package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

type notificationService interface {
	ListNotifications(ctx context.Context, principal application.Principal) ([]application.Notification, error)
	MarkRead(ctx context.Context, principal application.Principal, notificationID string) (application.Notification, error)
}

// NotificationHandler serves the caller's notification inbox.
type NotificationHandler struct {
	service   notificationService
	responder responder
	logger    *slog.Logger
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(service notificationService, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type notificationResponse struct {
	ID          string     `json:"id"`
	RehearsalID *string    `json:"rehearsal_id,omitempty"`
	Kind        string     `json:"kind"`
	Message     string     `json:"message"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toNotificationResponse(notification application.Notification) notificationResponse {
	return notificationResponse{
		ID:          notification.ID,
		RehearsalID: notification.RehearsalID,
		Kind:        notification.Kind,
		Message:     notification.Message,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}
}

// List handles GET /notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	notifications, err := h.service.ListNotifications(ctx, principal)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	responses := make([]notificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, toNotificationResponse(notification))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, responses)
}

// MarkRead handles POST /notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	notificationID, ok := notificationIDFromContext(ctx)
	if !ok || notificationID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errors.New("notification id is missing or invalid"))
		return
	}

	notification, err := h.service.MarkRead(ctx, principal, notificationID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toNotificationResponse(notification))
}
