package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

type userService interface {
	RegisterUser(ctx context.Context, params application.RegisterUserParams) (application.User, error)
	GetUser(ctx context.Context, principal application.Principal, userID string) (application.User, error)
	UpdateUser(ctx context.Context, params application.UpdateUserParams) (application.User, error)
}

// UserHandler serves account registration and profile management.
type UserHandler struct {
	service   userService
	responder responder
	logger    *slog.Logger
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(service userService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type userRequest struct {
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	PhoneNumber *string `json:"phone_number"`
	Password    string  `json:"password"`
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(user application.User) userResponse {
	return userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhoneNumber: user.PhoneNumber,
		IsAdmin:     user.IsAdmin,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func (r userRequest) toInput() application.UserInput {
	return application.UserInput{
		Email:       r.Email,
		DisplayName: r.DisplayName,
		PhoneNumber: r.PhoneNumber,
		Password:    r.Password,
	}
}

// Register handles POST /users.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.service.RegisterUser(ctx, application.RegisterUserParams{Input: req.toInput()})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusCreated, toUserResponse(user))
}

// Get handles GET /users/{id}. The literal id "me" resolves to the caller.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	userID, ok := userIDFromContext(ctx)
	if !ok || userID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidUserID)
		return
	}
	if userID == "me" {
		userID = principal.UserID
	}

	user, err := h.service.GetUser(ctx, principal, userID)
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toUserResponse(user))
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	userID, ok := userIDFromContext(ctx)
	if !ok || userID == "" {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errInvalidUserID)
		return
	}
	if userID == "me" {
		userID = principal.UserID
	}

	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	user, err := h.service.UpdateUser(ctx, application.UpdateUserParams{
		Principal: principal,
		UserID:    userID,
		Input:     req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	h.responder.writeJSON(ctx, w, http.StatusOK, toUserResponse(user))
}
