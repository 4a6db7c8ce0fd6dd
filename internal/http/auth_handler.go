package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

const sessionCookieName = "session_token"

type authService interface {
	Authenticate(ctx context.Context, params application.AuthenticateParams) (application.AuthenticateResult, error)
	RevokeSession(ctx context.Context, token string) error
}

// AuthHandler serves session sign-in and sign-out.
type AuthHandler struct {
	service   authService
	responder responder
	logger    *slog.Logger
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(service authService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		service:   service,
		responder: newResponder(logger),
		logger:    logger,
	}
}

type createSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

// CreateSession handles POST /sessions.
func (h *AuthHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	result, err := h.service.Authenticate(ctx, application.AuthenticateParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	setSessionCookie(w, result.Session)
	w.Header().Set("X-Session-Token", result.Session.Token)

	h.responder.writeJSON(ctx, w, http.StatusCreated, sessionResponse{
		Token:     result.Session.Token,
		ExpiresAt: result.Session.ExpiresAt,
		User:      toUserResponse(result.User),
	})
}

// DeleteCurrentSession handles DELETE /sessions/current.
func (h *AuthHandler) DeleteCurrentSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := extractTokenFromRequest(r)
	if token == "" {
		h.responder.writeError(ctx, w, http.StatusUnauthorized, errMissingSessionToken)
		return
	}

	if err := h.service.RevokeSession(ctx, token); err != nil {
		h.responder.handleServiceError(ctx, w, err)
		return
	}

	clearSessionCookie(w)
	h.responder.writeJSON(ctx, w, http.StatusNoContent, nil)
}

func setSessionCookie(w http.ResponseWriter, session application.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
