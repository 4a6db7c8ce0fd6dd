package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/example/rehearsal-scheduler/internal/application"
)

// Middleware wraps a handler with additional behaviour.
type Middleware func(http.Handler) http.Handler

// SessionValidator resolves a session token to the account it belongs to.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (application.User, error)
}

var requestCounter atomic.Uint64

// RequestLogger attaches a request-scoped logger to the context and emits
// one line per completed request.
func RequestLogger(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := requestCounter.Add(1)
			requestLogger := logger.With(
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			ctx := ContextWithLogger(r.Context(), requestLogger)
			next.ServeHTTP(recorder, r.WithContext(ctx))

			requestLogger.InfoContext(ctx, "request completed",
				"status", recorder.status,
				"duration_ms", time.Since(started).Milliseconds(),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequireSession rejects requests that do not carry a valid session token
// and stores the resolved principal in the request context.
func RequireSession(validator SessionValidator, logger *slog.Logger) Middleware {
	resp := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := extractTokenFromRequest(r)
			if token == "" {
				resp.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{
					ErrorCode: "AUTH_INVALID_SESSION",
					Message:   errMissingSessionToken.Error(),
				})
				return
			}

			if validator == nil {
				resp.writeError(ctx, w, http.StatusInternalServerError, nil)
				return
			}

			user, err := validator.ValidateSession(ctx, token)
			if err != nil {
				resp.handleServiceError(ctx, w, err)
				return
			}

			principal := application.Principal{UserID: user.ID, IsAdmin: user.IsAdmin}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, principal)))
		})
	}
}

// extractTokenFromRequest looks for a bearer token first and falls back to
// the session cookie set by the sign-in endpoint.
func extractTokenFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}

	authorization := strings.TrimSpace(r.Header.Get("Authorization"))
	if authorization != "" {
		parts := strings.SplitN(authorization, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func applyMiddleware(handler http.Handler, middleware []Middleware) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		if middleware[i] == nil {
			continue
		}
		handler = middleware[i](handler)
	}
	return handler
}
