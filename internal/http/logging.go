package http

import (
	"context"
	"log/slog"

	"github.com/example/rehearsal-scheduler/internal/logging"
)

// ContextWithLogger stores the logger used by handlers and middleware for
// the lifetime of a request.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext returns the request-scoped logger, or nil when none
// has been attached.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}

func handlerLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger := logging.FromContext(ctx); logger != nil {
		return logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
