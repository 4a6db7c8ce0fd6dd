package http

import (
	"context"

	"github.com/example/rehearsal-scheduler/internal/application"
)

type contextKey string

const (
	principalContextKey      contextKey = "principal"
	bandIDContextKey         contextKey = "bandID"
	userIDContextKey         contextKey = "userID"
	songIDContextKey         contextKey = "songID"
	setlistIDContextKey      contextKey = "setlistID"
	rehearsalIDContextKey    contextKey = "rehearsalID"
	windowIDContextKey       contextKey = "windowID"
	notificationIDContextKey contextKey = "notificationID"
	memberIDContextKey       contextKey = "memberID"
)

// ContextWithPrincipal stores the authenticated principal resolved by the
// session middleware.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

func contextWithBandID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, bandIDContextKey, id)
}

func bandIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(bandIDContextKey).(string)
	return id, ok
}

func contextWithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDContextKey, id)
}

func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok
}

func contextWithSongID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, songIDContextKey, id)
}

func songIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(songIDContextKey).(string)
	return id, ok
}

func contextWithSetlistID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, setlistIDContextKey, id)
}

func setlistIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(setlistIDContextKey).(string)
	return id, ok
}

func contextWithRehearsalID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, rehearsalIDContextKey, id)
}

func rehearsalIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(rehearsalIDContextKey).(string)
	return id, ok
}

func contextWithWindowID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, windowIDContextKey, id)
}

func windowIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(windowIDContextKey).(string)
	return id, ok
}

func contextWithNotificationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, notificationIDContextKey, id)
}

func notificationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(notificationIDContextKey).(string)
	return id, ok
}

func contextWithMemberID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, memberIDContextKey, id)
}

func memberIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(memberIDContextKey).(string)
	return id, ok
}
