package persistence

import (
	"context"
	"time"
)

// UserRepository exposes CRUD operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	UpdateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, id string) error
}

// BandRepository stores bands and their effective-dated memberships.
type BandRepository interface {
	CreateBand(ctx context.Context, band Band) error
	UpdateBand(ctx context.Context, band Band) error
	GetBand(ctx context.Context, id string) (Band, error)
	ListBandsForUser(ctx context.Context, userID string, asOf time.Time) ([]Band, error)
	DeleteBand(ctx context.Context, id string) error

	AddMember(ctx context.Context, member BandMember) error
	GetMember(ctx context.Context, id string) (BandMember, error)
	// CloseMembership records the member's departure by setting left_at.
	// Rows are never deleted so historical rosters stay intact.
	CloseMembership(ctx context.Context, memberID string, leftAt time.Time) error
	// ListMembersAsOf returns the memberships active at the given instant,
	// ordered by joined_at then id.
	ListMembersAsOf(ctx context.Context, bandID string, asOf time.Time) ([]BandMember, error)
}

// SongRepository exposes CRUD operations for a band's repertoire.
type SongRepository interface {
	CreateSong(ctx context.Context, song Song) error
	UpdateSong(ctx context.Context, song Song) error
	GetSong(ctx context.Context, id string) (Song, error)
	ListSongs(ctx context.Context, bandID string) ([]Song, error)
	DeleteSong(ctx context.Context, id string) error
}

// SetlistRepository stores setlists together with their ordered items.
type SetlistRepository interface {
	CreateSetlist(ctx context.Context, setlist Setlist) error
	// UpdateSetlist replaces the setlist row and its items atomically.
	UpdateSetlist(ctx context.Context, setlist Setlist) error
	GetSetlist(ctx context.Context, id string) (Setlist, error)
	ListSetlists(ctx context.Context, bandID string) ([]Setlist, error)
	DeleteSetlist(ctx context.Context, id string) error
}

// RehearsalFilter narrows rehearsal queries.
type RehearsalFilter struct {
	BandID      string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// RehearsalRepository stores rehearsal proposals.
type RehearsalRepository interface {
	CreateRehearsal(ctx context.Context, rehearsal Rehearsal) error
	UpdateRehearsal(ctx context.Context, rehearsal Rehearsal) error
	GetRehearsal(ctx context.Context, id string) (Rehearsal, error)
	ListRehearsals(ctx context.Context, filter RehearsalFilter) ([]Rehearsal, error)
	DeleteRehearsal(ctx context.Context, id string) error
}

// AttendanceRepository stores per-member rehearsal responses.
type AttendanceRepository interface {
	// UpsertAttendance inserts or overwrites the single row keyed by
	// (rehearsal, member). Last writer wins.
	UpsertAttendance(ctx context.Context, attendance Attendance) (Attendance, error)
	GetAttendance(ctx context.Context, rehearsalID, memberID string) (Attendance, error)
	ListAttendance(ctx context.Context, rehearsalID string) ([]Attendance, error)
}

// AvailabilityRepository stores recurring weekly availability windows.
type AvailabilityRepository interface {
	CreateWindow(ctx context.Context, window AvailabilityWindow) error
	UpdateWindow(ctx context.Context, window AvailabilityWindow) error
	GetWindow(ctx context.Context, id string) (AvailabilityWindow, error)
	// ListWindowsForUser returns windows ordered by weekday then start time.
	ListWindowsForUser(ctx context.Context, userID string) ([]AvailabilityWindow, error)
	// ListWindowsForUsers batches the lookup for a roster in one query.
	ListWindowsForUsers(ctx context.Context, userIDs []string) (map[string][]AvailabilityWindow, error)
	DeleteWindow(ctx context.Context, id string) error
}

// SessionRepository stores authentication session state.
type SessionRepository interface {
	CreateSession(ctx context.Context, session Session) (Session, error)
	GetSession(ctx context.Context, token string) (Session, error)
	RevokeSession(ctx context.Context, token string, revokedAt time.Time) (Session, error)
	DeleteExpiredSessions(ctx context.Context, reference time.Time) error
}

// NotificationRepository stores queued user notifications.
type NotificationRepository interface {
	// CreateNotification inserts a notification. Reminder notifications are
	// deduplicated per (user, rehearsal, kind); duplicates return ErrDuplicate.
	CreateNotification(ctx context.Context, notification Notification) error
	ListNotificationsForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string, readAt time.Time) error
}
