package application

import (
	"time"

	"github.com/example/rehearsal-scheduler/internal/reconcile"
)

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	PhoneNumber *string
	Password    string
}

// User represents a musician account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	PhoneNumber *string
	IsAdmin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RegisterUserParams wraps the data required to register a new account.
type RegisterUserParams struct {
	Input UserInput
}

// UpdateUserParams wraps the data required to update an account profile.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}

// Member roles recognised within a band.
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// BandInput captures caller provided band fields.
type BandInput struct {
	Name        string
	Description *string
	Timezone    string
}

// Band represents a group of musicians that rehearse together.
type Band struct {
	ID          string
	Name        string
	Description *string
	Timezone    string
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BandMember records a user's membership span within a band.
type BandMember struct {
	ID       string
	BandID   string
	UserID   string
	Role     string
	JoinedAt time.Time
	LeftAt   *time.Time
}

// CreateBandParams wraps the data required to create a band.
type CreateBandParams struct {
	Principal Principal
	Input     BandInput
}

// UpdateBandParams wraps the data required to update a band.
type UpdateBandParams struct {
	Principal Principal
	BandID    string
	Input     BandInput
}

// AddMemberParams wraps the data required to add a user to a band.
type AddMemberParams struct {
	Principal Principal
	BandID    string
	UserID    string
	Role      string
}

// SongInput captures caller provided song fields.
type SongInput struct {
	Title           string
	Artist          string
	DurationSeconds int
	Key             *string
	BPM             int
	Notes           *string
}

// Song represents a tune in a band's repertoire.
type Song struct {
	ID              string
	BandID          string
	CreatorID       string
	Title           string
	Artist          string
	DurationSeconds int
	Key             *string
	BPM             int
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateSongParams wraps the data required to add a song to a band's repertoire.
type CreateSongParams struct {
	Principal Principal
	BandID    string
	Input     SongInput
}

// UpdateSongParams wraps the data required to update a song.
type UpdateSongParams struct {
	Principal Principal
	SongID    string
	Input     SongInput
}

// SetlistItemInput captures one ordered entry of a setlist.
type SetlistItemInput struct {
	SongID string
	Notes  *string
}

// SetlistInput captures caller provided setlist fields.
type SetlistInput struct {
	Name  string
	Items []SetlistItemInput
}

// SetlistItem represents a persisted ordered entry of a setlist.
type SetlistItem struct {
	ID        string
	SetlistID string
	SongID    string
	Position  int
	Notes     *string
}

// Setlist represents an ordered selection of songs.
type Setlist struct {
	ID        string
	BandID    string
	CreatorID string
	Name      string
	Items     []SetlistItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateSetlistParams wraps the data required to create a setlist.
type CreateSetlistParams struct {
	Principal Principal
	BandID    string
	Input     SetlistInput
}

// UpdateSetlistParams wraps the data required to replace a setlist's contents.
type UpdateSetlistParams struct {
	Principal Principal
	SetlistID string
	Input     SetlistInput
}

// RehearsalInput captures caller provided rehearsal fields.
type RehearsalInput struct {
	Title       string
	Description *string
	Location    *string
	Start       time.Time
	End         time.Time
	SetlistID   *string
}

// Rehearsal represents a scheduled practice session.
type Rehearsal struct {
	ID          string
	BandID      string
	CreatorID   string
	Title       string
	Description *string
	Location    *string
	Start       time.Time
	End         time.Time
	SetlistID   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateRehearsalParams wraps the data required to schedule a rehearsal.
type CreateRehearsalParams struct {
	Principal Principal
	BandID    string
	Input     RehearsalInput
}

// UpdateRehearsalParams wraps the data required to update a rehearsal.
type UpdateRehearsalParams struct {
	Principal   Principal
	RehearsalID string
	Input       RehearsalInput
}

// ListRehearsalsParams wraps the data required to list a band's rehearsals.
type ListRehearsalsParams struct {
	Principal   Principal
	BandID      string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// Attendance statuses recognised for a rehearsal response.
const (
	AttendanceConfirmed = "confirmed"
	AttendancePending   = "pending"
	AttendanceDeclined  = "declined"
)

// Attendance records a member's response for one rehearsal.
type Attendance struct {
	ID          string
	RehearsalID string
	MemberID    string
	UserID      string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecordAttendanceParams wraps the data required to record an attendance response.
type RecordAttendanceParams struct {
	Principal   Principal
	RehearsalID string
	UserID      string
	Status      string
}

// MemberStanding pairs a roster member with their recorded response and the
// availability prediction derived from their weekly windows.
type MemberStanding struct {
	Member     BandMember
	Status     string
	Prediction reconcile.Prediction
}

// RehearsalDetail combines a rehearsal with the roster view callers render.
type RehearsalDetail struct {
	Rehearsal Rehearsal
	Roster    []MemberStanding
}

// WindowInput captures caller provided availability window fields.
type WindowInput struct {
	Weekday   int
	StartTime string
	EndTime   string
	Available bool
}

// AvailabilityWindow represents one recurring weekly availability declaration.
type AvailabilityWindow struct {
	ID        string
	UserID    string
	Weekday   int
	StartTime string
	EndTime   string
	Available bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateWindowParams wraps the data required to declare an availability window.
type CreateWindowParams struct {
	Principal Principal
	UserID    string
	Input     WindowInput
}

// UpdateWindowParams wraps the data required to update an availability window.
type UpdateWindowParams struct {
	Principal Principal
	WindowID  string
	Input     WindowInput
}

// Notification kinds produced by the scheduler.
const (
	NotificationRehearsalReminder = "rehearsal_reminder"
	NotificationRehearsalChanged  = "rehearsal_changed"
)

// Notification represents a message delivered to a user's inbox.
type Notification struct {
	ID          string
	UserID      string
	RehearsalID *string
	Kind        string
	Message     string
	ReadAt      *time.Time
	CreatedAt   time.Time
}
