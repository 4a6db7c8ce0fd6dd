package persistence

import "time"

// User represents a registered account in the rehearsal scheduler domain.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PhoneNumber  *string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Band represents a named group of musicians.
type Band struct {
	ID          string
	Name        string
	Description *string
	Timezone    string
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BandMember represents one effective-dated membership interval. Leaving a
// band closes the interval instead of deleting the row so past rehearsals
// keep their historical roster.
type BandMember struct {
	ID       string
	BandID   string
	UserID   string
	Role     string
	JoinedAt time.Time
	LeftAt   *time.Time
}

// Song represents a band's repertoire entry.
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

// Setlist represents an ordered sequence of songs for a band.
type Setlist struct {
	ID          string
	BandID      string
	CreatorID   string
	Name        string
	Description *string
	Items       []SetlistItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SetlistItem represents one positioned song within a setlist.
type SetlistItem struct {
	ID        string
	SetlistID string
	SongID    string
	Position  int
	Notes     *string
}

// Rehearsal represents a concrete rehearsal proposal for a band.
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

// Attendance represents one member's recorded response for a rehearsal.
// At most one row exists per (rehearsal, member) pair.
type Attendance struct {
	ID          string
	RehearsalID string
	MemberID    string
	UserID      string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AvailabilityWindow represents a recurring weekly availability entry for a
// user. StartTime and EndTime are wall-clock "HH:MM" strings interpreted in
// a band's reference zone at prediction time.
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

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// Notification represents a message queued for a user, typically a
// rehearsal reminder.
type Notification struct {
	ID          string
	UserID      string
	RehearsalID *string
	Kind        string
	Message     string
	ReadAt      *time.Time
	CreatedAt   time.Time
}
