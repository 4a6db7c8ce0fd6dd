package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// NotificationRepository captures the persistence operations for the inbox.
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification Notification) (Notification, error)
	ListNotificationsForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string, readAt time.Time) (Notification, error)
}

// ReminderRehearsalSource lists rehearsals across all bands within a time range.
type ReminderRehearsalSource interface {
	ListRehearsalsBetween(ctx context.Context, from, to time.Time) ([]Rehearsal, error)
}

// NotificationService delivers inbox messages and generates rehearsal
// reminders on a schedule.
type NotificationService struct {
	notifications NotificationRepository
	rehearsals    ReminderRehearsalSource
	bands         RehearsalBandDirectory
	idGenerator   func() string
	now           func() time.Time
	logger        *slog.Logger
}

// NewNotificationService wires dependencies for the notification service.
func NewNotificationService(notifications NotificationRepository, rehearsals ReminderRehearsalSource, bands RehearsalBandDirectory, idGenerator func() string, now func() time.Time) *NotificationService {
	return NewNotificationServiceWithLogger(notifications, rehearsals, bands, idGenerator, now, nil)
}

// NewNotificationServiceWithLogger constructs a NotificationService with a specified logger.
func NewNotificationServiceWithLogger(notifications NotificationRepository, rehearsals ReminderRehearsalSource, bands RehearsalBandDirectory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *NotificationService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationService{
		notifications: notifications,
		rehearsals:    rehearsals,
		bands:         bands,
		idGenerator:   idGenerator,
		now:           now,
		logger:        defaultLogger(logger),
	}
}

// ListNotifications returns the principal's inbox, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, principal Principal) ([]Notification, error) {
	if s == nil {
		return nil, fmt.Errorf("NotificationService is nil")
	}
	if principal.UserID == "" {
		return nil, ErrUnauthorized
	}
	if s.notifications == nil {
		return nil, fmt.Errorf("notification repository not configured")
	}
	return s.notifications.ListNotificationsForUser(ctx, principal.UserID)
}

// MarkRead stamps a notification as read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, principal Principal, notificationID string) (Notification, error) {
	if s == nil {
		return Notification{}, fmt.Errorf("NotificationService is nil")
	}
	if principal.UserID == "" {
		return Notification{}, ErrUnauthorized
	}
	if s.notifications == nil {
		return Notification{}, fmt.Errorf("notification repository not configured")
	}

	notification, err := s.notifications.MarkNotificationRead(ctx, notificationID, principal.UserID, s.now())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Notification{}, ErrNotFound
		}
		return Notification{}, err
	}
	return notification, nil
}

// NotifyRehearsalChanged queues a change notice for every member on a
// rehearsal's roster except the actor who made the change.
func (s *NotificationService) NotifyRehearsalChanged(ctx context.Context, actorID string, rehearsal Rehearsal, message string) error {
	if s == nil {
		return fmt.Errorf("NotificationService is nil")
	}
	if s.notifications == nil || s.bands == nil {
		return nil
	}

	roster, err := s.bands.ListMembersAsOf(ctx, rehearsal.BandID, rehearsal.Start)
	if err != nil {
		return err
	}

	now := s.now()
	for _, member := range roster {
		if member.UserID == actorID {
			continue
		}
		rehearsalID := rehearsal.ID
		_, err := s.notifications.CreateNotification(ctx, Notification{
			ID:          s.idGenerator(),
			UserID:      member.UserID,
			RehearsalID: &rehearsalID,
			Kind:        NotificationRehearsalChanged,
			Message:     message,
			CreatedAt:   now,
		})
		if err != nil && !errors.Is(err, ErrAlreadyExists) {
			return err
		}
	}
	return nil
}

// GenerateRehearsalReminders creates a reminder for every roster member of
// every rehearsal starting within the lead window. The unique constraint on
// (user, rehearsal, kind) makes repeated runs idempotent.
func (s *NotificationService) GenerateRehearsalReminders(ctx context.Context, lead time.Duration) error {
	if s == nil {
		return fmt.Errorf("NotificationService is nil")
	}
	if s.notifications == nil || s.rehearsals == nil || s.bands == nil {
		return fmt.Errorf("notification service dependencies not configured")
	}
	if lead <= 0 {
		lead = 24 * time.Hour
	}

	now := s.now()
	logger := serviceLogger(ctx, s.logger, "NotificationService", "GenerateRehearsalReminders")

	upcoming, err := s.rehearsals.ListRehearsalsBetween(ctx, now, now.Add(lead))
	if err != nil {
		return err
	}

	var delivered int
	for _, rehearsal := range upcoming {
		band, err := s.bands.GetBand(ctx, rehearsal.BandID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return err
		}
		location, err := time.LoadLocation(band.Timezone)
		if err != nil {
			location = time.UTC
		}

		roster, err := s.bands.ListMembersAsOf(ctx, rehearsal.BandID, rehearsal.Start)
		if err != nil {
			return err
		}

		message := fmt.Sprintf("%s rehearses %q on %s",
			band.Name, rehearsal.Title, rehearsal.Start.In(location).Format("Mon Jan 2 15:04"))

		for _, member := range roster {
			rehearsalID := rehearsal.ID
			_, err := s.notifications.CreateNotification(ctx, Notification{
				ID:          s.idGenerator(),
				UserID:      member.UserID,
				RehearsalID: &rehearsalID,
				Kind:        NotificationRehearsalReminder,
				Message:     message,
				CreatedAt:   now,
			})
			if err != nil {
				if errors.Is(err, ErrAlreadyExists) {
					continue
				}
				return err
			}
			delivered++
		}
	}

	if delivered > 0 {
		logger.InfoContext(ctx, "rehearsal reminders delivered", "count", delivered)
	}
	return nil
}
