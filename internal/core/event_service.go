package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"careloop-backend-go/internal/db"
	"careloop-backend-go/internal/models"
)

// ErrEventNotFound is returned when an operation references a care event that
// does not exist. Update surfaces it; Delete deliberately does not (deleting
// is idempotent by nature).
var ErrEventNotFound = errors.New("care event not found")

// ErrNotificationNotFound is returned when a notification id is unknown to
// an operation that must produce a value.
var ErrNotificationNotFound = errors.New("care event notification not found")

// ValidationError reports why a care event was rejected before any mutation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid care event: " + e.Reason
}

// Clock abstracts time so the reminder-window rules are testable.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// EventService owns the scheduled care events for the session and derives
// notifications from them synchronously on create/update/delete.
type EventService struct {
	events        db.EventRepository
	notifications db.NotificationRepository
	clock         Clock
	logger        *zap.Logger
}

// NewEventService creates an EventService over the given repositories.
func NewEventService(events db.EventRepository, notifications db.NotificationRepository, logger *zap.Logger) *EventService {
	return NewEventServiceWithClock(events, notifications, realClock{}, logger)
}

// NewEventServiceWithClock creates an EventService with a custom clock
// (for testing the reminder-window rules).
func NewEventServiceWithClock(events db.EventRepository, notifications db.NotificationRepository, clock Clock, logger *zap.Logger) *EventService {
	return &EventService{
		events:        events,
		notifications: notifications,
		clock:         clock,
		logger:        logger,
	}
}

// ValidateCareEvent checks a candidate event and returns the first failing
// reason, or nil when the event is acceptable. Checks run in a fixed order
// and short-circuit: title, type-specific required fields, date ordering.
func ValidateCareEvent(e models.CareEvent) error {
	if e.Title == "" {
		return &ValidationError{Reason: "title is required"}
	}
	switch e.Type {
	case models.EventCareShift:
		if e.AssignedCaregiver == "" {
			return &ValidationError{Reason: "care-shift events require an assigned caregiver"}
		}
		if e.Client == "" {
			return &ValidationError{Reason: "care-shift events require a client"}
		}
		if e.Location == "" {
			return &ValidationError{Reason: "care-shift events require a location"}
		}
		if len(e.Notifications) == 0 {
			return &ValidationError{Reason: "care-shift events require at least one notification recipient"}
		}
	case models.EventAppointment:
		if e.Client == "" {
			return &ValidationError{Reason: "appointment events require a client"}
		}
		if e.Location == "" {
			return &ValidationError{Reason: "appointment events require a location"}
		}
	case models.EventBlockedDate:
		if e.AssignedCaregiver == "" {
			return &ValidationError{Reason: "blocked-date events require an assigned team member"}
		}
	default:
		return &ValidationError{Reason: fmt.Sprintf("unknown event type %q", e.Type)}
	}
	if !e.EndDate.After(e.StartDate) {
		return &ValidationError{Reason: "endDate must be after startDate"}
	}
	return nil
}

// Create validates the event, stores it with a fresh id and timestamps, and
// synchronously derives its notifications. On validation failure nothing is
// mutated.
func (s *EventService) Create(data models.CareEvent) (*models.CareEvent, error) {
	if err := ValidateCareEvent(data); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	event := data
	event.ID = uuid.NewString()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Status == "" {
		event.Status = models.StatusScheduled
	}
	if event.Visibility == "" {
		event.Visibility = models.VisibilityCareTeamOnly
	}

	s.events.Put(&event)
	s.deriveCreateNotifications(&event, now)

	if s.logger != nil {
		s.logger.Info("Care event created",
			zap.String("eventId", event.ID),
			zap.String("type", string(event.Type)),
			zap.Time("startDate", event.StartDate))
	}
	return &event, nil
}

// deriveCreateNotifications turns the event's reminder-policy tokens into
// scheduled reminders, and raises a coverage-gap alert for scheduled
// blocked-date events. Reminders whose window has already passed at creation
// time are silently dropped.
func (s *EventService) deriveCreateNotifications(event *models.CareEvent, now time.Time) {
	for _, token := range event.Notifications {
		switch token {
		case models.Token30MinBefore:
			at := event.StartDate.Add(-30 * time.Minute)
			if at.After(now) {
				s.appendNotification(models.CareEventNotification{
					EventID:       event.ID,
					Type:          models.NotificationReminder,
					Recipient:     firstNonEmpty(event.AssignedCaregiver, models.RecipientCareTeam),
					Message:       fmt.Sprintf("Care event %q starts in 30 minutes", event.Title),
					ScheduledTime: at,
				})
			}
		case models.Token1HourBefore:
			at := event.StartDate.Add(-time.Hour)
			if at.After(now) {
				s.appendNotification(models.CareEventNotification{
					EventID:       event.ID,
					Type:          models.NotificationReminder,
					Recipient:     firstNonEmpty(event.Client, models.RecipientFamily),
					Message:       fmt.Sprintf("Care event %q starts in 1 hour", event.Title),
					ScheduledTime: at,
				})
			}
		default:
			if s.logger != nil {
				s.logger.Warn("Ignoring unknown reminder token",
					zap.String("eventId", event.ID), zap.String("token", token))
			}
		}
	}

	// A scheduled blocked date is an unmet staffing need: alert the
	// coordinator immediately, regardless of reminder timing.
	if event.Type == models.EventBlockedDate && event.Status == models.StatusScheduled {
		s.appendNotification(models.CareEventNotification{
			EventID:       event.ID,
			Type:          models.NotificationAlert,
			Recipient:     models.RecipientCareCoordinator,
			Message:       fmt.Sprintf("URGENT: Coverage gap detected for %s", event.Client),
			ScheduledTime: now,
		})
	}
}

// Update merges the present fields of partial onto the stored event, bumps
// UpdatedAt, and emits one update notification. An unknown id fails with
// ErrEventNotFound.
func (s *EventService) Update(id string, partial models.CareEventUpdate) (*models.CareEvent, error) {
	event, ok := s.events.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEventNotFound, id)
	}

	mergeEventUpdate(event, partial)
	event.UpdatedAt = s.clock.Now().UTC()
	s.events.Put(event)

	s.appendNotification(models.CareEventNotification{
		EventID:       event.ID,
		Type:          models.NotificationUpdate,
		Recipient:     firstNonEmpty(event.AssignedCaregiver, event.Client, models.RecipientCareTeam),
		Message:       fmt.Sprintf("Care event %q has been updated", event.Title),
		ScheduledTime: event.UpdatedAt,
	})
	return event, nil
}

// Delete removes the event and purges the notifications that reference it,
// then emits a cancellation notice. The notice is appended after the purge so
// the deletion itself is not silent. Deleting an unknown id is a no-op.
func (s *EventService) Delete(id string) {
	event, ok := s.events.Get(id)
	if !ok {
		return
	}

	purged := s.notifications.DeleteByEventID(id)
	s.events.Delete(id)

	s.appendNotification(models.CareEventNotification{
		EventID:       event.ID,
		Type:          models.NotificationCancellation,
		Recipient:     firstNonEmpty(event.AssignedCaregiver, event.Client, models.RecipientCareTeam),
		Message:       fmt.Sprintf("Care event %q has been cancelled", event.Title),
		ScheduledTime: s.clock.Now().UTC(),
	})

	if s.logger != nil {
		s.logger.Info("Care event deleted",
			zap.String("eventId", id), zap.Int("purgedNotifications", purged))
	}
}

// EventsInRange returns events whose StartDate falls inside [start, end],
// inclusive. EndDate is not considered.
func (s *EventService) EventsInRange(start, end time.Time) []models.CareEvent {
	var out []models.CareEvent
	for _, ev := range s.events.List() {
		if !ev.StartDate.Before(start) && !ev.StartDate.After(end) {
			out = append(out, *ev)
		}
	}
	return out
}

// EventsForClient returns events exactly matching the client id.
func (s *EventService) EventsForClient(clientID string) []models.CareEvent {
	var out []models.CareEvent
	for _, ev := range s.events.List() {
		if ev.Client == clientID {
			out = append(out, *ev)
		}
	}
	return out
}

// EventsForCaregiver returns events exactly matching the caregiver id.
func (s *EventService) EventsForCaregiver(caregiverID string) []models.CareEvent {
	var out []models.CareEvent
	for _, ev := range s.events.List() {
		if ev.AssignedCaregiver == caregiverID {
			out = append(out, *ev)
		}
	}
	return out
}

// Notifications returns all derived notifications in insertion order.
func (s *EventService) Notifications() []models.CareEventNotification {
	list := s.notifications.List()
	out := make([]models.CareEventNotification, 0, len(list))
	for _, n := range list {
		out = append(out, *n)
	}
	return out
}

// MarkNotificationSent flips the sent flag. An unknown id is a no-op and
// reports false.
func (s *EventService) MarkNotificationSent(id string) bool {
	n, ok := s.notifications.Get(id)
	if !ok {
		return false
	}
	n.Sent = true
	s.notifications.Put(n)
	return true
}

// GetNotification returns one notification by id.
func (s *EventService) GetNotification(id string) (*models.CareEventNotification, error) {
	n, ok := s.notifications.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotificationNotFound, id)
	}
	return n, nil
}

func (s *EventService) appendNotification(n models.CareEventNotification) {
	n.ID = uuid.NewString()
	if n.DeliveryMethod == "" {
		n.DeliveryMethod = "email"
	}
	s.notifications.Put(&n)
}

func mergeEventUpdate(event *models.CareEvent, partial models.CareEventUpdate) {
	if partial.Title != nil {
		event.Title = *partial.Title
	}
	if partial.Type != nil {
		event.Type = *partial.Type
	}
	if partial.StartDate != nil {
		event.StartDate = *partial.StartDate
	}
	if partial.EndDate != nil {
		event.EndDate = *partial.EndDate
	}
	if partial.Location != nil {
		event.Location = *partial.Location
	}
	if partial.Description != nil {
		event.Description = *partial.Description
	}
	if partial.AssignedCaregiver != nil {
		event.AssignedCaregiver = *partial.AssignedCaregiver
	}
	if partial.Client != nil {
		event.Client = *partial.Client
	}
	if partial.IsRecurring != nil {
		event.IsRecurring = *partial.IsRecurring
	}
	if partial.RecurrencePattern != nil {
		event.RecurrencePattern = *partial.RecurrencePattern
	}
	if partial.Notifications != nil {
		event.Notifications = *partial.Notifications
	}
	if partial.Status != nil {
		event.Status = *partial.Status
	}
	if partial.Visibility != nil {
		event.Visibility = *partial.Visibility
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
