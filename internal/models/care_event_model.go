package models

import "time"

// EventType classifies a schedulable unit of care activity.
type EventType string

const (
	EventCareShift   EventType = "care-shift"
	EventAppointment EventType = "appointment"
	EventBlockedDate EventType = "blocked-date"
)

// EventStatus is the lifecycle state of a care event. Transition legality is
// a UI concern; the store accepts whatever the caller supplies.
type EventStatus string

const (
	StatusScheduled  EventStatus = "scheduled"
	StatusConfirmed  EventStatus = "confirmed"
	StatusInProgress EventStatus = "in-progress"
	StatusCompleted  EventStatus = "completed"
	StatusCancelled  EventStatus = "cancelled"
	StatusNoShow     EventStatus = "no-show"
)

// EventVisibility controls which audience may see an event.
type EventVisibility string

const (
	VisibilityCareTeamOnly     EventVisibility = "care-team-only"
	VisibilityClientFamily     EventVisibility = "client-family"
	VisibilityPrivateCaregiver EventVisibility = "private-caregiver"
	VisibilityPublic           EventVisibility = "public"
)

// Reminder-policy tokens accepted in CareEvent.Notifications.
const (
	Token30MinBefore = "30-min-before"
	Token1HourBefore = "1-hour-before"
)

// CareEvent is a scheduled unit of care activity: a shift, an appointment,
// or a blocked/unavailable period (a coverage gap).
type CareEvent struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Type              EventType         `json:"type"`
	StartDate         time.Time         `json:"startDate"`
	EndDate           time.Time         `json:"endDate"`
	Location          string            `json:"location,omitempty"`
	Description       string            `json:"description,omitempty"`
	AssignedCaregiver string            `json:"assignedCaregiver,omitempty"`
	Client            string            `json:"client,omitempty"`
	IsRecurring       bool              `json:"isRecurring"`
	RecurrencePattern string            `json:"recurrencePattern,omitempty"`
	Notifications     []string          `json:"notifications,omitempty"` // reminder-policy tokens
	Status            EventStatus       `json:"status"`
	Visibility        EventVisibility   `json:"visibility"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
	CreatedBy         string            `json:"createdBy,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// CareEventUpdate carries a partial update: nil fields are left untouched on
// the stored event.
type CareEventUpdate struct {
	Title             *string          `json:"title,omitempty"`
	Type              *EventType       `json:"type,omitempty"`
	StartDate         *time.Time       `json:"startDate,omitempty"`
	EndDate           *time.Time       `json:"endDate,omitempty"`
	Location          *string          `json:"location,omitempty"`
	Description       *string          `json:"description,omitempty"`
	AssignedCaregiver *string          `json:"assignedCaregiver,omitempty"`
	Client            *string          `json:"client,omitempty"`
	IsRecurring       *bool            `json:"isRecurring,omitempty"`
	RecurrencePattern *string          `json:"recurrencePattern,omitempty"`
	Notifications     *[]string        `json:"notifications,omitempty"`
	Status            *EventStatus     `json:"status,omitempty"`
	Visibility        *EventVisibility `json:"visibility,omitempty"`
}

// NotificationType classifies a derived care-event notification.
type NotificationType string

const (
	NotificationReminder     NotificationType = "reminder"
	NotificationAlert        NotificationType = "alert"
	NotificationUpdate       NotificationType = "update"
	NotificationCancellation NotificationType = "cancellation"
)

// Well-known logical recipients used when an event has no caregiver/client.
const (
	RecipientCareTeam        = "care-team"
	RecipientFamily          = "family"
	RecipientCareCoordinator = "care-coordinator"
)

// CareEventNotification is derived synchronously from care-event
// create/update/delete. EventID is a back-reference, not ownership: deleting
// the event purges the notifications that point at it.
type CareEventNotification struct {
	ID             string           `json:"id"`
	EventID        string           `json:"eventId"`
	Type           NotificationType `json:"type"`
	Recipient      string           `json:"recipient"`
	Message        string           `json:"message"`
	ScheduledTime  time.Time        `json:"scheduledTime"`
	Sent           bool             `json:"sent"`
	DeliveryMethod string           `json:"deliveryMethod"`
}
