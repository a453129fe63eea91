package db

import (
	"context"

	"careloop-backend-go/internal/models"
)

// UserRepository defines the interface for user data storage operations.
// Users live in the external document database; everything else in this
// package is session-scoped.
type UserRepository interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByCustomerID(ctx context.Context, customerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// EventRepository defines storage operations for care events. List returns
// events in insertion order.
type EventRepository interface {
	Get(id string) (*models.CareEvent, bool)
	List() []*models.CareEvent
	Put(event *models.CareEvent)
	Delete(id string) bool
}

// NotificationRepository defines storage operations for derived care-event
// notifications. List returns notifications in insertion order.
type NotificationRepository interface {
	Get(id string) (*models.CareEventNotification, bool)
	List() []*models.CareEventNotification
	Put(notification *models.CareEventNotification)
	Delete(id string) bool
	DeleteByEventID(eventID string) int
}
