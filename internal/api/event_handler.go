package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"careloop-backend-go/internal/core"
	"careloop-backend-go/internal/models"
)

// EventHandler exposes the care-event schedule and its derived notifications.
type EventHandler struct {
	events   *core.EventService
	notifier *core.Notifier
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *core.EventService, notifier *core.Notifier) *EventHandler {
	return &EventHandler{events: events, notifier: notifier}
}

// mapEventErrorToStatus maps errors from the event service to HTTP responses.
func mapEventErrorToStatus(c *gin.Context, err error) {
	var validationErr *core.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Care event validation failed", Details: validationErr.Reason})
	case errors.Is(err, core.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Care event not found"})
	case errors.Is(err, core.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Notification not found"})
	case errors.Is(err, core.ErrDeliveryUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Notification delivery unavailable", Details: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
	}
}

// CreateEvent handles POST /api/v1/events.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := contextUserID(c)
	if !ok {
		return
	}

	var data models.CareEvent
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	data.CreatedBy = userID

	event, err := h.events.Create(data)
	if err != nil {
		mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// ListEvents handles GET /api/v1/events. Optional query params: start and end
// (RFC 3339, inclusive window on startDate), clientId, caregiverId. Exactly
// one filter dimension applies; without params all events are returned.
func (h *EventHandler) ListEvents(c *gin.Context) {
	if clientID := c.Query("clientId"); clientID != "" {
		c.JSON(http.StatusOK, orEmptyEvents(h.events.EventsForClient(clientID)))
		return
	}
	if caregiverID := c.Query("caregiverId"); caregiverID != "" {
		c.JSON(http.StatusOK, orEmptyEvents(h.events.EventsForCaregiver(caregiverID)))
		return
	}

	startRaw, endRaw := c.Query("start"), c.Query("end")
	if startRaw != "" && endRaw != "" {
		start, err := time.Parse(time.RFC3339, startRaw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid start date", Details: err.Error()})
			return
		}
		end, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid end date", Details: err.Error()})
			return
		}
		c.JSON(http.StatusOK, orEmptyEvents(h.events.EventsInRange(start, end)))
		return
	}

	// Unbounded range: everything.
	c.JSON(http.StatusOK, orEmptyEvents(h.events.EventsInRange(time.Time{}, time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC))))
}

// UpdateEvent handles PUT /api/v1/events/:eventId with a partial body.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var partial models.CareEventUpdate
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	event, err := h.events.Update(c.Param("eventId"), partial)
	if err != nil {
		mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /api/v1/events/:eventId. Deletion is
// idempotent: an unknown id still answers 204.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	h.events.Delete(c.Param("eventId"))
	c.Status(http.StatusNoContent)
}

// ListNotifications handles GET /api/v1/events/notifications.
func (h *EventHandler) ListNotifications(c *gin.Context) {
	notifications := h.events.Notifications()
	if notifications == nil {
		notifications = []models.CareEventNotification{}
	}
	c.JSON(http.StatusOK, notifications)
}

// DeliverNotification handles POST /api/v1/notifications/:id/send: deliver
// one notification and mark it sent.
func (h *EventHandler) DeliverNotification(c *gin.Context) {
	if err := h.notifier.Deliver(c.Param("id")); err != nil {
		mapEventErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Notification delivered"})
}

func orEmptyEvents(events []models.CareEvent) []models.CareEvent {
	if events == nil {
		return []models.CareEvent{}
	}
	return events
}
