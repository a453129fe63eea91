package db

import (
	"sync"

	"careloop-backend-go/internal/models"
)

// memoryEventRepository is the session-scoped event store. Insertion order is
// preserved so listings are stable, which the search and notification paths
// rely on. The repository interface keeps a real backend substitutable
// without touching the service contracts.
type memoryEventRepository struct {
	mu     sync.RWMutex
	order  []string
	events map[string]*models.CareEvent
}

// NewMemoryEventRepository creates an empty in-memory EventRepository.
func NewMemoryEventRepository() EventRepository {
	return &memoryEventRepository{events: make(map[string]*models.CareEvent)}
}

func (r *memoryEventRepository) Get(id string) (*models.CareEvent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, false
	}
	cp := *ev
	return &cp, true
}

func (r *memoryEventRepository) List() []*models.CareEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.CareEvent, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.events[id]
		out = append(out, &cp)
	}
	return out
}

func (r *memoryEventRepository) Put(event *models.CareEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[event.ID]; !exists {
		r.order = append(r.order, event.ID)
	}
	cp := *event
	r.events[event.ID] = &cp
}

func (r *memoryEventRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[id]; !exists {
		return false
	}
	delete(r.events, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// memoryNotificationRepository is the session-scoped notification store.
type memoryNotificationRepository struct {
	mu            sync.RWMutex
	order         []string
	notifications map[string]*models.CareEventNotification
}

// NewMemoryNotificationRepository creates an empty in-memory
// NotificationRepository.
func NewMemoryNotificationRepository() NotificationRepository {
	return &memoryNotificationRepository{notifications: make(map[string]*models.CareEventNotification)}
}

func (r *memoryNotificationRepository) Get(id string) (*models.CareEventNotification, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, false
	}
	cp := *n
	return &cp, true
}

func (r *memoryNotificationRepository) List() []*models.CareEventNotification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.CareEventNotification, 0, len(r.order))
	for _, id := range r.order {
		cp := *r.notifications[id]
		out = append(out, &cp)
	}
	return out
}

func (r *memoryNotificationRepository) Put(notification *models.CareEventNotification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.notifications[notification.ID]; !exists {
		r.order = append(r.order, notification.ID)
	}
	cp := *notification
	r.notifications[notification.ID] = &cp
}

func (r *memoryNotificationRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.notifications[id]; !exists {
		return false
	}
	delete(r.notifications, id)
	r.removeFromOrder(id)
	return true
}

func (r *memoryNotificationRepository) DeleteByEventID(eventID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, n := range r.notifications {
		if n.EventID == eventID {
			delete(r.notifications, id)
			r.removeFromOrder(id)
			removed++
		}
	}
	return removed
}

func (r *memoryNotificationRepository) removeFromOrder(id string) {
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
