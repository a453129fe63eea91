package core

import (
	"encoding/json"
	"time"

	"careloop-backend-go/pkg/messagequeue"
)

// searchAnalyticsQueue is where search events land for downstream reporting.
const searchAnalyticsQueue = "search.analytics"

// SearchEvent is one recorded search.
type SearchEvent struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"resultCount"`
	At          time.Time `json:"at"`
}

// AnalyticsSink is a one-way observability sink. Implementations may fail;
// callers must treat Record as fire-and-forget so a sink failure can never
// affect the result path.
type AnalyticsSink interface {
	Record(event SearchEvent) error
}

// queueAnalyticsSink publishes search events to a message queue.
type queueAnalyticsSink struct {
	queue messagequeue.MessageQueue
}

// NewQueueAnalyticsSink creates an AnalyticsSink backed by a message queue.
func NewQueueAnalyticsSink(queue messagequeue.MessageQueue) AnalyticsSink {
	return &queueAnalyticsSink{queue: queue}
}

func (s *queueAnalyticsSink) Record(event SearchEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.queue.Publish(searchAnalyticsQueue, body)
}

// noopAnalyticsSink discards events; used when no broker is configured.
type noopAnalyticsSink struct{}

// NewNoopAnalyticsSink creates a sink that discards every event.
func NewNoopAnalyticsSink() AnalyticsSink {
	return noopAnalyticsSink{}
}

func (noopAnalyticsSink) Record(SearchEvent) error { return nil }
