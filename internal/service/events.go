package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventRefreshStarted   EventType = "refresh_started"
	EventRefreshCompleted EventType = "refresh_completed"
	EventKindFailed       EventType = "kind_failed"
)

// Event represents an event that occurred during collection
type Event struct {
	Type    EventType   `json:"type"`
	CycleID string      `json:"cycle_id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// KindFailure is the payload of EventKindFailed
type KindFailure struct {
	Kind  string `json:"kind"`
	Cause string `json:"cause"`
}

// RefreshSummary is the payload of EventRefreshCompleted
type RefreshSummary struct {
	Counts map[string]int `json:"counts"`
	Failed int            `json:"failed"`
}

// EventBus allows publishing and subscribing to events
type EventBus struct {
	mu          sync.RWMutex
	subscribers []chan<- Event
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]chan<- Event, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (eb *EventBus) Subscribe(ch chan<- Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.subscribers = append(eb.subscribers, ch)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, ch := range eb.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
