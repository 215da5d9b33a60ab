package service

import "sync"

// EventType defines the type of event
type EventType string

const (
	EventSessionOpened    EventType = "session_opened"
	EventSessionClosed    EventType = "session_closed"
	EventSessionExpired   EventType = "session_expired"
	EventGraphChanged     EventType = "graph_changed"
	EventTopologyReloaded EventType = "topology_reloaded"
)

// Event represents an event that occurred in the system. Events carrying a
// SessionID concern only that session's view.
type Event struct {
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
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
