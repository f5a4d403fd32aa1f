// Package events carries ledger change notifications from the mutating
// services to read-side consumers. It decouples the "ledger changed for
// account X" signal from the websocket transport that fans it out.
package events

import (
	"sync"
	"time"
)

// EventType classifies a ledger change.
type EventType string

const (
	EntryCreated    EventType = "ENTRY_CREATED"
	EntryValidated  EventType = "ENTRY_VALIDATED"
	EntryRejected   EventType = "ENTRY_REJECTED"
	OpeningAssigned EventType = "OPENING_ASSIGNED"
	SessionClosed   EventType = "SESSION_CLOSED"
)

// Event describes one ledger change. Consumers re-fetch derived projections;
// the event carries identifiers, never amounts.
type Event struct {
	Type         EventType `json:"type"`
	AccountOwner string    `json:"accountOwner"`
	Currency     string    `json:"currency,omitempty"`
	EntryID      string    `json:"entryID,omitempty"`
	At           time.Time `json:"at"`
}

// Publisher is the write-side interface the services depend on.
type Publisher interface {
	Publish(evt Event)
}

// Hub is an in-process fan-out of ledger change events. Slow subscribers
// drop events rather than block publishers; the feed is a refresh hint, not
// a durable stream.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

var _ Publisher = (*Hub)(nil)

// Publish delivers the event to every current subscriber without blocking.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe registers a new subscriber and returns its channel together with
// an unsubscribe function. The channel is closed on unsubscribe.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
