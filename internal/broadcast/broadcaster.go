// Package broadcast fans lifecycle events out to zero or more subscribers.
// Delivery is best-effort and non-blocking: a slow subscriber loses events
// rather than back-pressuring the lifecycle manager.
package broadcast

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mediloop/chatline/internal/ports"
)

const subscriberBufCap = 16

type EventKind string

const (
	EventPairingIssued  EventKind = "pairing-issued"
	EventReady          EventKind = "ready"
	EventClosed         EventKind = "closed"
	EventSessionCleared EventKind = "session-cleared"
)

type Event struct {
	Kind EventKind
	// PairingCode is set only for EventPairingIssued.
	PairingCode string
	// Reason is set only for EventClosed.
	Reason ports.CloseReason
	At     time.Time
}

type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]chan Event
	closed bool
}

func New() *Broadcaster {
	return &Broadcaster{subs: make(map[string]chan Event)}
}

// Subscribe registers a subscriber under id and returns its event channel.
// An empty id gets a generated one; resubscribing with the same id returns
// the existing channel, so subscription is idempotent.
func (b *Broadcaster) Subscribe(id string) (string, <-chan Event) {
	if id == "" {
		id = uuid.NewString()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event)
		close(ch)
		return id, ch
	}

	if ch, ok := b.subs[id]; ok {
		return id, ch
	}

	ch := make(chan Event, subscriberBufCap)
	b.subs[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are
// ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Publish delivers the event to every subscriber without blocking. Events
// are dropped for subscribers whose buffer is full.
func (b *Broadcaster) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber buffer full, drop the event.
		}
	}
}

// Close shuts the broadcaster down and closes all subscriber channels.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
