package services

import (
	"sync"
	"time"
)

// DomainEvent is published after a scoring transaction commits.
// Subscribers (live solve feed, admin notifications) are
// eventually-consistent observers; a slow or dead subscriber never
// blocks or rolls back the transaction that produced the event.
type DomainEvent struct {
	Type      string                 `json:"type"`
	CreatedAt time.Time              `json:"createdAt"`
	Payload   map[string]interface{} `json:"payload"`
}

const (
	EventTypeSolve         = "solve"
	EventTypeFirstBlood    = "first_blood"
	EventTypeHintPurchase  = "hint_purchase"
	EventTypeSecurityAlert = "security_alert"
)

type eventBus struct {
	mu   sync.RWMutex
	subs map[chan DomainEvent]struct{}
}

var bus = &eventBus{subs: make(map[chan DomainEvent]struct{})}

// Subscribe registers a listener. The returned cancel func must be
// called when the consumer goes away.
func Subscribe() (<-chan DomainEvent, func()) {
	ch := make(chan DomainEvent, 64)
	bus.mu.Lock()
	bus.subs[ch] = struct{}{}
	bus.mu.Unlock()

	cancel := func() {
		bus.mu.Lock()
		if _, ok := bus.subs[ch]; ok {
			delete(bus.subs, ch)
			close(ch)
		}
		bus.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans the event out to all subscribers. Sends are
// non-blocking: a subscriber that cannot keep up drops events rather
// than stalling the publisher.
func Publish(evt DomainEvent) {
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now()
	}
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	for ch := range bus.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}
