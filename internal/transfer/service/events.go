package service

import (
	"sync"

	"docroute/internal/transfer/models"
)

// EventKind names a transfer lifecycle change.
type EventKind string

const (
	EventCreated   EventKind = "created"
	EventAccepted  EventKind = "accepted"
	EventCancelled EventKind = "cancelled"
)

// Event notifies subscribers that a transfer changed. Delivery is
// synchronous, best-effort, and at most once per mutation; stale viewers can
// always re-query instead, so missing an event never affects correctness.
type Event struct {
	Kind     EventKind
	Transfer models.Transfer
}

// broadcaster implements the explicit observer replacing the original's
// global refresh signals: interested listeners subscribe and trigger a
// re-query when notified.
type broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(Event)
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subs: make(map[int]func(Event))}
}

func (b *broadcaster) subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *broadcaster) publish(event Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(event)
	}
}
