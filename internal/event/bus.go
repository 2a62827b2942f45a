// Package event provides a small synchronous event bus used to decouple
// the surface engine from its observers: the sync layer subscribes to
// grid mutations, the region deriver to viewport settles. Delivery is
// synchronous in the publisher's goroutine; handlers must be cheap.
package event

import (
	"context"
	"sync"
	"sync/atomic"
)

// Topic names an event stream.
type Topic string

// Topics published by the core.
const (
	// TopicGridMutation fires after any grid mutation (type, delete,
	// paste, undo). Payload: Mutation.
	TopicGridMutation Topic = "grid.mutation"

	// TopicViewportSettle fires when a pan/zoom burst has settled.
	// Payload: nil.
	TopicViewportSettle Topic = "viewport.settle"

	// TopicStateSaved fires after a full-state save completes.
	// Payload: the slot name (string).
	TopicStateSaved Topic = "state.saved"
)

// Mutation is the payload for TopicGridMutation.
type Mutation struct {
	// Op names the operation that mutated the grid.
	Op string

	// Cells is the number of cells touched.
	Cells int
}

// Handler processes an event. The payload is type-erased; handlers
// type-assert on the topics they subscribe to.
type Handler interface {
	Handle(ctx context.Context, topic Topic, payload any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, topic Topic, payload any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, topic Topic, payload any) error {
	return f(ctx, topic, payload)
}

// Bus dispatches events to subscribers in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Topic][]Handler

	published atomic.Uint64
	delivered atomic.Uint64
	errors    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]Handler)}
}

// Subscribe registers a handler for a topic.
func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

// SubscribeFunc registers a function handler for a topic.
func (b *Bus) SubscribeFunc(topic Topic, fn HandlerFunc) {
	b.Subscribe(topic, fn)
}

// Publish delivers an event synchronously to every subscriber of the
// topic. Handler errors are counted but do not stop delivery; the
// publisher's control flow never depends on observers.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) {
	b.mu.RLock()
	hs := b.handlers[topic]
	b.mu.RUnlock()

	b.published.Add(1)
	for _, h := range hs {
		if err := h.Handle(ctx, topic, payload); err != nil {
			b.errors.Add(1)
			continue
		}
		b.delivered.Add(1)
	}
}

// Stats reports bus counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Errors    uint64
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Errors:    b.errors.Load(),
	}
}
