package components

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// EventReady is published once, after every component on the page has been
// processed.  Handlers may look up sibling instances at that point.
const EventReady = "ready"

// Event is a named signal between components.
type Event struct {
	Name   string
	Source Component // The publishing component; nil for the App itself.
	Data   any       // Event specific payload, documented by the publisher.
}

// Handler receives published events.
type Handler func(ctx context.Context, event Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus is a publish/subscribe channel for component events.  Handlers are
// called synchronously, in subscription order.
type Bus struct {
	lock     sync.Mutex
	nextID   int
	handlers map[string][]subscription
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]subscription)}
}

// Subscribe to events with the given name; the returned function removes the
// subscription.
func (b *Bus) Subscribe(name string, handler Handler) (unsubscribe func()) {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[name] = append(b.handlers[name], subscription{id: id, handler: handler})
	return func() {
		b.lock.Lock()
		defer b.lock.Unlock()
		b.handlers[name] = slices.DeleteFunc(b.handlers[name], func(s subscription) bool {
			return s.id == id
		})
	}
}

// Publish an event to its subscribers.  Subscriptions made by handlers during
// publication only see later events.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.lock.Lock()
	subscribers := slices.Clone(b.handlers[event.Name])
	b.lock.Unlock()

	slog.DebugContext(ctx, "publishing event", "event", event.Name, "subscribers", len(subscribers))
	for _, s := range subscribers {
		s.handler(ctx, event)
	}
}
