package di

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Event is anything published through a Context.
type Event interface {
	EventName() string
}

// ContextRefreshedEvent is published once Refresh has created every eager
// singleton.
type ContextRefreshedEvent struct{ Context *Context }

func (ContextRefreshedEvent) EventName() string { return "context.refreshed" }

// ContextClosedEvent is published by Close before singletons are closed.
type ContextClosedEvent struct{ Context *Context }

func (ContextClosedEvent) EventName() string { return "context.closed" }

// Listener receives every event published on a context. Singleton beans that
// implement Listener are registered automatically during Refresh.
type Listener interface {
	OnApplicationEvent(ctx context.Context, ev Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ctx context.Context, ev Event) error

func (f ListenerFunc) OnApplicationEvent(ctx context.Context, ev Event) error { return f(ctx, ev) }

// AddListener registers l. Listeners are called in registration order.
func (c *Context) AddListener(l Listener) {
	if l == nil {
		return
	}
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// Listen registers fn for events of type E only.
//
//	di.Listen(c, func(ctx context.Context, ev di.ContextRefreshedEvent) error { ... })
func Listen[E Event](c *Context, fn func(ctx context.Context, ev E) error) {
	if fn == nil {
		return
	}
	c.AddListener(ListenerFunc(func(ctx context.Context, ev Event) error {
		if e, ok := ev.(E); ok {
			return fn(ctx, e)
		}
		return nil
	}))
}

// Publish delivers ev to every listener synchronously. Listeners run without
// the context lock, so they may look beans up. The first listener error stops
// delivery and is returned.
func (c *Context) Publish(ctx context.Context, ev Event) error {
	c.mu.Lock()
	listeners := make([]Listener, len(c.listeners))
	copy(listeners, c.listeners)
	log := c.log
	c.mu.Unlock()

	for _, l := range listeners {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.OnApplicationEvent(ctx, ev); err != nil {
			return ListenerError{Event: ev.EventName(), Err: err}
		}
	}
	log.Debug("event published", zap.String("event", ev.EventName()), zap.Int("listeners", len(listeners)))
	return nil
}

// EventRecorder is a Listener that keeps every event it receives. It is
// mostly useful in tests.
type EventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *EventRecorder) OnApplicationEvent(_ context.Context, ev Event) error {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

// Names returns the names of the recorded events in order.
func (r *EventRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.EventName()
	}
	return out
}
