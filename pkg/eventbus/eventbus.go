// Package eventbus is an in-process publish/subscribe bus for domain events.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Event is anything published on the bus.
type Event interface {
	Type() string
}

// Handler reacts to one event. Returned errors are collected by Publish.
type Handler func(ctx context.Context, e Event) error

// Publisher publishes events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Bus dispatches events synchronously to the handlers subscribed to their
// type, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// New returns an empty bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{handlers: make(map[string][]Handler), logger: logger}
}

// Subscribe registers h for events of eventType.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish runs every handler for e. All handlers run even if one fails.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[e.Type()]...)
	b.mu.RUnlock()

	b.logger.Debug("EventBus.Publish", "event_type", e.Type(), "concrete_type", fmt.Sprintf("%T", e), "handlers", len(handlers))

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			errs = append(errs, fmt.Errorf("%s handler: %w", e.Type(), err))
		}
	}
	return errors.Join(errs...)
}
