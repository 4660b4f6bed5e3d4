// Package eventbus provides an in-memory event bus for inter-module communication.
// For production, this would be replaced with Google Cloud Pub/Sub, RabbitMQ, Kafka, or a similar service by adopting the outbox pattern.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rai/user-management-api/modules/shared/events"
)

// InMemoryEventBus delivers each event to its subscribers concurrently and
// returns once all of them have finished.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]events.Handler
	logger   *slog.Logger
}

func New(logger *slog.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventBus{
		handlers: make(map[events.EventType][]events.Handler),
		logger:   logger,
	}
}

// Compile-time interface checks.
var (
	_ events.Publisher  = (*InMemoryEventBus)(nil)
	_ events.Subscriber = (*InMemoryEventBus)(nil)
)

// Publish implements events.Publisher. Handler failures are logged and
// never reach the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, event events.Event) error {
	handlers := b.HandlersFor(event.EventType())

	b.logger.Debug("publishing event",
		slog.String("event_type", event.EventType().String()),
		slog.String("event_id", event.EventID()),
		slog.Int("handler_count", len(handlers)),
	)

	var g errgroup.Group
	for _, handler := range handlers {
		g.Go(func() error {
			if err := handler.Handle(ctx, event); err != nil {
				b.logger.Error("event handler failed",
					slog.String("event_type", event.EventType().String()),
					slog.String("event_id", event.EventID()),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}
	return g.Wait()
}

// Subscribe implements events.Subscriber.
func (b *InMemoryEventBus) Subscribe(eventType events.EventType, handler events.Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("subscribed to event", slog.String("event_type", eventType.String()))

	return nil
}

// HandlersFor returns a copy of the handlers registered for eventType.
func (b *InMemoryEventBus) HandlersFor(eventType events.EventType) []events.Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	handlers := make([]events.Handler, len(b.handlers[eventType]))
	copy(handlers, b.handlers[eventType])
	return handlers
}

// HandlerFunc is an adapter to use ordinary functions as event handlers.
type HandlerFunc func(ctx context.Context, event events.Event) error

func (f HandlerFunc) Handle(ctx context.Context, event events.Event) error {
	return f(ctx, event)
}
