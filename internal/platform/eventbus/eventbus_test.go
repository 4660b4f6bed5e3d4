package eventbus_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/rai/user-management-api/internal/platform/eventbus"
	"github.com/rai/user-management-api/modules/shared/events"
)

const testEventType events.EventType = "test.Happened"

func newBus() *eventbus.InMemoryEventBus {
	return eventbus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublish_DeliversToAllSubscribers(t *testing.T) {
	bus := newBus()
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(testEventType, eventbus.HandlerFunc(func(ctx context.Context, event events.Event) error {
			calls.Add(1)
			return nil
		}))
	}

	if err := bus.Publish(context.Background(), events.NewBaseEvent(testEventType, "agg-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 deliveries, got %d", got)
	}
}

func TestPublish_HandlerFailureIsNotReturned(t *testing.T) {
	bus := newBus()
	var delivered atomic.Bool
	bus.Subscribe(testEventType, eventbus.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("boom")
	}))
	bus.Subscribe(testEventType, eventbus.HandlerFunc(func(context.Context, events.Event) error {
		delivered.Store(true)
		return nil
	}))

	if err := bus.Publish(context.Background(), events.NewBaseEvent(testEventType, "agg-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delivered.Load() {
		t.Error("expected the healthy handler to run")
	}
}

func TestPublish_IgnoresOtherEventTypes(t *testing.T) {
	bus := newBus()
	bus.Subscribe("other.Type", eventbus.HandlerFunc(func(context.Context, events.Event) error {
		t.Error("handler for another type must not run")
		return nil
	}))

	if err := bus.Publish(context.Background(), events.NewBaseEvent(testEventType, "agg-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(bus.HandlersFor(testEventType)); n != 0 {
		t.Errorf("expected no handlers, got %d", n)
	}
}
