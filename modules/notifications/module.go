package notifications

import (
	"fmt"
	"log/slog"

	"github.com/rai/user-management-api/modules/notifications/application/eventhandlers"
	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/shared/events/contracts"
)

// Module represents the notification module entry point.
type Module struct{}

type Config struct {
	EventSubscriber events.Subscriber
	Logger          *slog.Logger
}

// New initializes the notification module and subscribes to events.
func New(cfg Config) (*Module, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "notifications")

	userCreatedHandler := eventhandlers.NewUserCreatedHandler(logger)

	if err := cfg.EventSubscriber.Subscribe(contracts.UserCreatedEventType, userCreatedHandler); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", contracts.UserCreatedEventType, err)
	}

	return &Module{}, nil
}
