package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/shared/events/contracts"
)

// UserCreatedHandler sends a welcome notification to newly registered users.
//
// Delivery is mocked with a log line; a real sender would be injected here.
type UserCreatedHandler struct {
	logger *slog.Logger
}

func NewUserCreatedHandler(logger *slog.Logger) *UserCreatedHandler {
	return &UserCreatedHandler{logger: logger}
}

// Handle processes the UserCreated event.
func (h *UserCreatedHandler) Handle(ctx context.Context, event events.Event) error {
	created, ok := event.(contracts.UserCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, contracts.UserCreatedEventType)
	}

	h.logger.InfoContext(ctx, "sending welcome email",
		slog.String("user_id", created.UserID),
		slog.String("event_id", created.EventID()),
	)
	return nil
}
