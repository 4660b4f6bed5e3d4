package commands

import (
	"context"
	"log/slog"

	"github.com/rai/user-management-api/modules/shared/events"
)

// publish delivers an event after the write has succeeded. Failures are
// logged and never fail the command.
func publish(ctx context.Context, publisher events.Publisher, logger *slog.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("failed to publish event",
			slog.String("event_type", event.EventType().String()),
			slog.String("event_id", event.EventID()),
			slog.Any("error", err),
		)
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
