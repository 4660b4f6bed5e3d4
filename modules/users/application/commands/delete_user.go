package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/users/domain"
)

// DeleteUserCommand represents the intent to delete a user.
type DeleteUserCommand struct {
	UserID string
}

// DeleteUserHandler handles the DeleteUserCommand.
type DeleteUserHandler struct {
	repo      domain.UserRepository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewDeleteUserHandler(repo domain.UserRepository, publisher events.Publisher, logger *slog.Logger) *DeleteUserHandler {
	return &DeleteUserHandler{
		repo:      repo,
		publisher: publisher,
		logger:    orDefault(logger),
	}
}

// Handle executes the delete user use case. Deletion is permanent.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	userID, err := domain.ParseUserID(cmd.UserID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	deleted, err := h.repo.Delete(ctx, userID)
	if err != nil {
		return &domain.StorageError{Op: "delete user", Err: err}
	}
	if !deleted {
		return domain.ErrUserNotFound
	}

	publish(ctx, h.publisher, h.logger, domain.NewUserDeletedEvent(userID))

	return nil
}
