package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/users/application/dto"
	"github.com/rai/user-management-api/modules/users/domain"
)

// UpdateUserCommand represents the intent to change some fields of a user.
type UpdateUserCommand struct {
	UserID string
	Input  domain.UpdateUserInput
}

// UpdateUserHandler handles the UpdateUserCommand.
type UpdateUserHandler struct {
	repo      domain.UserRepository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewUpdateUserHandler(repo domain.UserRepository, publisher events.Publisher, logger *slog.Logger) *UpdateUserHandler {
	return &UpdateUserHandler{
		repo:      repo,
		publisher: publisher,
		logger:    orDefault(logger),
	}
}

// Handle applies the supplied fields and returns the user as stored afterwards.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*dto.User, error) {
	userID, err := domain.ParseUserID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	patch, err := domain.ValidateUpdate(cmd.Input)
	if err != nil {
		return nil, err
	}

	matched, err := h.repo.Update(ctx, userID, patch)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, &domain.ConflictError{Field: domain.FieldEmail}
		}
		return nil, &domain.StorageError{Op: "update user", Err: err}
	}
	if !matched {
		return nil, domain.ErrUserNotFound
	}

	// Re-read so the response reflects the stored record.
	user, err := h.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.StorageError{Op: "find user", Err: err}
	}

	publish(ctx, h.publisher, h.logger, domain.NewUserUpdatedEvent(userID, patch))

	return dto.FromUser(user), nil
}
