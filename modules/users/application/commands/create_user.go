// Package commands contains write use cases for the users module.
package commands

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/users/application/dto"
	"github.com/rai/user-management-api/modules/users/domain"
)

// CreateUserCommand represents the intent to create a new user.
type CreateUserCommand struct {
	Input domain.CreateUserInput
}

// CreateUserHandler handles the CreateUserCommand.
type CreateUserHandler struct {
	repo      domain.UserRepository
	publisher events.Publisher
	logger    *slog.Logger
}

func NewCreateUserHandler(repo domain.UserRepository, publisher events.Publisher, logger *slog.Logger) *CreateUserHandler {
	return &CreateUserHandler{
		repo:      repo,
		publisher: publisher,
		logger:    orDefault(logger),
	}
}

// Handle executes the create user use case.
// Email uniqueness is left to the store: the insert either succeeds or is
// rejected atomically, there is no existence pre-check.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (*dto.User, error) {
	draft, err := domain.ValidateCreate(cmd.Input)
	if err != nil {
		return nil, err
	}

	user, err := h.repo.Insert(ctx, draft)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			return nil, &domain.ConflictError{Field: domain.FieldEmail}
		}
		return nil, &domain.StorageError{Op: "insert user", Err: err}
	}

	publish(ctx, h.publisher, h.logger, domain.NewUserCreatedEvent(user))

	return dto.FromUser(user), nil
}
