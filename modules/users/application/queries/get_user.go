// Package queries contains read use cases for the users module.
// Queries return data and don't change state (CQRS pattern).
package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/rai/user-management-api/modules/users/application/dto"
	"github.com/rai/user-management-api/modules/users/domain"
)

// GetUserQuery represents a request to get a user by ID.
type GetUserQuery struct {
	UserID string
}

// GetUserHandler handles GetUserQuery.
type GetUserHandler struct {
	repo domain.UserRepository
}

func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query.
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*dto.User, error) {
	userID, err := domain.ParseUserID(query.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	user, err := h.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, &domain.StorageError{Op: "find user", Err: err}
	}

	return dto.FromUser(user), nil
}
