package queries

import (
	"context"

	"github.com/rai/user-management-api/modules/users/application/dto"
	"github.com/rai/user-management-api/modules/users/domain"
)

// ListUsersQuery represents a filtered, paginated listing.
type ListUsersQuery struct {
	Params domain.ListParams
}

// ListUsersHandler handles ListUsersQuery.
type ListUsersHandler struct {
	repo domain.UserRepository
}

func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query. An empty page is not an error.
func (h *ListUsersHandler) Handle(ctx context.Context, query ListUsersQuery) ([]*dto.User, error) {
	if err := domain.ValidateListParams(query.Params); err != nil {
		return nil, err
	}

	users, err := h.repo.Find(ctx, domain.BuildCriteria(query.Params))
	if err != nil {
		return nil, &domain.StorageError{Op: "find users", Err: err}
	}

	return dto.FromUsers(users), nil
}
