package domain

import (
	"context"
)

// UserRepository defines the persistence interface for users.
// This is a port - defined in domain, implemented in infrastructure.
// Each method is a single round trip to the store.
type UserRepository interface {
	// Insert stores a new user and returns it with its assigned ID.
	// Returns ErrDuplicateKey if the email is already taken.
	Insert(ctx context.Context, draft UserDraft) (*User, error)

	// FindByID retrieves a user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	FindByID(ctx context.Context, id UserID) (*User, error)

	// Find returns the page of users matching the criteria, in criteria order.
	Find(ctx context.Context, criteria Criteria) ([]*User, error)

	// Update sets the supplied fields of a user. matched is false when no
	// user has the ID. Returns ErrDuplicateKey if the new email is taken.
	Update(ctx context.Context, id UserID, patch UserPatch) (matched bool, err error)

	// Delete removes a user permanently. deleted is false when no user has the ID.
	Delete(ctx context.Context, id UserID) (deleted bool, err error)
}
