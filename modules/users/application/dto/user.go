// Package dto maps domain users to their API representation.
package dto

import "github.com/rai/user-management-api/modules/users/domain"

// User is the API-facing user resource.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Age      int    `json:"age"`
	IsActive bool   `json:"is_active"`
}

// FromUser maps a domain user to its resource. A nil user maps to nil.
func FromUser(user *domain.User) *User {
	if user == nil {
		return nil
	}
	return &User{
		ID:       user.ID().String(),
		Name:     user.Name(),
		Email:    user.Email(),
		Age:      user.Age(),
		IsActive: user.IsActive(),
	}
}

// FromUsers maps a page of users, preserving order. The result is never nil.
func FromUsers(users []*domain.User) []*User {
	out := make([]*User, 0, len(users))
	for _, user := range users {
		out = append(out, FromUser(user))
	}
	return out
}
