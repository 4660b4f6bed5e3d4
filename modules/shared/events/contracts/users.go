// Package contracts defines public event contracts for inter-module communication.
// Modules should import event types from here, NOT from other module's domain packages.
package contracts

import "github.com/rai/user-management-api/modules/shared/events"

// User module event types.
const (
	UserCreatedEventType events.EventType = "users.UserCreated"
	UserUpdatedEventType events.EventType = "users.UserUpdated"
	UserDeletedEventType events.EventType = "users.UserDeleted"
)

// UserCreatedEvent is the public contract for user creation events.
type UserCreatedEvent struct {
	events.BaseEvent
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// UserUpdatedEvent carries the names of the fields that changed.
type UserUpdatedEvent struct {
	events.BaseEvent
	UserID string   `json:"user_id"`
	Fields []string `json:"fields"`
}

// UserDeletedEvent is the public contract for user deletion events.
type UserDeletedEvent struct {
	events.BaseEvent
	UserID string `json:"user_id"`
}
