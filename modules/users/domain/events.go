package domain

import (
	"github.com/rai/user-management-api/modules/shared/events"
	"github.com/rai/user-management-api/modules/shared/events/contracts"
)

// Domain events for the users bounded context.
// Events represent facts about what happened in the domain.

func NewUserCreatedEvent(user *User) contracts.UserCreatedEvent {
	return contracts.UserCreatedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserCreatedEventType, user.ID().String()),
		UserID:    user.ID().String(),
		Name:      user.Name(),
		Email:     user.Email(),
	}
}

func NewUserUpdatedEvent(id UserID, patch UserPatch) contracts.UserUpdatedEvent {
	return contracts.UserUpdatedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserUpdatedEventType, id.String()),
		UserID:    id.String(),
		Fields:    patch.FieldNames(),
	}
}

func NewUserDeletedEvent(id UserID) contracts.UserDeletedEvent {
	return contracts.UserDeletedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserDeletedEventType, id.String()),
		UserID:    id.String(),
	}
}
