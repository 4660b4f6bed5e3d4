package domain

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidUserID indicates the user ID format is invalid.
var ErrInvalidUserID = errors.New("invalid user ID")

// UserID identifies a user. It wraps a MongoDB ObjectID whose external
// form is 24 lowercase hex characters.
type UserID struct {
	value primitive.ObjectID
}

// NewUserID allocates a fresh identifier. Stores that assign their own
// identifiers (MongoDB) don't need it.
func NewUserID() UserID {
	return UserID{value: primitive.NewObjectID()}
}

// ParseUserID validates an external identifier without touching the store.
func ParseUserID(s string) (UserID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return UserID{}, ErrInvalidUserID
	}
	return UserID{value: oid}, nil
}

func UserIDFromObjectID(oid primitive.ObjectID) UserID { return UserID{value: oid} }

func (id UserID) ObjectID() primitive.ObjectID { return id.value }
func (id UserID) String() string               { return id.value.Hex() }
func (id UserID) IsZero() bool                 { return id.value.IsZero() }
