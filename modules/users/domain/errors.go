package domain

import (
	"errors"
	"strings"
)

// Domain errors - business rule violations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmptyUpdate  = errors.New("no data provided for update")

	// ErrDuplicateKey is returned by repositories when a write violates the
	// unique email index. The store enforces it atomically.
	ErrDuplicateKey = errors.New("duplicate key")
)

// FieldViolation describes why a single field was rejected.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every field of a payload that failed its constraints.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Reason
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the rejected fields in report order.
func (e *ValidationError) Fields() []string {
	fields := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		fields[i] = v.Field
	}
	return fields
}

// ConflictError signals that a write collided with a uniqueness constraint.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return e.Field + " already exists" }

// StorageError wraps an infrastructure failure. Its detail is for logs only.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }
