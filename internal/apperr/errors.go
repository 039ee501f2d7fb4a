package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is the generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrConflict is the generic sentinel for uniqueness violations.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized is the generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is the generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)

// NotFoundError identifies the missing entity so handlers can render a
// specific message.
type NotFoundError struct {
	Entity string
	ID     interface{}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func NewNotFound(entity string, id interface{}) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// ConflictError identifies a row that already exists.
type ConflictError struct {
	Entity string
	ID     interface{}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %v already exists", e.Entity, e.ID)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

func NewConflict(entity string, id interface{}) error {
	return &ConflictError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
