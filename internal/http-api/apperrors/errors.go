// Package apperrors defines the error taxonomy shared by services and
// handlers: NotFound, Forbidden, InvalidArgument and Conflict. Handlers map
// these onto HTTP status codes with errors.Is / errors.As.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrForbidden means the caller is not the owner of the targeted record,
	// or is unauthenticated where authentication is required.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict means an optimistic-version mismatch that survived the
	// retry budget, or a duplicate-row race on creation.
	ErrConflict = errors.New("conflict")
)

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	Field    string
	Value    any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s: %v", e.Resource, e.Field, e.Value)
}

func NewNotFound(resource, field string, value any) *NotFoundError {
	return &NotFoundError{Resource: resource, Field: field, Value: value}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// InvalidArgumentError reports a malformed or out-of-range input value.
type InvalidArgumentError struct {
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return e.Msg
}

func NewInvalidArgument(format string, args ...any) *InvalidArgumentError {
	return &InvalidArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// IsInvalidArgument reports whether err is an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}
