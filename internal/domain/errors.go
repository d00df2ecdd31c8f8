package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is usually wrapped in a ValidationError naming the field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidStatus is returned for a status name or value outside the known set.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidDeadline is returned when a deadline is not a YYYY-MM-DD date.
	ErrInvalidDeadline = errors.New("invalid deadline format")

	// ErrInvalidTime is returned when an hour or minute is out of range.
	ErrInvalidTime = errors.New("invalid time")

	// ErrDeadlinePast is returned when a deadline date lies before today.
	ErrDeadlinePast = errors.New("deadline cannot be in the past")

	// ErrHourPast is returned when a same-day deadline hour has already gone by.
	ErrHourPast = errors.New("deadline hour cannot be in the past")

	// ErrTimeNotUpcoming is returned when a same-day deadline minute is not ahead of now.
	ErrTimeNotUpcoming = errors.New("deadline time must be upcoming")
)

// ValidationError describes a single invalid field. Message is safe to show
// to API clients.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field wrapping err.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped sentinel so callers can use errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
