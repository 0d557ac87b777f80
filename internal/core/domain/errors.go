package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every malformed-input error.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned by repositories when a trip or version does not exist.
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict is returned when an edit was computed against a stale version.
	ErrVersionConflict = errors.New("version conflict")
)

// ValidationError describes a single malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a *ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrValidation) hold.
func (e *ValidationError) Unwrap() error { return ErrValidation }
