package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation and lookup failures.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnsupportedMake  = errors.New("unsupported make")
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrYearOutOfRange   = errors.New("year out of range")
	ErrInvalidVIN       = errors.New("invalid VIN")
	ErrEmptyTitle       = errors.New("title required")
	ErrInvalidCategory  = errors.New("invalid task category")
	ErrInvalidStatus    = errors.New("invalid task status")
	ErrMissingDate      = errors.New("due date required")
	ErrVehicleLimit     = errors.New("vehicle limit reached for tier")
	ErrInputTooShort    = errors.New("input too short")
	ErrInputInjection   = errors.New("input contains suspicious content")
)

// ValidationError wraps a sentinel with field context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}
