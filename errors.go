package ponder

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a thought submission is malformed.
// Use errors.Is to test for it; the concrete error is *InvalidArgumentError.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError identifies the input field that failed validation.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidArgument.
func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

func invalid(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}
