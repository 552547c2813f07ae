package srs

import (
	"errors"
	"fmt"
)

// Sentinel categories for scheduler failures. Both are programmer errors on
// the caller's side and are never clamped away.
var (
	// ErrInvalidInput matches every input the scheduler rejects.
	ErrInvalidInput = errors.New("invalid scheduler input")

	// ErrInvalidState matches repetition counts outside 0..6. Such a count can
	// only appear if the caller did not feed the scheduler's own output back.
	ErrInvalidState = errors.New("invalid review state")
)

// InvalidInputError describes a rejected argument.
type InvalidInputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidInput to support errors.Is.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// InvalidStateError is returned when the current repetition count is outside
// the closed range the scheduler produces.
type InvalidStateError struct {
	RepetitionCount int
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("repetition count %d is outside [0,6]", e.RepetitionCount)
}

// Unwrap exposes both sentinel categories.
func (e *InvalidStateError) Unwrap() []error {
	return []error{ErrInvalidState, ErrInvalidInput}
}
