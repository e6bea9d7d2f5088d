package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is matched by every *InsufficientDataError.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidInput is matched by every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoValue means an accessor found no defined value for the requested date and field.
	ErrNoValue = errors.New("no value")
	// ErrAmbiguousValue means an accessor found more than one value for the requested date and field.
	ErrAmbiguousValue = errors.New("ambiguous value")
)

// InsufficientDataError reports that a window or input needed by a
// computation is not populated yet.
type InsufficientDataError struct {
	Field string
	Need  int
	Have  int
}

func (e *InsufficientDataError) Error() string {
	if e.Need > 0 {
		return fmt.Sprintf("insufficient data for %s: need %d points, have %d", e.Field, e.Need, e.Have)
	}
	return fmt.Sprintf("insufficient data for %s", e.Field)
}

func (e *InsufficientDataError) Is(target error) bool { return target == ErrInsufficientData }

// InvalidInputError reports a malformed input. Index is the offending
// position in a series, or -1 when the input as a whole is at fault.
type InvalidInputError struct {
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid input at index %d: %s", e.Index, e.Reason)
	}
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }
