package portfolio

import (
	"errors"
	"fmt"
)

// ErrAuthRequired is returned when no session identifies the caller.
// It is fatal for the dashboard: the user must sign in and retry.
var ErrAuthRequired = errors.New("please sign in to view your portfolio")

// ErrInvalidHolding marks holding input rejected by validation.
var ErrInvalidHolding = errors.New("invalid holding")

// PersistenceError wraps any backend call failure with the operation
// that caused it. Fatal during the initial load, non-blocking during
// mutations and refreshes.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
