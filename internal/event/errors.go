package event

import (
	"errors"
	"fmt"
)

// ErrHandlerPanic is wrapped by PanicError.
var ErrHandlerPanic = errors.New("handler panicked")

// PanicError reports a recovered handler panic.
type PanicError struct {
	Event     string
	Recovered any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: event %q: %v", ErrHandlerPanic, e.Event, e.Recovered)
}

// Unwrap returns ErrHandlerPanic.
func (e *PanicError) Unwrap() error {
	return ErrHandlerPanic
}
