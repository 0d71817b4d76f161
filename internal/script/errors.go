package script

import "errors"

// Errors returned by the runtime.
var (
	ErrClosed    = errors.New("script runtime closed")
	ErrNoSurface = errors.New("surface does not support additive selection")
)
