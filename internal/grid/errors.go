package grid

import "errors"

// Errors returned by grids and the registry.
var (
	ErrNilSurface    = errors.New("grid surface is nil")
	ErrDuplicateGrid = errors.New("grid already registered")
	ErrGridNotFound  = errors.New("grid not found")
)
