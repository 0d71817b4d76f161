package config

import "errors"

// Errors returned by configuration loading.
var (
	// ErrInvalidConfig wraps struct validation failures.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrFileNotFound is returned when an explicitly named file is missing.
	ErrFileNotFound = errors.New("config file not found")
)
