package selection

import "errors"

// Errors returned by the selection engine.
var (
	// ErrUnsupportedSelectionMode is returned for ListBox, Row and RowRange,
	// which conflict with the checkbox row header.
	ErrUnsupportedSelectionMode = errors.New("unsupported selection mode")

	// ErrColumnNotFound is returned when a range spans a missing column.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNotNumeric is returned when a numeric column holds a non-numeric value.
	ErrNotNumeric = errors.New("value is not numeric")
)
