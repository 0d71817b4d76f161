package rows

import "errors"

// ErrRowPresent is returned when restoring a removed row that is still in the
// data source.
var ErrRowPresent = errors.New("row already present")
