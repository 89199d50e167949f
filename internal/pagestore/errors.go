package pagestore

import "errors"

// ErrInvalidDimensions is returned by New when numPages or pageSize is not
// a strictly positive power of two.
var ErrInvalidDimensions = errors.New("pagestore: numPages and pageSize must be positive powers of two")
