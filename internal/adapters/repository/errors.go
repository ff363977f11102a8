package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrMalformedDocument  = errors.New("malformed account document")
)
