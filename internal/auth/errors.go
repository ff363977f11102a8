package auth

import "errors"

// Sentinel kinds for authentication errors. Each is a user-facing rejection;
// the operation is aborted with no state change.
var (
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrMissingField            = errors.New("username, password and email are required")
	ErrDuplicateUsername       = errors.New("username already exists")
	ErrEmailVerificationFailed = errors.New("email verification failed")
)
