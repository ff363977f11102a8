package service

import "errors"

var (
	// ErrNotStarted is returned by commands issued before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoVerifier is returned by signup when no e-mail verifier is set.
	ErrNoVerifier = errors.New("no email verifier configured")
	// ErrInvalidCount is returned by Seed for a non-positive count.
	ErrInvalidCount = errors.New("count must be positive")
)
