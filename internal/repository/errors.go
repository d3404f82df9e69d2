package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when the store cannot be reached or a
	// write is rejected. The core performs no automatic retry; every
	// operation is safely retryable by the caller.
	ErrUnavailable = errors.New("store unavailable")
)
