package errors

import "errors"

var (
	ErrNotFound = errors.New("ticket not found")

	ErrInvalidID = errors.New("invalid ticket ID format")

	// ErrStateConflict means the ticket exists but is not in a state that
	// allows the requested transition.
	ErrStateConflict = errors.New("ticket state does not allow this operation")
)
