package errors

import "errors"

var (
	ErrNotFound = errors.New("animal not found")

	ErrInvalidID = errors.New("invalid animal ID format")
)
