package errors

import "errors"

var (
	ErrNotFound = errors.New("visitor not found")

	ErrInvalidID = errors.New("invalid visitor ID format")

	ErrDuplicate = errors.New("visitor with this email already exists")
)
