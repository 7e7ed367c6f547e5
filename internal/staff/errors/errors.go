package errors

import "errors"

var (
	ErrNotFound = errors.New("staff member not found")

	ErrInvalidID = errors.New("invalid staff ID format")

	ErrDuplicate = errors.New("staff member already exists")

	// ErrTokenMismatch means the stored refresh token hash did not match.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)
