package services

import "errors"

// Error kinds classified at the handler boundary with errors.Is. Services
// wrap them with context; no error carries a partial entity.
var (
	// ErrNotFound is returned when an id names no existing record.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller's role does not permit the
	// operation. No persistence side effect happens after it.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned when a write would violate a field
	// constraint (missing required field, unknown enum value, immutable
	// field changed, malformed reference id).
	ErrValidation = errors.New("validation failed")
)
