package usecase

import "errors"

// Sentinel errors the HTTP layer maps onto status codes. Services wrap
// them with context via fmt.Errorf and %w.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
