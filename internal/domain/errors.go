package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrAppNotFound is returned when a query resolves to no app.
	ErrAppNotFound = errors.New("app not found")
	// ErrInvalidCount is returned for non-positive review counts.
	ErrInvalidCount = errors.New("review count must be positive")
)
