package domain

import "errors"

// Validation errors returned at package boundaries.
var (
	// ErrInvalidInput is returned when a parameter is outside its valid domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownField is returned when an edit names a field that does not exist.
	ErrUnknownField = errors.New("unknown parameter field")
)
