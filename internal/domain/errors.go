package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidLevel is returned when a level lies outside 1..5.
	ErrInvalidLevel = errors.New("invalid level")

	// ErrInvalidCategory is returned when a category is not one of the fixed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidQuizMode is returned when a quiz mode is neither duration nor count.
	ErrInvalidQuizMode = errors.New("invalid quiz mode")
)
