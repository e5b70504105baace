package money

import "errors"

// Common money package errors
var (
	// ErrInvalidCurrency is returned when an unsupported code is used.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrNegativeFactor is returned when converting at a negative rate.
	ErrNegativeFactor = errors.New("factor cannot be negative")
)
