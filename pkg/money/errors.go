package money

import "errors"

// Common money package errors
var (
	// ErrInvalidAmount is returned when an amount is malformed or too precise for its currency.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned for unknown or unsupported currency codes.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrAmountExceedsMaxSafeInt is returned when an amount does not fit in int64 smallest units.
	ErrAmountExceedsMaxSafeInt = errors.New("amount exceeds maximum safe integer value")

	// ErrMismatchedCurrencies is returned when performing operations on money with
	// different currencies
	ErrMismatchedCurrencies = errors.New("mismatched currencies")
)
