// Package domain holds the error kinds shared by the wallet and ledger
// domains. Specific errors wrap one of these so callers can match either.
package domain

import "errors"

var (
	// ErrNotFound: the wallet or transaction does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: a unique key (user wallet, idempotency key) is taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation: the input was rejected before touching storage.
	ErrValidation = errors.New("validation failed")
)
