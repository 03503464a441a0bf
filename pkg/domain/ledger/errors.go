package ledger

import (
	"errors"
	"fmt"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/money"
)

var (
	// ErrTransactionNotFound is returned when a transaction id does not exist.
	ErrTransactionNotFound = fmt.Errorf("transaction %w", domain.ErrNotFound)

	// ErrAlreadyFinalized is returned when finalizing a transaction that already left PENDING.
	ErrAlreadyFinalized = errors.New("transaction already finalized")

	// ErrInvalidAmount is returned when a transaction amount is not positive.
	ErrInvalidAmount = fmt.Errorf("%w: transaction amount must be positive", money.ErrInvalidAmount)

	// ErrCurrencyMismatch is returned when the transaction currency differs from the wallet's.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrInvalidTransactionType is returned for a direction other than CREDIT or DEBIT.
	ErrInvalidTransactionType = fmt.Errorf("%w: unknown transaction type", domain.ErrValidation)

	// ErrInvalidActor is returned for an initiator other than USER, ADMIN or SYSTEM.
	ErrInvalidActor = fmt.Errorf("%w: unknown actor", domain.ErrValidation)

	// ErrInvalidReference is returned for an unknown reference type or an empty reference id.
	ErrInvalidReference = fmt.Errorf("%w: invalid reference", domain.ErrValidation)

	// ErrDescriptionTooLong is returned when the description exceeds MaxDescriptionLength.
	ErrDescriptionTooLong = fmt.Errorf("%w: description too long", domain.ErrValidation)

	// ErrNotReversible is returned when reversing a transaction that is not COMPLETED
	// or is itself a reversal.
	ErrNotReversible = errors.New("transaction cannot be reversed")

	// ErrTransactionStuck is returned when a rejected mutation could not be recorded
	// as FAILED. The row stays PENDING until the reconciliation sweep fails it out.
	ErrTransactionStuck = errors.New("transaction stuck in pending")

	// ErrIdempotencyConflict is returned when an idempotency key is reused with different parameters.
	ErrIdempotencyConflict = errors.New("idempotency key reused with different parameters")

	// ErrRequestInProgress is returned when the first request for an idempotency key is still PENDING.
	ErrRequestInProgress = errors.New("request with this idempotency key is in progress")

	// ErrPreviouslyFailed is returned when replaying an idempotency key whose first attempt FAILED.
	ErrPreviouslyFailed = errors.New("request with this idempotency key previously failed")
)
