package ledger

import (
	"errors"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/money"
)

// Reason codes reported to callers and stored in failure_reason.
const (
	ReasonWalletNotFound          = "WALLET_NOT_FOUND"
	ReasonTransactionNotFound     = "TRANSACTION_NOT_FOUND"
	ReasonWalletBlocked           = "WALLET_BLOCKED"
	ReasonWalletInactive          = "WALLET_INACTIVE"
	ReasonInsufficientBalance     = "INSUFFICIENT_BALANCE"
	ReasonCurrencyMismatch        = "CURRENCY_MISMATCH"
	ReasonInvalidAmount           = "INVALID_AMOUNT"
	ReasonInvalidCurrency         = "INVALID_CURRENCY"
	ReasonAlreadyFinalized        = "ALREADY_FINALIZED"
	ReasonInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ReasonNotReversible           = "NOT_REVERSIBLE"
	ReasonIdempotencyConflict     = "IDEMPOTENCY_CONFLICT"
	ReasonRequestInProgress       = "REQUEST_IN_PROGRESS"
	ReasonPreviouslyFailed        = "PREVIOUSLY_FAILED"
	ReasonTransactionStuck        = "TRANSACTION_STUCK"
	ReasonConcurrentModification  = "CONCURRENT_MODIFICATION"
	ReasonValidation              = "VALIDATION_ERROR"
	ReasonAbandoned               = "ABANDONED"
	ReasonReversed                = "REVERSED"
	ReasonInternal                = "INTERNAL_ERROR"
)

// Order matters: more specific errors first.
var reasonCodes = []struct {
	err  error
	code string
}{
	{ErrTransactionStuck, ReasonTransactionStuck},
	{wallet.ErrWalletNotFound, ReasonWalletNotFound},
	{ErrTransactionNotFound, ReasonTransactionNotFound},
	{wallet.ErrWalletBlocked, ReasonWalletBlocked},
	{wallet.ErrWalletInactive, ReasonWalletInactive},
	{wallet.ErrInsufficientBalance, ReasonInsufficientBalance},
	{wallet.ErrInvalidStatusTransition, ReasonInvalidStatusTransition},
	{wallet.ErrConcurrentStatusChange, ReasonConcurrentModification},
	{ErrCurrencyMismatch, ReasonCurrencyMismatch},
	{money.ErrMismatchedCurrencies, ReasonCurrencyMismatch},
	{money.ErrInvalidAmount, ReasonInvalidAmount},
	{money.ErrAmountExceedsMaxSafeInt, ReasonInvalidAmount},
	{money.ErrInvalidCurrency, ReasonInvalidCurrency},
	{ErrAlreadyFinalized, ReasonAlreadyFinalized},
	{ErrNotReversible, ReasonNotReversible},
	{ErrIdempotencyConflict, ReasonIdempotencyConflict},
	{ErrRequestInProgress, ReasonRequestInProgress},
	{ErrPreviouslyFailed, ReasonPreviouslyFailed},
	{domain.ErrValidation, ReasonValidation},
}

// ReasonCode maps err to its stable machine-readable code.
func ReasonCode(err error) string {
	if err == nil {
		return ""
	}
	for _, rc := range reasonCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return ReasonInternal
}

// FailureReason formats err for the failure_reason column.
func FailureReason(err error) string {
	return ReasonCode(err) + ": " + err.Error()
}
