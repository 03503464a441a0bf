package events

import (
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/google/uuid"
)

// TransactionEvent carries the ledger row snapshot shared by all ledger events.
// Amounts are decimal strings in the main currency unit.
type TransactionEvent struct {
	TransactionID   uuid.UUID  `json:"transaction_id"`
	WalletID        uuid.UUID  `json:"wallet_id"`
	UserID          uuid.UUID  `json:"user_id"`
	TransactionType string     `json:"transaction_type"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	BalanceAfter    string     `json:"balance_after,omitempty"`
	Reason          string     `json:"reason,omitempty"`
	ReversalOf      *uuid.UUID `json:"reversal_of,omitempty"`
	OccurredAt      time.Time  `json:"occurred_at"`
}

func newTransactionEvent(tx *ledger.Transaction, at time.Time) TransactionEvent {
	e := TransactionEvent{
		TransactionID:   tx.ID,
		WalletID:        tx.WalletID,
		UserID:          tx.UserID,
		TransactionType: string(tx.Type),
		Amount:          tx.Amount.Format(),
		Currency:        tx.Amount.CurrencyCode().String(),
		Status:          string(tx.Status),
		Reason:          tx.FailureReason,
		ReversalOf:      tx.ReversalOf,
		OccurredAt:      at,
	}
	if tx.BalanceAfter != nil {
		e.BalanceAfter = tx.BalanceAfter.Format()
	}
	return e
}

// TransactionCompleted is emitted after a movement is applied to the wallet.
type TransactionCompleted struct {
	TransactionEvent
}

func (e TransactionCompleted) Type() string { return EventTypeTransactionCompleted.String() }

func NewTransactionCompleted(tx *ledger.Transaction, at time.Time) *TransactionCompleted {
	return &TransactionCompleted{TransactionEvent: newTransactionEvent(tx, at)}
}

// TransactionFailed is emitted when a movement was rejected and recorded as FAILED.
type TransactionFailed struct {
	TransactionEvent
}

func (e TransactionFailed) Type() string { return EventTypeTransactionFailed.String() }

func NewTransactionFailed(tx *ledger.Transaction, at time.Time) *TransactionFailed {
	return &TransactionFailed{TransactionEvent: newTransactionEvent(tx, at)}
}

// TransactionRolledBack is emitted for the original row once its compensating
// transaction has been applied.
type TransactionRolledBack struct {
	TransactionEvent
	CompensatingTransactionID uuid.UUID `json:"compensating_transaction_id"`
}

func (e TransactionRolledBack) Type() string { return EventTypeTransactionRolledBack.String() }

func NewTransactionRolledBack(original *ledger.Transaction, compensatingID uuid.UUID, at time.Time) *TransactionRolledBack {
	return &TransactionRolledBack{
		TransactionEvent:          newTransactionEvent(original, at),
		CompensatingTransactionID: compensatingID,
	}
}

// TransactionStuck is an operational alert: a rejected movement could not be
// recorded as FAILED and is left PENDING for the reconciliation sweep.
type TransactionStuck struct {
	TransactionEvent
	Error string `json:"error"`
}

func (e TransactionStuck) Type() string { return EventTypeTransactionStuck.String() }

// NewTransactionStuck reports tx as stuck. reason is the failure reason the
// row should have been finalized with.
func NewTransactionStuck(tx *ledger.Transaction, reason string, cause error, at time.Time) *TransactionStuck {
	e := &TransactionStuck{
		TransactionEvent: newTransactionEvent(tx, at),
		Error:            cause.Error(),
	}
	e.Reason = reason
	return e
}

// WalletStatusChanged is emitted on block, unblock and deactivate.
type WalletStatusChanged struct {
	WalletID   uuid.UUID `json:"wallet_id"`
	UserID     uuid.UUID `json:"user_id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (e WalletStatusChanged) Type() string { return EventTypeWalletStatusChanged.String() }

func NewWalletStatusChanged(w *wallet.Wallet, from wallet.Status, at time.Time) *WalletStatusChanged {
	return &WalletStatusChanged{
		WalletID:   w.ID,
		UserID:     w.UserID,
		From:       string(from),
		To:         string(w.Status),
		OccurredAt: at,
	}
}
