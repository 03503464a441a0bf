// Package ledger defines the append-only wallet transaction record and its
// status machine:
//
//	PENDING   --(mutation succeeds)-->   COMPLETED
//	PENDING   --(mutation rejected)-->   FAILED
//	COMPLETED --(compensating action)--> ROLLED_BACK
package ledger

import (
	"fmt"
	"time"

	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
)

// MaxDescriptionLength bounds the free-text description stored with a transaction.
const MaxDescriptionLength = 255

// Type is the direction of a balance movement. Amounts are never signed.
type Type string

const (
	TypeCredit Type = "CREDIT"
	TypeDebit  Type = "DEBIT"
)

// Valid reports whether t is CREDIT or DEBIT.
func (t Type) Valid() bool {
	return t == TypeCredit || t == TypeDebit
}

// Opposite returns the direction that undoes t.
func (t Type) Opposite() Type {
	if t == TypeCredit {
		return TypeDebit
	}
	return TypeCredit
}

// Sign is +1 for credits and -1 for debits.
func (t Type) Sign() int64 {
	if t == TypeDebit {
		return -1
	}
	return 1
}

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusRolledBack Status = "ROLLED_BACK"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed, StatusRolledBack:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusCompleted || next == StatusFailed
	case StatusCompleted:
		return next == StatusRolledBack
	}
	return false
}

// Applied reports whether a row in status s had its delta applied to the wallet.
// A ROLLED_BACK row stays applied; its effect is offset by its compensating row.
func (s Status) Applied() bool {
	return s == StatusCompleted || s == StatusRolledBack
}

// ReferenceType names the external entity a transaction belongs to.
type ReferenceType string

const (
	ReferenceOrder           ReferenceType = "ORDER"
	ReferenceRefund          ReferenceType = "REFUND"
	ReferencePaymentGateway  ReferenceType = "PAYMENT_GATEWAY"
	ReferenceAdminAdjustment ReferenceType = "ADMIN_ADJUSTMENT"
	ReferenceWithdrawal      ReferenceType = "WITHDRAWAL"
)

// Valid reports whether r is a known reference type.
func (r ReferenceType) Valid() bool {
	switch r {
	case ReferenceOrder, ReferenceRefund, ReferencePaymentGateway,
		ReferenceAdminAdjustment, ReferenceWithdrawal:
		return true
	}
	return false
}

// Reference links a transaction to the external entity that caused it.
type Reference struct {
	Type ReferenceType `json:"type"`
	ID   string        `json:"id"`
}

// Validate checks the reference type and that the id is present.
func (r *Reference) Validate() error {
	if r == nil {
		return nil
	}
	if !r.Type.Valid() || r.ID == "" {
		return fmt.Errorf("%w: %s/%q", ErrInvalidReference, r.Type, r.ID)
	}
	return nil
}

// Actor records who initiated a movement.
type Actor string

const (
	ActorUser   Actor = "USER"
	ActorAdmin  Actor = "ADMIN"
	ActorSystem Actor = "SYSTEM"
)

// Valid reports whether a is a known actor.
func (a Actor) Valid() bool {
	return a == ActorUser || a == ActorAdmin || a == ActorSystem
}

// Transaction is one immutable ledger entry of a wallet movement.
type Transaction struct {
	ID             uuid.UUID
	WalletID       uuid.UUID
	UserID         uuid.UUID
	Type           Type
	Amount         money.Money
	Description    string
	Reference      *Reference
	BalanceAfter   *money.Money
	Status         Status
	InitiatedBy    Actor
	FailureReason  string
	IdempotencyKey string
	ReversalOf     *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
	FailedAt       *time.Time
	RolledBackAt   *time.Time
}

// SignedAmount returns the smallest-unit delta this row applies to its wallet.
func (t *Transaction) SignedAmount() int64 {
	return t.Type.Sign() * t.Amount.Amount()
}

// IsReversal reports whether t compensates another transaction.
func (t *Transaction) IsReversal() bool {
	return t.ReversalOf != nil
}

// Draft carries the inputs of a new PENDING transaction.
type Draft struct {
	WalletID       uuid.UUID
	UserID         uuid.UUID
	WalletCurrency money.Code
	Type           Type
	Amount         money.Money
	Description    string
	Reference      *Reference
	Actor          Actor
	IdempotencyKey string
	ReversalOf     *uuid.UUID
}

// Validate enforces the invariants a row must satisfy before it is recorded.
func (d Draft) Validate() error {
	if !d.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTransactionType, d.Type)
	}
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if d.Amount.CurrencyCode() != d.WalletCurrency {
		return fmt.Errorf("%w: wallet is %s, amount is %s",
			ErrCurrencyMismatch, d.WalletCurrency, d.Amount.CurrencyCode())
	}
	if !d.Actor.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidActor, d.Actor)
	}
	if len(d.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return d.Reference.Validate()
}

// Matches reports whether an existing transaction was created from an
// equivalent draft. Used to detect idempotency key reuse.
func (d Draft) Matches(t *Transaction) bool {
	return t.UserID == d.UserID &&
		t.Type == d.Type &&
		t.Amount.Equals(d.Amount)
}

// NewPending validates d and returns a PENDING transaction created at now.
func NewPending(d Draft, now time.Time) (*Transaction, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Transaction{
		ID:             uuid.New(),
		WalletID:       d.WalletID,
		UserID:         d.UserID,
		Type:           d.Type,
		Amount:         d.Amount,
		Description:    d.Description,
		Reference:      d.Reference,
		Status:         StatusPending,
		InitiatedBy:    d.Actor,
		IdempotencyKey: d.IdempotencyKey,
		ReversalOf:     d.ReversalOf,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}
