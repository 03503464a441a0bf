package wallet

import (
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
)

var (
	// ErrWalletNotFound is returned when no wallet exists for the given id or user.
	ErrWalletNotFound = fmt.Errorf("wallet %w", domain.ErrNotFound)

	// ErrWalletBlocked is returned when a mutation targets a BLOCKED wallet.
	ErrWalletBlocked = errors.New("wallet is blocked")

	// ErrWalletInactive is returned when a mutation targets an INACTIVE wallet.
	ErrWalletInactive = errors.New("wallet is inactive")

	// ErrInsufficientBalance is returned when a debit would drive the balance below zero.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidStatusTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidStatusTransition = errors.New("invalid wallet status transition")

	// ErrConcurrentStatusChange is returned when a credit was rejected because the wallet
	// left ACTIVE and came back before the rejection could be classified.
	ErrConcurrentStatusChange = errors.New("wallet status changed during update")

	// ErrMissingUserID is returned when building a wallet without an owner.
	ErrMissingUserID = errors.New("wallet requires a user id")
)

// Status gates whether a wallet may be mutated.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusBlocked  Status = "BLOCKED"
	StatusInactive Status = "INACTIVE"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusBlocked, StatusInactive:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// INACTIVE is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusBlocked || next == StatusInactive
	case StatusBlocked:
		return next == StatusActive || next == StatusInactive
	}
	return false
}

// Err returns the error a mutation against a wallet in status s fails with,
// or nil when s allows mutation.
func (s Status) Err() error {
	switch s {
	case StatusActive:
		return nil
	case StatusBlocked:
		return ErrWalletBlocked
	default:
		return ErrWalletInactive
	}
}

// Wallet is the single balance record of a user.
//
// Invariants:
//   - Balance is never negative.
//   - Balance currency never changes after creation.
//   - Version increases by one on every balance mutation.
type Wallet struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Balance           money.Money
	Status            Status
	Version           int64
	LastTransactionAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Currency returns the currency code of the wallet balance.
func (w *Wallet) Currency() money.Code {
	return w.Balance.CurrencyCode()
}

// CanTransact returns nil when the wallet accepts balance mutations.
func (w *Wallet) CanTransact() error {
	return w.Status.Err()
}

// Builder provides a fluent API for constructing Wallet instances.
type Builder struct {
	id       uuid.UUID
	userID   uuid.UUID
	currency money.Code
	now      time.Time
}

// New creates a Builder with a fresh id and the default currency.
func New() *Builder {
	return &Builder{
		id:       uuid.New(),
		currency: money.DefaultCode,
		now:      time.Now().UTC(),
	}
}

func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

func (b *Builder) WithCurrency(code money.Code) *Builder {
	b.currency = code
	return b
}

func (b *Builder) WithCreatedAt(t time.Time) *Builder {
	b.now = t
	return b
}

// Build validates the builder and returns an ACTIVE wallet with a zero balance.
func (b *Builder) Build() (*Wallet, error) {
	if b.userID == uuid.Nil {
		return nil, ErrMissingUserID
	}
	if !b.currency.IsSupported() {
		return nil, fmt.Errorf("%w: %s", money.ErrInvalidCurrency, b.currency)
	}
	return &Wallet{
		ID:        b.id,
		UserID:    b.userID,
		Balance:   money.Zero(b.currency),
		Status:    StatusActive,
		CreatedAt: b.now,
		UpdatedAt: b.now,
	}, nil
}
