package repository

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/dto"
	"github.com/google/uuid"
)

// ErrConditionNotMet is returned by conditional updates that matched no row.
// Callers read the row to classify the rejection.
var ErrConditionNotMet = errors.New("conditional update matched no rows")

// WalletRepository persists wallets. ApplyDelta is the only balance mutation.
type WalletRepository interface {
	Create(ctx context.Context, w *wallet.Wallet) error
	Get(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error)

	// ApplyDelta adds delta smallest units to an ACTIVE wallet as one
	// conditional statement that also rejects a negative result. It bumps
	// version, stamps last_transaction_at and returns the updated wallet.
	ApplyDelta(ctx context.Context, id uuid.UUID, delta int64, at time.Time) (*wallet.Wallet, error)

	// UpdateStatus moves the wallet from one status to another only if it is
	// currently in from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to wallet.Status, at time.Time) (*wallet.Wallet, error)
}

// TransactionRepository persists ledger rows. Status changes are conditional
// on the current status, so each transition happens at most once.
type TransactionRepository interface {
	Create(ctx context.Context, tx *ledger.Transaction) error
	Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*ledger.Transaction, error)

	MarkCompleted(ctx context.Context, id uuid.UUID, balanceAfter int64, at time.Time) (*ledger.Transaction, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string, at time.Time) (*ledger.Transaction, error)
	MarkRolledBack(ctx context.Context, id uuid.UUID, reason string, at time.Time) (*ledger.Transaction, error)

	List(ctx context.Context, filter dto.TransactionFilter, page dto.Page) ([]*ledger.Transaction, int64, error)
	Aggregate(ctx context.Context, filter dto.TransactionFilter) ([]dto.AggregateRow, error)
	ListPending(ctx context.Context, olderThan time.Time, limit int) ([]*ledger.Transaction, error)
}
