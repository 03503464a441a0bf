package dto

import (
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
)

// Bucket reports one (type, status) group of a ledger summary.
type Bucket struct {
	Type   ledger.Type   `json:"type"`
	Status ledger.Status `json:"status"`
	Count  int64         `json:"count"`
	Total  money.Money   `json:"total"`
}

// LedgerSummary aggregates a wallet's ledger, optionally over a trailing window.
// Credited and Debited only count rows whose delta was applied.
type LedgerSummary struct {
	WalletID        uuid.UUID   `json:"wallet_id"`
	UserID          uuid.UUID   `json:"user_id"`
	WindowDays      int         `json:"window_days,omitempty"`
	Since           *time.Time  `json:"since,omitempty"`
	Buckets         []Bucket    `json:"buckets"`
	Credited        money.Money `json:"credited"`
	Debited         money.Money `json:"debited"`
	Net             money.Money `json:"net"`
	PendingCount    int64       `json:"pending_count"`
	CompletedCount  int64       `json:"completed_count"`
	FailedCount     int64       `json:"failed_count"`
	RolledBackCount int64       `json:"rolled_back_count"`
	GeneratedAt     time.Time   `json:"generated_at"`
}

// Reconciliation compares the stored wallet balance with the balance the
// ledger implies.
type Reconciliation struct {
	WalletID      uuid.UUID   `json:"wallet_id"`
	Balance       money.Money `json:"balance"`
	LedgerBalance money.Money `json:"ledger_balance"`
	Difference    money.Money `json:"difference"`
	Consistent    bool        `json:"consistent"`
	PendingCount  int64       `json:"pending_count"`
	CheckedAt     time.Time   `json:"checked_at"`
}

// SweepReport is the outcome of one reconciliation sweep.
type SweepReport struct {
	Scanned   int       `json:"scanned"`
	FailedOut int       `json:"failed_out"`
	Skipped   int       `json:"skipped"`
	Errors    int       `json:"errors"`
	Cutoff    time.Time `json:"cutoff"`
}
