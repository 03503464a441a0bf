package repository

import (
	"time"

	"github.com/google/uuid"
)

// Wallet is the persisted form of wallet.Wallet. Balance is in smallest units.
type Wallet struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Balance           int64     `gorm:"type:bigint;not null;check:chk_wallets_balance_non_negative,balance >= 0"`
	Currency          string    `gorm:"type:varchar(3);not null"`
	Status            string    `gorm:"type:varchar(16);not null;index"`
	Version           int64     `gorm:"type:bigint;not null"`
	LastTransactionAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for the Wallet model.
func (Wallet) TableName() string {
	return "wallets"
}

// Transaction is the persisted form of ledger.Transaction.
type Transaction struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	WalletID        uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index:idx_wallet_transactions_user_created,priority:1"`
	TransactionType string    `gorm:"type:varchar(8);not null"`
	Amount          int64     `gorm:"type:bigint;not null;check:chk_wallet_transactions_amount_positive,amount > 0"`
	Currency        string    `gorm:"type:varchar(3);not null"`
	Description     string    `gorm:"type:varchar(255)"`
	ReferenceType   *string   `gorm:"type:varchar(32);index:idx_wallet_transactions_reference,priority:1"`
	ReferenceID     *string   `gorm:"type:varchar(128);index:idx_wallet_transactions_reference,priority:2"`

	CurrentBalanceAfterTransaction *int64 `gorm:"type:bigint"`

	Status           string     `gorm:"type:varchar(16);not null;index:idx_wallet_transactions_status_created,priority:1"`
	InitiatedByActor string     `gorm:"type:varchar(8);not null"`
	FailureReason    *string    `gorm:"type:text"`
	IdempotencyKey   *string    `gorm:"type:varchar(128);uniqueIndex"`
	ReversalOf       *uuid.UUID `gorm:"type:uuid;index"`

	CreatedAt    time.Time `gorm:"index:idx_wallet_transactions_user_created,priority:2;index:idx_wallet_transactions_status_created,priority:2"`
	UpdatedAt    time.Time
	CompletedAt  *time.Time
	FailedAt     *time.Time
	RolledBackAt *time.Time
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "wallet_transactions"
}

// Models lists every model owned by this package, in migration order.
func Models() []any {
	return []any{&Wallet{}, &Transaction{}}
}
