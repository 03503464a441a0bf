package wallet

import (
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/webapi/transaction"
)

//revive:disable

// MovementRequest is the body of the credit and debit endpoints. Amount is a
// decimal string in the main currency unit, e.g. "30.00".
type MovementRequest struct {
	Amount         string `json:"amount" validate:"required,numeric"`
	Currency       string `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
	Description    string `json:"description" validate:"max=255"`
	ReferenceType  string `json:"reference_type" validate:"omitempty,oneof=ORDER REFUND PAYMENT_GATEWAY ADMIN_ADJUSTMENT WITHDRAWAL"`
	ReferenceID    string `json:"reference_id" validate:"required_with=ReferenceType,max=128"`
	Actor          string `json:"actor" validate:"omitempty,oneof=USER ADMIN SYSTEM"`
	IdempotencyKey string `json:"idempotency_key" validate:"max=128"`
}

// WalletDTO is the API representation of a wallet.
type WalletDTO struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Balance           string     `json:"balance"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	Version           int64      `json:"version"`
	LastTransactionAt *time.Time `json:"last_transaction_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// MovementResponse is returned by the credit and debit endpoints.
type MovementResponse struct {
	Transaction *transaction.TransactionDTO `json:"transaction"`
	Wallet      *WalletDTO                  `json:"wallet"`
	Replayed    bool                        `json:"replayed"`
}

// TransactionListResponse is one page of a wallet's transactions.
type TransactionListResponse struct {
	Items []*transaction.TransactionDTO `json:"items"`
	Total int64                         `json:"total"`
	Page  int                           `json:"page"`
	Limit int                           `json:"limit"`
}

// ToWalletDTO maps a wallet to its API representation.
func ToWalletDTO(w *wallet.Wallet) *WalletDTO {
	if w == nil {
		return nil
	}
	return &WalletDTO{
		ID:                w.ID.String(),
		UserID:            w.UserID.String(),
		Balance:           w.Balance.Format(),
		Currency:          w.Currency().String(),
		Status:            string(w.Status),
		Version:           w.Version,
		LastTransactionAt: w.LastTransactionAt,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}
