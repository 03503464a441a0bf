package transaction

import (
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
)

//revive:disable

// ReverseRequest is the body of POST /transactions/:id/reverse.
type ReverseRequest struct {
	Reason string `json:"reason" validate:"max=200"`
	Actor  string `json:"actor" validate:"omitempty,oneof=USER ADMIN SYSTEM"`
}

// ReferenceDTO links a transaction to an external entity.
type ReferenceDTO struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// TransactionDTO is the API representation of a ledger row. Amounts are
// decimal strings in the main currency unit.
type TransactionDTO struct {
	ID              string        `json:"id"`
	WalletID        string        `json:"wallet_id"`
	UserID          string        `json:"user_id"`
	TransactionType string        `json:"transaction_type"`
	Amount          string        `json:"amount"`
	Currency        string        `json:"currency"`
	Description     string        `json:"description,omitempty"`
	Reference       *ReferenceDTO `json:"reference,omitempty"`
	BalanceAfter    *string       `json:"balance_after,omitempty"`
	Status          string        `json:"status"`
	InitiatedBy     string        `json:"initiated_by"`
	FailureReason   string        `json:"failure_reason,omitempty"`
	IdempotencyKey  string        `json:"idempotency_key,omitempty"`
	ReversalOf      *string       `json:"reversal_of,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	FailedAt        *time.Time    `json:"failed_at,omitempty"`
	RolledBackAt    *time.Time    `json:"rolled_back_at,omitempty"`
}

// ReversalDTO is the response of a successful reversal.
type ReversalDTO struct {
	Original     *TransactionDTO `json:"original"`
	Compensating *TransactionDTO `json:"compensating"`
	Balance      string          `json:"balance"`
	Currency     string          `json:"currency"`
}

// ToTransactionDTO maps a ledger row to its API representation.
func ToTransactionDTO(tx *ledger.Transaction) *TransactionDTO {
	if tx == nil {
		return nil
	}
	out := &TransactionDTO{
		ID:              tx.ID.String(),
		WalletID:        tx.WalletID.String(),
		UserID:          tx.UserID.String(),
		TransactionType: string(tx.Type),
		Amount:          tx.Amount.Format(),
		Currency:        tx.Amount.CurrencyCode().String(),
		Description:     tx.Description,
		Status:          string(tx.Status),
		InitiatedBy:     string(tx.InitiatedBy),
		FailureReason:   tx.FailureReason,
		IdempotencyKey:  tx.IdempotencyKey,
		CreatedAt:       tx.CreatedAt,
		CompletedAt:     tx.CompletedAt,
		FailedAt:        tx.FailedAt,
		RolledBackAt:    tx.RolledBackAt,
	}
	if tx.Reference != nil {
		out.Reference = &ReferenceDTO{Type: string(tx.Reference.Type), ID: tx.Reference.ID}
	}
	if tx.BalanceAfter != nil {
		after := tx.BalanceAfter.Format()
		out.BalanceAfter = &after
	}
	if tx.ReversalOf != nil {
		of := tx.ReversalOf.String()
		out.ReversalOf = &of
	}
	return out
}

// ToTransactionDTOs maps a slice of ledger rows.
func ToTransactionDTOs(txs []*ledger.Transaction) []*TransactionDTO {
	out := make([]*TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionDTO(tx))
	}
	return out
}
