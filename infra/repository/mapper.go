package repository

import (
	"fmt"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/money"
)

func mapWalletToModel(w *wallet.Wallet) Wallet {
	return Wallet{
		ID:                w.ID,
		UserID:            w.UserID,
		Balance:           w.Balance.Amount(),
		Currency:          string(w.Currency()),
		Status:            string(w.Status),
		Version:           w.Version,
		LastTransactionAt: w.LastTransactionAt,
		CreatedAt:         w.CreatedAt,
		UpdatedAt:         w.UpdatedAt,
	}
}

func mapModelToWallet(m *Wallet) (*wallet.Wallet, error) {
	balance, err := money.NewFromSmallestUnit(m.Balance, money.Code(m.Currency))
	if err != nil {
		return nil, fmt.Errorf("wallet %s: %w", m.ID, err)
	}
	return &wallet.Wallet{
		ID:                m.ID,
		UserID:            m.UserID,
		Balance:           balance,
		Status:            wallet.Status(m.Status),
		Version:           m.Version,
		LastTransactionAt: m.LastTransactionAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}, nil
}

func mapTransactionToModel(tx *ledger.Transaction) Transaction {
	m := Transaction{
		ID:               tx.ID,
		WalletID:         tx.WalletID,
		UserID:           tx.UserID,
		TransactionType:  string(tx.Type),
		Amount:           tx.Amount.Amount(),
		Currency:         string(tx.Amount.CurrencyCode()),
		Description:      tx.Description,
		Status:           string(tx.Status),
		InitiatedByActor: string(tx.InitiatedBy),
		ReversalOf:       tx.ReversalOf,
		CreatedAt:        tx.CreatedAt,
		UpdatedAt:        tx.UpdatedAt,
		CompletedAt:      tx.CompletedAt,
		FailedAt:         tx.FailedAt,
		RolledBackAt:     tx.RolledBackAt,
	}
	if tx.Reference != nil {
		refType := string(tx.Reference.Type)
		refID := tx.Reference.ID
		m.ReferenceType = &refType
		m.ReferenceID = &refID
	}
	if tx.BalanceAfter != nil {
		after := tx.BalanceAfter.Amount()
		m.CurrentBalanceAfterTransaction = &after
	}
	if tx.FailureReason != "" {
		reason := tx.FailureReason
		m.FailureReason = &reason
	}
	// An empty key is stored as NULL so the unique index ignores it.
	if tx.IdempotencyKey != "" {
		key := tx.IdempotencyKey
		m.IdempotencyKey = &key
	}
	return m
}

func mapModelToTransaction(m *Transaction) (*ledger.Transaction, error) {
	code := money.Code(m.Currency)
	amount, err := money.NewFromSmallestUnit(m.Amount, code)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", m.ID, err)
	}
	tx := &ledger.Transaction{
		ID:           m.ID,
		WalletID:     m.WalletID,
		UserID:       m.UserID,
		Type:         ledger.Type(m.TransactionType),
		Amount:       amount,
		Description:  m.Description,
		Status:       ledger.Status(m.Status),
		InitiatedBy:  ledger.Actor(m.InitiatedByActor),
		ReversalOf:   m.ReversalOf,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		CompletedAt:  m.CompletedAt,
		FailedAt:     m.FailedAt,
		RolledBackAt: m.RolledBackAt,
	}
	if m.ReferenceType != nil {
		tx.Reference = &ledger.Reference{Type: ledger.ReferenceType(*m.ReferenceType)}
		if m.ReferenceID != nil {
			tx.Reference.ID = *m.ReferenceID
		}
	}
	if m.CurrentBalanceAfterTransaction != nil {
		after, err := money.NewFromSmallestUnit(*m.CurrentBalanceAfterTransaction, code)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", m.ID, err)
		}
		tx.BalanceAfter = &after
	}
	if m.FailureReason != nil {
		tx.FailureReason = *m.FailureReason
	}
	if m.IdempotencyKey != nil {
		tx.IdempotencyKey = *m.IdempotencyKey
	}
	return tx, nil
}

func mapModelsToTransactions(ms []Transaction) ([]*ledger.Transaction, error) {
	out := make([]*ledger.Transaction, 0, len(ms))
	for i := range ms {
		tx, err := mapModelToTransaction(&ms[i])
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}
