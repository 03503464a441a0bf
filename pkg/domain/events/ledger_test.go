package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedTx() *ledger.Transaction {
	after := money.MustParse("70.00", money.INR)
	return &ledger.Transaction{
		ID:           uuid.New(),
		WalletID:     uuid.New(),
		UserID:       uuid.New(),
		Type:         ledger.TypeDebit,
		Amount:       money.MustParse("30.00", money.INR),
		BalanceAfter: &after,
		Status:       ledger.StatusCompleted,
	}
}

func TestTransactionCompleted(t *testing.T) {
	tx := completedTx()
	at := time.Now().UTC()

	e := NewTransactionCompleted(tx, at)
	assert.Equal(t, "Ledger.TransactionCompleted", e.Type())
	assert.Equal(t, "30.00", e.Amount)
	assert.Equal(t, "70.00", e.BalanceAfter)
	assert.Equal(t, "INR", e.Currency)
	assert.Equal(t, "DEBIT", e.TransactionType)
}

func TestTransactionStuck(t *testing.T) {
	e := NewTransactionStuck(completedTx(), "INSUFFICIENT_BALANCE", errors.New("db down"), time.Now())
	assert.Equal(t, EventTypeTransactionStuck.String(), e.Type())
	assert.Equal(t, "db down", e.Error)
	assert.Equal(t, "INSUFFICIENT_BALANCE", e.Reason)
}

func TestEventTypesDecode(t *testing.T) {
	tx := completedTx()
	original := NewTransactionRolledBack(tx, uuid.New(), time.Now().UTC())

	data, err := json.Marshal(original)
	require.NoError(t, err)

	factory, ok := EventTypes[original.Type()]
	require.True(t, ok)
	decoded := factory()
	require.NoError(t, json.Unmarshal(data, decoded))

	rb, ok := decoded.(*TransactionRolledBack)
	require.True(t, ok)
	assert.Equal(t, tx.ID, rb.TransactionID)
	assert.Equal(t, original.CompensatingTransactionID, rb.CompensatingTransactionID)

	for name, newEvent := range EventTypes {
		assert.Equal(t, name, newEvent().Type())
	}
}
