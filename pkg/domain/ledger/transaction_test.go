package ledger

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		WalletID:       uuid.New(),
		UserID:         uuid.New(),
		WalletCurrency: money.INR,
		Type:           TypeDebit,
		Amount:         money.MustParse("30.00", money.INR),
		Description:    "order payment",
		Reference:      &Reference{Type: ReferenceOrder, ID: "ord-1"},
		Actor:          ActorUser,
	}
}

func TestNewPending(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	d := validDraft()

	tx, err := NewPending(d, now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, StatusPending, tx.Status)
	assert.Equal(t, now, tx.CreatedAt)
	assert.Nil(t, tx.BalanceAfter)
	assert.Equal(t, int64(-3000), tx.SignedAmount())
	assert.False(t, tx.IsReversal())
	assert.True(t, d.Matches(tx))
}

func TestDraftValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Draft)
		wantErr error
	}{
		{"zero amount", func(d *Draft) { d.Amount = money.Zero(money.INR) }, ErrInvalidAmount},
		{"negative amount", func(d *Draft) { d.Amount = money.MustParse("-1", money.INR) }, money.ErrInvalidAmount},
		{"currency mismatch", func(d *Draft) { d.Amount = money.MustParse("1", money.USD) }, ErrCurrencyMismatch},
		{"unknown type", func(d *Draft) { d.Type = "TRANSFER" }, ErrInvalidTransactionType},
		{"unknown actor", func(d *Draft) { d.Actor = "ROBOT" }, ErrInvalidActor},
		{"bad reference", func(d *Draft) { d.Reference = &Reference{Type: "INVOICE", ID: "x"} }, ErrInvalidReference},
		{"empty reference id", func(d *Draft) { d.Reference = &Reference{Type: ReferenceRefund} }, ErrInvalidReference},
		{"description too long", func(d *Draft) { d.Description = strings.Repeat("x", 256) }, ErrDescriptionTooLong},
		{"nil reference ok", func(d *Draft) { d.Reference = nil }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)
			err := d.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStatusMachine(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.True(t, StatusPending.CanTransitionTo(StatusFailed))
	assert.True(t, StatusCompleted.CanTransitionTo(StatusRolledBack))
	assert.False(t, StatusPending.CanTransitionTo(StatusRolledBack))
	assert.False(t, StatusCompleted.CanTransitionTo(StatusFailed))
	assert.False(t, StatusFailed.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusRolledBack.CanTransitionTo(StatusCompleted))

	assert.True(t, StatusCompleted.Applied())
	assert.True(t, StatusRolledBack.Applied())
	assert.False(t, StatusFailed.Applied())
	assert.False(t, StatusPending.Applied())
}

func TestType(t *testing.T) {
	assert.Equal(t, TypeDebit, TypeCredit.Opposite())
	assert.Equal(t, TypeCredit, TypeDebit.Opposite())
	assert.Equal(t, int64(1), TypeCredit.Sign())
	assert.Equal(t, int64(-1), TypeDebit.Sign())
}

func TestReasonCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{wallet.ErrInsufficientBalance, ReasonInsufficientBalance},
		{fmt.Errorf("apply: %w", wallet.ErrWalletBlocked), ReasonWalletBlocked},
		{wallet.ErrWalletNotFound, ReasonWalletNotFound},
		{ErrTransactionNotFound, ReasonTransactionNotFound},
		{ErrInvalidAmount, ReasonInvalidAmount},
		{money.ErrInvalidCurrency, ReasonInvalidCurrency},
		{ErrInvalidActor, ReasonValidation},
		{errors.Join(ErrTransactionStuck, wallet.ErrInsufficientBalance), ReasonTransactionStuck},
		{errors.New("boom"), ReasonInternal},
		{nil, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReasonCode(tt.err))
	}
	assert.Equal(t, "INSUFFICIENT_BALANCE: insufficient balance",
		FailureReason(wallet.ErrInsufficientBalance))
}
