package wallet

import (
	"testing"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	require := require.New(t)
	userID := uuid.New()

	w, err := New().WithUserID(userID).WithCurrency(money.USD).Build()
	require.NoError(err)
	assert.Equal(t, userID, w.UserID)
	assert.Equal(t, money.USD, w.Currency())
	assert.True(t, w.Balance.IsZero())
	assert.Equal(t, StatusActive, w.Status)
	assert.Zero(t, w.Version)
	require.NoError(w.CanTransact())

	_, err = New().Build()
	require.ErrorIs(err, ErrMissingUserID)

	_, err = New().WithUserID(userID).WithCurrency("JPY").Build()
	require.ErrorIs(err, money.ErrInvalidCurrency)
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		allowed  bool
	}{
		{StatusActive, StatusBlocked, true},
		{StatusActive, StatusInactive, true},
		{StatusBlocked, StatusActive, true},
		{StatusBlocked, StatusInactive, true},
		{StatusActive, StatusActive, false},
		{StatusInactive, StatusActive, false},
		{StatusInactive, StatusBlocked, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusErr(t *testing.T) {
	assert.NoError(t, StatusActive.Err())
	assert.ErrorIs(t, StatusBlocked.Err(), ErrWalletBlocked)
	assert.ErrorIs(t, StatusInactive.Err(), ErrWalletInactive)
	assert.ErrorIs(t, ErrWalletNotFound, domain.ErrNotFound)
	assert.False(t, Status("FROZEN").Valid())
}
