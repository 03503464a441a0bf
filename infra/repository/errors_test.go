package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	other := errors.New("some other error")
	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{"nil error returns nil", nil, nil},
		{"duplicate key maps to ErrAlreadyExists", gorm.ErrDuplicatedKey, domain.ErrAlreadyExists},
		{"record not found maps to ErrNotFound", gorm.ErrRecordNotFound, domain.ErrNotFound},
		{"non-GORM error returns original", other, other},
		{"joined duplicate key", errors.Join(errors.New("outer"), gorm.ErrDuplicatedKey), domain.ErrAlreadyExists},
		{"wrapped record not found", fmt.Errorf("query: %w", gorm.ErrRecordNotFound), domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapGormErrorToDomain(tt.input)
			if tt.expected == nil {
				require.NoError(t, result)
				return
			}
			assert.ErrorIs(t, result, tt.expected)
		})
	}
}

func TestNotFoundAs(t *testing.T) {
	t.Parallel()

	err := notFoundAs(gorm.ErrRecordNotFound, wallet.ErrWalletNotFound)
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = notFoundAs(gorm.ErrDuplicatedKey, wallet.ErrWalletNotFound)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}
