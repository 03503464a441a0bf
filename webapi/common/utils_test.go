package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/money"
	ledgersvc "github.com/amirasaad/walletledger/pkg/service/ledger"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, fiber.StatusInternalServerError},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{"wallet not found", wallet.ErrWalletNotFound, fiber.StatusNotFound},
		{"transaction not found", ledger.ErrTransactionNotFound, fiber.StatusNotFound},
		{"blocked", wallet.ErrWalletBlocked, fiber.StatusConflict},
		{"inactive", fmt.Errorf("wrapped: %w", wallet.ErrWalletInactive), fiber.StatusConflict},
		{"not reversible", ledger.ErrNotReversible, fiber.StatusConflict},
		{"in progress", ledger.ErrRequestInProgress, fiber.StatusConflict},
		{"insufficient", wallet.ErrInsufficientBalance, fiber.StatusUnprocessableEntity},
		{"currency mismatch", ledger.ErrCurrencyMismatch, fiber.StatusUnprocessableEntity},
		{"invalid amount", ledger.ErrInvalidAmount, fiber.StatusBadRequest},
		{"invalid currency", money.ErrInvalidCurrency, fiber.StatusBadRequest},
		{"validation", domain.ErrValidation, fiber.StatusBadRequest},
		{"stuck", errors.Join(ledger.ErrTransactionStuck, wallet.ErrInsufficientBalance), fiber.StatusInternalServerError},
		{"unknown", errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ErrorToStatusCode(tc.err))
		})
	}
}

func TestProblemDetailsJSON(t *testing.T) {
	failedID := uuid.New()
	app := fiber.New()
	app.Get("/rejected", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Debit failed", &ledgersvc.RejectedError{
			Transaction: &ledger.Transaction{ID: failedID, Status: ledger.StatusFailed},
			Err:         wallet.ErrInsufficientBalance,
		})
	})
	app.Get("/override", func(c *fiber.Ctx) error {
		return ProblemDetailsJSON(c, "Nope", errors.New("boom"), fiber.StatusBadRequest, "bad input", map[string]string{"amount": "required"})
	})

	decode := func(path string) (int, string, ProblemDetails) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		defer resp.Body.Close() //nolint: errcheck
		var pd ProblemDetails
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&pd))
		return resp.StatusCode, resp.Header.Get(fiber.HeaderContentType), pd
	}

	status, contentType, pd := decode("/rejected")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.True(t, strings.HasPrefix(contentType, "application/problem+json"))
	assert.Equal(t, "INSUFFICIENT_BALANCE", pd.Code)
	assert.Equal(t, failedID.String(), pd.TransactionID)
	assert.Equal(t, "/rejected", pd.Instance)

	status, contentType, pd = decode("/override")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "application/problem+json", contentType)
	assert.Equal(t, fiber.StatusBadRequest, pd.Status)
	assert.Equal(t, "bad input", pd.Detail)
	assert.Equal(t, map[string]any{"amount": "required"}, pd.Errors)
}
