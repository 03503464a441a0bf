// Package common holds the response envelopes, error mapping and request
// binding shared by the HTTP handlers.
package common

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/money"
	ledgersvc "github.com/amirasaad/walletledger/pkg/service/ledger"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs, extended
// with the ledger reason code and, for rejected movements, the id of the
// FAILED transaction row.
type ProblemDetails struct {
	Type          string `json:"type,omitempty"`
	Title         string `json:"title"`
	Status        int    `json:"status"`
	Detail        string `json:"detail,omitempty"`
	Instance      string `json:"instance,omitempty"`
	Code          string `json:"code,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Errors        any    `json:"errors,omitempty"`
}

const problemContentType = "application/problem+json"

var validate = validator.New()

// SuccessResponseJSON writes a success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{Status: status, Message: message, Data: data})
}

// ProblemDetailsJSON writes err as application/problem+json. The status is
// derived from err unless an int is passed in args; a string in args
// replaces the detail, any other value is reported under errors.
func ProblemDetailsJSON(c *fiber.Ctx, title string, err error, args ...any) error {
	status := ErrorToStatusCode(err)
	pd := ProblemDetails{
		Type:     "about:blank",
		Title:    title,
		Instance: c.OriginalURL(),
	}
	if err != nil {
		pd.Detail = err.Error()
		pd.Code = ledger.ReasonCode(err)
		var rejected *ledgersvc.RejectedError
		if errors.As(err, &rejected) && rejected.Transaction != nil {
			pd.TransactionID = rejected.Transaction.ID.String()
		}
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case int:
			status = v
		case string:
			pd.Detail = v
		case nil:
		default:
			pd.Errors = v
		}
	}
	pd.Status = status
	if status >= fiber.StatusInternalServerError {
		slog.Default().Error("Request failed", "path", c.Path(), "status", status, "error", err)
	}

	return c.Status(status).JSON(pd, problemContentType)
}

// ErrorToStatusCode maps domain errors to HTTP status codes.
func ErrorToStatusCode(err error) int {
	var fe *fiber.Error
	switch {
	case err == nil:
		return fiber.StatusInternalServerError
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, ledger.ErrTransactionStuck):
		return fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, wallet.ErrWalletBlocked),
		errors.Is(err, wallet.ErrWalletInactive),
		errors.Is(err, wallet.ErrInvalidStatusTransition),
		errors.Is(err, wallet.ErrConcurrentStatusChange),
		errors.Is(err, ledger.ErrAlreadyFinalized),
		errors.Is(err, ledger.ErrNotReversible),
		errors.Is(err, ledger.ErrIdempotencyConflict),
		errors.Is(err, ledger.ErrRequestInProgress),
		errors.Is(err, ledger.ErrPreviouslyFailed),
		errors.Is(err, domain.ErrAlreadyExists):
		return fiber.StatusConflict
	case errors.Is(err, wallet.ErrInsufficientBalance),
		errors.Is(err, ledger.ErrCurrencyMismatch),
		errors.Is(err, money.ErrMismatchedCurrencies):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrAmountExceedsMaxSafeInt),
		errors.Is(err, money.ErrInvalidCurrency),
		errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure the problem response is already
// written and the returned pointer is nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return nil, ProblemDetailsJSON(c, "Invalid request body",
				fmt.Errorf("%w: %s", domain.ErrValidation, err.Error()))
		}
	}
	if err := validate.Struct(input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, ProblemDetailsJSON(c, "Validation failed",
				fmt.Errorf("%w: %s", domain.ErrValidation, err.Error()), fieldErrors(verrs))
		}
		return nil, ProblemDetailsJSON(c, "Validation failed", err, fiber.StatusBadRequest)
	}
	return &input, nil
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
