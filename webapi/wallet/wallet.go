package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/walletledger/pkg/config"
	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/dto"
	"github.com/amirasaad/walletledger/pkg/money"
	ledgersvc "github.com/amirasaad/walletledger/pkg/service/ledger"
	walletsvc "github.com/amirasaad/walletledger/pkg/service/wallet"
	"github.com/amirasaad/walletledger/webapi/common"
	"github.com/amirasaad/walletledger/webapi/transaction"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader may carry the idempotency key instead of the body.
const IdempotencyKeyHeader = "Idempotency-Key"

// Routes registers HTTP routes for wallet operations. Wallets are addressed
// by the id of the user owning them.
//
// Routes:
//   - GET    /wallets/:userId                 : Balance and status of the user's wallet.
//   - POST   /wallets/:userId/credit          : Add funds, creating the wallet on first credit.
//   - POST   /wallets/:userId/debit           : Remove funds.
//   - POST   /wallets/:userId/block           : Block the wallet.
//   - POST   /wallets/:userId/unblock         : Unblock the wallet.
//   - POST   /wallets/:userId/deactivate      : Deactivate the wallet for good.
//   - GET    /wallets/:userId/transactions    : Filtered, paginated ledger.
//   - GET    /wallets/:userId/stats           : Ledger stats over a trailing window.
//   - GET    /wallets/:userId/summary         : Whole-ledger summary.
//   - GET    /wallets/:userId/reconciliation  : Balance vs ledger consistency check.
func Routes(
	app *fiber.App,
	walletSvc *walletsvc.Service,
	ledgerSvc *ledgersvc.Service,
	cfg *config.App,
) {
	defaultCurrency := money.INR
	if cfg != nil && cfg.Ledger != nil && cfg.Ledger.DefaultCurrency != "" {
		defaultCurrency = money.Code(cfg.Ledger.DefaultCurrency)
	}

	app.Get("/wallets/:userId", GetBalance(walletSvc))
	app.Post("/wallets/:userId/credit", Credit(ledgerSvc, walletSvc, defaultCurrency))
	app.Post("/wallets/:userId/debit", Debit(ledgerSvc, walletSvc))
	app.Post("/wallets/:userId/block", ChangeStatus(walletSvc.Block, "Wallet blocked"))
	app.Post("/wallets/:userId/unblock", ChangeStatus(walletSvc.Unblock, "Wallet unblocked"))
	app.Post("/wallets/:userId/deactivate", ChangeStatus(walletSvc.Deactivate, "Wallet deactivated"))
	app.Get("/wallets/:userId/transactions", ListTransactions(ledgerSvc))
	app.Get("/wallets/:userId/stats", GetStats(ledgerSvc))
	app.Get("/wallets/:userId/summary", GetSummary(ledgerSvc, walletSvc))
	app.Get("/wallets/:userId/reconciliation", Reconcile(ledgerSvc, walletSvc))
}

func parseUserID(c *fiber.Ctx) (id uuid.UUID, ok bool, err error) {
	id, perr := uuid.Parse(c.Params("userId"))
	if perr != nil {
		return uuid.Nil, false, common.ProblemDetailsJSON(c, "Invalid user ID", perr,
			"User ID must be a valid UUID", fiber.StatusBadRequest)
	}
	return id, true, nil
}

// GetBalance returns a Fiber handler for the user's wallet balance.
// @Summary Get wallet balance
// @Description Returns the balance, currency, status and version of the user's wallet.
// @Tags wallets
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} common.Response{data=WalletDTO} "Wallet fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid user ID"
// @Failure 404 {object} common.ProblemDetails "Wallet not found"
// @Router /wallets/{userId} [get]
func GetBalance(walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := parseUserID(c)
		if !ok {
			return err
		}
		w, err := walletSvc.GetBalance(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get wallet", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Wallet fetched", ToWalletDTO(w))
	}
}

// Credit returns a Fiber handler that adds funds to the user's wallet.
// Without a currency the wallet's currency is used, or defaultCurrency when
// the user has no wallet yet.
// @Summary Credit a wallet
// @Description Adds funds to the user's wallet, creating it on the first credit. A repeated idempotency key returns the first result with replayed=true.
// @Tags wallets
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body MovementRequest true "Credit details"
// @Success 201 {object} common.Response{data=MovementResponse} "Wallet credited"
// @Success 200 {object} common.Response{data=MovementResponse} "Replayed"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 409 {object} common.ProblemDetails "Wallet blocked, inactive or idempotency conflict"
// @Failure 422 {object} common.ProblemDetails "Currency mismatch"
// @Failure 500 {object} common.ProblemDetails "Transaction stuck"
// @Router /wallets/{userId}/credit [post]
func Credit(ledgerSvc *ledgersvc.Service, walletSvc *walletsvc.Service, defaultCurrency money.Code) fiber.Handler {
	return movementHandler(ledger.TypeCredit, ledgerSvc.Credit, walletSvc, defaultCurrency)
}

// Debit returns a Fiber handler that removes funds from the user's wallet.
// @Summary Debit a wallet
// @Description Removes funds. An over-debit is recorded as a FAILED transaction whose id is returned in the problem details.
// @Tags wallets
// @Accept json
// @Produce json
// @Param userId path string true "User ID"
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body MovementRequest true "Debit details"
// @Success 201 {object} common.Response{data=MovementResponse} "Wallet debited"
// @Success 200 {object} common.Response{data=MovementResponse} "Replayed"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 404 {object} common.ProblemDetails "Wallet not found"
// @Failure 409 {object} common.ProblemDetails "Wallet blocked, inactive or idempotency conflict"
// @Failure 422 {object} common.ProblemDetails "Insufficient balance or currency mismatch"
// @Failure 500 {object} common.ProblemDetails "Transaction stuck"
// @Router /wallets/{userId}/debit [post]
func Debit(ledgerSvc *ledgersvc.Service, walletSvc *walletsvc.Service) fiber.Handler {
	return movementHandler(ledger.TypeDebit, ledgerSvc.Debit, walletSvc, "")
}

type moveFunc func(ctx context.Context, req ledgersvc.MovementRequest) (*ledgersvc.Result, error)

func movementHandler(
	typ ledger.Type,
	move moveFunc,
	walletSvc *walletsvc.Service,
	defaultCurrency money.Code,
) fiber.Handler {
	verb := strings.ToLower(string(typ))
	return func(c *fiber.Ctx) error {
		userID, ok, err := parseUserID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[MovementRequest](c)
		if input == nil {
			return err // error response already written
		}
		ctx := c.UserContext()

		code := money.Code(input.Currency)
		if code == "" {
			w, err := walletSvc.GetByUser(ctx, userID)
			switch {
			case err == nil:
				code = w.Currency()
			case errors.Is(err, wallet.ErrWalletNotFound) && defaultCurrency != "":
				code = defaultCurrency
			default:
				return common.ProblemDetailsJSON(c, "Failed to "+verb, err)
			}
		}
		amount, err := money.Parse(input.Amount, code)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid amount", err)
		}

		req := ledgersvc.MovementRequest{
			UserID:         userID,
			Amount:         amount,
			Description:    input.Description,
			Actor:          ledger.ActorUser,
			IdempotencyKey: input.IdempotencyKey,
		}
		if req.IdempotencyKey == "" {
			req.IdempotencyKey = c.Get(IdempotencyKeyHeader)
		}
		if input.Actor != "" {
			req.Actor = ledger.Actor(input.Actor)
		}
		if input.ReferenceType != "" {
			req.Reference = &ledger.Reference{Type: ledger.ReferenceType(input.ReferenceType), ID: input.ReferenceID}
		}

		log.Infof("%s handler: user %s amount %s", verb, userID, amount)
		res, err := move(ctx, req)
		if err != nil {
			log.Errorf("Failed to %s wallet of user %s: %v", verb, userID, err)
			return common.ProblemDetailsJSON(c, "Failed to "+verb, err)
		}

		status, message := fiber.StatusCreated, "Wallet "+verb+"ed"
		if res.Replayed {
			status, message = fiber.StatusOK, "Replayed"
		}
		return common.SuccessResponseJSON(c, status, message, MovementResponse{
			Transaction: transaction.ToTransactionDTO(res.Transaction),
			Wallet:      ToWalletDTO(res.Wallet),
			Replayed:    res.Replayed,
		})
	}
}

// ChangeStatus returns a Fiber handler that applies a wallet status change.
// @Summary Change wallet status
// @Description Blocks, unblocks or deactivates the user's wallet. Deactivation is final.
// @Tags wallets
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} common.Response{data=WalletDTO} "Status changed"
// @Failure 404 {object} common.ProblemDetails "Wallet not found"
// @Failure 409 {object} common.ProblemDetails "Invalid status transition"
// @Router /wallets/{userId}/block [post]
// @Router /wallets/{userId}/unblock [post]
// @Router /wallets/{userId}/deactivate [post]
func ChangeStatus(
	change func(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error),
	message string,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := parseUserID(c)
		if !ok {
			return err
		}
		w, err := change(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to change wallet status", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, message, ToWalletDTO(w))
	}
}

// ListTransactions returns a Fiber handler for the user's ledger.
// @Summary List wallet transactions
// @Description Returns one page of the user's transactions, newest first unless sort=asc.
// @Tags wallets
// @Produce json
// @Param userId path string true "User ID"
// @Param type query string false "CREDIT or DEBIT"
// @Param status query string false "PENDING, COMPLETED, FAILED or ROLLED_BACK"
// @Param reference_type query string false "Reference type"
// @Param reference_id query string false "Reference id"
// @Param from query string false "Created at or after (RFC 3339)"
// @Param to query string false "Created before, exclusive (RFC 3339)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size"
// @Param sort query string false "asc or desc" default(desc)
// @Success 200 {object} common.Response{data=TransactionListResponse} "Transactions fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid filter"
// @Router /wallets/{userId}/transactions [get]
func ListTransactions(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := parseUserID(c)
		if !ok {
			return err
		}
		filter, page, err := parseListQuery(c)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid filter", err)
		}
		result, err := ledgerSvc.ListForUser(c.UserContext(), userID, filter, page)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", TransactionListResponse{
			Items: transaction.ToTransactionDTOs(result.Items),
			Total: result.Total,
			Page:  result.Page,
			Limit: result.Limit,
		})
	}
}

func parseListQuery(c *fiber.Ctx) (dto.TransactionFilter, dto.Page, error) {
	var (
		filter dto.TransactionFilter
		page   = dto.Page{Page: c.QueryInt("page", 1), Limit: c.QueryInt("limit", 0)}
	)

	if v := c.Query("type"); v != "" {
		t := ledger.Type(strings.ToUpper(v))
		if !t.Valid() {
			return filter, page, fmt.Errorf("%w: type %q", domain.ErrValidation, v)
		}
		filter.Type = &t
	}
	if v := c.Query("status"); v != "" {
		s := ledger.Status(strings.ToUpper(v))
		if !s.Valid() {
			return filter, page, fmt.Errorf("%w: status %q", domain.ErrValidation, v)
		}
		filter.Status = &s
	}
	if v := c.Query("reference_type"); v != "" {
		r := ledger.ReferenceType(strings.ToUpper(v))
		if !r.Valid() {
			return filter, page, fmt.Errorf("%w: reference_type %q", domain.ErrValidation, v)
		}
		filter.ReferenceType = &r
	}
	filter.ReferenceID = c.Query("reference_id")

	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		v := c.Query(name)
		if v == "" {
			continue
		}
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, page, fmt.Errorf("%w: %s must be RFC 3339", domain.ErrValidation, name)
		}
		*dst = &at
	}

	switch strings.ToLower(c.Query("sort", "desc")) {
	case "asc":
		page.SortAsc = true
	case "desc":
	default:
		return filter, page, fmt.Errorf("%w: sort must be asc or desc", domain.ErrValidation)
	}
	return filter, page, nil
}

// GetStats returns a Fiber handler for the user's ledger stats.
// @Summary Wallet stats
// @Description Aggregates the ledger over the trailing window_days (30 by default, at most 365). Results are cached per wallet version.
// @Tags wallets
// @Produce json
// @Param userId path string true "User ID"
// @Param window_days query int false "Window in days" default(30)
// @Success 200 {object} common.Response{data=dto.LedgerSummary} "Stats computed"
// @Failure 400 {object} common.ProblemDetails "Invalid window"
// @Failure 404 {object} common.ProblemDetails "Wallet not found"
// @Router /wallets/{userId}/stats [get]
func GetStats(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := parseUserID(c)
		if !ok {
			return err
		}
		stats, err := ledgerSvc.StatsForUser(c.UserContext(), userID, c.QueryInt("window_days", 0))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute stats", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Stats computed", stats)
	}
}

// GetSummary returns a Fiber handler for the whole-ledger summary.
// @Summary Wallet ledger summary
// @Description Aggregates the user's whole ledger per type and status.
// @Tags wallets
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} common.Response{data=dto.LedgerSummary} "Summary computed"
// @Failure 404 {object} common.ProblemDetails "Wallet not found"
// @Router /wallets/{userId}/summary [get]
func GetSummary(ledgerSvc *ledgersvc.Service, walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := parseUserID(c)
		if !ok {
			return err
		}
		w, err := walletSvc.GetByUser(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute summary", err)
		}
		summary, err := ledgerSvc.SummaryForWallet(c.UserContext(), w.ID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to compute summary", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Summary computed", summary)
	}
}

// Reconcile returns a Fiber handler that checks the wallet against its ledger.
// @Summary Verify wallet consistency
// @Description Recomputes the balance from applied ledger rows and compares it with the stored balance.
// @Tags wallets
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} common.Response{data=dto.Reconciliation} "Reconciliation done"
// @Failure 404 {object} common.ProblemDetails "Wallet not found"
// @Router /wallets/{userId}/reconciliation [get]
func Reconcile(ledgerSvc *ledgersvc.Service, walletSvc *walletsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok, err := parseUserID(c)
		if !ok {
			return err
		}
		w, err := walletSvc.GetByUser(c.UserContext(), userID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reconcile wallet", err)
		}
		rec, err := ledgerSvc.VerifyConsistency(c.UserContext(), w.ID)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to reconcile wallet", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Reconciliation done", rec)
	}
}
