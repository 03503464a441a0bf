package transaction

import (
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	ledgersvc "github.com/amirasaad/walletledger/pkg/service/ledger"
	"github.com/amirasaad/walletledger/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Routes registers the transaction endpoints.
//
// Routes:
//   - GET    /transactions/pending      : PENDING rows older than older_than_minutes.
//   - POST   /transactions/sweep        : Fail out abandoned PENDING rows now.
//   - GET    /transactions/:id          : Get one transaction.
//   - POST   /transactions/:id/reverse  : Compensate a COMPLETED transaction.
func Routes(app *fiber.App, ledgerSvc *ledgersvc.Service) {
	app.Get("/transactions/pending", GetPending(ledgerSvc))
	app.Post("/transactions/sweep", Sweep(ledgerSvc))
	app.Get("/transactions/:id", GetTransaction(ledgerSvc))
	app.Post("/transactions/:id/reverse", Reverse(ledgerSvc))
}

// parseID reads the :id param. On failure the problem response is written
// and ok is false.
func parseID(c *fiber.Ctx) (id uuid.UUID, ok bool, err error) {
	id, perr := uuid.Parse(c.Params("id"))
	if perr != nil {
		return uuid.Nil, false, common.ProblemDetailsJSON(c, "Invalid transaction ID", perr,
			"Transaction ID must be a valid UUID", fiber.StatusBadRequest)
	}
	return id, true, nil
}

// GetTransaction returns a Fiber handler that fetches a transaction by id.
// @Summary Get a transaction
// @Description Returns one ledger row, in any status.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response{data=TransactionDTO} "Transaction fetched"
// @Failure 400 {object} common.ProblemDetails "Invalid transaction ID"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Router /transactions/{id} [get]
func GetTransaction(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		tx, err := ledgerSvc.Get(c.UserContext(), id)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", ToTransactionDTO(tx))
	}
}

// Reverse returns a Fiber handler that compensates a COMPLETED transaction.
// @Summary Reverse a transaction
// @Description Applies an opposite-direction compensating transaction and marks the original ROLLED_BACK. A rejected compensation leaves the original COMPLETED and can be retried.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body ReverseRequest false "Reversal details"
// @Success 200 {object} common.Response{data=ReversalDTO} "Transaction reversed"
// @Failure 404 {object} common.ProblemDetails "Transaction not found"
// @Failure 409 {object} common.ProblemDetails "Not reversible"
// @Failure 422 {object} common.ProblemDetails "Insufficient balance for the compensation"
// @Router /transactions/{id}/reverse [post]
func Reverse(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := parseID(c)
		if !ok {
			return err
		}
		input, err := common.BindAndValidate[ReverseRequest](c)
		if input == nil {
			return err // error response already written
		}
		actor := ledger.ActorAdmin
		if input.Actor != "" {
			actor = ledger.Actor(input.Actor)
		}

		log.Infof("Reversing transaction %s by %s", id, actor)
		res, err := ledgerSvc.Reverse(c.UserContext(), id, actor, input.Reason)
		if err != nil {
			log.Errorf("Failed to reverse transaction %s: %v", id, err)
			return common.ProblemDetailsJSON(c, "Failed to reverse transaction", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction reversed", ReversalDTO{
			Original:     ToTransactionDTO(res.Original),
			Compensating: ToTransactionDTO(res.Compensating),
			Balance:      res.Wallet.Balance.Format(),
			Currency:     res.Wallet.Currency().String(),
		})
	}
}

// GetPending returns a Fiber handler listing PENDING transactions.
// @Summary List pending transactions
// @Description Returns PENDING rows created more than older_than_minutes ago, oldest first.
// @Description At most LEDGER_MAX_PAGE_SIZE rows are returned. Sweep or raise older_than_minutes to see the rest.
// @Tags transactions
// @Produce json
// @Param older_than_minutes query int false "Minimum age in minutes" default(0)
// @Success 200 {object} common.Response{data=[]TransactionDTO} "Pending transactions"
// @Failure 400 {object} common.ProblemDetails "Invalid age"
// @Router /transactions/pending [get]
func GetPending(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		minutes := c.QueryInt("older_than_minutes", 0)
		txs, err := ledgerSvc.GetPendingTransactions(c.UserContext(), time.Duration(minutes)*time.Minute)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to list pending transactions", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Pending transactions", ToTransactionDTOs(txs))
	}
}

// Sweep returns a Fiber handler that runs one reconciliation sweep.
// @Summary Sweep abandoned transactions
// @Description Marks every PENDING row older than the pending timeout as FAILED with reason ABANDONED.
// @Tags transactions
// @Produce json
// @Success 200 {object} common.Response{data=dto.SweepReport} "Sweep finished"
// @Router /transactions/sweep [post]
func Sweep(ledgerSvc *ledgersvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		report, err := ledgerSvc.SweepPending(c.UserContext())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Sweep failed", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Sweep finished", report)
	}
}
