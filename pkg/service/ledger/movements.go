package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/google/uuid"
)

// MovementRequest is the input of Credit and Debit.
type MovementRequest struct {
	UserID      uuid.UUID
	Amount      money.Money
	Description string
	Reference   *ledger.Reference
	Actor       ledger.Actor
	// IdempotencyKey is optional. A repeated key returns the first result
	// instead of moving funds again.
	IdempotencyKey string
}

// Result is an applied movement and the wallet right after it.
type Result struct {
	Transaction *ledger.Transaction
	Wallet      *wallet.Wallet
	Replayed    bool
}

// ReversalResult is the outcome of Reverse.
type ReversalResult struct {
	Original     *ledger.Transaction
	Compensating *ledger.Transaction
	Wallet       *wallet.Wallet
}

// Credit adds funds to the user's wallet, creating the wallet in the amount's
// currency if the user has none.
func (s *Service) Credit(ctx context.Context, req MovementRequest) (*Result, error) {
	return s.move(ctx, ledger.TypeCredit, req)
}

// Debit removes funds from the user's wallet. A user without a wallet gets
// wallet.ErrWalletNotFound and nothing is recorded. A debit larger than the
// balance is recorded as FAILED and returns wallet.ErrInsufficientBalance.
func (s *Service) Debit(ctx context.Context, req MovementRequest) (*Result, error) {
	return s.move(ctx, ledger.TypeDebit, req)
}

func (s *Service) move(ctx context.Context, typ ledger.Type, req MovementRequest) (*Result, error) {
	logger := s.logger.With("type", typ, "userID", req.UserID, "amount", req.Amount.String())
	logger.Info("Movement started", "idempotencyKey", req.IdempotencyKey)

	if !req.Amount.IsPositive() {
		return nil, ledger.ErrInvalidAmount
	}
	if req.IdempotencyKey != "" {
		if res, err := s.replay(ctx, typ, req); res != nil || err != nil {
			return res, err
		}
	}

	var (
		w   *wallet.Wallet
		err error
	)
	if typ == ledger.TypeCredit {
		w, err = s.wallets.FindOrCreate(ctx, req.UserID, req.Amount.CurrencyCode())
	} else {
		w, err = s.wallets.GetByUser(ctx, req.UserID)
	}
	if err != nil {
		logger.Warn("Movement failed: wallet lookup", "error", err)
		return nil, err
	}

	tx, err := s.Record(ctx, ledger.Draft{
		WalletID:       w.ID,
		UserID:         w.UserID,
		WalletCurrency: w.Currency(),
		Type:           typ,
		Amount:         req.Amount,
		Description:    req.Description,
		Reference:      req.Reference,
		Actor:          req.Actor,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		// A concurrent request with the same key inserted first.
		if errors.Is(err, domain.ErrAlreadyExists) && req.IdempotencyKey != "" {
			if res, rerr := s.replay(ctx, typ, req); res != nil || rerr != nil {
				return res, rerr
			}
		}
		logger.Warn("Movement failed: record", "error", err)
		return nil, err
	}

	res, err := s.apply(ctx, tx)
	if err != nil {
		logger.Warn("Movement rejected", "transactionID", tx.ID, "reason", ledger.ReasonCode(err), "error", err)
		return nil, err
	}
	logger.Info("Movement completed", "transactionID", tx.ID, "balance", res.Wallet.Balance.String())
	return res, nil
}

// replay returns the stored outcome for req's idempotency key, or (nil, nil)
// when the key is unused.
func (s *Service) replay(ctx context.Context, typ ledger.Type, req MovementRequest) (*Result, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	existing, err := repo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	draft := ledger.Draft{UserID: req.UserID, Type: typ, Amount: req.Amount}
	if !draft.Matches(existing) {
		return nil, fmt.Errorf("%w: key %q belongs to transaction %s",
			ledger.ErrIdempotencyConflict, req.IdempotencyKey, existing.ID)
	}
	switch existing.Status {
	case ledger.StatusPending:
		return nil, ledger.ErrRequestInProgress
	case ledger.StatusFailed:
		return nil, &RejectedError{
			Transaction: existing,
			Err:         fmt.Errorf("%w: %s", ledger.ErrPreviouslyFailed, existing.FailureReason),
		}
	}

	w, err := s.wallets.Get(ctx, existing.WalletID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Movement replayed", "transactionID", existing.ID, "idempotencyKey", req.IdempotencyKey)
	return &Result{Transaction: existing, Wallet: w, Replayed: true}, nil
}

// Record validates d and inserts it as a PENDING row.
func (s *Service) Record(ctx context.Context, d ledger.Draft) (*ledger.Transaction, error) {
	tx, err := ledger.NewPending(d, s.now())
	if err != nil {
		return nil, err
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// apply runs the delta and the COMPLETED transition in one database
// transaction and records a rejection as FAILED.
func (s *Service) apply(ctx context.Context, tx *ledger.Transaction) (*Result, error) {
	at := s.now()
	var res Result
	err := s.uow.Do(ctx, func(u repository.UnitOfWork) error {
		w, err := s.wallets.WithUoW(u).ApplyDelta(ctx, tx.WalletID, tx.SignedAmount(), at)
		if err != nil {
			return err
		}
		repo, err := u.TransactionRepository()
		if err != nil {
			return err
		}
		completed, err := complete(ctx, repo, tx.ID, w.Balance.Amount(), at)
		if err != nil {
			return err
		}
		res = Result{Transaction: completed, Wallet: w}
		return nil
	})
	if err != nil {
		return nil, s.reject(ctx, tx, err)
	}
	s.emit(ctx, events.NewTransactionCompleted(res.Transaction, at))
	return &res, nil
}

// reject marks tx FAILED because of cause. When that write fails too the
// row is stuck in PENDING: the returned error wraps ledger.ErrTransactionStuck
// and an alert is logged and published.
func (s *Service) reject(ctx context.Context, tx *ledger.Transaction, cause error) error {
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()

	reason := ledger.FailureReason(cause)
	failed, err := s.FinalizeFailed(fctx, tx.ID, reason)
	switch {
	case err == nil:
		s.emit(fctx, events.NewTransactionFailed(failed, s.now()))
		return &RejectedError{Transaction: failed, Err: cause}
	case errors.Is(err, ledger.ErrAlreadyFinalized):
		// The sweep finalized the row first.
		current, gerr := s.Get(fctx, tx.ID)
		if gerr != nil {
			current = tx
		}
		return &RejectedError{Transaction: current, Err: cause}
	}

	stuck := errors.Join(ledger.ErrTransactionStuck, cause, err)
	s.logger.Error("ALERT: rejected movement could not be marked FAILED",
		"transactionID", tx.ID,
		"walletID", tx.WalletID,
		"cause", cause,
		"finalizeError", err,
	)
	s.emit(fctx, events.NewTransactionStuck(tx, reason, stuck, s.now()))
	return stuck
}

// FinalizeCompleted moves a PENDING row to COMPLETED with the given balance
// snapshot. It never touches the wallet. A second call fails with
// ledger.ErrAlreadyFinalized.
func (s *Service) FinalizeCompleted(
	ctx context.Context,
	transactionID uuid.UUID,
	balanceAfter money.Money,
) (*ledger.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	current, err := repo.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if current.Status != ledger.StatusPending {
		return nil, fmt.Errorf("%w: transaction %s is %s", ledger.ErrAlreadyFinalized, current.ID, current.Status)
	}
	if !balanceAfter.IsSameCurrency(current.Amount) {
		return nil, fmt.Errorf("%w: transaction is %s, balance is %s",
			ledger.ErrCurrencyMismatch, current.Amount.CurrencyCode(), balanceAfter.CurrencyCode())
	}
	if balanceAfter.IsNegative() {
		return nil, fmt.Errorf("%w: negative balance snapshot", money.ErrInvalidAmount)
	}

	at := s.now()
	completed, err := complete(ctx, repo, transactionID, balanceAfter.Amount(), at)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.NewTransactionCompleted(completed, at))
	return completed, nil
}

// FinalizeFailed moves a PENDING row to FAILED with reason. A row that already
// left PENDING fails with ledger.ErrAlreadyFinalized.
func (s *Service) FinalizeFailed(ctx context.Context, transactionID uuid.UUID, reason string) (*ledger.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	failed, err := repo.MarkFailed(ctx, transactionID, reason, s.now())
	if errors.Is(err, repository.ErrConditionNotMet) {
		return nil, notPending(ctx, repo, transactionID)
	}
	return failed, err
}

func complete(
	ctx context.Context,
	repo repository.TransactionRepository,
	transactionID uuid.UUID,
	balanceAfter int64,
	at time.Time,
) (*ledger.Transaction, error) {
	completed, err := repo.MarkCompleted(ctx, transactionID, balanceAfter, at)
	if errors.Is(err, repository.ErrConditionNotMet) {
		return nil, notPending(ctx, repo, transactionID)
	}
	return completed, err
}

// notPending explains why a PENDING-only transition matched no row.
func notPending(ctx context.Context, repo repository.TransactionRepository, transactionID uuid.UUID) error {
	current, err := repo.Get(ctx, transactionID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: transaction %s is %s", ledger.ErrAlreadyFinalized, current.ID, current.Status)
}

// Reverse compensates a COMPLETED transaction. It records an opposite
// direction row pointing at the original, then in one database transaction
// marks the original ROLLED_BACK, applies the opposite delta and completes
// the compensating row. If the compensating delta is rejected the
// compensating row is FAILED and the original stays COMPLETED.
func (s *Service) Reverse(
	ctx context.Context,
	transactionID uuid.UUID,
	actor ledger.Actor,
	reason string,
) (*ReversalResult, error) {
	logger := s.logger.With("transactionID", transactionID, "actor", actor)
	logger.Info("Reverse started")

	original, err := s.Get(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if original.IsReversal() {
		return nil, fmt.Errorf("%w: transaction %s is itself a reversal", ledger.ErrNotReversible, original.ID)
	}
	if original.Status != ledger.StatusCompleted {
		return nil, fmt.Errorf("%w: transaction %s is %s", ledger.ErrNotReversible, original.ID, original.Status)
	}

	description := "reversal of " + original.ID.String()
	if reason != "" {
		description += ": " + reason
	}
	compensating, err := s.Record(ctx, ledger.Draft{
		WalletID:       original.WalletID,
		UserID:         original.UserID,
		WalletCurrency: original.Amount.CurrencyCode(),
		Type:           original.Type.Opposite(),
		Amount:         original.Amount,
		Description:    truncate(description, ledger.MaxDescriptionLength),
		Reference:      original.Reference,
		Actor:          actor,
		ReversalOf:     &original.ID,
	})
	if err != nil {
		logger.Warn("Reverse failed: record", "error", err)
		return nil, err
	}

	rollbackReason := ledger.ReasonReversed
	if reason != "" {
		rollbackReason += ": " + reason
	}
	at := s.now()
	var out ReversalResult
	err = s.uow.Do(ctx, func(u repository.UnitOfWork) error {
		repo, err := u.TransactionRepository()
		if err != nil {
			return err
		}
		rolledBack, err := repo.MarkRolledBack(ctx, original.ID, rollbackReason, at)
		if errors.Is(err, repository.ErrConditionNotMet) {
			return fmt.Errorf("%w: transaction %s was reversed concurrently", ledger.ErrNotReversible, original.ID)
		}
		if err != nil {
			return err
		}
		w, err := s.wallets.WithUoW(u).ApplyDelta(ctx, compensating.WalletID, compensating.SignedAmount(), at)
		if err != nil {
			return err
		}
		completed, err := complete(ctx, repo, compensating.ID, w.Balance.Amount(), at)
		if err != nil {
			return err
		}
		out = ReversalResult{Original: rolledBack, Compensating: completed, Wallet: w}
		return nil
	})
	if err != nil {
		err = s.reject(ctx, compensating, err)
		logger.Warn("Reverse rejected", "compensatingID", compensating.ID, "reason", ledger.ReasonCode(err), "error", err)
		return nil, err
	}

	s.emit(ctx, events.NewTransactionCompleted(out.Compensating, at))
	s.emit(ctx, events.NewTransactionRolledBack(out.Original, out.Compensating.ID, at))
	logger.Info("Reverse completed", "compensatingID", out.Compensating.ID, "balance", out.Wallet.Balance.String())
	return &out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
