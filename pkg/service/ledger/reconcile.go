package ledger

import (
	"context"
	"errors"

	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/dto"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/google/uuid"
)

// SweepPending fails out every PENDING row older than the configured pending
// timeout with reason ABANDONED. Such a row never had its delta applied,
// because apply and complete share one database transaction. Rows finalized
// concurrently are skipped.
func (s *Service) SweepPending(ctx context.Context) (*dto.SweepReport, error) {
	cutoff := s.now().Add(-s.cfg.PendingTimeout)
	report := &dto.SweepReport{Cutoff: cutoff}
	logger := s.logger.With("op", "sweep", "cutoff", cutoff)

	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	batchSize := max(s.cfg.SweepBatchSize, 1)
	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		batch, err := repo.ListPending(ctx, cutoff, batchSize)
		if err != nil {
			return report, err
		}
		report.Scanned += len(batch)

		progressed := 0
		for _, tx := range batch {
			failed, err := s.FinalizeFailed(ctx, tx.ID, ledger.ReasonAbandoned+": pending since "+tx.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
			switch {
			case err == nil:
				report.FailedOut++
				progressed++
				s.emit(ctx, events.NewTransactionFailed(failed, s.now()))
			case errors.Is(err, ledger.ErrAlreadyFinalized):
				report.Skipped++
				progressed++
			default:
				report.Errors++
				logger.Error("Sweep could not fail out transaction", "transactionID", tx.ID, "error", err)
			}
		}
		// Stop on a short batch, or when nothing in the batch could be finalized
		// so failing rows are not rescanned forever.
		if len(batch) < batchSize || progressed == 0 {
			break
		}
	}

	if report.FailedOut > 0 || report.Errors > 0 {
		logger.Warn("Sweep finished", "scanned", report.Scanned, "failedOut", report.FailedOut,
			"skipped", report.Skipped, "errors", report.Errors)
	}
	return report, nil
}

// VerifyConsistency recomputes a wallet's balance from its applied ledger rows
// (COMPLETED and ROLLED_BACK) and compares it with the stored balance. Both
// reads share one database transaction.
func (s *Service) VerifyConsistency(ctx context.Context, walletID uuid.UUID) (*dto.Reconciliation, error) {
	var (
		w    *wallet.Wallet
		rows []dto.AggregateRow
	)
	err := s.uow.Do(ctx, func(u repository.UnitOfWork) error {
		walletRepo, err := u.WalletRepository()
		if err != nil {
			return err
		}
		if w, err = walletRepo.Get(ctx, walletID); err != nil {
			return err
		}
		txRepo, err := u.TransactionRepository()
		if err != nil {
			return err
		}
		rows, err = txRepo.Aggregate(ctx, dto.TransactionFilter{WalletID: &walletID})
		return err
	})
	if err != nil {
		return nil, err
	}

	var ledgerBalance, pending int64
	for _, row := range rows {
		if row.Status == ledger.StatusPending {
			pending += row.Count
		}
		if row.Status.Applied() {
			ledgerBalance += row.Type.Sign() * row.Total
		}
	}
	code := w.Currency()
	fromLedger, err := money.NewFromSmallestUnit(ledgerBalance, code)
	if err != nil {
		return nil, err
	}
	diff, err := w.Balance.Subtract(fromLedger)
	if err != nil {
		return nil, err
	}

	rec := &dto.Reconciliation{
		WalletID:      w.ID,
		Balance:       w.Balance,
		LedgerBalance: fromLedger,
		Difference:    diff,
		Consistent:    diff.IsZero(),
		PendingCount:  pending,
		CheckedAt:     s.now(),
	}
	if !rec.Consistent {
		s.logger.Error("ALERT: wallet balance diverges from ledger",
			"walletID", w.ID, "balance", w.Balance.String(), "ledgerBalance", fromLedger.String())
	}
	return rec, nil
}
