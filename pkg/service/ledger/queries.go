package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/walletledger/pkg/cache"
	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/dto"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
)

const (
	DefaultStatsWindowDays = 30
	MaxStatsWindowDays     = 365
)

// Get returns a transaction by id.
func (s *Service) Get(ctx context.Context, transactionID uuid.UUID) (*ledger.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, transactionID)
}

// ListForUser returns one page of the user's transactions matching filter,
// newest first unless page.SortAsc is set.
func (s *Service) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	filter dto.TransactionFilter,
	page dto.Page,
) (*dto.TransactionPage, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: to is before from", domain.ErrValidation)
	}
	filter.UserID = &userID
	page = s.normalizePage(page)

	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	items, total, err := repo.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &dto.TransactionPage{Items: items, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *Service) normalizePage(p dto.Page) dto.Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = s.cfg.DefaultPageSize
	}
	if p.Limit > s.cfg.MaxPageSize {
		p.Limit = s.cfg.MaxPageSize
	}
	return p
}

// SummaryForWallet aggregates the whole ledger of a wallet per type and status.
func (s *Service) SummaryForWallet(ctx context.Context, walletID uuid.UUID) (*dto.LedgerSummary, error) {
	w, err := s.wallets.Get(ctx, walletID)
	if err != nil {
		return nil, err
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	rows, err := repo.Aggregate(ctx, dto.TransactionFilter{WalletID: &w.ID})
	if err != nil {
		return nil, err
	}
	return buildSummary(w, rows, 0, nil, s.now())
}

// StatsForUser aggregates the user's ledger over the trailing windowDays
// (DefaultStatsWindowDays when zero). Results are cached per wallet version,
// so a balance change is visible immediately. Rows that did not move the
// balance may show up only after the cache TTL.
func (s *Service) StatsForUser(ctx context.Context, userID uuid.UUID, windowDays int) (*dto.LedgerSummary, error) {
	if windowDays == 0 {
		windowDays = DefaultStatsWindowDays
	}
	if windowDays < 0 || windowDays > MaxStatsWindowDays {
		return nil, fmt.Errorf("%w: window_days must be between 1 and %d", domain.ErrValidation, MaxStatsWindowDays)
	}
	w, err := s.wallets.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := statsKey(userID, windowDays, w.Version)
	if s.cache != nil {
		cached, ok, err := cache.GetJSON[dto.LedgerSummary](ctx, s.cache, key)
		switch {
		case err != nil:
			s.logger.Warn("Stats cache read failed", "key", key, "error", err)
		case ok:
			return cached, nil
		}
	}

	now := s.now()
	since := now.AddDate(0, 0, -windowDays)
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	rows, err := repo.Aggregate(ctx, dto.TransactionFilter{WalletID: &w.ID, From: &since})
	if err != nil {
		return nil, err
	}
	summary, err := buildSummary(w, rows, windowDays, &since, now)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, summary, s.cfg.StatsCacheTTL); err != nil {
			s.logger.Warn("Stats cache write failed", "key", key, "error", err)
		}
	}
	return summary, nil
}

func statsKey(userID uuid.UUID, windowDays int, version int64) string {
	return fmt.Sprintf("stats:%s:%d:v%d", userID, windowDays, version)
}

// GetPendingTransactions returns PENDING rows created more than olderThan ago,
// oldest first. The result is capped at MaxPageSize rows with no total,
// so a full result means more may remain.
func (s *Service) GetPendingTransactions(ctx context.Context, olderThan time.Duration) ([]*ledger.Transaction, error) {
	if olderThan < 0 {
		return nil, fmt.Errorf("%w: older_than must not be negative", domain.ErrValidation)
	}
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListPending(ctx, s.now().Add(-olderThan), s.cfg.MaxPageSize)
}

// buildSummary folds aggregate rows into a summary. Credited and Debited
// count applied rows only.
func buildSummary(
	w *wallet.Wallet,
	rows []dto.AggregateRow,
	windowDays int,
	since *time.Time,
	now time.Time,
) (*dto.LedgerSummary, error) {
	code := w.Currency()
	summary := &dto.LedgerSummary{
		WalletID:    w.ID,
		UserID:      w.UserID,
		WindowDays:  windowDays,
		Since:       since,
		Buckets:     make([]dto.Bucket, 0, len(rows)),
		GeneratedAt: now,
	}

	var credited, debited int64
	for _, row := range rows {
		total, err := money.NewFromSmallestUnit(row.Total, code)
		if err != nil {
			return nil, err
		}
		summary.Buckets = append(summary.Buckets, dto.Bucket{
			Type:   row.Type,
			Status: row.Status,
			Count:  row.Count,
			Total:  total,
		})

		switch row.Status {
		case ledger.StatusPending:
			summary.PendingCount += row.Count
		case ledger.StatusCompleted:
			summary.CompletedCount += row.Count
		case ledger.StatusFailed:
			summary.FailedCount += row.Count
		case ledger.StatusRolledBack:
			summary.RolledBackCount += row.Count
		}
		if row.Status.Applied() {
			if row.Type == ledger.TypeCredit {
				credited += row.Total
			} else {
				debited += row.Total
			}
		}
	}

	var err error
	if summary.Credited, err = money.NewFromSmallestUnit(credited, code); err != nil {
		return nil, err
	}
	if summary.Debited, err = money.NewFromSmallestUnit(debited, code); err != nil {
		return nil, err
	}
	if summary.Net, err = summary.Credited.Subtract(summary.Debited); err != nil {
		return nil, err
	}
	return summary, nil
}
