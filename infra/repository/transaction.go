package repository

import (
	"context"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/dto"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a ledger repository using the provided *gorm.DB.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Create implements repository.TransactionRepository.
// A reused idempotency key fails with domain.ErrAlreadyExists.
func (r *transactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	m := mapTransactionToModel(tx)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

// Get implements repository.TransactionRepository.
func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, ledger.ErrTransactionNotFound)
	}
	return mapModelToTransaction(&m)
}

// GetByIdempotencyKey implements repository.TransactionRepository.
func (r *transactionRepository) GetByIdempotencyKey(
	ctx context.Context,
	key string,
) (*ledger.Transaction, error) {
	var m Transaction
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&m).Error; err != nil {
		return nil, notFoundAs(err, ledger.ErrTransactionNotFound)
	}
	return mapModelToTransaction(&m)
}

// MarkCompleted implements repository.TransactionRepository.
func (r *transactionRepository) MarkCompleted(
	ctx context.Context,
	id uuid.UUID,
	balanceAfter int64,
	at time.Time,
) (*ledger.Transaction, error) {
	return r.transition(ctx, id, ledger.StatusPending, map[string]any{
		"status":                            string(ledger.StatusCompleted),
		"current_balance_after_transaction": balanceAfter,
		"completed_at":                      at,
		"updated_at":                        at,
	})
}

// MarkFailed implements repository.TransactionRepository.
func (r *transactionRepository) MarkFailed(
	ctx context.Context,
	id uuid.UUID,
	reason string,
	at time.Time,
) (*ledger.Transaction, error) {
	return r.transition(ctx, id, ledger.StatusPending, map[string]any{
		"status":         string(ledger.StatusFailed),
		"failure_reason": reason,
		"failed_at":      at,
		"updated_at":     at,
	})
}

// MarkRolledBack implements repository.TransactionRepository.
func (r *transactionRepository) MarkRolledBack(
	ctx context.Context,
	id uuid.UUID,
	reason string,
	at time.Time,
) (*ledger.Transaction, error) {
	return r.transition(ctx, id, ledger.StatusCompleted, map[string]any{
		"status":         string(ledger.StatusRolledBack),
		"failure_reason": reason,
		"rolled_back_at": at,
		"updated_at":     at,
	})
}

// transition applies updates only while the row is still in from.
func (r *transactionRepository) transition(
	ctx context.Context,
	id uuid.UUID,
	from ledger.Status,
	updates map[string]any,
) (*ledger.Transaction, error) {
	var m Transaction
	res := r.db.WithContext(ctx).
		Model(&m).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if res.Error != nil {
		return nil, MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrConditionNotMet
	}
	return mapModelToTransaction(&m)
}

// List implements repository.TransactionRepository. Rows are ordered by
// created_at, newest first unless page.SortAsc is set.
func (r *transactionRepository) List(
	ctx context.Context,
	filter dto.TransactionFilter,
	page dto.Page,
) ([]*ledger.Transaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&Transaction{}).Scopes(filterScope(filter))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	if total == 0 {
		return []*ledger.Transaction{}, 0, nil
	}

	order := clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "created_at"}, Desc: !page.SortAsc},
		{Column: clause.Column{Name: "id"}, Desc: !page.SortAsc},
	}}
	var ms []Transaction
	if err := r.db.WithContext(ctx).
		Scopes(filterScope(filter)).
		Order(order).
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&ms).Error; err != nil {
		return nil, 0, MapGormErrorToDomain(err)
	}
	txs, err := mapModelsToTransactions(ms)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

type aggregateRow struct {
	TransactionType string
	Status          string
	Count           int64
	Total           int64
}

// Aggregate implements repository.TransactionRepository.
func (r *transactionRepository) Aggregate(
	ctx context.Context,
	filter dto.TransactionFilter,
) ([]dto.AggregateRow, error) {
	var rows []aggregateRow
	if err := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Scopes(filterScope(filter)).
		Select("transaction_type, status, COUNT(*) AS count, CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS total").
		Group("transaction_type, status").
		Order("transaction_type, status").
		Scan(&rows).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]dto.AggregateRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.AggregateRow{
			Type:   ledger.Type(row.TransactionType),
			Status: ledger.Status(row.Status),
			Count:  row.Count,
			Total:  row.Total,
		})
	}
	return out, nil
}

// ListPending implements repository.TransactionRepository. Oldest rows come first.
func (r *transactionRepository) ListPending(
	ctx context.Context,
	olderThan time.Time,
	limit int,
) ([]*ledger.Transaction, error) {
	var ms []Transaction
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(ledger.StatusPending), olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return mapModelsToTransactions(ms)
}

func filterScope(f dto.TransactionFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.UserID != nil {
			db = db.Where("user_id = ?", *f.UserID)
		}
		if f.WalletID != nil {
			db = db.Where("wallet_id = ?", *f.WalletID)
		}
		if f.Type != nil {
			db = db.Where("transaction_type = ?", string(*f.Type))
		}
		if f.Status != nil {
			db = db.Where("status = ?", string(*f.Status))
		}
		if f.ReferenceType != nil {
			db = db.Where("reference_type = ?", string(*f.ReferenceType))
		}
		if f.ReferenceID != "" {
			db = db.Where("reference_id = ?", f.ReferenceID)
		}
		if f.From != nil {
			db = db.Where("created_at >= ?", *f.From)
		}
		if f.To != nil {
			db = db.Where("created_at < ?", *f.To)
		}
		return db
	}
}
