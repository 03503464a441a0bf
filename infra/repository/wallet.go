package repository

import (
	"context"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a wallet repository using the provided *gorm.DB.
func NewWalletRepository(db *gorm.DB) repository.WalletRepository {
	return &walletRepository{db: db}
}

// Create implements repository.WalletRepository.
// A second wallet for the same user fails with domain.ErrAlreadyExists.
func (r *walletRepository) Create(ctx context.Context, w *wallet.Wallet) error {
	m := mapWalletToModel(w)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
}

// Get implements repository.WalletRepository.
func (r *walletRepository) Get(ctx context.Context, id uuid.UUID) (*wallet.Wallet, error) {
	var m Wallet
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, wallet.ErrWalletNotFound)
	}
	return mapModelToWallet(&m)
}

// GetByUserID implements repository.WalletRepository.
func (r *walletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	var m Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, notFoundAs(err, wallet.ErrWalletNotFound)
	}
	return mapModelToWallet(&m)
}

// ApplyDelta implements repository.WalletRepository.
func (r *walletRepository) ApplyDelta(
	ctx context.Context,
	id uuid.UUID,
	delta int64,
	at time.Time,
) (*wallet.Wallet, error) {
	var m Wallet
	res := r.db.WithContext(ctx).
		Model(&m).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ? AND balance + ? >= 0", id, string(wallet.StatusActive), delta).
		Updates(map[string]any{
			"balance":             gorm.Expr("balance + ?", delta),
			"version":             gorm.Expr("version + 1"),
			"last_transaction_at": at,
			"updated_at":          at,
		})
	if res.Error != nil {
		return nil, MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrConditionNotMet
	}
	return mapModelToWallet(&m)
}

// UpdateStatus implements repository.WalletRepository.
func (r *walletRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to wallet.Status,
	at time.Time,
) (*wallet.Wallet, error) {
	var m Wallet
	res := r.db.WithContext(ctx).
		Model(&m).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": at,
		})
	if res.Error != nil {
		return nil, MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrConditionNotMet
	}
	return mapModelToWallet(&m)
}
