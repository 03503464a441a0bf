package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/dto"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedWallet(t *testing.T, repo repository.WalletRepository) *wallet.Wallet {
	t.Helper()
	w, err := wallet.New().WithUserID(uuid.New()).Build()
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), w))
	return w
}

func TestSQLite_WalletUniquePerUser(t *testing.T) {
	repo := NewWalletRepository(openSQLite(t))
	w := seedWallet(t, repo)

	dup, err := wallet.New().WithUserID(w.UserID).Build()
	require.NoError(t, err)
	err = repo.Create(context.Background(), dup)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSQLite_ApplyDeltaGuards(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	repo := NewWalletRepository(db)
	w := seedWallet(t, repo)
	now := time.Now().UTC()

	updated, err := repo.ApplyDelta(ctx, w.ID, 7000, now)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), updated.Balance.Amount())
	assert.Equal(t, int64(1), updated.Version)
	require.NotNil(t, updated.LastTransactionAt)

	_, err = repo.ApplyDelta(ctx, w.ID, -7001, now)
	assert.ErrorIs(t, err, repository.ErrConditionNotMet)

	updated, err = repo.ApplyDelta(ctx, w.ID, -7000, now)
	require.NoError(t, err)
	assert.True(t, updated.Balance.IsZero())
	assert.Equal(t, int64(2), updated.Version)

	_, err = repo.UpdateStatus(ctx, w.ID, wallet.StatusActive, wallet.StatusBlocked, now)
	require.NoError(t, err)
	_, err = repo.ApplyDelta(ctx, w.ID, 100, now)
	assert.ErrorIs(t, err, repository.ErrConditionNotMet)

	_, err = repo.UpdateStatus(ctx, w.ID, wallet.StatusActive, wallet.StatusInactive, now)
	assert.ErrorIs(t, err, repository.ErrConditionNotMet)

	_, err = repo.ApplyDelta(ctx, uuid.New(), 100, now)
	assert.ErrorIs(t, err, repository.ErrConditionNotMet)
}

func TestSQLite_TransactionLifecycle(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	wallets := NewWalletRepository(db)
	txs := NewTransactionRepository(db)
	w := seedWallet(t, wallets)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	newTx := func(typ ledger.Type, amount, key string, at time.Time) *ledger.Transaction {
		tx, err := ledger.NewPending(ledger.Draft{
			WalletID:       w.ID,
			UserID:         w.UserID,
			WalletCurrency: money.INR,
			Type:           typ,
			Amount:         money.MustParse(amount, money.INR),
			Actor:          ledger.ActorUser,
			IdempotencyKey: key,
			Reference:      &ledger.Reference{Type: ledger.ReferenceOrder, ID: "ord-1"},
		}, at)
		require.NoError(t, err)
		require.NoError(t, txs.Create(ctx, tx))
		return tx
	}

	credit := newTx(ledger.TypeCredit, "100", "k1", base)
	debit := newTx(ledger.TypeDebit, "30", "", base.Add(time.Minute))
	stale := newTx(ledger.TypeDebit, "5", "", base.Add(2*time.Minute))

	dup := *credit
	dup.ID = uuid.New()
	assert.ErrorIs(t, txs.Create(ctx, &dup), domain.ErrAlreadyExists)

	completed, err := txs.MarkCompleted(ctx, credit.ID, 10000, base)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCompleted, completed.Status)
	require.NotNil(t, completed.BalanceAfter)
	assert.Equal(t, int64(10000), completed.BalanceAfter.Amount())

	_, err = txs.MarkFailed(ctx, credit.ID, "late", base)
	assert.ErrorIs(t, err, repository.ErrConditionNotMet)

	failed, err := txs.MarkFailed(ctx, debit.ID, "INSUFFICIENT_BALANCE: insufficient balance", base)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusFailed, failed.Status)
	assert.NotNil(t, failed.FailedAt)

	byKey, err := txs.GetByIdempotencyKey(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, credit.ID, byKey.ID)
	require.NotNil(t, byKey.Reference)
	assert.Equal(t, "ord-1", byKey.Reference.ID)

	rolled, err := txs.MarkRolledBack(ctx, credit.ID, "REVERSED", base)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusRolledBack, rolled.Status)

	pending, err := txs.ListPending(ctx, base.Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, stale.ID, pending[0].ID)

	items, total, err := txs.List(ctx, dto.TransactionFilter{UserID: &w.UserID}, dto.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, stale.ID, items[0].ID)

	debitType := ledger.TypeDebit
	items, total, err = txs.List(ctx, dto.TransactionFilter{WalletID: &w.ID, Type: &debitType},
		dto.Page{Page: 1, Limit: 10, SortAsc: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, debit.ID, items[0].ID)

	// from is inclusive, to is exclusive
	from, to := base.Add(time.Minute), base.Add(2*time.Minute)
	items, total, err = txs.List(ctx, dto.TransactionFilter{WalletID: &w.ID, From: &from, To: &to},
		dto.Page{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, debit.ID, items[0].ID)

	rows, err := txs.Aggregate(ctx, dto.TransactionFilter{WalletID: &w.ID})
	require.NoError(t, err)
	got := map[string]dto.AggregateRow{}
	for _, r := range rows {
		got[string(r.Type)+"/"+string(r.Status)] = r
	}
	assert.Equal(t, int64(10000), got["CREDIT/ROLLED_BACK"].Total)
	assert.Equal(t, int64(3000), got["DEBIT/FAILED"].Total)
	assert.Equal(t, int64(1), got["DEBIT/PENDING"].Count)
}
