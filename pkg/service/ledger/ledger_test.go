package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/walletledger/infra/eventbus"
	infrarepo "github.com/amirasaad/walletledger/infra/repository"
	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/dto"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/amirasaad/walletledger/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	svc   *Service
	bus   *eventbus.MemoryEventBus
	uow   repository.UnitOfWork
	clock *testClock
}

func newFixture(t *testing.T, wrap ...func(repository.UnitOfWork) repository.UnitOfWork) *fixture {
	t.Helper()
	db := testutils.NewSQLiteDB(t)
	var uow repository.UnitOfWork = infrarepo.NewUoW(db)
	for _, w := range wrap {
		uow = w(uow)
	}
	bus := eventbus.NewWithMemory(testutils.DiscardLogger())
	clock := &testClock{t: time.Now().UTC().Truncate(time.Second)}
	cfg := defaultConfig()
	svc := New(Deps{
		Uow:      uow,
		EventBus: bus,
		Config:   &cfg,
		Logger:   testutils.DiscardLogger(),
		Now:      clock.Now,
	})
	return &fixture{svc: svc, bus: bus, uow: uow, clock: clock}
}

func inr(s string) money.Money { return money.MustParse(s, money.INR) }

func movement(userID uuid.UUID, amount string) MovementRequest {
	return MovementRequest{UserID: userID, Amount: inr(amount), Actor: ledger.ActorUser}
}

func (f *fixture) assertConsistent(t *testing.T, userID uuid.UUID) *dto.Reconciliation {
	t.Helper()
	w, err := f.svc.Wallets().GetByUser(context.Background(), userID)
	require.NoError(t, err)
	rec, err := f.svc.VerifyConsistency(context.Background(), w.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent, "balance %s, ledger %s", rec.Balance, rec.LedgerBalance)
	return rec
}

func TestCreditThenDebitScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	res, err := f.svc.Credit(ctx, movement(userID, "100.00"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", res.Wallet.Balance.Format())

	res, err = f.svc.Debit(ctx, movement(userID, "30.00"))
	require.NoError(t, err)
	assert.Equal(t, "70.00", res.Wallet.Balance.Format())
	assert.Equal(t, ledger.StatusCompleted, res.Transaction.Status)
	require.NotNil(t, res.Transaction.BalanceAfter)
	assert.Equal(t, "70.00", res.Transaction.BalanceAfter.Format())
	assert.NotNil(t, res.Transaction.CompletedAt)

	_, err = f.svc.Debit(ctx, movement(userID, "1000.00"))
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, ledger.StatusFailed, rejected.Transaction.Status)
	assert.Contains(t, rejected.Transaction.FailureReason, ledger.ReasonInsufficientBalance)
	assert.Nil(t, rejected.Transaction.BalanceAfter)

	balance, err := f.svc.Wallets().GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "70.00", balance.Balance.Format())
	assert.Equal(t, int64(2), balance.Version)

	stored, err := f.svc.Get(ctx, rejected.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusFailed, stored.Status)
	assert.NotNil(t, stored.FailedAt)

	f.assertConsistent(t, userID)

	var completed, failed int
	for _, e := range f.bus.Published() {
		switch e.(type) {
		case *events.TransactionCompleted:
			completed++
		case *events.TransactionFailed:
			failed++
		}
	}
	assert.Equal(t, 2, completed)
	assert.Equal(t, 1, failed)
}

func TestConcurrentCreditsLoseNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	_, err := f.svc.Wallets().FindOrCreate(ctx, userID, money.INR)
	require.NoError(t, err)

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Credit(ctx, movement(userID, "50.00"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	w, err := f.svc.Wallets().GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(n*5000), w.Balance.Amount())
	assert.Equal(t, int64(n), w.Version)
	f.assertConsistent(t, userID)
}

func TestTwoConcurrentCreditsOnEmptyWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Credit(ctx, movement(userID, "50.00"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	w, err := f.svc.Wallets().GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", w.Balance.Format())
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	_, err := f.svc.Credit(ctx, movement(userID, "100.00"))
	require.NoError(t, err)

	const n = 30
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		ok, rejected int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Debit(ctx, movement(userID, "15.00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case assert.ErrorIs(t, err, wallet.ErrInsufficientBalance):
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 6, ok)
	assert.Equal(t, n-6, rejected)
	w, err := f.svc.Wallets().GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", w.Balance.Format())
	assert.False(t, w.Balance.IsNegative())
	rec := f.assertConsistent(t, userID)
	assert.Zero(t, rec.PendingCount)
}

func TestDebitWithoutWalletRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := f.svc.Debit(ctx, movement(userID, "10.00"))
	require.ErrorIs(t, err, wallet.ErrWalletNotFound)
	require.ErrorIs(t, err, domain.ErrNotFound)

	page, err := f.svc.ListForUser(ctx, userID, dto.TransactionFilter{}, dto.Page{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestValidationRejectsBeforeRecording(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	_, err := f.svc.Credit(ctx, movement(userID, "1.00"))
	require.NoError(t, err)

	tests := []struct {
		name string
		req  MovementRequest
		want error
	}{
		{"zero amount", movement(userID, "0"), ledger.ErrInvalidAmount},
		{"currency mismatch", MovementRequest{UserID: userID, Amount: money.MustParse("5", money.USD), Actor: ledger.ActorUser}, ledger.ErrCurrencyMismatch},
		{"unknown actor", MovementRequest{UserID: userID, Amount: inr("5"), Actor: "ROBOT"}, ledger.ErrInvalidActor},
		{"bad reference", MovementRequest{UserID: userID, Amount: inr("5"), Actor: ledger.ActorUser,
			Reference: &ledger.Reference{Type: "INVOICE", ID: "1"}}, ledger.ErrInvalidReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Credit(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	page, err := f.svc.ListForUser(ctx, userID, dto.TransactionFilter{}, dto.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total, "only the seed credit is recorded")
}

func TestBlockedWalletRecordsFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	_, err := f.svc.Credit(ctx, movement(userID, "10.00"))
	require.NoError(t, err)
	_, err = f.svc.Wallets().Block(ctx, userID)
	require.NoError(t, err)

	_, err = f.svc.Debit(ctx, movement(userID, "1.00"))
	require.ErrorIs(t, err, wallet.ErrWalletBlocked)
	assert.Equal(t, ledger.ReasonWalletBlocked, ledger.ReasonCode(err))

	_, err = f.svc.Wallets().Deactivate(ctx, userID)
	require.NoError(t, err)
	_, err = f.svc.Credit(ctx, movement(userID, "1.00"))
	require.ErrorIs(t, err, wallet.ErrWalletInactive)

	failed := ledger.StatusFailed
	page, err := f.svc.ListForUser(ctx, userID, dto.TransactionFilter{Status: &failed}, dto.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	f.assertConsistent(t, userID)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	res, err := f.svc.Credit(ctx, movement(userID, "10.00"))
	require.NoError(t, err)

	_, err = f.svc.FinalizeCompleted(ctx, res.Transaction.ID, inr("999.00"))
	require.ErrorIs(t, err, ledger.ErrAlreadyFinalized)
	_, err = f.svc.FinalizeFailed(ctx, res.Transaction.ID, "late")
	require.ErrorIs(t, err, ledger.ErrAlreadyFinalized)

	w := res.Wallet
	pending, err := f.svc.Record(ctx, ledger.Draft{
		WalletID: w.ID, UserID: w.UserID, WalletCurrency: money.INR,
		Type: ledger.TypeCredit, Amount: inr("5.00"), Actor: ledger.ActorSystem,
	})
	require.NoError(t, err)
	done, err := f.svc.FinalizeCompleted(ctx, pending.ID, inr("15.00"))
	require.NoError(t, err)
	assert.Equal(t, "15.00", done.BalanceAfter.Format())
	_, err = f.svc.FinalizeCompleted(ctx, pending.ID, inr("15.00"))
	require.ErrorIs(t, err, ledger.ErrAlreadyFinalized)

	after, err := f.svc.Wallets().Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", after.Balance.Format(), "finalize never touches the wallet")

	_, err = f.svc.FinalizeCompleted(ctx, uuid.New(), inr("1"))
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestIdempotencyKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	req := movement(userID, "40.00")
	req.IdempotencyKey = "order-42"
	first, err := f.svc.Credit(ctx, req)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	again, err := f.svc.Credit(ctx, req)
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.Transaction.ID, again.Transaction.ID)
	assert.Equal(t, "40.00", again.Wallet.Balance.Format())

	conflict := req
	conflict.Amount = inr("41.00")
	_, err = f.svc.Credit(ctx, conflict)
	assert.ErrorIs(t, err, ledger.ErrIdempotencyConflict)
	_, err = f.svc.Debit(ctx, req)
	assert.ErrorIs(t, err, ledger.ErrIdempotencyConflict)

	over := movement(userID, "500.00")
	over.IdempotencyKey = "withdraw-1"
	_, err = f.svc.Debit(ctx, over)
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance)
	_, err = f.svc.Debit(ctx, over)
	require.ErrorIs(t, err, ledger.ErrPreviouslyFailed)

	w, err := f.svc.Wallets().GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "40.00", w.Balance.Format())
}

func TestIdempotencyKeyInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	w, err := f.svc.Wallets().FindOrCreate(ctx, userID, money.INR)
	require.NoError(t, err)

	_, err = f.svc.Record(ctx, ledger.Draft{
		WalletID: w.ID, UserID: userID, WalletCurrency: money.INR,
		Type: ledger.TypeCredit, Amount: inr("1.00"), Actor: ledger.ActorUser,
		IdempotencyKey: "k",
	})
	require.NoError(t, err)

	req := movement(userID, "1.00")
	req.IdempotencyKey = "k"
	_, err = f.svc.Credit(ctx, req)
	assert.ErrorIs(t, err, ledger.ErrRequestInProgress)
}

func TestConcurrentSameKeyAppliesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	_, err := f.svc.Wallets().FindOrCreate(ctx, userID, money.INR)
	require.NoError(t, err)

	req := movement(userID, "25.00")
	req.IdempotencyKey = "dup"
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Credit(ctx, req)
			if err != nil {
				assert.ErrorIs(t, err, ledger.ErrRequestInProgress)
			}
		}()
	}
	wg.Wait()

	w, err := f.svc.Wallets().GetBalance(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", w.Balance.Format())
}

func TestReverse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	credit, err := f.svc.Credit(ctx, movement(userID, "100.00"))
	require.NoError(t, err)
	_, err = f.svc.Debit(ctx, movement(userID, "20.00"))
	require.NoError(t, err)

	rev, err := f.svc.Reverse(ctx, credit.Transaction.ID, ledger.ActorAdmin, "wrong account")
	require.ErrorIs(t, err, wallet.ErrInsufficientBalance, "80.00 left cannot absorb a 100.00 reversal")
	assert.Nil(t, rev)
	original, err := f.svc.Get(ctx, credit.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusCompleted, original.Status)

	_, err = f.svc.Credit(ctx, movement(userID, "20.00"))
	require.NoError(t, err)
	rev, err = f.svc.Reverse(ctx, credit.Transaction.ID, ledger.ActorAdmin, "wrong account")
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusRolledBack, rev.Original.Status)
	assert.Contains(t, rev.Original.FailureReason, ledger.ReasonReversed)
	assert.NotNil(t, rev.Original.RolledBackAt)
	assert.Equal(t, ledger.TypeDebit, rev.Compensating.Type)
	assert.Equal(t, ledger.StatusCompleted, rev.Compensating.Status)
	require.NotNil(t, rev.Compensating.ReversalOf)
	assert.Equal(t, credit.Transaction.ID, *rev.Compensating.ReversalOf)
	assert.True(t, rev.Wallet.Balance.IsZero())

	_, err = f.svc.Reverse(ctx, credit.Transaction.ID, ledger.ActorAdmin, "")
	assert.ErrorIs(t, err, ledger.ErrNotReversible)
	_, err = f.svc.Reverse(ctx, rev.Compensating.ID, ledger.ActorAdmin, "")
	assert.ErrorIs(t, err, ledger.ErrNotReversible)

	f.assertConsistent(t, userID)
}

func TestSweepFailsOutAbandonedRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	res, err := f.svc.Credit(ctx, movement(userID, "10.00"))
	require.NoError(t, err)
	w := res.Wallet

	draft := ledger.Draft{
		WalletID: w.ID, UserID: userID, WalletCurrency: money.INR,
		Type: ledger.TypeDebit, Amount: inr("1.00"), Actor: ledger.ActorSystem,
	}
	stale, err := f.svc.Record(ctx, draft)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	fresh, err := f.svc.Record(ctx, draft)
	require.NoError(t, err)

	pending, err := f.svc.GetPendingTransactions(ctx, 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, stale.ID, pending[0].ID)

	report, err := f.svc.SweepPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.FailedOut)

	got, err := f.svc.Get(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusFailed, got.Status)
	assert.Contains(t, got.FailureReason, ledger.ReasonAbandoned)

	got, err = f.svc.Get(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.StatusPending, got.Status)

	rec := f.assertConsistent(t, userID)
	assert.Equal(t, int64(1), rec.PendingCount)
}

func TestSweepBatches(t *testing.T) {
	f := newFixture(t)
	f.svc.cfg.SweepBatchSize = 2
	ctx := context.Background()
	userID := uuid.New()
	w, err := f.svc.Wallets().FindOrCreate(ctx, userID, money.INR)
	require.NoError(t, err)

	for range 5 {
		_, err := f.svc.Record(ctx, ledger.Draft{
			WalletID: w.ID, UserID: userID, WalletCurrency: money.INR,
			Type: ledger.TypeCredit, Amount: inr("1.00"), Actor: ledger.ActorSystem,
		})
		require.NoError(t, err)
	}
	f.clock.Advance(time.Hour)

	report, err := f.svc.SweepPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, report.FailedOut)
	assert.Equal(t, 5, report.Scanned)
}

func TestSweeperRunStopsOnCancel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewSweeper(f.svc, 10*time.Millisecond, nil).Run(ctx)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestListForUserPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	for i := range 5 {
		req := movement(userID, "1.00")
		req.Reference = &ledger.Reference{Type: ledger.ReferenceOrder, ID: "o-" + string(rune('a'+i))}
		_, err := f.svc.Credit(ctx, req)
		require.NoError(t, err)
		f.clock.Advance(time.Second)
	}
	_, err := f.svc.Debit(ctx, movement(userID, "2.00"))
	require.NoError(t, err)

	page, err := f.svc.ListForUser(ctx, userID, dto.TransactionFilter{}, dto.Page{Page: 1, Limit: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.Total)
	require.Len(t, page.Items, 4)
	assert.Equal(t, ledger.TypeDebit, page.Items[0].Type, "newest first")

	page, err = f.svc.ListForUser(ctx, userID, dto.TransactionFilter{}, dto.Page{Page: 2, Limit: 4})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	refType := ledger.ReferenceOrder
	page, err = f.svc.ListForUser(ctx, userID,
		dto.TransactionFilter{ReferenceType: &refType, ReferenceID: "o-c"}, dto.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 20, page.Limit)

	page, err = f.svc.ListForUser(ctx, userID, dto.TransactionFilter{}, dto.Page{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)

	from := f.clock.Now()
	to := from.Add(-time.Hour)
	_, err = f.svc.ListForUser(ctx, userID, dto.TransactionFilter{From: &from, To: &to}, dto.Page{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSummaryForWallet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	res, err := f.svc.Credit(ctx, movement(userID, "100.00"))
	require.NoError(t, err)
	_, err = f.svc.Debit(ctx, movement(userID, "30.00"))
	require.NoError(t, err)
	_, err = f.svc.Debit(ctx, movement(userID, "500.00"))
	require.Error(t, err)

	summary, err := f.svc.SummaryForWallet(ctx, res.Wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", summary.Credited.Format())
	assert.Equal(t, "30.00", summary.Debited.Format())
	assert.Equal(t, "70.00", summary.Net.Format())
	assert.Equal(t, int64(2), summary.CompletedCount)
	assert.Equal(t, int64(1), summary.FailedCount)
	assert.Len(t, summary.Buckets, 3)

	_, err = f.svc.SummaryForWallet(ctx, uuid.New())
	assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
}
