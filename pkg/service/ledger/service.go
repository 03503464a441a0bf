// Package ledger orchestrates wallet movements as a saga over the append-only
// transaction log:
//
//  1. record a PENDING row (committed on its own)
//  2. apply the delta and mark the row COMPLETED in one database transaction
//  3. on rejection, mark the row FAILED with a reason code
//
// A COMPLETED row therefore always has its delta applied, and a PENDING row
// never does. Rows left PENDING by a crash or a failed step 3 are failed out
// by SweepPending.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/walletledger/pkg/cache"
	"github.com/amirasaad/walletledger/pkg/config"
	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/eventbus"
	"github.com/amirasaad/walletledger/pkg/repository"
	walletsvc "github.com/amirasaad/walletledger/pkg/service/wallet"
)

// finalizeTimeout bounds the FAILED write issued after a rejection. It runs
// detached from the caller's context so a cancelled request still records
// its outcome.
const finalizeTimeout = 5 * time.Second

// Deps holds the collaborators of the ledger Service.
type Deps struct {
	Uow      repository.UnitOfWork
	Wallets  *walletsvc.Service
	EventBus eventbus.Bus
	// Cache is optional; without it stats are computed on every call.
	Cache  cache.Cache
	Config *config.Ledger
	Logger *slog.Logger
	// Now is optional and defaults to time.Now in UTC.
	Now func() time.Time
}

// Service provides the TransactionLog operations and the credit/debit/reverse
// orchestration on top of the wallet service.
type Service struct {
	uow     repository.UnitOfWork
	wallets *walletsvc.Service
	bus     eventbus.Bus
	cache   cache.Cache
	cfg     config.Ledger
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a ledger Service.
func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	cfg := defaultConfig()
	if deps.Config != nil {
		cfg = *deps.Config
	}
	wallets := deps.Wallets
	if wallets == nil {
		wallets = walletsvc.New(deps.Uow, deps.EventBus, logger)
	}
	return &Service{
		uow:     deps.Uow,
		wallets: wallets,
		bus:     deps.EventBus,
		cache:   deps.Cache,
		cfg:     cfg,
		logger:  logger.With("service", "ledger"),
		now:     now,
	}
}

func defaultConfig() config.Ledger {
	return config.Ledger{
		DefaultCurrency: "INR",
		PendingTimeout:  15 * time.Minute,
		SweepInterval:   time.Minute,
		SweepBatchSize:  100,
		StatsCacheTTL:   time.Minute,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
}

// Wallets returns the wallet service the ledger applies deltas through.
func (s *Service) Wallets() *walletsvc.Service {
	return s.wallets
}

// emit publishes after commit. Publish failures are logged only: the ledger
// row is the source of truth.
func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Warn("Event publish failed", "type", evt.Type(), "error", err)
	}
}
