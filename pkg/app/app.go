package app

import (
	"log/slog"

	"github.com/amirasaad/walletledger/pkg/cache"
	"github.com/amirasaad/walletledger/pkg/config"
	"github.com/amirasaad/walletledger/pkg/eventbus"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/amirasaad/walletledger/pkg/service/ledger"
	"github.com/amirasaad/walletledger/pkg/service/wallet"
)

// Deps contains the infrastructure the application services are built on.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	// Cache may be nil, in which case ledger stats are not cached.
	Cache  cache.Cache
	Logger *slog.Logger
}

type App struct {
	Deps          *Deps
	Config        *config.App
	WalletService *wallet.Service
	LedgerService *ledger.Service
	Sweeper       *ledger.Sweeper
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.WalletService = wallet.New(deps.Uow, deps.EventBus, deps.Logger)
	app.LedgerService = ledger.New(ledger.Deps{
		Uow:      deps.Uow,
		Wallets:  app.WalletService,
		EventBus: deps.EventBus,
		Cache:    deps.Cache,
		Config:   cfg.Ledger,
		Logger:   deps.Logger,
	})
	app.Sweeper = ledger.NewSweeper(app.LedgerService, cfg.Ledger.SweepInterval, deps.Logger)
	app.setupEventBus()
	return app
}
