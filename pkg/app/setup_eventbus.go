// Package app assembles the wallet and ledger services and registers their
// event handlers on the bus.
package app

import (
	"github.com/amirasaad/walletledger/pkg/handler/reconcile"
)

// setupEventBus registers all event handlers with the event bus.
func (a *App) setupEventBus() {
	reconcile.Register(a.Deps.EventBus, a.LedgerService, a.Deps.Logger)
}
