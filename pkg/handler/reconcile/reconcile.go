// Package reconcile holds event bus handlers that keep the transaction log
// converging after partial failures and record an audit trail of lifecycle
// events.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/eventbus"
	"github.com/google/uuid"
)

// Finalizer marks PENDING rows as FAILED.
type Finalizer interface {
	FinalizeFailed(ctx context.Context, transactionID uuid.UUID, reason string) (*ledger.Transaction, error)
}

// HandleTransactionStuck retries the FAILED write of a stuck movement. A row
// finalized in the meantime is left alone. When the retry fails as well the
// row stays PENDING and the sweep fails it out after the pending timeout.
func HandleTransactionStuck(finalizer Finalizer, logger *slog.Logger) eventbus.HandlerFunc {
	return func(ctx context.Context, event events.Event) error {
		log := logger.With("handler", "reconcile.HandleTransactionStuck", "event_type", event.Type())

		stuck, ok := event.(*events.TransactionStuck)
		if !ok {
			err := fmt.Errorf("expected TransactionStuck event, got %T", event)
			log.Error("invalid event type", "error", err)
			return err
		}
		log = log.With("transaction_id", stuck.TransactionID)

		reason := stuck.Reason
		if reason == "" {
			reason = ledger.ReasonTransactionStuck
		}
		failed, err := finalizer.FinalizeFailed(ctx, stuck.TransactionID, reason)
		switch {
		case errors.Is(err, ledger.ErrAlreadyFinalized):
			log.Info("stuck transaction already finalized")
			return nil
		case err != nil:
			log.Error("retry of FAILED write failed, leaving row for the sweep", "error", err)
			return fmt.Errorf("finalize stuck transaction %s: %w", stuck.TransactionID, err)
		}
		log.Warn("stuck transaction marked FAILED", "reason", failed.FailureReason)
		return nil
	}
}

// HandleAudit logs every lifecycle event it receives.
func HandleAudit(logger *slog.Logger) eventbus.HandlerFunc {
	log := logger.With("handler", "reconcile.HandleAudit")
	return func(_ context.Context, event events.Event) error {
		switch e := event.(type) {
		case *events.TransactionCompleted:
			log.Info("transaction completed", auditAttrs(e.TransactionEvent)...)
		case *events.TransactionFailed:
			log.Info("transaction failed", auditAttrs(e.TransactionEvent)...)
		case *events.TransactionRolledBack:
			log.Info("transaction rolled back",
				append(auditAttrs(e.TransactionEvent), "compensating_transaction_id", e.CompensatingTransactionID)...)
		case *events.TransactionStuck:
			log.Error("ALERT: transaction stuck", append(auditAttrs(e.TransactionEvent), "error", e.Error)...)
		case *events.WalletStatusChanged:
			log.Info("wallet status changed", "wallet_id", e.WalletID, "user_id", e.UserID, "from", e.From, "to", e.To)
		default:
			log.Debug("unhandled event", "event_type", event.Type())
		}
		return nil
	}
}

func auditAttrs(e events.TransactionEvent) []any {
	attrs := []any{
		"transaction_id", e.TransactionID,
		"wallet_id", e.WalletID,
		"type", e.TransactionType,
		"amount", e.Amount,
		"currency", e.Currency,
		"status", e.Status,
	}
	if e.Reason != "" {
		attrs = append(attrs, "reason", e.Reason)
	}
	return attrs
}

// Register wires the handlers of this package on bus.
func Register(bus eventbus.Bus, finalizer Finalizer, logger *slog.Logger) {
	audit := HandleAudit(logger)
	for _, t := range []events.EventType{
		events.EventTypeTransactionCompleted,
		events.EventTypeTransactionFailed,
		events.EventTypeTransactionRolledBack,
		events.EventTypeTransactionStuck,
		events.EventTypeWalletStatusChanged,
	} {
		bus.Register(t, audit)
	}
	bus.Register(events.EventTypeTransactionStuck, HandleTransactionStuck(finalizer, logger))
}
