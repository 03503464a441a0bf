package ledger

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs SweepPending on a fixed interval until its context is done.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	logger   *slog.Logger
}

// NewSweeper creates a Sweeper. A non-positive interval uses the service's
// configured sweep interval.
func NewSweeper(svc *Service, interval time.Duration, logger *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = svc.cfg.SweepInterval
	}
	if logger == nil {
		logger = svc.logger
	}
	return &Sweeper{svc: svc, interval: interval, logger: logger.With("worker", "sweeper")}
}

// Run blocks, sweeping once immediately and then on every tick.
func (w *Sweeper) Run(ctx context.Context) {
	w.logger.Info("Sweeper started", "interval", w.interval, "pendingTimeout", w.svc.cfg.PendingTimeout)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("Sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *Sweeper) sweepOnce(ctx context.Context) {
	report, err := w.svc.SweepPending(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("Sweep failed", "error", err)
		}
		return
	}
	w.logger.Debug("Sweep done", "scanned", report.Scanned, "failedOut", report.FailedOut)
}
