// Package wallet provides the WalletStore operations: find-or-create,
// balance reads, the atomic apply-delta primitive and status transitions.
//
// The service places no in-process locks. Serialization of concurrent
// mutations on a wallet is left to the conditional UPDATE issued by the
// repository.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain"
	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/domain/wallet"
	"github.com/amirasaad/walletledger/pkg/eventbus"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/amirasaad/walletledger/pkg/repository"
	"github.com/google/uuid"
)

// Service provides wallet operations.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
	now    func() time.Time
}

// New creates a wallet Service.
func New(uow repository.UnitOfWork, bus eventbus.Bus, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		bus:    bus,
		logger: logger.With("service", "wallet"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithUoW returns a copy of s whose repository calls run on uow. The ledger
// uses it to apply a delta inside its own database transaction.
func (s *Service) WithUoW(uow repository.UnitOfWork) *Service {
	c := *s
	c.uow = uow
	return &c
}

// FindOrCreate returns the user's wallet, creating an empty ACTIVE one in
// code if none exists. A concurrent creator that wins the unique user_id
// race makes this call fall back to reading its wallet.
func (s *Service) FindOrCreate(ctx context.Context, userID uuid.UUID, code money.Code) (*wallet.Wallet, error) {
	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	w, err := repo.GetByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	w, err = wallet.New().
		WithUserID(userID).
		WithCurrency(code).
		WithCreatedAt(s.now()).
		Build()
	if err != nil {
		return nil, err
	}
	if err = repo.Create(ctx, w); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.Debug("FindOrCreate lost creation race, reading existing wallet", "userID", userID)
			return repo.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	s.logger.Info("Wallet created", "userID", userID, "walletID", w.ID, "currency", code)
	return w, nil
}

// Get returns a wallet by id.
func (s *Service) Get(ctx context.Context, walletID uuid.UUID) (*wallet.Wallet, error) {
	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, walletID)
}

// GetByUser returns the wallet owned by userID.
func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	return repo.GetByUserID(ctx, userID)
}

// GetBalance returns the user's wallet with its balance, currency, status and
// version. It fails with wallet.ErrWalletNotFound when the user has none.
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	return s.GetByUser(ctx, userID)
}

// ApplyDelta adds delta smallest units to the wallet in one conditional
// statement. A rejected update is classified by reading the wallet:
// wallet.ErrWalletNotFound, ErrWalletBlocked or ErrWalletInactive, otherwise
// ErrInsufficientBalance for a debit and ErrConcurrentStatusChange for a
// credit. The call is never retried.
func (s *Service) ApplyDelta(
	ctx context.Context,
	walletID uuid.UUID,
	delta int64,
	at time.Time,
) (*wallet.Wallet, error) {
	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	w, err := repo.ApplyDelta(ctx, walletID, delta, at)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, repository.ErrConditionNotMet) {
		return nil, err
	}
	return nil, s.classifyRejection(ctx, repo, walletID, delta)
}

func (s *Service) classifyRejection(
	ctx context.Context,
	repo repository.WalletRepository,
	walletID uuid.UUID,
	delta int64,
) error {
	current, err := repo.Get(ctx, walletID)
	if err != nil {
		return err
	}
	if err := current.CanTransact(); err != nil {
		return err
	}
	// With an ACTIVE wallet the only other predicate of a debit is the
	// balance guard. A credit landing after the miss must not change that.
	if delta < 0 {
		requested, _ := money.NewFromSmallestUnit(-delta, current.Currency())
		return fmt.Errorf("%w: balance %s, debit %s",
			wallet.ErrInsufficientBalance, current.Balance, requested)
	}
	return wallet.ErrConcurrentStatusChange
}

// Block moves an ACTIVE wallet to BLOCKED.
func (s *Service) Block(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	return s.transition(ctx, userID, wallet.StatusBlocked)
}

// Unblock moves a BLOCKED wallet back to ACTIVE.
func (s *Service) Unblock(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	return s.transition(ctx, userID, wallet.StatusActive)
}

// Deactivate soft-disables a wallet. INACTIVE is terminal.
func (s *Service) Deactivate(ctx context.Context, userID uuid.UUID) (*wallet.Wallet, error) {
	return s.transition(ctx, userID, wallet.StatusInactive)
}

func (s *Service) transition(ctx context.Context, userID uuid.UUID, to wallet.Status) (*wallet.Wallet, error) {
	logger := s.logger.With("userID", userID, "to", to)
	repo, err := s.uow.WalletRepository()
	if err != nil {
		return nil, err
	}
	current, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		logger.Warn("Status transition failed: wallet lookup", "error", err)
		return nil, err
	}
	if !current.Status.CanTransitionTo(to) {
		return nil, fmt.Errorf("%w: %s -> %s", wallet.ErrInvalidStatusTransition, current.Status, to)
	}

	at := s.now()
	updated, err := repo.UpdateStatus(ctx, current.ID, current.Status, to, at)
	if errors.Is(err, repository.ErrConditionNotMet) {
		return nil, wallet.ErrConcurrentStatusChange
	}
	if err != nil {
		logger.Error("Status transition failed", "error", err)
		return nil, err
	}

	logger.Info("Wallet status changed", "walletID", updated.ID, "from", current.Status)
	s.emit(ctx, events.NewWalletStatusChanged(updated, current.Status, at))
	return updated, nil
}

// emit publishes after the state change is committed. A publish failure is
// logged and does not undo the change.
func (s *Service) emit(ctx context.Context, evt events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Warn("Event publish failed", "type", evt.Type(), "error", err)
	}
}
