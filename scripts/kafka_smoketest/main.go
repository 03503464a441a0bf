package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	infra_eventbus "github.com/amirasaad/walletledger/infra/eventbus"
	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/domain/ledger"
	"github.com/amirasaad/walletledger/pkg/money"
	"github.com/google/uuid"
)

// RunSmokeTest publishes a synthetic TransactionCompleted event through the
// Kafka event bus and waits for the registered consumer to receive it.
func RunSmokeTest() error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	brokers := strings.TrimSpace(os.Getenv("BROKERS"))
	if brokers == "" {
		brokers = "localhost:9092"
	}
	groupID := strings.TrimSpace(os.Getenv("GROUP_ID"))
	if groupID == "" {
		groupID = "walletledger-smoketest"
	}

	bus, err := infra_eventbus.NewWithKafka(&infra_eventbus.KafkaEventBusConfig{
		Brokers:     strings.Split(brokers, ","),
		GroupID:     groupID,
		TopicPrefix: "walletledger.smoketest.",
	}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	now := time.Now().UTC()
	balance := money.MustParse("10.00", money.INR)
	tx := &ledger.Transaction{
		ID:           uuid.New(),
		WalletID:     uuid.New(),
		UserID:       uuid.New(),
		Type:         ledger.TypeCredit,
		Amount:       balance,
		BalanceAfter: &balance,
		Status:       ledger.StatusCompleted,
		InitiatedBy:  ledger.ActorSystem,
		CreatedAt:    now,
		CompletedAt:  &now,
	}

	received := make(chan uuid.UUID, 1)
	bus.Register(events.EventTypeTransactionCompleted, func(_ context.Context, e events.Event) error {
		if evt, ok := e.(*events.TransactionCompleted); ok && evt.TransactionID == tx.ID {
			select {
			case received <- evt.TransactionID:
			default:
			}
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bus.Emit(ctx, events.NewTransactionCompleted(tx, now)); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("event published", "transaction_id", tx.ID)

	select {
	case id := <-received:
		logger.Info("event consumed", "transaction_id", id)
		return nil
	case <-ctx.Done():
		return errors.New("timed out waiting for the event to be consumed")
	}
}

func main() {
	if err := RunSmokeTest(); err != nil {
		os.Exit(1)
	}
}
