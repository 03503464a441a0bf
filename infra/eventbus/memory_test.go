package eventbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func statusChanged() *events.WalletStatusChanged {
	return &events.WalletStatusChanged{
		WalletID:   uuid.New(),
		UserID:     uuid.New(),
		From:       "ACTIVE",
		To:         "BLOCKED",
		OccurredAt: time.Now().UTC(),
	}
}

func TestMemoryEventBus_DispatchesByType(t *testing.T) {
	bus := NewWithMemory(discardLogger())

	var got []events.Event
	bus.Register(events.EventTypeWalletStatusChanged, func(_ context.Context, e events.Event) error {
		got = append(got, e)
		return nil
	})
	bus.Register(events.EventTypeTransactionCompleted, func(_ context.Context, e events.Event) error {
		t.Fatalf("unexpected dispatch of %s", e.Type())
		return nil
	})

	evt := statusChanged()
	require.NoError(t, bus.Emit(context.Background(), evt))

	require.Len(t, got, 1)
	assert.Same(t, evt, got[0])
	assert.Len(t, bus.Published(), 1)

	bus.ClearPublished()
	assert.Empty(t, bus.Published())
}

func TestMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewWithMemory(discardLogger())

	calls := 0
	bus.Register(events.EventTypeWalletStatusChanged, func(context.Context, events.Event) error {
		calls++
		return errors.New("handler failed")
	})
	bus.Register(events.EventTypeWalletStatusChanged, func(context.Context, events.Event) error {
		calls++
		panic("handler panicked")
	})
	bus.Register(events.EventTypeWalletStatusChanged, func(context.Context, events.Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Emit(context.Background(), statusChanged()))
	assert.Equal(t, 3, calls)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	evt := statusChanged()
	data, err := encodeEnvelope(evt)
	require.NoError(t, err)

	decoded, err := decodeEnvelope(data, events.EventTypes)
	require.NoError(t, err)
	sc, ok := decoded.(*events.WalletStatusChanged)
	require.True(t, ok)
	assert.Equal(t, evt.WalletID, sc.WalletID)

	_, err = decodeEnvelope([]byte(`{"type":"Nope.Event","payload":{}}`), events.EventTypes)
	require.Error(t, err)
	_, err = decodeEnvelope([]byte(`not json`), events.EventTypes)
	require.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "ledger-events:ledger:transactioncompleted",
		nameFor("ledger-events", events.EventTypeTransactionCompleted))
	assert.Equal(t, "walletledger.wallet.statuschanged",
		topicNameFor("walletledger.", events.EventTypeWalletStatusChanged))
	assert.Equal(t, "walletledger.dlq.wallet.statuschanged",
		dlqTopicNameFor("walletledger.", events.EventTypeWalletStatusChanged))
}
