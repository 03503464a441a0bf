package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedisBus starts a Redis container and returns a bus with a short block
// timeout so consumers stop quickly on Close.
func setupRedisBus(tb *testing.T) (*RedisEventBus, *redis.Client) {
	tb.Helper()
	if testing.Short() {
		tb.Skip("skipping redis integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(tb)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7.2-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(tb, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	tb.Cleanup(func() { _ = client.Close() })

	cfg := DefaultRedisEventBusConfig()
	cfg.Block = 200 * time.Millisecond
	bus, err := NewWithRedis(client, cfg, nil, discardLogger())
	require.NoError(tb, err)
	tb.Cleanup(func() { _ = bus.Close() })
	return bus, client
}

func TestRedisBusHandlerReceivesEvent(t *testing.T) {
	bus, _ := setupRedisBus(t)

	received := make(chan *events.WalletStatusChanged, 1)
	bus.Register(events.EventTypeWalletStatusChanged, func(_ context.Context, e events.Event) error {
		received <- e.(*events.WalletStatusChanged)
		return nil
	})

	evt := statusChanged()
	require.NoError(t, bus.Emit(context.Background(), evt))

	select {
	case got := <-received:
		require.Equal(t, evt.WalletID, got.WalletID)
		require.Equal(t, "BLOCKED", got.To)
	case <-time.After(10 * time.Second):
		t.Fatal("handler did not receive event in time")
	}
}

func TestRedisBusFailedHandlerGoesToDLQ(t *testing.T) {
	bus, client := setupRedisBus(t)

	bus.Register(events.EventTypeWalletStatusChanged, func(context.Context, events.Event) error {
		return errors.New("simulated failure")
	})
	require.NoError(t, bus.Emit(context.Background(), statusChanged()))

	dlq := bus.dlqFor(events.EventTypeWalletStatusChanged)
	require.Eventually(t, func() bool {
		n, err := client.XLen(context.Background(), dlq).Result()
		return err == nil && n == 1
	}, 10*time.Second, 100*time.Millisecond)
}
