package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBusConfig configures stream and consumer group naming.
type RedisEventBusConfig struct {
	StreamPrefix string
	Group        string
	Block        time.Duration
	MaxLen       int64
}

// DefaultRedisEventBusConfig returns the defaults used when no config is given.
func DefaultRedisEventBusConfig() *RedisEventBusConfig {
	return &RedisEventBusConfig{
		StreamPrefix: "ledger-events",
		Group:        "walletledger",
		Block:        5 * time.Second,
		MaxLen:       100_000,
	}
}

// RedisEventBus publishes every event type on its own Redis stream and
// consumes it through a consumer group. Failed deliveries go to a DLQ stream.
type RedisEventBus struct {
	client *redis.Client
	config *RedisEventBusConfig
	types  map[string]func() events.Event
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a Redis Streams event bus on an existing client.
func NewWithRedis(
	client *redis.Client,
	config *RedisEventBusConfig,
	types map[string]func() events.Event,
	logger *slog.Logger,
) (*RedisEventBus, error) {
	if client == nil {
		return nil, fmt.Errorf("redis event bus: client is required")
	}
	if config == nil {
		config = DefaultRedisEventBusConfig()
	}
	if config.Block <= 0 {
		config.Block = 5 * time.Second
	}
	if types == nil {
		types = events.EventTypes
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		config: config,
		types:  types,
		logger: logger.With("bus", "redis"),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (b *RedisEventBus) streamFor(eventType events.EventType) string {
	return nameFor(b.config.StreamPrefix, eventType)
}

func (b *RedisEventBus) dlqFor(eventType events.EventType) string {
	return nameFor(b.config.StreamPrefix+":dlq", eventType)
}

// Emit appends the event envelope to the stream of its type.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	data, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: b.streamFor(events.EventType(event.Type())),
		Values: map[string]any{"event": string(data)},
	}
	if b.config.MaxLen > 0 {
		args.MaxLen = b.config.MaxLen
		args.Approx = true
	}
	if err := b.client.XAdd(ctx, args).Err(); err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Register creates the consumer group for eventType and starts a consumer
// that calls handler for each message until Close.
func (b *RedisEventBus) Register(eventType events.EventType, handler eventbus.HandlerFunc) {
	stream := b.streamFor(eventType)
	consumer := fmt.Sprintf("consumer-%d", time.Now().UnixNano())

	err := b.client.XGroupCreateMkStream(b.ctx, stream, b.config.Group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		b.logger.Error("failed to create consumer group", "error", err, "stream", stream)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consume(eventType, stream, consumer, handler)
	}()
	b.logger.Info("handler registered", "event_type", eventType, "stream", stream, "consumer", consumer)
}

func (b *RedisEventBus) consume(eventType events.EventType, stream, consumer string, handler eventbus.HandlerFunc) {
	for {
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    b.config.Group,
			Consumer: consumer,
			Streams:  []string{stream, ">"},
			Count:    10,
			Block:    b.config.Block,
		}).Result()
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			if !errors.Is(err, redis.Nil) {
				b.logger.Error("error reading from stream", "error", err, "stream", stream)
				time.Sleep(time.Second)
			}
			continue
		}

		for _, s := range res {
			for _, msg := range s.Messages {
				b.handle(eventType, stream, msg, handler)
			}
		}
	}
}

func (b *RedisEventBus) handle(eventType events.EventType, stream string, msg redis.XMessage, handler eventbus.HandlerFunc) {
	defer func() {
		if err := b.client.XAck(b.ctx, stream, b.config.Group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
		}
	}()

	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(eventType, msg.Values, "missing event field")
		return
	}
	evt, err := decodeEnvelope([]byte(raw), b.types)
	if err != nil {
		b.pushToDLQ(eventType, msg.Values, err.Error())
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic recovered", "panic", r, "event_type", eventType)
			b.pushToDLQ(eventType, msg.Values, fmt.Sprint(r))
		}
	}()
	if err := handler(b.ctx, evt); err != nil {
		b.logger.Error("handler error", "error", err, "event_type", eventType)
		b.pushToDLQ(eventType, msg.Values, err.Error())
	}
}

func (b *RedisEventBus) pushToDLQ(eventType events.EventType, values map[string]any, reason string) {
	dlq := b.dlqFor(eventType)
	fields := make(map[string]any, len(values)+1)
	for k, v := range values {
		fields[k] = v
	}
	fields["error"] = reason
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{Stream: dlq, Values: fields}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlq)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlq, "reason", reason)
}

// Close stops all consumers. The client is owned by the caller.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
