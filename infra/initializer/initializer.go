package initializer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/walletledger/infra"
	infra_cache "github.com/amirasaad/walletledger/infra/cache"
	infra_eventbus "github.com/amirasaad/walletledger/infra/eventbus"
	infra_repository "github.com/amirasaad/walletledger/infra/repository"
	"github.com/amirasaad/walletledger/pkg/app"
	"github.com/amirasaad/walletledger/pkg/cache"
	"github.com/amirasaad/walletledger/pkg/config"
	"github.com/amirasaad/walletledger/pkg/domain/events"
	"github.com/amirasaad/walletledger/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

const memoryCacheCleanupInterval = time.Minute

// InitializeDependencies initializes all the application dependencies. The
// returned cleanup closes the connections opened here.
func InitializeDependencies(cfg *config.App) (
	deps *app.Deps,
	cleanup func(),
	err error,
) {
	deps = &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	var closers []func() error
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if cerr := closers[i](); cerr != nil {
				logger.Warn("Failed to close dependency", "error", cerr)
			}
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	// Initialize database
	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, nil, err
	}
	if sqlDB, derr := db.DB(); derr == nil {
		closers = append(closers, sqlDB.Close)
	}

	// Initialize unit of work
	deps.Uow = infra_repository.NewUoW(db)

	// Initialize event bus
	bus, err := initEventBus(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}
	if c, ok := bus.(interface{ Close() error }); ok {
		closers = append(closers, c.Close)
	}
	deps.EventBus = bus

	// Initialize stats cache
	statsCache, closeCache, err := initCache(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	if closeCache != nil {
		closers = append(closers, closeCache)
	}
	deps.Cache = statsCache

	return deps, cleanup, nil
}

// initEventBus picks the event bus driver. An explicitly configured durable
// driver without its connection settings is an error; a driver that cannot
// connect falls back to the in-memory bus.
func initEventBus(cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := ""
	if cfg.EventBus != nil {
		driver = cfg.EventBus.Driver
	}

	switch driver {
	case "", "memory":
		logger.Info("Using in-memory event bus")
		return infra_eventbus.NewWithMemory(logger), nil

	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, errors.New("redis event bus: REDIS_URL is required")
		}
		client, err := newRedisClient(cfg.Redis)
		if err != nil {
			return nil, err
		}
		busCfg := infra_eventbus.DefaultRedisEventBusConfig()
		if cfg.EventBus.Stream != "" {
			busCfg.StreamPrefix = cfg.EventBus.Stream
		}
		if cfg.EventBus.Group != "" {
			busCfg.Group = cfg.EventBus.Group
		}
		bus, err := infra_eventbus.NewWithRedis(client, busCfg, events.EventTypes, logger)
		if err != nil {
			_ = client.Close()
			logger.Warn("Redis event bus unavailable, falling back to in-memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		logger.Info("Using Redis event bus", "stream_prefix", busCfg.StreamPrefix, "group", busCfg.Group)
		return bus, nil

	case "kafka":
		if cfg.Kafka == nil || len(cfg.Kafka.Brokers) == 0 {
			return nil, errors.New("kafka event bus: KAFKA_BROKERS is required")
		}
		bus, err := infra_eventbus.NewWithKafka(&infra_eventbus.KafkaEventBusConfig{
			Brokers:     cfg.Kafka.Brokers,
			GroupID:     cfg.Kafka.GroupID,
			TopicPrefix: cfg.Kafka.TopicPrefix,
		}, logger)
		if err != nil {
			logger.Warn("Kafka event bus unavailable, falling back to in-memory", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	}

	return nil, fmt.Errorf("unsupported event bus driver %q", driver)
}

// initCache builds the stats cache. A Redis cache that cannot be reached
// falls back to the in-memory cache.
func initCache(cfg *config.App, logger *slog.Logger) (cache.Cache, func() error, error) {
	driver, prefix := "memory", ""
	if cfg.Cache != nil {
		driver, prefix = cfg.Cache.Driver, cfg.Cache.Prefix
	}

	switch driver {
	case "", "memory":
		c := infra_cache.NewMemoryCache(memoryCacheCleanupInterval)
		return c, c.Close, nil

	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, nil, errors.New("redis cache: REDIS_URL is required")
		}
		client, err := newRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			logger.Warn("Redis cache unavailable, falling back to in-memory", "error", err)
			c := infra_cache.NewMemoryCache(memoryCacheCleanupInterval)
			return c, c.Close, nil
		}
		logger.Info("Using Redis stats cache", "prefix", cfg.Redis.KeyPrefix+prefix)
		return infra_cache.NewRedisCache(client, cfg.Redis.KeyPrefix+prefix, logger), client.Close, nil
	}

	return nil, nil, fmt.Errorf("unsupported cache driver %q", driver)
}

func newRedisClient(cfg *config.Redis) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return redis.NewClient(opts), nil
}
