package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	// ErrInvalidConfig is returned when a loaded value is outside its allowed set.
	ErrInvalidConfig = errors.New("invalid configuration")

	eventBusDrivers = []string{"memory", "redis", "kafka"}
	cacheDrivers    = []string{"memory", "redis"}
)

// Load reads the first environment file found among envFilePath (searching
// parent directories) and then populates App from the process environment.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		foundPath, err := FindEnvTest(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"server_addr", cfg.Server.Addr(),
		"db", maskValue(cfg.DB.Url),
		"redis", maskValue(cfg.Redis.URL),
		"event_bus_driver", cfg.EventBus.Driver,
		"cache_driver", cfg.Cache.Driver,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
		"ledger_default_currency", cfg.Ledger.DefaultCurrency,
		"ledger_pending_timeout", cfg.Ledger.PendingTimeout,
		"ledger_sweep_interval", cfg.Ledger.SweepInterval,
	)
	return &cfg, nil
}

func validate(cfg *App) error {
	if !slices.Contains(eventBusDrivers, cfg.EventBus.Driver) {
		return fmt.Errorf("%w: event bus driver %q", ErrInvalidConfig, cfg.EventBus.Driver)
	}
	if !slices.Contains(cacheDrivers, cfg.Cache.Driver) {
		return fmt.Errorf("%w: cache driver %q", ErrInvalidConfig, cfg.Cache.Driver)
	}
	if cfg.Ledger.PendingTimeout <= 0 {
		return fmt.Errorf("%w: ledger pending timeout must be positive", ErrInvalidConfig)
	}
	if cfg.Ledger.DefaultPageSize <= 0 || cfg.Ledger.MaxPageSize < cfg.Ledger.DefaultPageSize {
		return fmt.Errorf("%w: ledger page sizes %d/%d", ErrInvalidConfig,
			cfg.Ledger.DefaultPageSize, cfg.Ledger.MaxPageSize)
	}
	return nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
