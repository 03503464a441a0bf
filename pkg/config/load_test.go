package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	require := require.New(t)

	cfg, err := Load("does-not-exist.env")
	require.NoError(err)

	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "localhost:3000", cfg.Server.Addr())
	assert.Equal(t, "memory", cfg.EventBus.Driver)
	assert.Equal(t, "INR", cfg.Ledger.DefaultCurrency)
	assert.Equal(t, 15*time.Minute, cfg.Ledger.PendingTimeout)
	assert.Equal(t, 100, cfg.Ledger.MaxPageSize)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.env")
	content := "LEDGER_PENDING_TIMEOUT=5m\nEVENT_BUS_DRIVER=redis\nSERVER_PORT=8081\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("LEDGER_PENDING_TIMEOUT")
		_ = os.Unsetenv("EVENT_BUS_DRIVER")
		_ = os.Unsetenv("SERVER_PORT")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.Ledger.PendingTimeout)
	assert.Equal(t, "redis", cfg.EventBus.Driver)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("CACHE_DRIVER", "memcached")

	_, err := Load()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_InvalidPageSizes(t *testing.T) {
	t.Setenv("LEDGER_DEFAULT_PAGE_SIZE", "50")
	t.Setenv("LEDGER_MAX_PAGE_SIZE", "10")

	_, err := Load()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "po****able", maskValue("postgres://u:p@h/db?sslmode=disable"))
}

func TestFindEnvTest_NotFound(t *testing.T) {
	_, err := FindEnvTest("definitely-missing-file.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
