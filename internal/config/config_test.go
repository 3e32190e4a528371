package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"PORT", "LOG_LEVEL", "LOG_FORMAT", "ENVIRONMENT", "API_KEY", "STORAGE",
	"DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME", "DB_MAX_CONNS",
	"REDIS_ADDR", "VERIFIER_URL", "VERIFIER_TIMEOUT", "BALANCE_PATH", "ITEMS_PATH",
	"SWEEP_INTERVAL", "WORKER_COUNT", "DEAD_LETTER_PATH", "TRUSTED_PROXIES",
	"VERIFIER_API_KEY", "EVENT_MAX_RETRIES", "EVENT_RETRY_DELAY",
}

// clearEnvVars unsets every variable Load reads and restores them afterwards
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		if v, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, v) })
		}
		os.Unsetenv(key)
	}
}

// TestLoad tests configuration loading from environment
func TestLoad(t *testing.T) {
	t.Run("loads config with defaults when no env vars set", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port, "Should use default port")
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "dev", cfg.Environment)
		assert.Equal(t, StoragePostgres, cfg.Storage)
		assert.Equal(t, "postgres", cfg.DBUser)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, 30*time.Second, cfg.SweepInterval)
		assert.Equal(t, 4, cfg.WorkerCount)
		assert.Equal(t, ConfigPathItems, cfg.ItemsPath)
		assert.Equal(t, ConfigPathBalance, cfg.BalancePath)
		assert.Equal(t, "test-key", cfg.APIKey)
	})

	t.Run("loads config from environment variables", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("PORT", "3000")
		t.Setenv("API_KEY", "custom-api-key")
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("ENVIRONMENT", "production")
		t.Setenv("STORAGE", "memory")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("REDIS_ADDR", "localhost:6379")
		t.Setenv("VERIFIER_URL", "http://judge.local/verify")
		t.Setenv("VERIFIER_TIMEOUT", "3s")
		t.Setenv("SWEEP_INTERVAL", "1m")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, 3000, cfg.Port)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.True(t, cfg.UsesMemoryStorage())
		assert.Equal(t, "5433", cfg.DBPort)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, 3*time.Second, cfg.VerifierTimeout)
		assert.Equal(t, time.Minute, cfg.SweepInterval)
	})

	t.Run("event retry and proxy settings", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "k")
		t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.2")
		t.Setenv("EVENT_MAX_RETRIES", "0")
		t.Setenv("EVENT_RETRY_DELAY", "250ms")
		t.Setenv("VERIFIER_API_KEY", "judge-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.1", "10.0.0.2"}, cfg.TrustedProxies)
		assert.Zero(t, cfg.EventMaxRetries)
		assert.Equal(t, 250*time.Millisecond, cfg.EventRetryDelay)
		assert.Equal(t, "judge-key", cfg.VerifierAPIKey)

		t.Setenv("EVENT_MAX_RETRIES", "99")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "EventMaxRetries")
	})

	t.Run("returns error when API_KEY is not set", func(t *testing.T) {
		clearEnvVars(t)

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "API_KEY")
		assert.Contains(t, err.Error(), "must be set")
	})

	t.Run("returns error for invalid PORT", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("PORT", "not-a-number")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "invalid PORT")
	})

	t.Run("rejects out of range values", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("PORT", "-1")
		t.Setenv("STORAGE", "sqlite")

		cfg, err := Load()

		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "Port")
		assert.Contains(t, err.Error(), "Storage")
	})
}

func TestGetDBConnString(t *testing.T) {
	cfg := &Config{DBUser: "user", DBPassword: "p@ss", DBHost: "db", DBPort: "5432", DBName: "arena"}
	assert.Equal(t, "postgres://user:p%40ss@db:5432/arena?sslmode=disable", cfg.GetDBConnString())
}

func TestWarnings(t *testing.T) {
	cfg := &Config{DBPassword: InsecureDBPassword, APIKey: InsecureAPIKey, Environment: "prod"}
	warnings := cfg.Warnings()
	assert.Len(t, warnings, 3)

	cfg = &Config{DBPassword: "x", APIKey: "y", VerifierURL: "http://judge", Environment: "prod"}
	assert.Empty(t, cfg.Warnings())
}
