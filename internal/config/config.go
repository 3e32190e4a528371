package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	APIKey      string `env:"API_KEY"` // API key for authentication

	// TrustedProxies may set X-Forwarded-For
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	Storage    string `env:"STORAGE" envDefault:"postgres" validate:"oneof=postgres memory"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432" validate:"numeric"`
	DBName     string `env:"DB_NAME" envDefault:"taskarena"`
	DBMaxConns int    `env:"DB_MAX_CONNS" envDefault:"20" validate:"min=1"`

	// RedisAddr enables the Redis leaderboard when set
	RedisAddr string `env:"REDIS_ADDR"`

	// VerifierURL points at the external evidence judge; empty auto-approves
	VerifierURL     string        `env:"VERIFIER_URL" validate:"omitempty,url"`
	VerifierAPIKey  string        `env:"VERIFIER_API_KEY"`
	VerifierTimeout time.Duration `env:"VERIFIER_TIMEOUT" envDefault:"10s"`

	BalancePath    string        `env:"BALANCE_PATH" envDefault:"configs/balance.yaml"`
	ItemsPath      string        `env:"ITEMS_PATH" envDefault:"configs/items/items.json"`
	SweepInterval  time.Duration `env:"SWEEP_INTERVAL" envDefault:"30s"`
	WorkerCount    int           `env:"WORKER_COUNT" envDefault:"4" validate:"min=1,max=64"`
	DeadLetterPath string        `env:"DEAD_LETTER_PATH" envDefault:"logs/event_deadletter.jsonl"`

	EventMaxRetries int           `env:"EVENT_MAX_RETRIES" envDefault:"5" validate:"min=0,max=20"`
	EventRetryDelay time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		var aggErr env.AggregateError
		if errors.As(err, &aggErr) {
			for _, e := range aggErr.Errors {
				var parseErr env.ParseError
				if errors.As(e, &parseErr) && parseErr.Name == "Port" {
					return nil, fmt.Errorf("invalid PORT value: %w", e)
				}
			}
		}
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// UsesMemoryStorage reports whether repositories are kept in process
func (c *Config) UsesMemoryStorage() bool {
	return c.Storage == StorageMemory
}
