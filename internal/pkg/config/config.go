// Package config loads runtime settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	Port      string        `env:"PORT,      default=8080"`
	Env       string        `env:"ENV,       default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	Store     string        `env:"STORE,     default=memory"`

	Mongo MongoConfig
	Redis RedisConfig
	Loans LoanConfig
	Login LoginConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=library"`
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED,  default=false"`
	Addr     string        `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	LockTTL  time.Duration `env:"REDIS_LOCK_TTL, default=30s"`
}

type LoanConfig struct {
	Workers       int           `env:"LOAN_WORKERS,   default=8"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL, default=24h"`
}

// LoginConfig limits login attempts per client IP.
type LoginConfig struct {
	Rate  float64 `env:"LOGIN_RATE,  default=1"`
	Burst int     `env:"LOGIN_BURST, default=5"`
}

// IsProduction reports whether the service runs with production defaults.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Store != StoreMemory && c.Store != StoreMongo {
		return fmt.Errorf("config: STORE must be %q or %q, got %q", StoreMemory, StoreMongo, c.Store)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("config: JWT_SECRET is required in production")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.Loans.SweepInterval <= 0 {
		return fmt.Errorf("config: SWEEP_INTERVAL must be positive")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad is Load for callers that cannot continue without configuration.
func MustLoad(ctx context.Context) *Config {
	cfg, err := Load(ctx)
	if err != nil {
		panic(err)
	}
	return cfg
}
