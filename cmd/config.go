package cmd

import (
	"fmt"
	"time"

	"escrow/internal/adapters/out/postgres"

	"github.com/caarlos0/env/v11"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	AuthModeJWT      = "jwt"
	AuthModeInsecure = "insecure"
)

type Config struct {
	HTTPPort string `env:"ESCROW_HTTP_PORT" envDefault:"8082"`
	Storage  string `env:"ESCROW_STORAGE"   envDefault:"postgres"`

	DBHost     string `env:"ESCROW_DB_HOST"     envDefault:"localhost"`
	DBPort     int    `env:"ESCROW_DB_PORT"     envDefault:"5432"`
	DBUser     string `env:"ESCROW_DB_USER"     envDefault:"escrow"`
	DBPassword string `env:"ESCROW_DB_PASSWORD"`
	DBName     string `env:"ESCROW_DB_NAME"     envDefault:"escrow"`
	DBSslMode  string `env:"ESCROW_DB_SSLMODE"  envDefault:"disable"`

	AuthMode     string        `env:"ESCROW_AUTH_MODE"     envDefault:"jwt"`
	AuthAudience string        `env:"ESCROW_AUTH_AUDIENCE" envDefault:"escrow"`
	AuthLeeway   time.Duration `env:"ESCROW_AUTH_LEEWAY"   envDefault:"30s"`

	JournalPath    string `env:"ESCROW_JOURNAL_PATH"`
	RelayBatchSize int    `env:"ESCROW_RELAY_BATCH_SIZE" envDefault:"100"`

	OtelEndpoint string `env:"ESCROW_OTEL_ENDPOINT"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("ESCROW_STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	switch c.AuthMode {
	case AuthModeJWT, AuthModeInsecure:
	default:
		return fmt.Errorf("ESCROW_AUTH_MODE must be %q or %q, got %q", AuthModeJWT, AuthModeInsecure, c.AuthMode)
	}
	if c.AuthLeeway < 0 {
		return fmt.Errorf("ESCROW_AUTH_LEEWAY must not be negative, got %s", c.AuthLeeway)
	}
	return nil
}

func (c Config) Database() postgres.Options {
	return postgres.Options{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSslMode,
	}
}
