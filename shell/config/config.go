package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Database adapters accepted in LENDING_DB_ADAPTER.
const (
	// AdapterPGX connects through a pgxpool.Pool.
	AdapterPGX = "pgx"
	// AdapterSQL connects through database/sql with the lib/pq driver.
	AdapterSQL = "sql"
	// AdapterSQLX connects through sqlx with the lib/pq driver.
	AdapterSQLX = "sqlx"
)

var (
	// ErrUnsupportedDBAdapter is returned by Load for an adapter other than pgx, sql or sqlx.
	ErrUnsupportedDBAdapter = errors.New("unsupported db adapter, use pgx, sql or sqlx")
	// ErrMissingDatabaseURL is returned by RequireDatabase when LENDING_DATABASE_URL is empty.
	ErrMissingDatabaseURL = errors.New("database url is not configured")
	// ErrInvalidPoolSize is returned by Load when MaxConns is not positive or MinConns is outside 0..MaxConns.
	ErrInvalidPoolSize = errors.New("pool size must be positive and min conns must not exceed max conns")
)

// DefaultEnvFiles are loaded by Load, earlier files take precedence.
var DefaultEnvFiles = []string{".env.local", ".env"}

// Config holds everything the lending tracker reads from its environment.
type Config struct {
	LibraryName string `env:"LENDING_LIBRARY_NAME" envDefault:"Public library"`

	DatabaseURL        string `env:"LENDING_DATABASE_URL"`
	ReplicaDatabaseURL string `env:"LENDING_REPLICA_DATABASE_URL"`
	DBAdapter          string `env:"LENDING_DB_ADAPTER"   envDefault:"pgx"`
	TableName          string `env:"LENDING_EVENTS_TABLE" envDefault:"events"`

	MaxConns        int32         `env:"LENDING_DB_MAX_CONNS"         envDefault:"8"`
	MinConns        int32         `env:"LENDING_DB_MIN_CONNS"         envDefault:"2"`
	ConnMaxLifetime time.Duration `env:"LENDING_DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"LENDING_DB_CONN_MAX_IDLE"     envDefault:"5m"`
	ConnectTimeout  time.Duration `env:"LENDING_DB_CONNECT_TIMEOUT"   envDefault:"5s"`

	LogLevel     string `env:"LENDING_LOG_LEVEL"     envDefault:"info"`
	OTLPEndpoint string `env:"LENDING_OTLP_ENDPOINT"`
	ServiceName  string `env:"LENDING_SERVICE_NAME"  envDefault:"lending-tracker"`
}

// Load reads DefaultEnvFiles and then the environment.
func Load() (Config, error) {
	return LoadFiles(DefaultEnvFiles...)
}

// LoadFiles reads the given dotenv files, missing files are skipped, and then the environment.
func LoadFiles(files ...string) (Config, error) {
	for _, file := range files {
		_ = godotenv.Load(file)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// RequireDatabase fails if no database is configured.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}

	return nil
}

// SlogLevel parses LogLevel, e.g. "debug", "INFO" or "warn+2".
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("parse log level: %w", err)
	}

	return level, nil
}

func (c Config) validate() error {
	switch c.DBAdapter {
	case AdapterPGX, AdapterSQL, AdapterSQLX:
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedDBAdapter, c.DBAdapter)
	}

	if c.MaxConns <= 0 || c.MinConns < 0 || c.MinConns > c.MaxConns {
		return ErrInvalidPoolSize
	}

	return nil
}
