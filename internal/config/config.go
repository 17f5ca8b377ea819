package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Config holds the application's configuration values.
// Tags like `envconfig:"APP_ENV"` specify the environment variable name.
type Config struct {
	AppEnv     string `envconfig:"APP_ENV" default:"development"` // development, staging, production
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat  string `envconfig:"LOG_FORMAT" default:"console"` // console or json
	HttpServer ServerConfig
	GrpcServer GrpcServerConfig
	Store      StoreConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Auth       AuthConfig
	RateLimit  RateLimitConfig
	Quote      QuoteConfig
}

// ServerConfig holds HTTP server-specific configurations.
type ServerConfig struct {
	Port           string        `envconfig:"HTTP_SERVER_PORT" default:"8080"`
	TimeoutRead    time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_READ" default:"15s"`
	TimeoutWrite   time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_WRITE" default:"15s"`
	TimeoutIdle    time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_IDLE" default:"60s"`
	TimeoutRequest time.Duration `envconfig:"HTTP_SERVER_TIMEOUT_REQUEST" default:"30s"`
}

// GrpcServerConfig holds gRPC server-specific configurations.
type GrpcServerConfig struct {
	Port string `envconfig:"GRPC_SERVER_PORT" default:"9090"`
}

// StoreConfig selects the entity store backend.
type StoreConfig struct {
	Driver   string `envconfig:"STORE_DRIVER" default:"memory"`
	SeedDemo bool   `envconfig:"STORE_SEED_DEMO" default:"true"`
}

// PostgresConfig holds PostgreSQL database connection details.
// Only read when STORE_DRIVER=postgres.
type PostgresConfig struct {
	Host          string `envconfig:"POSTGRES_HOST"`
	Port          string `envconfig:"POSTGRES_PORT" default:"5432"`
	User          string `envconfig:"POSTGRES_USER"`
	Password      string `envconfig:"POSTGRES_PASSWORD"`
	DBName        string `envconfig:"POSTGRES_DBNAME"`
	SSLMode       string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxOpenConns  int    `envconfig:"POSTGRES_MAX_OPEN_CONNS" default:"10"`
	RunMigrations bool   `envconfig:"POSTGRES_RUN_MIGRATIONS" default:"true"`
}

// DSN constructs the Data Source Name string for connecting to PostgreSQL.
func (pc *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		pc.Host, pc.Port, pc.User, pc.Password, pc.DBName, pc.SSLMode)
}

// RedisConfig enables the product cache when URL is set.
type RedisConfig struct {
	URL      string        `envconfig:"REDIS_URL"`
	CacheTTL time.Duration `envconfig:"REDIS_CACHE_TTL" default:"5m"`
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret       string `envconfig:"AUTH_JWT_SECRET"`
	TrustRoleHeader bool   `envconfig:"AUTH_TRUST_ROLE_HEADER" default:"false"`
}

// RateLimitConfig applies per client IP on submission routes.
type RateLimitConfig struct {
	RPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"1"`
	Burst int     `envconfig:"RATE_LIMIT_BURST" default:"5"`
}

// QuoteConfig holds quote submission settings.
type QuoteConfig struct {
	PhoneRegion string `envconfig:"QUOTE_PHONE_REGION" default:"BR"`
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.Host == "" {
			errs = append(errs, errors.New("POSTGRES_HOST is required when STORE_DRIVER=postgres"))
		}
		if c.Postgres.DBName == "" {
			errs = append(errs, errors.New("POSTGRES_DBNAME is required when STORE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required in production"))
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	return errors.Join(errs...)
}

// Load initializes the configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
