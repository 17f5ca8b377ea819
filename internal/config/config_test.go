package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.HttpServer.Port)
	assert.Equal(t, 15*time.Second, cfg.HttpServer.TimeoutRead)
	assert.Equal(t, "9090", cfg.GrpcServer.Port)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.True(t, cfg.Store.SeedDemo)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.Equal(t, 1.0, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "BR", cfg.Quote.PhoneRegion)
	assert.False(t, cfg.Auth.TrustRoleHeader)
}

func TestLoad_Postgres(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "showcase")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DBNAME", "catalog")
	t.Setenv("HTTP_SERVER_TIMEOUT_READ", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "host=db port=5432 user=showcase password=secret dbname=catalog sslmode=disable", cfg.Postgres.DSN())
	assert.Equal(t, 3*time.Second, cfg.HttpServer.TimeoutRead)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			AppEnv:    "development",
			Store:     StoreConfig{Driver: DriverMemory},
			RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, `unknown STORE_DRIVER "mongo"`},
		{"postgres without host", func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Postgres.DBName = "x"
		}, "POSTGRES_HOST is required"},
		{"production without secret", func(c *Config) { c.AppEnv = "production" }, "AUTH_JWT_SECRET is required"},
		{"production with secret", func(c *Config) {
			c.AppEnv = "Production"
			c.Auth.JWTSecret = "s"
		}, ""},
		{"zero burst", func(c *Config) { c.RateLimit.Burst = 0 }, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
