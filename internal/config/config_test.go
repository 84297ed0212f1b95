package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "APP_URL", "DATABASE_DRIVER", "SESSION_BACKEND", "BCRYPT_COST", "LOG_LEVEL", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.AppURL)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, SessionBackendSQL, cfg.Sessions.Backend)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_URL", "https://qr.example.com")
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://qr:qr@localhost/qr?sslmode=disable")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://qr.example.com", cfg.Server.AppURL)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, SessionBackendRedis, cfg.Sessions.Backend)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SESSION_BACKEND", "memcached")
	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_BACKEND")

	t.Setenv("SESSION_BACKEND", "sql")
	t.Setenv("APP_URL", "qr.example.com")
	_, err = Load()
	assert.ErrorContains(t, err, "APP_URL")

	t.Setenv("APP_URL", "")
	t.Setenv("LOG_LEVEL", "loud")
	_, err = Load()
	assert.ErrorContains(t, err, "LOG_LEVEL")
}
