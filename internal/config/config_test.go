package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearConfigEnv blanks every variable Load reads so defaults apply
// regardless of the ambient environment.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_NAME", "APP_ENV", "APP_HOST", "APP_PORT", "APP_VERSION",
		"HTTP_REQUEST_TIMEOUT_SECONDS",
		"POSTGRES_DSN", "POSTGRES_MAX_CONNS", "POSTGRES_MIN_CONNS",
		"POSTGRES_RUN_MIGRATIONS", "POSTGRES_CONN_MAX_IDLE_SECONDS", "POSTGRES_CONN_MAX_LIFE_SECONDS",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"LOG_LEVEL",
		"AUTH_JWT_SECRET", "AUTH_ACCESS_TOKEN_TTL_MINUTES", "AUTH_BCRYPT_COST",
		"EMAIL_ENDPOINT", "EMAIL_API_KEY", "EMAIL_FROM", "EMAIL_REQUEST_TIMEOUT_SECONDS",
		"REALTIME_WRITE_TIMEOUT_SECONDS", "REALTIME_MAX_FRAME_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "richhabits-oms", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.Equal(t, int32(2), cfg.Postgres.MinConns)
	assert.True(t, cfg.Postgres.RunMigrations)

	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
	assert.Zero(t, cfg.Redis.DB)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 60, cfg.Auth.AccessTokenTTLMinutes)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)

	assert.Empty(t, cfg.Email.Endpoint, "email sends stay disabled until an endpoint is configured")
	assert.Equal(t, "noreply@richhabits.example", cfg.Email.From)

	assert.Equal(t, 10*time.Second, cfg.Realtime.WriteTimeout())
	assert.Equal(t, int64(65536), cfg.Realtime.MaxFrameBytes)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("APP_HOST", "10.0.0.5")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("EMAIL_ENDPOINT", "https://mail.example/api/send")
	t.Setenv("REALTIME_MAX_FRAME_BYTES", "1024")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5:9090", cfg.App.Addr())
	assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout(), "zero disables the request timeout")
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, "https://mail.example/api/send", cfg.Email.Endpoint)
	assert.Equal(t, int64(1024), cfg.Realtime.MaxFrameBytes)
}

func TestLoadRejectsMalformedRedisDB(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}

func TestMalformedNumericFallsBackToDefault(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("POSTGRES_MAX_CONNS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
}
