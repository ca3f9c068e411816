package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with a jwt secret", func(t *testing.T) {
		t.Setenv("SUPABASE_JWT_SECRET", "secret")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "authenticated", cfg.Auth.Audience)
		assert.Equal(t, 5*time.Minute, cfg.Auth.CacheTTL)
		assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.CORS.AllowedOrigins)
		assert.Empty(t, cfg.Redis.Addr)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("SUPABASE_URL", "https://abc.supabase.co")
		t.Setenv("DB_DSN", "postgres://u:p@db:5432/ledger")
		t.Setenv("DB_PORT", "not-a-number")
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com ,, http://localhost:3000")
		t.Setenv("RATE_LIMIT_BURST", "3")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@db:5432/ledger", cfg.Database.DSN)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, []string{"https://app.example.com", "http://localhost:3000"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, 3, cfg.RateLimit.Burst)
	})

	t.Run("no way to verify tokens", func(t *testing.T) {
		_, err := Load()
		assert.ErrorContains(t, err, "SUPABASE_JWT_SECRET")
	})

	t.Run("dev user refused in production", func(t *testing.T) {
		t.Setenv("AUTH_DEV_USER_ID", "seed-user")
		t.Setenv("APP_ENV", "production")

		_, err := Load()
		assert.ErrorContains(t, err, "AUTH_DEV_USER_ID")
	})
}
