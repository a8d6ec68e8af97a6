package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/natours")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("NUMBER_LOGIN_ATTEMPTS", "")
	t.Setenv("RATE_LIMIT_WINDOW", "")
	t.Setenv("FRONTEND_URL", "https://natours.dev/")

	cfg := LoadConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2160*time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, 5, cfg.JWT.MaxLoginAttempts)
	assert.Equal(t, 90*24*time.Hour, cfg.CookieTTL())
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.Equal(t, "https://natours.dev", cfg.FrontendURL)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRES_IN", "1h")
	t.Setenv("NUMBER_LOGIN_ATTEMPTS", "3")
	t.Setenv("SMTP_PORT", "587")

	cfg := LoadConfig()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, time.Hour, cfg.JWT.ExpiresIn)
	assert.Equal(t, 3, cfg.JWT.MaxLoginAttempts)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestValidateRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	err := LoadConfig().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
