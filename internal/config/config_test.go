package config

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerLevelFallback(t *testing.T) {
	logger := NewLogger(LoggingConfig{Level: "bogus", Format: "json"})
	require.Equal(t, zerolog.InfoLevel, logger.GetLevel())

	logger = NewLogger(LoggingConfig{Level: "Debug", Format: "json"})
	require.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/gatherhub")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()

	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/gatherhub")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENVIRONMENT", "")

	cfg, err := Load()

	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, "admin@localhost.com", cfg.AdminBootstrap.Email)
	require.True(t, cfg.CORS.AllowAllOrigins)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadCORSOriginsParsed(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/gatherhub")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.org, https://staging.example.org")

	cfg, err := Load()

	require.NoError(t, err)
	require.False(t, cfg.CORS.AllowAllOrigins)
	require.Equal(t, []string{"https://app.example.org", "https://staging.example.org"}, cfg.CORS.AllowedOrigins)
}
