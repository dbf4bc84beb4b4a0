package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:8080", cfg.Server.GetServerAddr())
	require.Equal(t, "localhost:6379", cfg.Redis.GetRedisAddr())
	require.Equal(t, 60*time.Second, cfg.Redis.GetCacheTTL())
	require.Equal(t, time.Hour, cfg.Auth.GetTokenTTL())
	require.True(t, cfg.App.IsDevelopment())

	// Development falls back to a local signing key.
	require.NotEmpty(t, cfg.Auth.TokenKey)
}

func TestLoad_ProductionRequiresTokenKey(t *testing.T) {
	t.Setenv("APP_ENVIRONMENT", "production")

	_, err := Load(context.Background())
	require.Error(t, err)

	t.Setenv("AUTH_TOKEN_KEY", "a-real-secret")
	cfg, err := Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a-real-secret", cfg.Auth.TokenKey)
	require.True(t, cfg.App.IsProduction())
}

func TestDatabaseURL(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "hunter2")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	require.Equal(t,
		"host=db.internal port=5432 user=postgres password=hunter2 dbname=admarket sslmode=disable",
		cfg.Database.GetDatabaseURL())
}
