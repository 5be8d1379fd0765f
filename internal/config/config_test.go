package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "meetmoment")
	t.Setenv("DB_NAME", "meetmoment")
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
	assert.Equal(t, 5, cfg.Redis.MinIdleConns)
	assert.Equal(t, "qwen", cfg.AI.Provider)
	assert.Equal(t, "qwen-plus", cfg.AI.QwenModel)
	assert.Equal(t, 30*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 2, cfg.Feed.RecommendGender)
}

func TestLoadEnvironmentOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("REDIS_POOL_SIZE", "4")
	t.Setenv("AI_PROVIDER", "gemini")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 4, cfg.Redis.PoolSize)
	assert.Equal(t, "gemini", cfg.AI.Provider)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AI_PROVIDER", "chatgpt")

	_, err := Load()
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p",
		DBName: "meetmoment", SSLMode: "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=meetmoment sslmode=disable",
		cfg.GetDSN())
}
