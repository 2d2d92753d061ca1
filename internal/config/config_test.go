package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.RecipeBackend)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("RECIPE_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("IMAGE_API_KEY", "img-key")
	t.Setenv("IMAGE_CACHE_SIZE", "10")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "2h")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "claude", cfg.RecipeBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, "img-key", cfg.ImageAPIKey)
	assert.Equal(t, 10, cfg.ImageCacheSize)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("IMAGE_CACHE_SIZE", "lots")
	t.Setenv("TOKEN_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 256, cfg.ImageCacheSize)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadNonPositiveFallsBack(t *testing.T) {
	t.Setenv("IMAGE_CACHE_SIZE", "0")
	t.Setenv("TOKEN_TTL", "-1h")

	cfg := Load()

	assert.Equal(t, 256, cfg.ImageCacheSize)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}
