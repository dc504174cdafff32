package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PORT", "STORAGE_BACKEND", "DATABASE_URL", "MYSQL_DSN",
		"DATA_BUCKET", "IMAGE_BUCKET", "GEMINI_API_KEY", "GOOGLE_API_KEY",
		"ADMIN_PASSWORD",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Empty(t, cfg.StorageBackend)
	assert.Empty(t, cfg.GeminiAPIKey)
	assert.Empty(t, cfg.AdminPassword)
}

func TestLoadReadsEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/sceneit")
	t.Setenv("GEMINI_API_KEY", "key-1")
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, "postgres://localhost/sceneit", cfg.DatabaseURL)
	assert.Equal(t, "key-1", cfg.GeminiAPIKey)
	assert.Equal(t, "hunter2", cfg.AdminPassword)
}

func TestLoadGoogleKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "fallback-key")

	assert.Equal(t, "fallback-key", Load().GeminiAPIKey)

	t.Setenv("GEMINI_API_KEY", "primary-key")
	assert.Equal(t, "primary-key", Load().GeminiAPIKey)
}
