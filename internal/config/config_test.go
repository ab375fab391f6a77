package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("MAX_TASKS", "2")
	t.Setenv("DATABASE_URL", "")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Storage.MinIO.UseSSL)
	assert.Equal(t, 2, cfg.MaxTasks)
	assert.Equal(t, "uploads", cfg.Storage.Container)
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "API_VERSION", "APP_ENV", "MAX_TASKS", "DATABASE_URL", "DB_HOST",
		"AZURE_STORAGE_CONNECTION_STRING", "MINIO_ENDPOINT", "TELEMETRY_CONNECTION_STRING"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10, cfg.MaxTasks)
	assert.False(t, cfg.Database.Configured())
	assert.False(t, cfg.Storage.Configured())
	assert.False(t, cfg.Telemetry.Configured())
	assert.False(t, cfg.IsProduction())
}

func TestConfigured(t *testing.T) {
	assert.True(t, DatabaseConfig{URL: "postgres://u@h/db"}.Configured())
	assert.True(t, DatabaseConfig{Host: "h", User: "u", Name: "db"}.Configured())
	assert.False(t, DatabaseConfig{Host: "h"}.Configured())

	assert.True(t, StorageConfig{AzureConnectionString: "AccountName=x"}.Configured())
	assert.True(t, StorageConfig{MinIO: MinIOConfig{Endpoint: "e", AccessKey: "a", SecretKey: "s"}}.Configured())
	assert.False(t, StorageConfig{MinIO: MinIOConfig{Endpoint: "e"}}.Configured())

	assert.True(t, TelemetryConfig{ConnectionString: "localhost:4317"}.Configured())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CFG_STR", "value")
	t.Setenv("CFG_BOOL", "true")
	t.Setenv("CFG_BAD_BOOL", "maybe")
	t.Setenv("CFG_INT", "123")
	t.Setenv("CFG_BAD_INT", "12x")
	t.Setenv("CFG_EMPTY", "")

	assert.Equal(t, "value", getEnv("CFG_STR", "fallback"))
	assert.Equal(t, "fallback", getEnv("CFG_EMPTY", "fallback"))

	assert.True(t, getEnvBool("CFG_BOOL", false))
	assert.True(t, getEnvBool("CFG_BAD_BOOL", true))
	assert.False(t, getEnvBool("CFG_EMPTY", false))

	assert.Equal(t, 123, getEnvInt("CFG_INT", 0))
	assert.Equal(t, 10, getEnvInt("CFG_BAD_INT", 10))
	assert.Equal(t, 10, getEnvInt("CFG_EMPTY", 10))
}
