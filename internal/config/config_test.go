package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENVIRONMENT", "SERVER_PORT", "PORT", "DATABASE_URL", "PRODUCT_STORE", "CORS_ORIGINS", "UPLOAD_MAX_BYTES"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, ProductStoreGorm, cfg.Database.ProductStore)
	assert.Equal(t, int64(5*1024*1024), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:5174"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.Database.DSN(), "dbname=shop")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://shop:secret@db:5432/shop?sslmode=disable")
	t.Setenv("PRODUCT_STORE", "SQL")
	t.Setenv("CORS_ORIGINS", "https://admin.example.com, https://pos.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "postgres://shop:secret@db:5432/shop?sslmode=disable", cfg.Database.DSN())
	assert.Equal(t, ProductStoreSQL, cfg.Database.ProductStore)
	assert.Equal(t, []string{"https://admin.example.com", "https://pos.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "development",
			Database:    DatabaseConfig{ProductStore: ProductStoreGorm},
			Upload:      UploadConfig{MaxBytes: 1},
		}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Database.ProductStore = "mongo"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.URL = "memory://"
	cfg.Database.ProductStore = ProductStoreSQL
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Environment = "production"
	assert.Error(t, cfg.Validate())

	cfg.Database.Password = "secret"
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.POS.Backend = "sqlite"
	assert.Error(t, cfg.Validate())
	cfg.POS.Backend = POSBackendRedis
	assert.NoError(t, cfg.Validate())
}

func TestLoadPOSAndRedis(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PRODUCT_STORE", "")
	t.Setenv("POS_STORE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PASSWORD", "hunter2")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, POSBackendRedis, cfg.POS.Backend)
	assert.Equal(t, RedisConfig{Addr: "cache:6380", Password: "hunter2", DB: 3}, cfg.Redis)
}

func TestIsMemory(t *testing.T) {
	d := DatabaseConfig{URL: "memory://"}
	assert.True(t, d.IsMemory())
	d.URL = "postgres://localhost/shop"
	assert.False(t, d.IsMemory())
}
