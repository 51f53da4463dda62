package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadCacheConfig(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := LoadCacheConfig()

		assert.Equal(t, "3001", cfg.Port)
		assert.Equal(t, "http://localhost:3002", cfg.StorageServiceURL)
		assert.Equal(t, 1000, cfg.MaxCacheSize)
		assert.Equal(t, int64(3600), cfg.DefaultTTL)
		assert.Equal(t, 100, cfg.RateLimitMax)
		assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("STORAGE_SERVICE_URL", "http://store:4000")
		_ = os.Setenv("MAX_CACHE_SIZE", "500")
		_ = os.Setenv("DEFAULT_TTL", "60")
		_ = os.Setenv("RATE_LIMIT_MAX_REQUESTS", "50")
		_ = os.Setenv("RATE_LIMIT_WINDOW_MS", "30000")
		defer os.Clearenv()

		cfg := LoadCacheConfig()

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "http://store:4000", cfg.StorageServiceURL)
		assert.Equal(t, 500, cfg.MaxCacheSize)
		assert.Equal(t, int64(60), cfg.DefaultTTL)
		assert.Equal(t, 50, cfg.RateLimitMax)
		assert.Equal(t, 30*time.Second, cfg.RateLimitWindow)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("MAX_CACHE_SIZE", "invalid")
		_ = os.Setenv("RATE_LIMIT_WINDOW_MS", "invalid")
		defer os.Clearenv()

		cfg := LoadCacheConfig()

		assert.Equal(t, 1000, cfg.MaxCacheSize)
		assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	})
}

func TestLoadStoreConfig(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := LoadStoreConfig()

		assert.Equal(t, "3002", cfg.Port)
		assert.Equal(t, "./data", cfg.DataPath)
		assert.Equal(t, 5*time.Minute, cfg.BackupInterval)
		assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)
		assert.Equal(t, 100, cfg.RateLimitMax)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "4002")
		_ = os.Setenv("DATA_PATH", "/tmp/store-data")
		_ = os.Setenv("BACKUP_INTERVAL", "60000")
		_ = os.Setenv("MAX_FILE_SIZE", "2048")
		defer os.Clearenv()

		cfg := LoadStoreConfig()

		assert.Equal(t, "4002", cfg.Port)
		assert.Equal(t, "/tmp/store-data", cfg.DataPath)
		assert.Equal(t, time.Minute, cfg.BackupInterval)
		assert.Equal(t, int64(2048), cfg.MaxFileSize)
	})

	t.Run("backup interval of zero disables periodic backup", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("BACKUP_INTERVAL", "0")
		defer os.Clearenv()

		cfg := LoadStoreConfig()

		assert.Equal(t, time.Duration(0), cfg.BackupInterval)
	})
}

func TestParseCORSOrigins(t *testing.T) {
	t.Run("returns defaults when unset", func(t *testing.T) {
		os.Clearenv()
		cfg := LoadCacheConfig()
		assert.Contains(t, cfg.CORSOrigins, "http://localhost:3000")
	})

	t.Run("appends custom origins", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://example.com, https://foo.test")
		defer os.Clearenv()

		cfg := LoadCacheConfig()

		assert.Contains(t, cfg.CORSOrigins, "https://example.com")
		assert.Contains(t, cfg.CORSOrigins, "https://foo.test")
	})
}
