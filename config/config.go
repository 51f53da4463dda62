// Package config provides configuration management for the cache and
// store services.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// CacheServiceConfig holds environment configuration for the cache
// service (cmd/cacheserver).
type CacheServiceConfig struct {
	Port              string
	StorageServiceURL string
	MaxCacheSize      int
	DefaultTTL        int64 // seconds
	RateLimitMax      int
	RateLimitWindow   time.Duration
	CORSOrigins       []string
	SwaggerUser       string
	SwaggerPass       string
}

// LoadCacheConfig builds a CacheServiceConfig from the environment,
// matching the documented defaults: PORT=3001, MAX_CACHE_SIZE=1000,
// DEFAULT_TTL=3600, RATE_LIMIT_MAX_REQUESTS=100,
// RATE_LIMIT_WINDOW_MS=60000.
func LoadCacheConfig() CacheServiceConfig {
	return CacheServiceConfig{
		Port:              getEnv("PORT", "3001"),
		StorageServiceURL: getEnv("STORAGE_SERVICE_URL", "http://localhost:3002"),
		MaxCacheSize:      getEnvInt("MAX_CACHE_SIZE", 1000),
		DefaultTTL:        int64(getEnvInt("DEFAULT_TTL", 3600)),
		RateLimitMax:      getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow:   getEnvMillisDuration("RATE_LIMIT_WINDOW_MS", 60*time.Second),
		CORSOrigins:       parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
		SwaggerUser:       getEnv("SWAGGER_USER", ""),
		SwaggerPass:       getEnv("SWAGGER_PASS", ""),
	}
}

// StoreServiceConfig holds environment configuration for the store
// service (cmd/storeserver).
type StoreServiceConfig struct {
	Port            string
	DataPath        string
	BackupInterval  time.Duration
	MaxFileSize     int64
	RateLimitMax    int
	RateLimitWindow time.Duration
	CORSOrigins     []string
	SwaggerUser     string
	SwaggerPass     string
}

// LoadStoreConfig builds a StoreServiceConfig from the environment,
// matching the documented defaults: PORT=3002, DATA_PATH=./data,
// BACKUP_INTERVAL=300000, MAX_FILE_SIZE=10485760.
func LoadStoreConfig() StoreServiceConfig {
	return StoreServiceConfig{
		Port:            getEnv("PORT", "3002"),
		DataPath:        getEnv("DATA_PATH", "./data"),
		BackupInterval:  getEnvMillisDuration("BACKUP_INTERVAL", 5*time.Minute),
		MaxFileSize:     int64(getEnvInt("MAX_FILE_SIZE", 10*1024*1024)),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow: getEnvMillisDuration("RATE_LIMIT_WINDOW_MS", 60*time.Second),
		CORSOrigins:     parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
		SwaggerUser:     getEnv("SWAGGER_USER", ""),
		SwaggerPass:     getEnv("SWAGGER_PASS", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvMillisDuration reads an environment variable expressed in
// milliseconds (matching the documented *_MS variable names) and
// returns it as a time.Duration.
func getEnvMillisDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return defaultValue
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development.
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
