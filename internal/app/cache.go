// Package app provides application initialization and dependency
// injection for the cache and store services.
package app

import (
	"github.com/gin-gonic/gin"

	"github.com/arvindrh/cachelab/config"
	"github.com/arvindrh/cachelab/internal/cachecore"
	"github.com/arvindrh/cachelab/internal/http"
	"github.com/arvindrh/cachelab/internal/storageclient"
)

// CacheApp holds the wired components of the cache service.
type CacheApp struct {
	Engine  *cachecore.Engine
	Storage *storageclient.Client
	Router  *gin.Engine
}

// InitializeCacheApp wires the cache engine, its storage client facade,
// and the HTTP router for the cache service.
func InitializeCacheApp(cfg config.CacheServiceConfig) *CacheApp {
	InitializeLogger("cacheserver")

	engine := cachecore.NewEngine(cachecore.Config{
		MaxSize:           cfg.MaxCacheSize,
		DefaultTTLSeconds: cfg.DefaultTTL,
		SweepInterval:     60,
	})

	storage := storageclient.New(storageclient.Config{BaseURL: cfg.StorageServiceURL})

	handler := http.NewCacheHandler(engine, storage)
	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterCircuitBreaker("storage_client", storage.CircuitBreaker())

	router := http.NewCacheRouter(handler, healthHandler, http.CacheRouterConfig{
		RateLimit:   cfg.RateLimitMax,
		RateWindow:  cfg.RateLimitWindow,
		CORSOrigins: cfg.CORSOrigins,
	})

	return &CacheApp{Engine: engine, Storage: storage, Router: router}
}

// Shutdown releases the cache engine's background sweep goroutine.
func (a *CacheApp) Shutdown() {
	a.Engine.Stop()
}
