package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/arvindrh/cachelab/config"
	"github.com/arvindrh/cachelab/internal/http"
	"github.com/arvindrh/cachelab/internal/storecore"
)

// StoreApp holds the wired components of the store service.
type StoreApp struct {
	Manager *storecore.Manager
	Router  *gin.Engine
}

// InitializeStoreApp wires the partitioned store, its manager, and the
// HTTP router for the store service.
func InitializeStoreApp(cfg config.StoreServiceConfig) (*StoreApp, error) {
	InitializeLogger("storeserver")

	store := storecore.NewPartitionedStore(cfg.DataPath)
	if err := store.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize partitioned store: %w", err)
	}

	manager := storecore.NewManager(store, storecore.ManagerConfig{
		BackupInterval: cfg.BackupInterval,
	})

	handler := http.NewStoreHandler(manager)
	healthHandler := http.NewHealthHandler()

	router := http.NewStoreRouter(handler, healthHandler, http.StoreRouterConfig{
		RateLimit:   cfg.RateLimitMax,
		RateWindow:  cfg.RateLimitWindow,
		CORSOrigins: cfg.CORSOrigins,
	})

	log.Info().Str("data_path", cfg.DataPath).Msg("store initialized")

	return &StoreApp{Manager: manager, Router: router}, nil
}

// Shutdown stops the backup timer, flushes pending writes, and
// attempts a final backup.
func (a *StoreApp) Shutdown() {
	a.Manager.Shutdown()
}
