// Package main is the entry point for the cache service.
//
// @title           Cache Service API
// @version         1.0.0
// @description     A bounded, TTL+LRU key-value cache with optional write-through to a companion store service.
//
// @termsOfService  http://swagger.io/terms/
//
// @contact.name   API Support
// @contact.email  support@example.com
// @contact.url    https://github.com/arvindrh/cachelab
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:3001
// @BasePath  /
//
// @tag.name        Cache
// @tag.description Cache key operations
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/arvindrh/cachelab/config"
	"github.com/arvindrh/cachelab/internal/app"
)

func main() {
	cfg := config.LoadCacheConfig()

	cacheApp := app.InitializeCacheApp(cfg)

	server := app.NewServer("cacheserver", cacheApp.Router, cfg.Port, cacheApp.Shutdown)
	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("cache server error")
	}
}
