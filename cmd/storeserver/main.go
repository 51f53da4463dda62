// Package main is the entry point for the store service.
//
// @title           Store Service API
// @version         1.0.0
// @description     A partitioned, per-key-file persistent store with an async write queue, a bounded read cache, periodic backup, and compaction.
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
// @host      localhost:3002
// @BasePath  /
//
// @tag.name        Store
// @tag.description Persistent key storage operations
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
	cfg := config.LoadStoreConfig()

	storeApp, err := app.InitializeStoreApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store service")
	}

	server := app.NewServer("storeserver", storeApp.Router, cfg.Port, storeApp.Shutdown)
	if err := server.Run(); err != nil {
		log.Fatal().Err(err).Msg("store server error")
	}
}
