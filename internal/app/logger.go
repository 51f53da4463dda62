// Package app provides logger initialization.
package app

import (
	"os"

	"github.com/arvindrh/cachelab/internal/logger"
)

// InitializeLogger initializes the global logger with configuration from
// environment variables (LOG_LEVEL; LOG_PRETTY=true selects console
// output instead of JSON). service names the calling binary
// ("cacheserver" or "storeserver") so its log lines are distinguishable
// once both services' output is aggregated.
func InitializeLogger(service string) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	pretty := os.Getenv("LOG_PRETTY") == "true"
	logger.Init(service, logLevel, pretty)
}
