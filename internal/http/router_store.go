package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/arvindrh/cachelab/internal/metrics"
	"github.com/arvindrh/cachelab/internal/middleware"
)

// StoreRouterConfig holds router configuration for the store service.
type StoreRouterConfig struct {
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
}

// DefaultStoreRouterConfig returns the documented rate-limit defaults.
func DefaultStoreRouterConfig() StoreRouterConfig {
	return StoreRouterConfig{
		RateLimit:  100,
		RateWindow: time.Minute,
	}
}

// NewStoreRouter builds the Gin engine for the store service.
func NewStoreRouter(handler *StoreHandler, healthHandler *HealthHandler, cfg StoreRouterConfig) *gin.Engine {
	router := gin.New()

	allowedOrigins := cfg.CORSOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(),
		middleware.ErrorHandler(),
		middleware.TimeoutWithDuration(10*time.Second),
		middleware.Idempotency(middleware.DefaultIdempotencyConfig()),
	)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		router.Use(limiter.RateLimit())
	}

	healthHandler.Register(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")
	api.POST("/data/:key", handler.WriteData)
	api.GET("/data/:key", handler.ReadData)
	api.DELETE("/data/:key", handler.DeleteData)
	api.GET("/stats", handler.Stats)
	api.DELETE("/storage", handler.Storage)
	api.POST("/backup", handler.Backup)
	api.POST("/backup/restore", handler.Restore)
	api.POST("/compact", handler.Compact)
	api.GET("/health", handler.Health)

	return router
}
