package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arvindrh/cachelab/internal/circuitbreaker"
)

// HealthHandler serves the orchestration-facing liveness/readiness
// endpoints consumed by a scheduler or load balancer, distinct from the
// domain-level GET /api/health that CacheHandler/StoreHandler expose for
// humans poking at a single service. Readiness degrades when any
// registered circuit breaker — in practice just the cache service's
// storage_client breaker — is not closed (open, or half-open while it
// probes for recovery), since that's the one
// dependency either service can lose without crashing.
type HealthHandler struct {
	circuitBreakers map[string]*circuitbreaker.CircuitBreaker
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		circuitBreakers: make(map[string]*circuitbreaker.CircuitBreaker),
	}
}

// RegisterCircuitBreaker registers a circuit breaker for health monitoring.
func (h *HealthHandler) RegisterCircuitBreaker(name string, cb *circuitbreaker.CircuitBreaker) {
	h.circuitBreakers[name] = cb
}

// Register registers health endpoints on the router.
func (h *HealthHandler) Register(router *gin.Engine) {
	router.GET("/healthz", h.Liveness)
	router.GET("/readyz", h.Readiness)
}

// Liveness handles the liveness probe endpoint.
// @Summary     Liveness probe
// @Description Returns OK if the process is running. The store service always reports alive here even with zero keys on disk; the cache service always reports alive even with its storage client disabled.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]string "Service is alive"
// @Router      /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles the readiness probe endpoint.
// @Summary     Readiness probe
// @Description Returns OK unless a registered circuit breaker (the cache service's hop to the store) is open or half-open.
// @Tags        Health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Service is ready"
// @Failure     503 {object} map[string]interface{} "A dependency's circuit breaker is not closed"
// @Router      /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	status := http.StatusOK
	checks := make(map[string]interface{}, len(h.circuitBreakers))

	for name, cb := range h.circuitBreakers {
		stats := cb.GetStats()
		entry := gin.H{"state": stats.State}
		if !stats.IsHealthy {
			entry["last_error"] = stats.LastError
			status = http.StatusServiceUnavailable
		}
		checks[name+"_circuit"] = entry
	}

	if len(checks) == 0 {
		checks["service"] = "ok"
	}

	c.JSON(status, gin.H{
		"status": map[bool]string{true: "ok", false: "degraded"}[status == http.StatusOK],
		"checks": checks,
	})
}
