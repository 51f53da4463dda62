// Package metrics provides Prometheus metrics collection for the cache and
// store services.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// HTTPRequestTotal tracks total HTTP requests by method, path, and status code.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// CacheOperationsTotal tracks cache operations by kind (get/set/update/delete)
	// and result (hit/miss/success).
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_operations_total",
			Help: "Total number of cache operations",
		},
		[]string{"operation", "result"},
	)

	// CacheSize tracks the current number of entries held in the cache.
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size",
			Help: "Current number of entries in the cache",
		},
	)

	// CacheCapacity tracks the configured maximum cache size.
	CacheCapacity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_capacity",
			Help: "Maximum number of entries the cache may hold",
		},
	)

	// CacheEvictionsTotal tracks entries evicted by the LRU policy.
	CacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of entries evicted from the cache",
		},
	)

	// CacheExpirationsTotal tracks entries removed because their TTL elapsed.
	CacheExpirationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_expirations_total",
			Help: "Total number of entries removed from the cache due to TTL expiry",
		},
	)

	// StoreOperationDuration tracks store read/write/delete latency.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// StoreOperationsTotal tracks store operations by kind and result.
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of store operations",
		},
		[]string{"operation", "result"},
	)

	// StoreKeysTotal tracks the current number of keys held in the store.
	StoreKeysTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "store_keys_total",
			Help: "Current number of keys persisted in the store",
		},
	)

	// StoreBackupDuration tracks how long a full backup took.
	StoreBackupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_backup_duration_seconds",
			Help:    "Duration of a store backup operation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	// StoreCompactDuration tracks how long a compaction pass took.
	StoreCompactDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_compact_duration_seconds",
			Help:    "Duration of a store compaction operation in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	// StorageClientCircuitState reports the circuit breaker state the cache
	// service observes toward the remote store (0=closed, 1=half-open, 2=open).
	StorageClientCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storage_client_circuit_state",
			Help: "Circuit breaker state between the cache service and the store service",
		},
	)
)

// PrometheusMiddleware returns a Gin middleware that collects HTTP metrics.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start).Seconds()
		statusCode := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration)
		HTTPRequestTotal.WithLabelValues(method, path, statusCode).Inc()
	}
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics updates cache size and capacity gauges.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}

// RecordCacheEviction increments the eviction counter.
func RecordCacheEviction() {
	CacheEvictionsTotal.Inc()
}

// RecordCacheExpiration increments the TTL-expiration counter.
func RecordCacheExpiration() {
	CacheExpirationsTotal.Inc()
}

// RecordStoreOperation records duration and outcome for a store operation.
func RecordStoreOperation(operation string, duration time.Duration, result string) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	StoreOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateStoreKeyCount updates the store's total key gauge.
func UpdateStoreKeyCount(count int) {
	StoreKeysTotal.Set(float64(count))
}

// RecordStoreBackup records the duration of a backup operation.
func RecordStoreBackup(duration time.Duration) {
	StoreBackupDuration.Observe(duration.Seconds())
}

// RecordStoreCompact records the duration of a compaction operation.
func RecordStoreCompact(duration time.Duration) {
	StoreCompactDuration.Observe(duration.Seconds())
}

// circuit breaker state values reported via StorageClientCircuitState.
const (
	CircuitClosed   = 0
	CircuitHalfOpen = 1
	CircuitOpen     = 2
)

// UpdateStorageClientCircuitState reports the current circuit breaker state.
func UpdateStorageClientCircuitState(state float64) {
	StorageClientCircuitState.Set(state)
}
