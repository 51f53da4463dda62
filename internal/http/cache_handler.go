package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arvindrh/cachelab/internal/cachecore"
	"github.com/arvindrh/cachelab/internal/dto"
	"github.com/arvindrh/cachelab/internal/i18n"
	"github.com/arvindrh/cachelab/internal/metrics"
	"github.com/arvindrh/cachelab/internal/shared"
	"github.com/arvindrh/cachelab/internal/storageclient"
)

// CacheHandler serves the cache engine's HTTP surface: set/get/update/
// delete of individual keys, key listing, stats, and a bulk clear. When
// a storage client is configured it also implements write-through
// persistence and fallback-populate on miss.
type CacheHandler struct {
	engine    *cachecore.Engine
	storage   *storageclient.Client
	startedAt time.Time
}

// NewCacheHandler constructs a CacheHandler. storage may be nil, in
// which case persist/fallback requests are accepted but have no
// durable effect.
func NewCacheHandler(engine *cachecore.Engine, storage *storageclient.Client) *CacheHandler {
	return &CacheHandler{
		engine:    engine,
		storage:   storage,
		startedAt: time.Now(),
	}
}

// validateSetKey checks that a set request carries a well-formed key, a
// value within the cache's size cap, and a non-negative TTL (0 means
// never expires).
func validateSetKey(key string, value []byte, ttl *int64) error {
	if err := shared.ValidateKey(key); err != nil {
		return err
	}
	if err := shared.ValidateValueSize(value, shared.MaxCacheValueBytes); err != nil {
		return err
	}
	if ttl != nil {
		if err := shared.ValidateTTLSeconds(*ttl); err != nil {
			return err
		}
	}
	return nil
}

// SetKey handles POST /api/keys.
//
// @Summary     Set a cache key
// @Description Inserts or overwrites a key in the cache, optionally writing it through to the store.
// @Tags        Cache
// @Accept      json
// @Produce     json
// @Param       request body dto.SetKeyRequest true "Key to set"
// @Success     201 {object} dto.Envelope
// @Failure     400 {object} dto.Envelope
// @Router      /api/keys [post]
func (h *CacheHandler) SetKey(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.SetKeyRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := validateSetKey(req.Key, req.Value, req.TTL); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationFailure, err)
		return
	}

	h.engine.Set(req.Key, req.Value, req.TTL)
	metrics.RecordCacheOperation("set", "success")
	metrics.UpdateCacheMetrics(h.engine.Stats().Size, h.engine.Stats().MaxSize)

	if req.Persist && h.storage != nil {
		if ok := h.storage.Save(c.Request.Context(), req.Key, req.Value); !ok {
			// The cache has already committed; a failed write-through is
			// logged by the client itself and surfaced as a degraded, not
			// failed, response.
			builder.Success(http.StatusCreated, gin.H{"key": req.Key, "persisted": false})
			return
		}
	}

	builder.Success(http.StatusCreated, gin.H{"key": req.Key, "persisted": req.Persist && h.storage != nil})
}

// GetKey handles GET /api/keys/:key.
//
// @Summary     Get a cache key
// @Description Looks up a key in the cache; with fallback=true, a miss is retried against the store and the result populates the cache.
// @Tags        Cache
// @Produce     json
// @Param       key path string true "Key"
// @Param       fallback query bool false "Fall back to the store on miss"
// @Success     200 {object} dto.Envelope
// @Failure     404 {object} dto.Envelope
// @Router      /api/keys/{key} [get]
func (h *CacheHandler) GetKey(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	if value, ok := h.engine.Get(key); ok {
		metrics.RecordCacheOperation("get", "hit")
		builder.SuccessOK(gin.H{"key": key, "value": value})
		return
	}
	metrics.RecordCacheOperation("get", "miss")

	fallback, _ := strconv.ParseBool(c.Query("fallback"))
	if fallback && h.storage != nil {
		if value, ok := h.storage.Load(c.Request.Context(), key); ok {
			h.engine.Set(key, value, nil)
			metrics.UpdateCacheMetrics(h.engine.Stats().Size, h.engine.Stats().MaxSize)
			builder.SuccessOK(gin.H{"key": key, "value": value})
			return
		}
	}

	builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
}

// UpdateKey handles PUT /api/keys/:key.
//
// @Summary     Update a cache key
// @Description Updates the value and/or TTL of an existing key. The key must already be present.
// @Tags        Cache
// @Accept      json
// @Produce     json
// @Param       key path string true "Key"
// @Param       request body dto.UpdateKeyRequest true "Fields to update"
// @Success     200 {object} dto.Envelope
// @Failure     404 {object} dto.Envelope
// @Router      /api/keys/{key} [put]
func (h *CacheHandler) UpdateKey(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	if !h.engine.Has(key) {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}

	req, err := BuildRequest[dto.UpdateKeyRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if len(req.Value) > 0 {
		if err := shared.ValidateValueSize(req.Value, shared.MaxCacheValueBytes); err != nil {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationFailure, err)
			return
		}
	}
	if req.TTL != nil {
		if err := shared.ValidateTTLSeconds(*req.TTL); err != nil {
			builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationFailure, err)
			return
		}
	}

	if len(req.Value) > 0 {
		h.engine.Set(key, req.Value, req.TTL)
	} else if req.TTL != nil {
		h.engine.UpdateTTL(key, *req.TTL)
	}

	metrics.RecordCacheOperation("update", "success")
	builder.SuccessOK(gin.H{"key": key})
}

// DeleteKey handles DELETE /api/keys/:key.
//
// @Summary     Delete a cache key
// @Tags        Cache
// @Produce     json
// @Param       key path string true "Key"
// @Success     200 {object} dto.Envelope
// @Failure     404 {object} dto.Envelope
// @Router      /api/keys/{key} [delete]
func (h *CacheHandler) DeleteKey(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	if !h.engine.Delete(key) {
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}

	metrics.RecordCacheOperation("delete", "success")
	metrics.UpdateCacheMetrics(h.engine.Stats().Size, h.engine.Stats().MaxSize)
	builder.SuccessOK(gin.H{"key": key})
}

// ListKeys handles GET /api/keys.
//
// @Summary     List cache keys
// @Tags        Cache
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Router      /api/keys [get]
func (h *CacheHandler) ListKeys(c *gin.Context) {
	keys := h.engine.Keys()
	NewResponseBuilder(c).SuccessOK(dto.KeyList{Keys: keys, Count: len(keys)})
}

// Stats handles GET /api/stats.
//
// @Summary     Cache statistics
// @Tags        Cache
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Router      /api/stats [get]
func (h *CacheHandler) Stats(c *gin.Context) {
	s := h.engine.Stats()
	NewResponseBuilder(c).SuccessOK(dto.CacheStats{
		Hits:      s.Hits,
		Misses:    s.Misses,
		HitRate:   s.HitRate,
		Size:      s.Size,
		MaxSize:   s.MaxSize,
		Evictions: s.Evictions,
	})
}

// Clear handles DELETE /api/cache.
//
// @Summary     Clear the cache
// @Tags        Cache
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Router      /api/cache [delete]
func (h *CacheHandler) Clear(c *gin.Context) {
	h.engine.Clear()
	metrics.UpdateCacheMetrics(0, h.engine.Stats().MaxSize)
	NewResponseBuilder(c).SuccessOK(gin.H{"cleared": true})
}

// Health handles GET /api/health.
//
// @Summary     Cache service health
// @Tags        Cache
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Router      /api/health [get]
func (h *CacheHandler) Health(c *gin.Context) {
	s := h.engine.Stats()
	NewResponseBuilder(c).SuccessOK(dto.CacheHealth{
		Status:   "ok",
		Size:     s.Size,
		MaxSize:  s.MaxSize,
		UptimeMs: time.Since(h.startedAt).Milliseconds(),
	})
}
