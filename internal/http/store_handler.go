package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arvindrh/cachelab/internal/dto"
	"github.com/arvindrh/cachelab/internal/i18n"
	"github.com/arvindrh/cachelab/internal/metrics"
	"github.com/arvindrh/cachelab/internal/shared"
	"github.com/arvindrh/cachelab/internal/storecore"
)

// StoreHandler serves the persistent store's HTTP surface: per-key
// read/write/delete under /api/data, plus storage stats, backup,
// restore, and compaction.
type StoreHandler struct {
	manager   *storecore.Manager
	startedAt time.Time
}

// NewStoreHandler constructs a StoreHandler.
func NewStoreHandler(manager *storecore.Manager) *StoreHandler {
	return &StoreHandler{manager: manager, startedAt: time.Now()}
}

// WriteData handles POST /api/data/:key.
//
// @Summary     Write a value to the store
// @Tags        Store
// @Accept      json
// @Produce     json
// @Param       key path string true "Key"
// @Param       request body dto.WriteDataRequest true "Value to persist"
// @Success     201 {object} dto.Envelope
// @Failure     400 {object} dto.Envelope
// @Failure     500 {object} dto.Envelope
// @Router      /api/data/{key} [post]
func (h *StoreHandler) WriteData(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	req, err := BuildRequest[dto.WriteDataRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}
	if err := shared.ValidateKey(key); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationFailure, err)
		return
	}
	if err := shared.ValidateValueSize(req.Value, shared.MaxStoreValueBytes); err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyValidationFailure, err)
		return
	}

	start := time.Now()
	entry, err := h.manager.Save(c.Request.Context(), key, req.Value)
	if err != nil {
		metrics.RecordStoreOperation("save", time.Since(start), "error")
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	metrics.RecordStoreOperation("save", time.Since(start), "success")

	builder.SuccessCreated(dto.WriteDataResponse{
		Key:       entry.Key,
		Version:   entry.Metadata.Version,
		CreatedAt: entry.Metadata.CreatedAt,
		UpdatedAt: entry.Metadata.UpdatedAt,
	})
}

// ReadData handles GET /api/data/:key.
//
// @Summary     Read a value from the store
// @Tags        Store
// @Produce     json
// @Param       key path string true "Key"
// @Success     200 {object} dto.Envelope
// @Failure     404 {object} dto.Envelope
// @Failure     500 {object} dto.Envelope
// @Router      /api/data/{key} [get]
func (h *StoreHandler) ReadData(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	start := time.Now()
	entry, found, err := h.manager.Load(key)
	if err != nil {
		metrics.RecordStoreOperation("load", time.Since(start), "error")
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	if !found {
		metrics.RecordStoreOperation("load", time.Since(start), "miss")
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}
	metrics.RecordStoreOperation("load", time.Since(start), "hit")

	builder.SuccessOK(dto.ReadDataResponse{
		Key:       entry.Key,
		Value:     entry.Value,
		CreatedAt: entry.Metadata.CreatedAt,
		UpdatedAt: entry.Metadata.UpdatedAt,
		Version:   entry.Metadata.Version,
	})
}

// DeleteData handles DELETE /api/data/:key.
//
// @Summary     Delete a value from the store
// @Tags        Store
// @Produce     json
// @Param       key path string true "Key"
// @Success     200 {object} dto.Envelope
// @Failure     404 {object} dto.Envelope
// @Router      /api/data/{key} [delete]
func (h *StoreHandler) DeleteData(c *gin.Context) {
	builder := NewResponseBuilder(c)
	key := c.Param("key")

	start := time.Now()
	deleted, err := h.manager.Delete(key)
	if err != nil {
		metrics.RecordStoreOperation("delete", time.Since(start), "error")
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	if !deleted {
		metrics.RecordStoreOperation("delete", time.Since(start), "miss")
		builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
		return
	}
	metrics.RecordStoreOperation("delete", time.Since(start), "success")

	builder.SuccessOK(gin.H{"key": key})
}

// Stats handles GET /api/stats.
//
// @Summary     Store statistics
// @Tags        Store
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Failure     500 {object} dto.Envelope
// @Router      /api/stats [get]
func (h *StoreHandler) Stats(c *gin.Context) {
	builder := NewResponseBuilder(c)

	s, err := h.manager.Stats()
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	metrics.UpdateStoreKeyCount(s.TotalKeys)

	builder.SuccessOK(dto.StoreStats{
		TotalKeys:  s.TotalKeys,
		TotalSize:  s.TotalSize,
		Partitions: s.Partitions,
		DataPath:   s.DataPath,
	})
}

// Storage handles DELETE /api/storage, clearing every persisted entry.
//
// @Summary     Clear the store
// @Tags        Store
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Failure     500 {object} dto.Envelope
// @Router      /api/storage [delete]
func (h *StoreHandler) Storage(c *gin.Context) {
	builder := NewResponseBuilder(c)

	if err := h.manager.Clear(); err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	builder.SuccessOK(gin.H{"cleared": true})
}

// Backup handles POST /api/backup.
//
// @Summary     Trigger a backup
// @Tags        Store
// @Produce     json
// @Success     201 {object} dto.Envelope
// @Failure     500 {object} dto.Envelope
// @Router      /api/backup [post]
func (h *StoreHandler) Backup(c *gin.Context) {
	builder := NewResponseBuilder(c)

	start := time.Now()
	path, err := h.manager.Backup(start)
	if err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	metrics.RecordStoreBackup(time.Since(start))

	builder.SuccessCreated(dto.BackupResponse{Path: path})
}

// Restore handles POST /api/backup/restore.
//
// @Summary     Restore from a backup
// @Tags        Store
// @Accept      json
// @Produce     json
// @Param       request body dto.RestoreRequest true "Backup file path"
// @Success     200 {object} dto.Envelope
// @Failure     400 {object} dto.Envelope
// @Failure     500 {object} dto.Envelope
// @Router      /api/backup/restore [post]
func (h *StoreHandler) Restore(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.RestoreRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequestBody, err)
		return
	}

	if err := h.manager.Restore(c.Request.Context(), req.Path); err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	builder.SuccessOK(gin.H{"restored": true})
}

// Compact handles POST /api/compact.
//
// @Summary     Compact the store
// @Description Keeps only the highest version per key and renumbers versions from 1.
// @Tags        Store
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Failure     500 {object} dto.Envelope
// @Router      /api/compact [post]
func (h *StoreHandler) Compact(c *gin.Context) {
	builder := NewResponseBuilder(c)

	start := time.Now()
	if err := h.manager.Compact(c.Request.Context()); err != nil {
		builder.Error(http.StatusInternalServerError, i18n.ErrKeyIOFailure, err)
		return
	}
	metrics.RecordStoreCompact(time.Since(start))

	builder.SuccessOK(gin.H{"compacted": true})
}

// Health handles GET /api/health.
//
// @Summary     Store service health
// @Tags        Store
// @Produce     json
// @Success     200 {object} dto.Envelope
// @Router      /api/health [get]
func (h *StoreHandler) Health(c *gin.Context) {
	builder := NewResponseBuilder(c)

	s, err := h.manager.Stats()
	totalKeys := 0
	if err == nil {
		totalKeys = s.TotalKeys
	}

	builder.SuccessOK(dto.StoreHealth{
		Status:    "ok",
		TotalKeys: totalKeys,
		UptimeMs:  time.Since(h.startedAt).Milliseconds(),
	})
}
