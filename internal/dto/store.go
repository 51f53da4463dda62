package dto

import "encoding/json"

// WriteDataRequest is the body of POST /api/data/:key.
type WriteDataRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

// WriteDataResponse is returned by every write to the store.
type WriteDataResponse struct {
	Key       string `json:"key"`
	Version   int64  `json:"version"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}

// ReadDataResponse is returned by a successful read from the store.
type ReadDataResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt int64           `json:"createdAt"`
	UpdatedAt int64           `json:"updatedAt"`
	Version   int64           `json:"version"`
}

// StoreStats mirrors PartitionedStore.Stats() for the /api/stats response.
type StoreStats struct {
	TotalKeys  int    `json:"totalKeys"`
	TotalSize  int64  `json:"totalSize"`
	Partitions int    `json:"partitions"`
	DataPath   string `json:"dataPath"`
}

// BackupResponse is returned by POST /api/backup.
type BackupResponse struct {
	Path string `json:"path"`
}

// RestoreRequest is the body of POST /api/backup/restore.
type RestoreRequest struct {
	Path string `json:"path" binding:"required"`
}

// StoreHealth is the response body for GET /api/health on the store service.
type StoreHealth struct {
	Status   string `json:"status"`
	TotalKeys int   `json:"totalKeys"`
	UptimeMs int64  `json:"uptimeMs"`
}
