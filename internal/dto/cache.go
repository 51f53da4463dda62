package dto

import "encoding/json"

// SetKeyRequest is the body of POST /api/keys.
type SetKeyRequest struct {
	Key     string          `json:"key" binding:"required"`
	Value   json.RawMessage `json:"value" binding:"required"`
	TTL     *int64          `json:"ttl,omitempty"`
	Persist bool            `json:"persist,omitempty"`
}

// UpdateKeyRequest is the body of PUT /api/keys/:key.
type UpdateKeyRequest struct {
	Value json.RawMessage `json:"value,omitempty"`
	TTL   *int64          `json:"ttl,omitempty"`
}

// CacheStats mirrors CacheEngine.Stats() for the /api/stats response.
type CacheStats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	HitRate   float64 `json:"hitRate"`
	Size      int     `json:"size"`
	MaxSize   int     `json:"maxSize"`
	Evictions int64   `json:"evictions"`
}

// KeyList is the response body for GET /api/keys.
type KeyList struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// CacheHealth is the response body for GET /api/health on the cache service.
type CacheHealth struct {
	Status   string `json:"status"`
	Size     int    `json:"size"`
	MaxSize  int    `json:"maxSize"`
	UptimeMs int64  `json:"uptimeMs"`
}
