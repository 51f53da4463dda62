package middleware

import (
	"encoding/json"
	"time"

	"github.com/arvindrh/cachelab/internal/cachecore"
)

// idempotencyCache stores cached HTTP responses for idempotency replay.
// Rather than hand-roll another TTL map with its own sweep goroutine,
// it is a thin wrapper around the same bounded engine the cache service
// exposes to its clients: a replayed response is just a key-value pair
// with a fixed TTL and no LRU pressure worth naming separately.
type idempotencyCache struct {
	engine     *cachecore.Engine
	ttlSeconds int64
}

// newIdempotencyCache creates a new idempotency cache. ttl is rounded up
// to the nearest whole second, the engine's native granularity.
func newIdempotencyCache(ttl time.Duration) *idempotencyCache {
	ttlSeconds := int64((ttl + time.Second - time.Nanosecond) / time.Second)
	if ttlSeconds <= 0 {
		ttlSeconds = 1
	}
	return &idempotencyCache{
		engine: cachecore.NewEngine(cachecore.Config{
			MaxSize:           10000,
			DefaultTTLSeconds: ttlSeconds,
			SweepInterval:     60,
		}),
		ttlSeconds: ttlSeconds,
	}
}

// Get retrieves a cached response for key, if one is present and unexpired.
func (c *idempotencyCache) Get(key string) (*cachedResponse, bool) {
	raw, ok := c.engine.Get(key)
	if !ok {
		return nil, false
	}

	var resp cachedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

// Set stores resp under key with the cache's configured TTL.
func (c *idempotencyCache) Set(key string, resp *cachedResponse) {
	resp.Timestamp = time.Now()

	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	c.engine.Set(key, raw, &c.ttlSeconds)
}

// stop releases the underlying engine's background sweep goroutine.
func (c *idempotencyCache) stop() {
	c.engine.Stop()
}
