package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIdempotencyCache_Get(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(*idempotencyCache)
		key           string
		expectedFound bool
	}{
		{
			name: "returns cached response when exists",
			setup: func(cache *idempotencyCache) {
				resp := &cachedResponse{
					StatusCode: 200,
					Headers:    map[string]string{"Content-Type": "application/json"},
					Body:       []byte(`{"data": "test"}`),
					Timestamp:  time.Now(),
				}
				cache.Set("key-123", resp)
			},
			key:           "key-123",
			expectedFound: true,
		},
		{
			name:          "returns false when key not found",
			setup:         func(cache *idempotencyCache) {},
			key:           "key-999",
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newIdempotencyCache(time.Minute)
			tt.setup(cache)
			resp, found := cache.Get(tt.key)

			assert.Equal(t, tt.expectedFound, found, "Cache lookup result mismatch for test: %s", tt.name)
			if tt.expectedFound {
				assert.NotNil(t, resp)
				if resp != nil {
					assert.Equal(t, 200, resp.StatusCode)
				}
			}
		})
	}
}

func TestIdempotencyCache_Set(t *testing.T) {
	cache := newIdempotencyCache(time.Minute)

	resp := &cachedResponse{
		StatusCode: 200,
		Headers:    map[string]string{"X-Test": "value"},
		Body:       []byte(`{"test": "data"}`),
		Timestamp:  time.Now(),
	}

	cache.Set("key-100", resp)

	retrieved, found := cache.Get("key-100")
	assert.True(t, found)
	assert.Equal(t, resp.StatusCode, retrieved.StatusCode)
	assert.Equal(t, resp.Headers, retrieved.Headers)
}

func TestIdempotencyCache_ExpiresAfterTTL(t *testing.T) {
	cache := newIdempotencyCache(time.Second)

	resp := &cachedResponse{
		StatusCode: 200,
		Headers:    map[string]string{},
		Body:       []byte(`{}`),
		Timestamp:  time.Now(),
	}
	cache.Set("key-expiring", resp)

	_, found := cache.Get("key-expiring")
	assert.True(t, found)

	time.Sleep(1100 * time.Millisecond)

	_, found = cache.Get("key-expiring")
	assert.False(t, found, "entry should have expired after its TTL elapsed")
}

func TestIdempotencyCache_SubSecondTTLRoundsUpToOneSecond(t *testing.T) {
	cache := newIdempotencyCache(50 * time.Millisecond)
	assert.Equal(t, int64(1), cache.ttlSeconds)
}
