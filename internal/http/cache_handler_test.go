package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvindrh/cachelab/internal/cachecore"
	"github.com/arvindrh/cachelab/internal/storageclient"
)

func newCacheTestRouter(t *testing.T, storage *storageclient.Client) (*gin.Engine, *cachecore.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := cachecore.NewEngine(cachecore.Config{MaxSize: 100, DefaultTTLSeconds: 0, SweepInterval: 0})
	t.Cleanup(engine.Stop)

	handler := NewCacheHandler(engine, storage)
	router := gin.New()
	router.POST("/api/keys", handler.SetKey)
	router.GET("/api/keys/:key", handler.GetKey)
	router.PUT("/api/keys/:key", handler.UpdateKey)
	router.DELETE("/api/keys/:key", handler.DeleteKey)
	router.GET("/api/keys", handler.ListKeys)
	router.GET("/api/stats", handler.Stats)
	router.DELETE("/api/cache", handler.Clear)
	return router, engine
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCacheHandler_SetGetUpdateDelete(t *testing.T) {
	router, _ := newCacheTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/api/keys", map[string]interface{}{
		"key": "greeting", "value": "hello",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/keys/greeting", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")

	w = doJSON(t, router, http.MethodPut, "/api/keys/greeting", map[string]interface{}{"value": "hi"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/keys/greeting", nil)
	assert.Contains(t, w.Body.String(), "hi")

	w = doJSON(t, router, http.MethodDelete, "/api/keys/greeting", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/keys/greeting", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCacheHandler_SetRejectsEmptyKey(t *testing.T) {
	router, _ := newCacheTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/api/keys", map[string]interface{}{
		"key": "", "value": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCacheHandler_SetRejectsNegativeTTL(t *testing.T) {
	router, _ := newCacheTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPost, "/api/keys", map[string]interface{}{
		"key": "k", "value": "v", "ttl": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCacheHandler_UpdateRequiresExistingKey(t *testing.T) {
	router, _ := newCacheTestRouter(t, nil)

	w := doJSON(t, router, http.MethodPut, "/api/keys/missing", map[string]interface{}{"value": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestCacheHandler_WriteThroughAndFallbackPopulate verifies that a
// persisted key survives a cache clear and is repopulated on a
// fallback-enabled GET, after which a plain GET also hits.
func TestCacheHandler_WriteThroughAndFallbackPopulate(t *testing.T) {
	store := map[string]json.RawMessage{}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/api/data/")
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Value json.RawMessage `json:"value"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			store[key] = body.Value
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			v, ok := store[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"data":    map[string]interface{}{"value": v},
			})
		}
	}))
	t.Cleanup(backend.Close)

	storage := storageclient.New(storageclient.Config{BaseURL: backend.URL})
	router, _ := newCacheTestRouter(t, storage)

	w := doJSON(t, router, http.MethodPost, "/api/keys", map[string]interface{}{
		"key": "u", "value": map[string]int{"n": 1}, "persist": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/keys/u?"+url.Values{"fallback": {"true"}}.Encode(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"n":1`)

	w = doJSON(t, router, http.MethodGet, "/api/keys/u", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"n":1`)
}

func TestCacheHandler_StatsAndClear(t *testing.T) {
	router, _ := newCacheTestRouter(t, nil)

	doJSON(t, router, http.MethodPost, "/api/keys", map[string]interface{}{"key": "a", "value": 1})
	doJSON(t, router, http.MethodGet, "/api/keys/a", nil)
	doJSON(t, router, http.MethodGet, "/api/keys/missing", nil)

	w := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"hits":1`)
	assert.Contains(t, w.Body.String(), `"misses":1`)

	w = doJSON(t, router, http.MethodDelete, "/api/cache", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/keys", nil)
	assert.Contains(t, w.Body.String(), `"count":0`)
}
