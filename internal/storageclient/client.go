// Package storageclient is the cache engine's facade onto a remote
// store service. It treats the store as an untrusted, occasionally
// unreachable dependency: every failure mode collapses to a miss or a
// no-op on the cache side, never an error that could corrupt cache
// state.
package storageclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/arvindrh/cachelab/internal/circuitbreaker"
	"github.com/rs/zerolog/log"
)

const (
	healthTimeout = 2 * time.Second
	ioTimeout     = 5 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL is the store service's root, e.g. "http://localhost:3002".
	BaseURL string
	// HTTPClient is reused across calls. If nil a default one is built.
	HTTPClient *http.Client
}

// Client is the cache-side handle onto a remote store service, guarded
// by a circuit breaker and an explicit enable/disable kill switch.
type Client struct {
	baseURL string
	http    *http.Client
	cb      *circuitbreaker.CircuitBreaker
	enabled atomic.Bool
}

// New constructs a Client. It starts enabled.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		cb: circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          30 * time.Second,
			Name:             "storage-client",
		}),
	}
	c.enabled.Store(true)
	return c
}

// Enable turns the client back on.
func (c *Client) Enable() { c.enabled.Store(true) }

// Disable turns the client into a no-op: every call fails without
// performing any I/O.
func (c *Client) Disable() { c.enabled.Store(false) }

// IsEnabled reports the current kill-switch state.
func (c *Client) IsEnabled() bool { return c.enabled.Load() }

// CircuitBreaker exposes the client's underlying circuit breaker so
// callers can register it with a health handler.
func (c *Client) CircuitBreaker() *circuitbreaker.CircuitBreaker { return c.cb }

// Available probes the store's health endpoint with a short timeout.
func (c *Client) Available(ctx context.Context) bool {
	if !c.IsEnabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	err := c.cb.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health check returned status %d", resp.StatusCode)
		}
		return nil
	})
	return err == nil
}

type storeEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type writeRequest struct {
	Value json.RawMessage `json:"value"`
}

// Save write-throughs key/value to the store. It never returns an
// error to the caller: failures (including a disabled client, a
// timeout, or a circuit-open rejection) are reported only as false.
func (c *Client) Save(ctx context.Context, key string, value json.RawMessage) bool {
	if !c.IsEnabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()

	err := c.cb.Execute(ctx, func() error {
		body, err := json.Marshal(writeRequest{Value: value})
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/data/"+key, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("store save returned status %d", resp.StatusCode)
		}
		return nil
	})

	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("write-through to store failed")
		return false
	}
	return true
}

// Load fetches key's value from the store. A 404-equivalent, a
// disabled client, a timeout, or any transport failure all resolve as
// (nil, false) with no error surfaced: from the cache's perspective a
// store problem is indistinguishable from a genuine miss.
func (c *Client) Load(ctx context.Context, key string) (json.RawMessage, bool) {
	if !c.IsEnabled() {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()

	var value json.RawMessage
	var found bool

	err := c.cb.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/data/"+key, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			found = false
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("store load returned status %d", resp.StatusCode)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		var env storeEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return err
		}

		var entry struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(env.Data, &entry); err != nil {
			return err
		}

		value = entry.Value
		found = true
		return nil
	})

	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("load from store failed")
		return nil, false
	}
	return value, found
}

// Delete removes key from the store. Failures resolve as false; they
// never propagate as errors.
func (c *Client) Delete(ctx context.Context, key string) bool {
	if !c.IsEnabled() {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, ioTimeout)
	defer cancel()

	var deleted bool

	err := c.cb.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/data/"+key, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			deleted = false
			return nil
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("store delete returned status %d", resp.StatusCode)
		}
		deleted = true
		return nil
	})

	if err != nil {
		log.Warn().Str("key", key).Err(err).Msg("delete from store failed")
		return false
	}
	return deleted
}
