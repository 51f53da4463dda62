package cachecore

import (
	"container/list"
	"encoding/json"
	"sync"

	"github.com/arvindrh/cachelab/internal/shared"
)

/*
Engine implements a bounded, thread-safe key-value cache combining:

  - A chained HashTable[*Record] for O(1) lookup.
  - A doubly linked LRU list (container/list), most-recently-used at
    the front, whose nodes are indexed by key for O(1) splice.
  - Per-entry TTL expiry, checked lazily on access and swept
    opportunistically in the background.

Every public method other than the janitor's internal sweep is
synchronous and non-suspending: callers never see a partially applied
mutation. Write-through to a backing store, if configured, happens
strictly after the in-memory state has already been committed.
*/
type Engine struct {
	mu sync.Mutex

	table    *HashTable[*list.Element]
	lru      *list.List // element.Value is *Record
	maxSize  int
	defaultTTL int64 // seconds; 0 = no default expiry

	hits      int64
	misses    int64
	evictions int64

	janitor *janitor
}

// Config configures an Engine. MaxSize is the hard cap on live entries;
// DefaultTTLSeconds is applied to Set calls that omit a TTL (0 means
// entries never expire by default).
type Config struct {
	MaxSize           int
	DefaultTTLSeconds int64
	SweepInterval     int64 // seconds; 0 disables the background sweep
}

// DefaultConfig mirrors the documented defaults: 1000 entries, 3600s
// default TTL, swept every 60s.
func DefaultConfig() Config {
	return Config{
		MaxSize:           1000,
		DefaultTTLSeconds: 3600,
		SweepInterval:     60,
	}
}

// NewEngine constructs an Engine and starts its background sweep if
// cfg.SweepInterval > 0. Callers own the returned Engine's lifetime and
// must call Stop to release the janitor goroutine.
func NewEngine(cfg Config) *Engine {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 1000
	}

	e := &Engine{
		table:      NewHashTable[*list.Element](),
		lru:        list.New(),
		maxSize:    cfg.MaxSize,
		defaultTTL: cfg.DefaultTTLSeconds,
	}

	if cfg.SweepInterval > 0 {
		e.janitor = startJanitor(e, cfg.SweepInterval)
	}

	return e
}

// Stop releases the background sweep goroutine, if one is running. The
// engine remains usable (lazy expiry on access is always correct on
// its own); Stop only reclaims the proactive sweep.
func (e *Engine) Stop() {
	if e.janitor != nil {
		e.janitor.stop()
	}
}

// Set inserts or updates key. A nil ttlSeconds resolves to the
// engine's configured default TTL; a ttlSeconds of 0 means the entry
// never expires. Set never fails.
func (e *Engine) Set(key string, value json.RawMessage, ttlSeconds *int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ttl := e.defaultTTL
	if ttlSeconds != nil {
		ttl = *ttlSeconds
	}

	now := shared.NowMillis()

	if elem, found := e.table.Get(key); found {
		rec := elem.Value.(*Record)
		rec.Value = cloneValue(value)
		rec.CreatedAt = now
		rec.LastAccessed = now
		rec.TTLSeconds = ttl
		if exp, ok := shared.ExpiryFor(now, ttl); ok {
			rec.ExpiresAt = exp
			rec.HasExpiry = true
		} else {
			rec.HasExpiry = false
		}
		e.lru.MoveToFront(elem)
		return
	}

	if e.table.Size() >= e.maxSize {
		e.evictTail()
	}

	rec := &Record{
		Key:          key,
		Value:        cloneValue(value),
		CreatedAt:    now,
		LastAccessed: now,
		TTLSeconds:   ttl,
	}
	if exp, ok := shared.ExpiryFor(now, ttl); ok {
		rec.ExpiresAt = exp
		rec.HasExpiry = true
	}

	elem := e.lru.PushFront(rec)
	e.table.Set(key, elem)
}

// Get returns the value stored under key, promoting it to the LRU head
// on a hit. A miss (absent or lazily expired) increments misses and
// returns false; a hit increments hits.
func (e *Engine) Get(key string) (json.RawMessage, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	elem, found := e.table.Get(key)
	if !found {
		e.misses++
		return nil, false
	}

	rec := elem.Value.(*Record)
	now := shared.NowMillis()
	if rec.HasExpiry && shared.IsExpired(rec.ExpiresAt, now) {
		e.removeElement(key, elem)
		e.misses++
		return nil, false
	}

	rec.LastAccessed = now
	e.lru.MoveToFront(elem)
	e.hits++
	return cloneValue(rec.Value), true
}

// Has is a pure predicate: it performs lazy expiry (a stale record is
// not truly present) but touches neither LRU order nor hit/miss
// statistics.
func (e *Engine) Has(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	elem, found := e.table.Get(key)
	if !found {
		return false
	}

	rec := elem.Value.(*Record)
	now := shared.NowMillis()
	if rec.HasExpiry && shared.IsExpired(rec.ExpiresAt, now) {
		e.removeElement(key, elem)
		return false
	}
	return true
}

// Delete removes key unconditionally and reports whether it was
// present. Explicit deletes never count as evictions.
func (e *Engine) Delete(key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	elem, found := e.table.Get(key)
	if !found {
		return false
	}
	e.removeElement(key, elem)
	return true
}

// UpdateTTL resets a live key's expiry without touching its value or
// LRU position. A ttlSeconds of 0 clears the expiry entirely. Returns
// false if the key is absent or lazily expired.
func (e *Engine) UpdateTTL(key string, ttlSeconds int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	elem, found := e.table.Get(key)
	if !found {
		return false
	}

	rec := elem.Value.(*Record)
	now := shared.NowMillis()
	if rec.HasExpiry && shared.IsExpired(rec.ExpiresAt, now) {
		e.removeElement(key, elem)
		return false
	}

	rec.TTLSeconds = ttlSeconds
	if exp, ok := shared.ExpiryFor(now, ttlSeconds); ok {
		rec.ExpiresAt = exp
		rec.HasExpiry = true
	} else {
		rec.HasExpiry = false
	}
	return true
}

// Clear empties the engine and resets all statistics counters to 0.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.table.Clear()
	e.lru.Init()
	e.hits = 0
	e.misses = 0
	e.evictions = 0
}

// Keys returns every non-expired key. As a side effect, expired
// entries encountered during the scan are lazily deleted.
func (e *Engine) Keys() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := shared.NowMillis()
	keys := make([]string, 0, e.table.Size())

	for elem := e.lru.Front(); elem != nil; {
		next := elem.Next()
		rec := elem.Value.(*Record)
		if rec.HasExpiry && shared.IsExpired(rec.ExpiresAt, now) {
			e.removeElement(rec.Key, elem)
		} else {
			keys = append(keys, rec.Key)
		}
		elem = next
	}
	return keys
}

// GetEntry returns an immutable snapshot of the full record for a key,
// for admin/debug surfaces, with the same lazy-expiry semantics as
// Get. It never touches LRU order or statistics.
func (e *Engine) GetEntry(key string) (Record, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	elem, found := e.table.Get(key)
	if !found {
		return Record{}, false
	}

	rec := elem.Value.(*Record)
	now := shared.NowMillis()
	if rec.HasExpiry && shared.IsExpired(rec.ExpiresAt, now) {
		e.removeElement(key, elem)
		return Record{}, false
	}
	return rec.Snapshot(), true
}

// Stats summarizes hit/miss/eviction counters for the getStats() API.
type Stats struct {
	Hits      int64
	Misses    int64
	HitRate   float64 // percent, two-decimal precision; 0 when hits+misses == 0
	Size      int
	MaxSize   int
	Evictions int64
}

// Stats returns a point-in-time snapshot of the engine's counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	var hitRate float64
	if total := e.hits + e.misses; total > 0 {
		hitRate = roundTwoDecimals(100 * float64(e.hits) / float64(total))
	}

	return Stats{
		Hits:      e.hits,
		Misses:    e.misses,
		HitRate:   hitRate,
		Size:      e.table.Size(),
		MaxSize:   e.maxSize,
		Evictions: e.evictions,
	}
}

// evictTail removes the LRU list's tail entry (least recently used)
// and counts it as an eviction. Called only when Set must make room
// for a genuinely new key.
func (e *Engine) evictTail() {
	tail := e.lru.Back()
	if tail == nil {
		return
	}
	rec := tail.Value.(*Record)
	e.table.Delete(rec.Key)
	e.lru.Remove(tail)
	e.evictions++
}

// removeElement unlinks key from both the table and the LRU list. Does
// not touch eviction counters; callers that mean an eviction call
// evictTail instead.
func (e *Engine) removeElement(key string, elem *list.Element) {
	e.table.Delete(key)
	e.lru.Remove(elem)
}

// sweepExpired deletes every key whose expiry has passed. It is the
// janitor's hook and is safe to skip entirely: lazy expiry on access
// already guarantees correctness, so the sweep is opportunistic memory
// reclamation only. Sweep deletions never count as evictions.
func (e *Engine) sweepExpired() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := shared.NowMillis()
	for elem := e.lru.Back(); elem != nil; {
		prev := elem.Prev()
		rec := elem.Value.(*Record)
		if rec.HasExpiry && shared.IsExpired(rec.ExpiresAt, now) {
			e.removeElement(rec.Key, elem)
		}
		elem = prev
	}
}

func cloneValue(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	cp := make(json.RawMessage, len(v))
	copy(cp, v)
	return cp
}

func roundTwoDecimals(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
