package storecore

import "sync"

// readCacheCapacity bounds the manager's read cache at 100 entries, as
// specified.
const readCacheCapacity = 100

// readCache is a bounded key->Entry cache with a deliberately weak
// eviction policy: it tracks recency of insertion, not of read access.
// On insertion when full, the entry at the insertion-ordered front
// (oldest inserted) is dropped; inserting an already-present key moves
// it to the back first. This mirrors the store manager's historical
// "updateReadCache" behavior and is sufficient for the workload: the
// cache only needs to absorb repeat reads shortly after a write.
type readCache struct {
	mu       sync.Mutex
	capacity int
	order    []string // insertion order, oldest first
	items    map[string]Entry
}

func newReadCache(capacity int) *readCache {
	return &readCache{
		capacity: capacity,
		items:    make(map[string]Entry, capacity),
	}
}

// get returns the cached entry for key, if present. It does not alter
// insertion order: this cache is insertion-ordered, not access-ordered.
func (c *readCache) get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.items[key]
	return e, ok
}

// put inserts or replaces key's cached entry. Replacing an existing
// key moves it to the back of the insertion order before the
// capacity check, since a write is itself the freshest thing known
// about that key.
func (c *readCache) put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; exists {
		c.removeFromOrder(key)
	}

	c.items[key] = entry
	c.order = append(c.order, key)

	if len(c.items) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.items, oldest)
	}
}

// delete removes key from the cache, if present.
func (c *readCache) delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		return
	}
	delete(c.items, key)
	c.removeFromOrder(key)
}

// clear empties the cache.
func (c *readCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]Entry, c.capacity)
	c.order = nil
}

func (c *readCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
