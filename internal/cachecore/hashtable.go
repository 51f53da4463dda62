// Package cachecore implements the bounded, TTL-and-LRU in-memory cache
// engine: a hand-rolled chained hash table underneath an explicit
// doubly linked LRU list.
package cachecore

import "github.com/arvindrh/cachelab/internal/shared"

const (
	initialCapacity = 16
	rehashLoadFactor = 0.75
)

// chainNode is one link in a bucket's singly linked chain.
type chainNode[V any] struct {
	key   string
	value V
	next  *chainNode[V]
}

// HashTable is a chained hash table keyed by strings. Buckets are an
// array of singly linked chains; collisions are resolved by walking
// the chain. It resizes (doubling capacity) whenever a new insertion
// pushes the load factor to 0.75 or above, which keeps expected chain
// length under ~1.3 at steady state.
type HashTable[V any] struct {
	buckets  []*chainNode[V]
	size     int
	capacity int
}

// NewHashTable creates an empty table at the default initial capacity
// of 16.
func NewHashTable[V any]() *HashTable[V] {
	return &HashTable[V]{
		buckets:  make([]*chainNode[V], initialCapacity),
		capacity: initialCapacity,
	}
}

// Set inserts or updates key. It reports true when a new entry was
// created, false when an existing entry's value was overwritten.
func (t *HashTable[V]) Set(key string, value V) bool {
	idx := shared.BucketFor(key, t.capacity)
	for n := t.buckets[idx]; n != nil; n = n.next {
		if n.key == key {
			n.value = value
			return false
		}
	}

	node := &chainNode[V]{key: key, value: value, next: t.buckets[idx]}
	t.buckets[idx] = node
	t.size++

	if float64(t.size)/float64(t.capacity) >= rehashLoadFactor {
		t.rehash()
	}
	return true
}

// Get returns the value stored under key, if any.
func (t *HashTable[V]) Get(key string) (V, bool) {
	idx := shared.BucketFor(key, t.capacity)
	for n := t.buckets[idx]; n != nil; n = n.next {
		if n.key == key {
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

// Has reports whether key is present.
func (t *HashTable[V]) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// Delete unlinks the node matching key, if present, and reports
// whether anything was removed.
func (t *HashTable[V]) Delete(key string) bool {
	idx := shared.BucketFor(key, t.capacity)
	var prev *chainNode[V]
	for n := t.buckets[idx]; n != nil; n = n.next {
		if n.key == key {
			if prev == nil {
				t.buckets[idx] = n.next
			} else {
				prev.next = n.next
			}
			t.size--
			return true
		}
		prev = n
	}
	return false
}

// Clear resets the table to an empty table at the initial capacity.
func (t *HashTable[V]) Clear() {
	t.buckets = make([]*chainNode[V], initialCapacity)
	t.capacity = initialCapacity
	t.size = 0
}

// Size returns the number of live entries.
func (t *HashTable[V]) Size() int {
	return t.size
}

// Keys materializes every live key in unspecified order.
func (t *HashTable[V]) Keys() []string {
	keys := make([]string, 0, t.size)
	for _, head := range t.buckets {
		for n := head; n != nil; n = n.next {
			keys = append(keys, n.key)
		}
	}
	return keys
}

// Values materializes every live value in unspecified order.
func (t *HashTable[V]) Values() []V {
	values := make([]V, 0, t.size)
	for _, head := range t.buckets {
		for n := head; n != nil; n = n.next {
			values = append(values, n.value)
		}
	}
	return values
}

// Entry pairs a key with its value, used by Entries.
type Entry[V any] struct {
	Key   string
	Value V
}

// Entries materializes every live (key, value) pair in unspecified
// order.
func (t *HashTable[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0, t.size)
	for _, head := range t.buckets {
		for n := head; n != nil; n = n.next {
			entries = append(entries, Entry[V]{Key: n.key, Value: n.value})
		}
	}
	return entries
}

// Stats summarizes the table's internal distribution, used by
// getStats()-style diagnostics.
type Stats struct {
	Size           int
	Capacity       int
	LoadFactor     float64
	UsedBuckets    int
	MaxChainLength int
	AvgChainLength float64
}

// Stats computes the current distribution statistics. AvgChainLength
// is computed over non-empty buckets only; it is 0 when there are
// none.
func (t *HashTable[V]) Stats() Stats {
	usedBuckets := 0
	maxChain := 0
	totalChained := 0

	for _, head := range t.buckets {
		if head == nil {
			continue
		}
		usedBuckets++
		length := 0
		for n := head; n != nil; n = n.next {
			length++
		}
		totalChained += length
		if length > maxChain {
			maxChain = length
		}
	}

	var avg float64
	if usedBuckets > 0 {
		avg = float64(totalChained) / float64(usedBuckets)
	}

	return Stats{
		Size:           t.size,
		Capacity:       t.capacity,
		LoadFactor:     float64(t.size) / float64(t.capacity),
		UsedBuckets:    usedBuckets,
		MaxChainLength: maxChain,
		AvgChainLength: avg,
	}
}

// rehash doubles the bucket array and reinserts every existing node.
// The order nodes land in within their new chain is unspecified.
func (t *HashTable[V]) rehash() {
	newCapacity := t.capacity * 2
	newBuckets := make([]*chainNode[V], newCapacity)

	for _, head := range t.buckets {
		for n := head; n != nil; {
			next := n.next
			idx := shared.BucketFor(n.key, newCapacity)
			n.next = newBuckets[idx]
			newBuckets[idx] = n
			n = next
		}
	}

	t.buckets = newBuckets
	t.capacity = newCapacity
}
