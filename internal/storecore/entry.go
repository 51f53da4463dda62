// Package storecore implements the partitioned, per-key-file persistent
// store and the manager that wraps it with an async write queue, a
// bounded read cache, periodic backup, and compaction.
package storecore

import "encoding/json"

// Metadata carries the durable bookkeeping fields for a StorageEntry:
// creation time, last-write time, and a monotonically increasing
// version incremented on every rewrite.
type Metadata struct {
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
	Version   int64 `json:"version"`
}

// Entry is the unit of storage owned by PartitionedStore: a key, its
// opaque JSON value, and its metadata. This is exactly the shape
// persisted to disk, pretty-printed with a 2-space indent — the file
// format is compatibility-critical and must be preserved byte for
// byte.
type Entry struct {
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	Metadata Metadata        `json:"metadata"`
}
