package cachecore

import "encoding/json"

// Record is the unit of storage owned by Engine. Values are carried as
// opaque, already-serialized JSON (json.RawMessage) rather than a
// typed union: the engine never needs to interpret a value, only store
// and return it, and carrying it pre-serialized gives a lossless
// round-trip with both the HTTP boundary and the store's on-disk
// format for free.
type Record struct {
	Key          string
	Value        json.RawMessage
	CreatedAt    int64  // unix ms
	ExpiresAt    int64  // unix ms; only meaningful when HasExpiry is true
	HasExpiry    bool
	LastAccessed int64  // unix ms
	TTLSeconds   int64  // the declared TTL, retained for updateTtl/describe
}

// Snapshot returns an immutable copy of the record, safe to hand to a
// caller outside the engine (getEntry/admin surfaces must never leak
// the live record a caller could mutate in place).
func (r *Record) Snapshot() Record {
	cp := *r
	if r.Value != nil {
		cp.Value = make(json.RawMessage, len(r.Value))
		copy(cp.Value, r.Value)
	}
	return cp
}
