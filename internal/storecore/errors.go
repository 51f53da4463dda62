package storecore

import "errors"

// Sentinel errors surfaced by PartitionedStore and StoreManager. The
// HTTP boundary maps these to status codes; the core itself never
// panics or returns anything else for file-level failures.
var (
	// ErrNotFound means the requested key has no file on disk.
	ErrNotFound = errors.New("key not found in store")
	// ErrCorruptEntry means a file's JSON failed to parse.
	ErrCorruptEntry = errors.New("store entry is corrupt")
	// ErrIO wraps an underlying filesystem error other than "not exist".
	ErrIO = errors.New("store io failure")
)
