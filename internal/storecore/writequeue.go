package storecore

import "encoding/json"

// writeJob is one pending write in the manager's queue, or a barrier
// request used by Flush to detect "queue empty, drainer idle" without
// a separate synchronization primitive: because the underlying channel
// is FIFO, a barrier is only closed once every job enqueued ahead of
// it has been processed.
type writeJob struct {
	key     string
	value   json.RawMessage
	result  chan saveResult
	barrier chan struct{}
}

type saveResult struct {
	entry Entry
	err   error
}

func newWriteJob(key string, value json.RawMessage) *writeJob {
	return &writeJob{
		key:    key,
		value:  value,
		result: make(chan saveResult, 1),
	}
}

func newBarrierJob() *writeJob {
	return &writeJob{barrier: make(chan struct{})}
}
