package storecore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arvindrh/cachelab/internal/logger"
)

// queueBufferSize bounds the in-flight write queue. It is large enough
// that callers practically never block on enqueue; the FIFO ordering
// guarantee does not depend on its size.
const queueBufferSize = 4096

// ManagerConfig configures a Manager's background behavior.
type ManagerConfig struct {
	// BackupInterval triggers a periodic snapshot backup. <= 0 disables
	// it entirely.
	BackupInterval time.Duration
}

// Manager wraps a PartitionedStore with an async write queue drained
// by a single worker in strict arrival order, a bounded read cache,
// periodic best-effort backup, and compaction. It owns the queue, the
// read cache, and the backup timer; PartitionedStore remains the only
// actor that touches files directly.
type Manager struct {
	store  *PartitionedStore
	cache  *readCache
	saveCh chan *writeJob

	backupInterval time.Duration
	backupStop     chan struct{}
	backupDone     chan struct{}

	drainDone chan struct{}
}

// NewManager constructs a Manager over store and starts its single
// write drainer. Call Initialize (via the store) before first use, and
// Shutdown when done.
func NewManager(store *PartitionedStore, cfg ManagerConfig) *Manager {
	m := &Manager{
		store:          store,
		cache:          newReadCache(readCacheCapacity),
		saveCh:         make(chan *writeJob, queueBufferSize),
		backupInterval: cfg.BackupInterval,
		drainDone:      make(chan struct{}),
	}

	go m.drain()

	if cfg.BackupInterval > 0 {
		m.backupStop = make(chan struct{})
		m.backupDone = make(chan struct{})
		go m.runBackupLoop()
	}

	return m
}

// drain is the manager's single write worker: it processes saveCh
// strictly in arrival order until the channel is closed. A write
// failure resolves only that job's future; the loop always continues
// to the next entry.
func (m *Manager) drain() {
	defer close(m.drainDone)

	for job := range m.saveCh {
		if job.barrier != nil {
			close(job.barrier)
			continue
		}

		entry, err := m.store.Save(job.key, job.value)
		if err == nil {
			m.cache.put(job.key, entry)
		}
		job.result <- saveResult{entry: entry, err: err}
	}
}

// Save enqueues a write and blocks until it has actually landed on
// disk, returning the durable entry or the write's failure. Concurrent
// callers writing the same key observe their writes applied in strict
// arrival order; the final on-disk state is whichever arrived last.
func (m *Manager) Save(ctx context.Context, key string, value json.RawMessage) (Entry, error) {
	job := newWriteJob(key, value)

	select {
	case m.saveCh <- job:
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}

	select {
	case res := <-job.result:
		return res.entry, res.err
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	}
}

// Load returns the entry for key, preferring the read cache. On a
// cache miss it reads through to the store and, on a hit there,
// populates the cache. Reads are not ordered against writes still
// sitting in the queue for the same key; callers that need
// read-your-write semantics must Flush first.
func (m *Manager) Load(key string) (Entry, bool, error) {
	if entry, ok := m.cache.get(key); ok {
		return entry, true, nil
	}

	entry, ok, err := m.store.Load(key)
	if err != nil || !ok {
		return Entry{}, false, err
	}

	m.cache.put(key, entry)
	return entry, true, nil
}

// Delete removes key from both the store and the read cache.
func (m *Manager) Delete(key string) (bool, error) {
	deleted, err := m.store.Delete(key)
	m.cache.delete(key)
	return deleted, err
}

// Clear empties the store and the read cache.
func (m *Manager) Clear() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.cache.clear()
	return nil
}

// Exists reports whether key exists on disk.
func (m *Manager) Exists(key string) bool {
	return m.store.Exists(key)
}

// List returns every live key, reading through to the store.
func (m *Manager) List() ([]string, error) {
	return m.store.List()
}

// Stats returns the store's current footprint.
func (m *Manager) Stats() (Stats, error) {
	return m.store.Stats()
}

// Flush blocks until every write enqueued before this call has been
// durably applied and the drainer is idle. Implemented as a barrier
// job: since the queue is FIFO, the barrier only closes once every job
// ahead of it has drained.
func (m *Manager) Flush() {
	barrier := newBarrierJob()
	m.saveCh <- barrier
	<-barrier.barrier
}

// Backup writes a single JSON file containing every live entry, named
// backup_<timestamp-with-colons-and-dots-replaced>.json under the
// store's data root. Backup is best-effort: a write failure is
// returned to the caller of Backup, but the periodic loop only
// logs it.
func (m *Manager) Backup(timestamp time.Time) (string, error) {
	entries, err := m.store.GetAllEntries()
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}

	name := "backup_" + sanitizeTimestamp(timestamp) + ".json"
	path := filepath.Join(m.store.dataRoot, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	}
	return path, nil
}

// Restore replays every entry in the backup file at path through
// Save. Because Save always assigns the next version after whatever is
// currently on disk, restore does not preserve the original version
// history.
func (m *Manager) Restore(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return ErrCorruptEntry
	}

	for _, e := range entries {
		if _, err := m.Save(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Compact keeps only the highest-version entry per key (ties broken by
// last-seen-wins during the scan), then clears the store and re-saves
// each kept entry, which renumbers every surviving key's version back
// to 1. The read cache is cleared as part of the process.
func (m *Manager) Compact(ctx context.Context) error {
	entries, err := m.store.GetAllEntries()
	if err != nil {
		return err
	}

	latest := make(map[string]Entry, len(entries))
	for _, e := range entries {
		current, ok := latest[e.Key]
		if !ok || e.Metadata.Version >= current.Metadata.Version {
			latest[e.Key] = e
		}
	}

	if err := m.Clear(); err != nil {
		return err
	}

	for _, e := range latest {
		if _, err := m.Save(ctx, e.Key, e.Value); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown stops the backup timer, flushes the write queue, attempts
// one final backup (logging and swallowing any failure), and stops the
// drainer.
func (m *Manager) Shutdown() {
	if m.backupStop != nil {
		close(m.backupStop)
		<-m.backupDone
	}

	m.Flush()

	if _, err := m.Backup(time.Now()); err != nil {
		logger.Logger().Warn().Err(err).Msg("final backup on shutdown failed")
	}

	close(m.saveCh)
	<-m.drainDone
}

func (m *Manager) runBackupLoop() {
	defer close(m.backupDone)

	ticker := time.NewTicker(m.backupInterval)
	defer ticker.Stop()

	for {
		select {
		case t := <-ticker.C:
			if _, err := m.Backup(t); err != nil {
				logger.Logger().Warn().Err(err).Msg("periodic backup failed")
			}
		case <-m.backupStop:
			return
		}
	}
}

// sanitizeTimestamp renders t as ISO8601 with colons and dots replaced
// by '-', matching the documented backup filename format.
func sanitizeTimestamp(t time.Time) string {
	iso := t.UTC().Format("2006-01-02T15:04:05.000Z")
	replacer := strings.NewReplacer(":", "-", ".", "-")
	return replacer.Replace(iso)
}
