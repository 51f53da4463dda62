package storecore

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	store := newTestStore(t)
	m := NewManager(store, ManagerConfig{})
	t.Cleanup(m.Shutdown)
	return m
}

func TestManager_SaveIsDurableBeforeReturning(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	entry, err := m.Save(ctx, "k", json.RawMessage(`"v"`))
	require.NoError(t, err)
	assert.EqualValues(t, 1, entry.Metadata.Version)

	onDisk, ok, err := m.store.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entry.Metadata.Version, onDisk.Metadata.Version)
}

func TestManager_LoadPrefersCacheThenReadsThrough(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Save(ctx, "k", json.RawMessage(`1`))
	require.NoError(t, err)

	entry, ok, err := m.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "1", string(entry.Value))

	cached, ok := m.cache.get("k")
	require.True(t, ok)
	assert.Equal(t, entry, cached)
}

func TestManager_LoadMissingReturnsFalse(t *testing.T) {
	m := newTestManager(t)
	_, ok, err := m.Load("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_DeleteRemovesFromCacheAndStore(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Save(ctx, "k", json.RawMessage(`1`))
	require.NoError(t, err)
	_, _ = m.Load("k")

	deleted, err := m.Delete("k")
	require.NoError(t, err)
	assert.True(t, deleted)

	_, ok := m.cache.get("k")
	assert.False(t, ok)

	_, ok, err = m.Load("k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManager_ClearEmptiesCacheAndStore(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _ = m.Save(ctx, "a", json.RawMessage(`1`))
	_, _ = m.Load("a")

	require.NoError(t, m.Clear())

	keys, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, ok := m.cache.get("a")
	assert.False(t, ok)
}

func TestManager_FlushWaitsForPriorWrites(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		go func(n int) {
			_, _ = m.Save(ctx, "k", json.RawMessage(`1`))
			_ = n
		}(i)
	}

	m.Flush()

	entry, ok, err := m.store.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.GreaterOrEqual(t, entry.Metadata.Version, int64(1))
}

func TestManager_SequentialSavesToSameKeyApplyInOrder(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		entry, err := m.Save(ctx, "k", json.RawMessage(`1`))
		require.NoError(t, err)
		assert.EqualValues(t, i, entry.Metadata.Version)
	}
}

func TestManager_BackupWritesReadableSnapshot(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _ = m.Save(ctx, "a", json.RawMessage(`1`))
	_, _ = m.Save(ctx, "b", json.RawMessage(`2`))

	path, err := m.Backup(time.Date(2026, 7, 31, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Contains(t, path, "backup_2026-07-31T10-30-00-000Z.json")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entries []Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 2)
}

func TestManager_RestoreReplaysEntries(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, _ = m.Save(ctx, "a", json.RawMessage(`1`))
	path, err := m.Backup(time.Now().Add(0))
	require.NoError(t, err)

	require.NoError(t, m.Clear())
	_, ok, err := m.Load("a")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Restore(ctx, path))

	entry, ok, err := m.Load("a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "1", string(entry.Value))
}

func TestManager_CompactKeepsLatestAndRenumbersVersions(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := m.Save(ctx, "k", json.RawMessage(`1`))
		require.NoError(t, err)
	}

	require.NoError(t, m.Compact(ctx))

	entry, ok, err := m.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 1, entry.Metadata.Version)
}

func TestManager_ShutdownFlushesAndStopsDrainer(t *testing.T) {
	store := newTestStore(t)
	m := NewManager(store, ManagerConfig{})
	ctx := context.Background()

	_, err := m.Save(ctx, "k", json.RawMessage(`1`))
	require.NoError(t, err)

	m.Shutdown()

	onDisk, ok, err := store.Load("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.EqualValues(t, 1, onDisk.Metadata.Version)
}
