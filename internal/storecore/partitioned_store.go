package storecore

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/arvindrh/cachelab/internal/logger"
	"github.com/arvindrh/cachelab/internal/shared"
)

// NumPartitions is the fixed partition count P. The partition selector
// (djb2(key) mod P), the filename encoding, and the pretty-printed JSON
// payload below are compatibility-critical: changing any of them
// breaks interoperability with existing data directories.
const NumPartitions = 16

// encodeKey turns a raw key into its filesystem-safe, injective
// filename stem: standard Base64 (padding included) with '/', '+' and
// '=' all mapped to '_'.
func encodeKey(key string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(key))
	enc = strings.ReplaceAll(enc, "/", "_")
	enc = strings.ReplaceAll(enc, "+", "_")
	enc = strings.ReplaceAll(enc, "=", "_")
	return enc
}

// PartitionedStore persists one file per key under
// <dataRoot>/partition_{N}/<encoded-key>.json, where N = djb2(key) mod
// NumPartitions. Keeping one file per key bounds file size and makes
// writes idempotent: losing one file loses exactly one key.
type PartitionedStore struct {
	dataRoot string
	// mu serializes the file-level operations, matching the resource
	// ownership rule that PartitionedStore is the only actor that
	// touches files under dataRoot.
	mu sync.Mutex
}

// NewPartitionedStore constructs a store rooted at dataRoot. Call
// Initialize before using it.
func NewPartitionedStore(dataRoot string) *PartitionedStore {
	return &PartitionedStore{dataRoot: dataRoot}
}

// Initialize creates the root and all partition directories. Safe to
// call repeatedly.
func (s *PartitionedStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for n := 0; n < NumPartitions; n++ {
		dir := s.partitionDir(n)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
	}
	return nil
}

func (s *PartitionedStore) partitionDir(n int) string {
	return filepath.Join(s.dataRoot, fmt.Sprintf("partition_%d", n))
}

func (s *PartitionedStore) pathFor(key string) string {
	n := shared.PartitionFor(key, NumPartitions)
	return filepath.Join(s.partitionDir(n), encodeKey(key)+".json")
}

// Save writes key/value as a full-file rewrite (no partial writes or
// append semantics). If a prior file exists its createdAt is carried
// forward and version is incremented; otherwise version starts at 1.
func (s *PartitionedStore) Save(key string, value json.RawMessage) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	now := shared.NowMillis()

	entry := Entry{
		Key:   key,
		Value: value,
		Metadata: Metadata{
			CreatedAt: now,
			UpdatedAt: now,
			Version:   1,
		},
	}

	if prior, err := readEntryFile(path); err == nil {
		entry.Metadata.CreatedAt = prior.Metadata.CreatedAt
		entry.Metadata.Version = prior.Metadata.Version + 1
	} else if err != ErrNotFound && err != ErrCorruptEntry {
		return Entry{}, err
	}

	if err := writeEntryFile(path, entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Load reads the file for key, if present. A missing file returns
// (Entry{}, false, nil); a parse failure returns ErrCorruptEntry.
func (s *PartitionedStore) Load(key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := readEntryFile(s.pathFor(key))
	if err == ErrNotFound {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Delete unlinks the file for key, if present, and reports whether
// anything was removed.
func (s *PartitionedStore) Delete(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.pathFor(key)
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return true, nil
}

// Exists reports whether key has a file on disk.
func (s *PartitionedStore) Exists(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.pathFor(key))
	return err == nil
}

// List enumerates every live entry's key across all partitions, keyed
// by the parsed file contents rather than the filename. Files that
// fail to parse are logged and skipped; they never fail the listing.
func (s *PartitionedStore) List() ([]string, error) {
	entries, err := s.GetAllEntries()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	return keys, nil
}

// GetAllEntries returns every live entry across all partitions. Used
// by backup and compact. Files that fail to parse are logged and
// skipped.
func (s *PartitionedStore) GetAllEntries() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var entries []Entry
	for n := 0; n < NumPartitions; n++ {
		dir := s.partitionDir(n)
		dirEntries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrIO, err)
		}

		for _, de := range dirEntries {
			if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
				continue
			}
			path := filepath.Join(dir, de.Name())
			entry, err := readEntryFile(path)
			if err != nil {
				logger.Logger().Warn().
					Str("path", path).
					Err(err).
					Msg("skipping unparseable store entry during scan")
				continue
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// Clear unlinks every .json file under every partition directory.
func (s *PartitionedStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for n := 0; n < NumPartitions; n++ {
		dir := s.partitionDir(n)
		dirEntries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("%w: %v", ErrIO, err)
		}
		for _, de := range dirEntries {
			if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
				continue
			}
			if err := os.Remove(filepath.Join(dir, de.Name())); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("%w: %v", ErrIO, err)
			}
		}
	}
	return nil
}

// Stats summarizes the store's on-disk footprint.
type Stats struct {
	TotalKeys  int
	TotalSize  int64
	Partitions int
	DataPath   string
}

// Stats computes totalKeys and totalSize (sum of serialized JSON
// lengths of live entries) by scanning every partition.
func (s *PartitionedStore) Stats() (Stats, error) {
	entries, err := s.GetAllEntries()
	if err != nil {
		return Stats{}, err
	}

	var totalSize int64
	for _, e := range entries {
		b, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			continue
		}
		totalSize += int64(len(b))
	}

	return Stats{
		TotalKeys:  len(entries),
		TotalSize:  totalSize,
		Partitions: NumPartitions,
		DataPath:   s.dataRoot,
	}, nil
}

func readEntryFile(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("%w: %v", ErrIO, err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, ErrCorruptEntry
	}
	return entry, nil
}

// writeEntryFile performs a full-file rewrite, pretty-printed with a
// 2-space indent. It writes to a sibling temp file and renames into
// place so a reader never observes a half-written file.
func writeEntryFile(path string, entry Entry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
