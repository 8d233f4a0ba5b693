package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Dataset is one named event log held by the store.
type Dataset struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	LoadedAt time.Time `json:"loadedAt"`
	Rows     EventLog  `json:"-"`
}

// DatasetInfo is the row-free listing view of a dataset.
type DatasetInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	RowCount int       `json:"rowCount"`
	Cases    int       `json:"cases"`
	LoadedAt time.Time `json:"loadedAt"`
}

// LogStore provides thread-safe storage for normalized event logs, keyed by
// dataset id. It is the explicit cache collaborator of the analytical core:
// handlers fetch a log from it and pass the copy into the engines, so the
// core itself never assumes an ambient cache.
type LogStore struct {
	mu       sync.RWMutex
	datasets map[string]Dataset
}

// NewLogStore creates a new empty LogStore.
func NewLogStore() *LogStore {
	return &LogStore{
		datasets: make(map[string]Dataset),
	}
}

// Put stores a copy of the given rows under a fresh dataset id and returns
// the listing view of the new dataset.
func (s *LogStore) Put(name string, rows EventLog) DatasetInfo {
	ds := Dataset{
		ID:       uuid.NewString(),
		Name:     name,
		LoadedAt: time.Now().UTC(),
		Rows:     rows.Copy(),
	}

	s.mu.Lock()
	s.datasets[ds.ID] = ds
	s.mu.Unlock()

	log.Info().Str("dataset", ds.ID).Str("name", name).Int("rows", len(rows)).Msg("Dataset stored")
	return info(ds)
}

// Get returns a copy of the dataset. Mutating the returned rows never
// affects the stored log.
func (s *LogStore) Get(id string) (Dataset, bool) {
	s.mu.RLock()
	ds, ok := s.datasets[id]
	s.mu.RUnlock()
	if !ok {
		return Dataset{}, false
	}
	ds.Rows = ds.Rows.Copy()
	return ds, true
}

// List returns the stored datasets sorted by load time, then name.
func (s *LogStore) List() []DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DatasetInfo, 0, len(s.datasets))
	for _, ds := range s.datasets {
		out = append(out, info(ds))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].LoadedAt.Equal(out[j].LoadedAt) {
			return out[i].LoadedAt.Before(out[j].LoadedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Delete removes a dataset from the store. It does not touch the cache dir;
// use DeleteCache for that.
func (s *LogStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.datasets[id]; !ok {
		return false
	}
	delete(s.datasets, id)
	return true
}

// Save persists a dataset to the cache directory as a JSONL row file plus a
// small meta JSON, both written via temp file and atomic rename.
func (s *LogStore) Save(cacheDir, id string) error {
	s.mu.RLock()
	ds, ok := s.datasets[id]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown dataset %q", id)
	}

	rowsPath := filepath.Join(cacheDir, fmt.Sprintf("%s.jsonl", ds.ID))
	if err := writeAtomic(rowsPath, func(enc *json.Encoder) error {
		// Sorted rows keep the cache file stable for identical datasets.
		for _, r := range ds.Rows.SortedCopy() {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to write dataset rows: %w", err)
	}

	metaPath := filepath.Join(cacheDir, fmt.Sprintf("%s.meta.json", ds.ID))
	if err := writeAtomic(metaPath, func(enc *json.Encoder) error {
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	}); err != nil {
		return fmt.Errorf("failed to write dataset meta: %w", err)
	}

	log.Info().Str("dataset", ds.ID).Int("rows", len(ds.Rows)).Msg("Dataset saved to cache")
	return nil
}

// Load reads one dataset back from the cache directory. A missing cache file
// is not an error; malformed lines are skipped with a warning.
func (s *LogStore) Load(cacheDir, id string) error {
	metaPath := filepath.Join(cacheDir, fmt.Sprintf("%s.meta.json", id))
	metaRaw, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read dataset meta: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(metaRaw, &ds); err != nil {
		return fmt.Errorf("failed to parse dataset meta: %w", err)
	}

	rowsPath := filepath.Join(cacheDir, fmt.Sprintf("%s.jsonl", id))
	file, err := os.Open(rowsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open dataset rows: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var r EventRow
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			log.Warn().Err(err).Str("dataset", id).Msg("Skipping invalid JSON line in cache")
			continue
		}
		ds.Rows = append(ds.Rows, r)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading dataset rows: %w", err)
	}

	s.mu.Lock()
	s.datasets[ds.ID] = ds
	s.mu.Unlock()

	log.Info().Str("dataset", ds.ID).Str("name", ds.Name).Int("rows", len(ds.Rows)).Msg("Dataset loaded from cache")
	return nil
}

// LoadAll hydrates the store with every dataset found in the cache directory.
func (s *LogStore) LoadAll(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".meta.json") {
			continue
		}
		id := strings.TrimSuffix(name, ".meta.json")
		if err := s.Load(cacheDir, id); err != nil {
			log.Warn().Err(err).Str("dataset", id).Msg("Failed to load cached dataset")
		}
	}
	return nil
}

// DeleteCache removes a dataset's cache files.
func DeleteCache(cacheDir, id string) error {
	var firstErr error
	for _, suffix := range []string{".jsonl", ".meta.json"} {
		path := filepath.Join(cacheDir, id+suffix)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func info(ds Dataset) DatasetInfo {
	return DatasetInfo{
		ID:       ds.ID,
		Name:     ds.Name,
		RowCount: len(ds.Rows),
		Cases:    len(ds.Rows.CaseIDs()),
		LoadedAt: ds.LoadedAt,
	}
}

func writeAtomic(path string, write func(*json.Encoder) error) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	writer := bufio.NewWriter(file)
	if err := write(json.NewEncoder(writer)); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
