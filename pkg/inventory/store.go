package inventory

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store owns the active dataset handle. Readers take a consistent snapshot
// via Active; writers build the replacement fully aside, validate it, then
// swap the pointer under the write lock. A separate load mutex serializes
// writers so two loads never race on the swap or the on-disk source.
type Store struct {
	mu     sync.RWMutex
	active *Dataset

	loadMu     sync.Mutex
	path       string
	keepBackup bool
	csvFormat  FormatSpec
}

// NewStore creates a store whose serving copy of the source lives at path.
func NewStore(path string, keepBackup bool, csvFormat FormatSpec) *Store {
	return &Store{
		path:       path,
		keepBackup: keepBackup,
		csvFormat:  csvFormat,
	}
}

// Active returns the dataset currently in service, or ErrNotLoaded if no
// load has ever succeeded.
func (s *Store) Active() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, ErrNotLoaded
	}
	return s.active, nil
}

// Replace atomically swaps the active dataset. In-flight readers keep the
// snapshot they already hold.
func (s *Store) Replace(ds *Dataset) {
	s.mu.Lock()
	s.active = ds
	s.mu.Unlock()
}

// LoadFile parses the configured source file and swaps it into service. On
// any parse or validation error the previously active dataset keeps serving.
func (s *Store) LoadFile() (*Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	ds, err := s.parseFile(s.path)
	if err != nil {
		return nil, err
	}
	s.Replace(ds)
	return ds, nil
}

// parseFile reads one source from disk. A sibling .gob snapshot (written by
// `server load`) takes priority over re-parsing the source; a corrupt
// snapshot falls back to the source itself.
func (s *Store) parseFile(path string) (*Dataset, error) {
	if snap := path + ".gob"; fileExists(snap) {
		ds, err := LoadSnapshot(snap)
		if err == nil {
			return ds, nil
		}
		slog.Warn("snapshot unreadable, re-parsing source", "snapshot", snap, "error", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return ParseXLSX(f, filepath.Base(path))
	case ".csv":
		return ParseCSV(f, s.csvFormat, filepath.Base(path))
	default:
		return nil, &UnreadableSourceError{Err: fmt.Errorf("unsupported source extension %q", ext)}
	}
}

// ReplaceFromUpload validates uploaded spreadsheet bytes and, only on
// success, persists them as the new serving copy and swaps the in-memory
// dataset. A failed validation leaves both the file and the active dataset
// untouched.
func (s *Store) ReplaceFromUpload(name string, data []byte) (*Dataset, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return nil, ErrNotSpreadsheet
	}

	ds, err := ParseXLSX(bytes.NewReader(data), name)
	if err != nil {
		return nil, err
	}

	if s.path != "" {
		if s.keepBackup && fileExists(s.path) {
			if err := os.Rename(s.path, s.path+".bak"); err != nil {
				return nil, fmt.Errorf("back up previous source: %w", err)
			}
		}
		if err := os.WriteFile(s.path, data, 0o644); err != nil {
			return nil, fmt.Errorf("persist new source: %w", err)
		}
		// A stale snapshot would shadow the new source on the next restart.
		os.Remove(s.path + ".gob")
	}

	s.Replace(ds)
	return ds, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
