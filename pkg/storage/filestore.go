package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Collection names the durable record sets managed by the store.
type Collection string

const (
	CollectionAccounts     Collection = "accounts"
	CollectionPostings     Collection = "postings"
	CollectionApplications Collection = "applications"
)

// FileStore persists whole collections as JSON documents under a base
// directory. There are no partial updates: callers load the full collection,
// mutate it in memory, and save the full collection back.
type FileStore struct {
	baseDir  string
	observer WriteObserver
}

// WriteObserver is notified after each Save attempt, successful or not.
type WriteObserver func(name string, err error, duration time.Duration)

// SetWriteObserver installs an observer for Save calls. Must be set before
// the store is shared across goroutines.
func (s *FileStore) SetWriteObserver(fn WriteObserver) {
	s.observer = fn
}

// NewFileStore ensures the data directory exists and returns a handle.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Load decodes the named collection into out. A missing file is not an error;
// out is left untouched so the caller starts with an empty collection.
func (s *FileStore) Load(name Collection, out interface{}) error {
	raw, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read collection %s: %w", name, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode collection %s: %w", name, err)
	}
	return nil
}

// Save writes the full collection to disk, replacing the previous contents.
// The write goes to a temp file first and is renamed into place so readers
// never observe a half-written document.
func (s *FileStore) Save(name Collection, records interface{}) error {
	start := time.Now()
	err := s.save(name, records)
	if s.observer != nil {
		s.observer(string(name), err, time.Since(start))
	}
	return err
}

func (s *FileStore) save(name Collection, records interface{}) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", name, err)
	}

	path := s.path(name)
	tmp, err := os.CreateTemp(s.baseDir, string(name)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write collection %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close collection %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace collection %s: %w", name, err)
	}
	return nil
}

// Path exposes the on-disk location for a collection (useful for debugging).
func (s *FileStore) Path(name Collection) string {
	return s.path(name)
}

func (s *FileStore) path(name Collection) string {
	return filepath.Join(s.baseDir, string(name)+".json")
}
