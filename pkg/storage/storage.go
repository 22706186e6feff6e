// Package storage persists types.ExecutionRecord to disk: one JSON
// file per execution, written atomically (tmp file + rename) so a
// concurrent reader never observes a half-written record — the
// "atomic, latest-only" contract spec.md assigns the execution store.
//
// Grounded on the teacher's in-memory execution store: a mutex
// serialises access, and each record lives in its own file instead
// of a map entry so records survive a process restart (workflow CRUD
// storage, the rest of the teacher's Store interface, is out of scope
// here).
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/webauto/engine/pkg/types"
)

// ExecutionStore persists execution records.
type ExecutionStore interface {
	Save(record types.ExecutionRecord) error
	Load(executionID string) (*types.ExecutionRecord, error)
	List() ([]types.ExecutionRecord, error)
	Delete(executionID string) error
}

// FileStore is an ExecutionStore backed by one JSON file per
// execution under dir. Writes go to a temp file in the same
// directory, then os.Rename into place — on any POSIX filesystem a
// rename is atomic, so a reader either sees the old file or the fully
// written new one, never a partial write.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates dir if it doesn't already exist and returns a
// FileStore rooted there.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) pathFor(executionID string) string {
	return filepath.Join(s.dir, executionID+".json")
}

// Save writes record, overwriting any prior record for the same
// execution ID. Safe to call repeatedly as an execution progresses —
// the store is "latest wins", not append-only.
func (s *FileStore) Save(record types.ExecutionRecord) error {
	if record.ExecutionID == "" {
		return ErrMissingExecutionID
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeFailed, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+record.ExecutionID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := os.Rename(tmpPath, s.pathFor(record.ExecutionID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Load retrieves the execution record by ID.
func (s *FileStore) Load(executionID string) (*types.ExecutionRecord, error) {
	if executionID == "" {
		return nil, ErrMissingExecutionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.pathFor(executionID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrExecutionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var record types.ExecutionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	return &record, nil
}

// List returns every persisted execution record. Order is
// unspecified — callers that need a particular order should sort by
// StartedAt themselves.
func (s *FileStore) List() ([]types.ExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	records := make([]types.ExecutionRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var record types.ExecutionRecord
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Delete removes the execution record by ID. Deleting a record that
// doesn't exist is not an error.
func (s *FileStore) Delete(executionID string) error {
	if executionID == "" {
		return ErrMissingExecutionID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.pathFor(executionID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
