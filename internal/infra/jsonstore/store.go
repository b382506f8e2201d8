// Package jsonstore provides a JSON file-based implementation of StateStore.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/runoshun/yard-dispatch/internal/domain"
)

// schemaVersion is written to every state file.
const schemaVersion = 1

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Yard *domain.Snapshot `json:"yard"`
	Meta meta             `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	Updated time.Time `json:"updated"`
	Version int       `json:"version"`
}

// Store implements domain.StateStore using a JSON file guarded by flock.
type Store struct {
	now      func() time.Time
	path     string
	lockPath string
}

// Ensure Store implements StateStore.
var _ domain.StateStore = (*Store)(nil)

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string) *Store {
	return &Store{
		now:      time.Now,
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize writes the first snapshot.
// Returns ErrAlreadyInitialized if the state file exists.
func (s *Store) Initialize(snap *domain.Snapshot) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	if s.IsInitialized() {
		return domain.ErrAlreadyInitialized
	}
	return s.write(&storeData{Yard: snap})
}

// Load reads the current snapshot under a shared lock.
func (s *Store) Load() (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.withLock(func(data *storeData) error {
		snap = data.Yard
		return nil
	})
	return snap, err
}

// Update applies fn to the current snapshot under an exclusive lock and writes
// the snapshot it returns. Nothing is written if fn fails.
func (s *Store) Update(fn func(*domain.Snapshot) (*domain.Snapshot, error)) error {
	return s.withLockWrite(func(data *storeData) error {
		next, err := fn(data.Yard)
		if err != nil {
			return err
		}
		if next == nil {
			return fmt.Errorf("update returned no snapshot")
		}
		data.Yard = next
		return nil
	})
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
func (s *Store) withLockWrite(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse state file: %w", err)
	}
	if data.Meta.Version > schemaVersion {
		return nil, fmt.Errorf("state file version %d is newer than supported version %d", data.Meta.Version, schemaVersion)
	}
	if data.Yard == nil {
		data.Yard = domain.NewSnapshot(domain.DefaultGrid)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	data.Meta.Version = schemaVersion
	data.Meta.Updated = s.now()
	if data.Yard != nil {
		data.Yard.Saved = data.Meta.Updated
	}

	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
