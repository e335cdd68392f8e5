// Package vault is the engine's pluggable persistence layer: opaque
// blobs keyed by name, with an encrypting decorator so state at rest is
// never plaintext. A blob that cannot be read or decrypted reads as "no
// prior state".
package vault

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/shanilnc/night-mind/internal/apperr"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = apperr.NotFound("blob", "")

// Store is a minimal get/set/remove surface over opaque blobs. The
// backing medium (file, memory, embedded DB) is swappable without
// touching the engine.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

// MemoryStore keeps blobs in a map. Used in tests and as the fallback
// when no state path is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := make([]byte, len(value))
	copy(blob, value)
	s.blobs[key] = blob
	return nil
}

func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, key)
	return nil
}

// FileStore persists each blob as a file under a base directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperr.Persistence("mkdir", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".blob")
}

func (s *FileStore) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("read", err)
	}
	return data, nil
}

func (s *FileStore) Set(key string, value []byte) error {
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return apperr.Persistence("write", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		return apperr.Persistence("rename", err)
	}
	return nil
}

func (s *FileStore) Remove(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return apperr.Persistence("remove", err)
	}
	return nil
}
