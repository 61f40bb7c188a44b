package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store used for local pipeline runs and tests
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string][]byte),
	}
}

// Upload implements Store
func (s *MemoryStore) Upload(_ context.Context, blobPath string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.blobs[blobPath] = buf

	return nil
}

// Download implements Store
func (s *MemoryStore) Download(_ context.Context, blobPath string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[blobPath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, blobPath)
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	return buf, nil
}

// Exists implements Store
func (s *MemoryStore) Exists(_ context.Context, blobPath string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.blobs[blobPath]

	return ok, nil
}

// List implements Store
func (s *MemoryStore) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string

	for blobPath := range s.blobs {
		if strings.HasPrefix(blobPath, prefix) {
			paths = append(paths, blobPath)
		}
	}

	sort.Strings(paths)

	return paths, nil
}

// Delete implements Store
func (s *MemoryStore) Delete(_ context.Context, blobPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, blobPath)

	return nil
}
