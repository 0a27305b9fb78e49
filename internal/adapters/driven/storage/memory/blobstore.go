// Package memory provides in-memory adapter implementations used in
// tests and as fallbacks.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore is an in-memory implementation of driven.BlobStore.
// Blobs are keyed by container and path.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[string]map[string][]byte
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs: make(map[string]map[string][]byte),
	}
}

// Download fetches the full contents of a blob.
func (s *BlobStore) Download(_ context.Context, container, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.blobs[container]
	if !ok {
		return nil, domain.ErrNotFound
	}
	data, ok := c[path]
	if !ok {
		return nil, domain.ErrNotFound
	}

	// Return a copy so callers cannot mutate stored bytes
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Upload writes a blob, overwriting any existing one.
func (s *BlobStore) Upload(_ context.Context, container, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.blobs[container]
	if !ok {
		c = make(map[string][]byte)
		s.blobs[container] = c
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	c[path] = stored
	return nil
}

// List returns blob paths in a container under the given prefix.
func (s *BlobStore) List(_ context.Context, container, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.blobs[container]
	if !ok {
		return nil, nil
	}

	var paths []string
	for path := range c {
		if strings.HasPrefix(path, prefix) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Close releases resources. It is a no-op for the in-memory store.
func (s *BlobStore) Close() error {
	return nil
}
