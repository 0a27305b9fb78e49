// Package filesystem implements driven.BlobStore over a local directory
// tree. The root directory stands in for the storage account and its
// immediate subdirectories for containers. Used by the watch command and
// for local development without a storage account.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.BlobStore = (*Store)(nil)

// Store is a directory-backed blob store.
type Store struct {
	root string
}

// NewStore creates a store rooted at the given directory.
// The directory must already exist.
func NewStore(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}
	return &Store{root: root}, nil
}

// Root returns the root directory.
func (s *Store) Root() string {
	return s.root
}

// Download fetches the full contents of a blob.
func (s *Store) Download(_ context.Context, container, path string) ([]byte, error) {
	full, err := s.resolve(container, path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

// Upload writes a blob, creating parent directories as needed.
func (s *Store) Upload(_ context.Context, container, path string, data []byte) error {
	full, err := s.resolve(container, path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("create blob directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	return nil
}

// List returns blob paths in a container under the given prefix.
// Paths use forward slashes regardless of platform.
func (s *Store) List(_ context.Context, container, prefix string) ([]string, error) {
	containerDir, err := s.resolve(container, "")
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(containerDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(containerDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasPrefix(rel, prefix) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("walk container: %w", err)
	}

	sort.Strings(paths)
	return paths, nil
}

// Close releases resources. It is a no-op for the filesystem store.
func (s *Store) Close() error {
	return nil
}

// resolve joins container and path under the root, rejecting escapes.
func (s *Store) resolve(container, path string) (string, error) {
	if container == "" {
		return "", domain.ErrInvalidInput
	}
	full := filepath.Join(s.root, container, filepath.FromSlash(path))

	// A joined path outside the root means traversal in the input
	rel, err := filepath.Rel(s.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", domain.ErrInvalidInput
	}
	return full, nil
}
