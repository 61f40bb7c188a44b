package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilesystemStore is a Store backed by a local directory. It mirrors the
// blob path layout on disk so that local runs can be inspected directly.
type FilesystemStore struct {
	root string
}

// NewFilesystemStore creates a store rooted at the given directory
func NewFilesystemStore(root string) *FilesystemStore {
	return &FilesystemStore{root: root}
}

func (s *FilesystemStore) localPath(blobPath string) string {
	return filepath.Join(s.root, filepath.FromSlash(blobPath))
}

// Upload implements Store
func (s *FilesystemStore) Upload(_ context.Context, blobPath string, data []byte) error {
	target := s.localPath(blobPath)

	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	if err := os.WriteFile(target, data, 0o600); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return nil
}

// Download implements Store
func (s *FilesystemStore) Download(_ context.Context, blobPath string) ([]byte, error) {
	data, err := os.ReadFile(s.localPath(blobPath)) //nolint:gosec // Path rooted at the store directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, blobPath)
		}

		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return data, nil
}

// Exists implements Store
func (s *FilesystemStore) Exists(_ context.Context, blobPath string) (bool, error) {
	_, err := os.Stat(s.localPath(blobPath))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// List implements Store
func (s *FilesystemStore) List(_ context.Context, prefix string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}

			return err
		}

		if d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(s.root, p)
		if relErr != nil {
			return relErr
		}

		blobPath := filepath.ToSlash(rel)
		if strings.HasPrefix(blobPath, prefix) {
			paths = append(paths, blobPath)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	sort.Strings(paths)

	return paths, nil
}

// Delete implements Store
func (s *FilesystemStore) Delete(_ context.Context, blobPath string) error {
	err := os.Remove(s.localPath(blobPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}
