package datasets

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/pipetree/azureml/pkg/storage"
)

// FolderDataset stages a local directory against a blob storage prefix.
// Load downloads every blob under the prefix into the local directory and
// returns the directory path; Save walks the local directory (or the
// directory passed as data) and uploads each file.
type FolderDataset struct {
	name         string
	store        storage.Store
	remotePrefix string
	localDir     string
}

// NewFolderDataset creates a folder dataset staged at localDir
func NewFolderDataset(name string, store storage.Store, remotePrefix, localDir string) *FolderDataset {
	return &FolderDataset{
		name:         name,
		store:        store,
		remotePrefix: strings.TrimSuffix(remotePrefix, "/") + "/",
		localDir:     localDir,
	}
}

// Load implements Dataset. It returns the local directory path after
// downloading the remote contents into it.
func (d *FolderDataset) Load(ctx context.Context) (data any, err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "load", start, err) }()

	blobs, err := d.store.List(ctx, d.remotePrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.remotePrefix, err)
	}

	for _, blobPath := range blobs {
		content, downloadErr := d.store.Download(ctx, blobPath)
		if downloadErr != nil {
			return nil, downloadErr
		}

		rel := strings.TrimPrefix(blobPath, d.remotePrefix)
		target := filepath.Join(d.localDir, filepath.FromSlash(rel))

		if mkErr := os.MkdirAll(filepath.Dir(target), 0o750); mkErr != nil {
			return nil, fmt.Errorf("failed to create staging directory: %w", mkErr)
		}

		if writeErr := os.WriteFile(target, content, 0o600); writeErr != nil {
			return nil, fmt.Errorf("failed to stage %s: %w", blobPath, writeErr)
		}
	}

	return d.localDir, nil
}

// Save implements Dataset. Data may be a directory path; nil saves the
// dataset's own local directory.
func (d *FolderDataset) Save(ctx context.Context, data any) (err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "save", start, err) }()

	dir := d.localDir

	if data != nil {
		provided, ok := data.(string)
		if !ok {
			return fmt.Errorf("%w: folder dataset %s expects a directory path, got %T", ErrTypeMismatch, d.name, data)
		}

		dir = provided
	}

	return filepath.WalkDir(dir, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if entry.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return relErr
		}

		content, readErr := os.ReadFile(p) //nolint:gosec // Path produced by walking the staging dir
		if readErr != nil {
			return readErr
		}

		return d.store.Upload(ctx, path.Join(d.remotePrefix, filepath.ToSlash(rel)), content)
	})
}

// Exists implements Dataset
func (d *FolderDataset) Exists(ctx context.Context) bool {
	blobs, err := d.store.List(ctx, d.remotePrefix)

	return err == nil && len(blobs) > 0
}

// Describe implements Dataset
func (d *FolderDataset) Describe() map[string]any {
	return map[string]any{
		"name":          d.name,
		"remote_prefix": d.remotePrefix,
		"local_dir":     d.localDir,
	}
}
