// Package storage defines the blob storage contract used to stage
// temporary pipeline data between nodes, plus in-memory and filesystem
// implementations for local execution and tests. Cloud-backed stores are
// supplied by the caller through the same interface.
package storage

import (
	"context"
	"errors"
	"path"
)

var (
	// ErrNotFound is returned when a blob does not exist
	ErrNotFound = errors.New("blob not found")
)

// Store is the minimal blob surface the dataset adapters need
type Store interface {
	// Upload writes data under the given path, overwriting any existing blob
	Upload(ctx context.Context, blobPath string, data []byte) error

	// Download reads the blob at the given path
	Download(ctx context.Context, blobPath string) ([]byte, error)

	// Exists reports whether a blob exists at the given path
	Exists(ctx context.Context, blobPath string) (bool, error)

	// List returns the paths of all blobs under the given prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the blob at the given path; deleting a missing blob is not an error
	Delete(ctx context.Context, blobPath string) error
}

// tempRoot is the container-relative prefix for temporary run data. Pair
// it with a lifecycle management rule on the container to bound costs.
const tempRoot = "azureml-temp"

// TempPath returns the blob path for one intermediate dataset of a run
func TempPath(runID, datasetName string) string {
	return path.Join(tempRoot, runID, datasetName+".bin")
}

// TempPrefix returns the blob prefix holding all intermediate data of a run
func TempPrefix(runID string) string {
	return path.Join(tempRoot, runID)
}
