// Package datasets implements the dataset adapters pipeline nodes load
// from and save to: catalog-wrapped datasets with rewritten paths, folder
// staging against blob storage, and run-scoped intermediate data exchange.
package datasets

import (
	"context"
	"errors"
	"time"

	"github.com/pipetree/azureml/pkg/observability"
)

var (
	// ErrVersionedNotSupported is returned when a wrapped dataset definition enables versioning
	ErrVersionedNotSupported = errors.New("versioning of the underlying dataset is not supported")
	// ErrFilepathRequired is returned when a dataset definition has no filepath
	ErrFilepathRequired = errors.New("dataset filepath is required")
	// ErrTypeMismatch is returned when Save receives a value of an unexpected type
	ErrTypeMismatch = errors.New("unexpected data type")
)

// Dataset is the catalog contract pipeline nodes interact with
type Dataset interface {
	// Load reads and returns the stored data
	Load(ctx context.Context) (any, error)

	// Save persists the given data
	Save(ctx context.Context, data any) error

	// Exists reports whether the dataset has been saved
	Exists(ctx context.Context) bool

	// Describe returns the dataset parameters for logging and diagnostics
	Describe() map[string]any
}

// observeOp records metrics for one dataset load/save
func observeOp(name, op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failed"
	}

	observability.DatasetOpsTotal.WithLabelValues(name, op, status).Inc()
	observability.DatasetOpDuration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
}
