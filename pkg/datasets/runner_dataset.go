package datasets

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/pipetree/azureml/pkg/config"
	"github.com/pipetree/azureml/pkg/storage"
)

// RunnerDataset exchanges intermediate data between pipeline nodes through
// temporary blob storage, namespaced by run ID. It backs any dataset not
// declared in the catalog directly. Values are gob-encoded; callers must
// gob.Register concrete types that flow through interface-typed edges.
type RunnerDataset struct {
	name  string
	runID string
	store storage.Store
}

// NewRunnerDataset creates an intermediate dataset for one named edge of a run
func NewRunnerDataset(name, runID string, store storage.Store) *RunnerDataset {
	return &RunnerDataset{
		name:  name,
		runID: runID,
		store: store,
	}
}

// NewRunnerDatasetFromEnv builds the dataset from the runner context the
// driver injected into the node environment
func NewRunnerDatasetFromEnv(name, encoded string, store storage.Store) (*RunnerDataset, error) {
	runnerCfg, err := config.DecodeRunnerConfig(encoded)
	if err != nil {
		return nil, err
	}

	return NewRunnerDataset(name, runnerCfg.RunID, store), nil
}

func (d *RunnerDataset) blobPath() string {
	return storage.TempPath(d.runID, d.name)
}

// Load implements Dataset
func (d *RunnerDataset) Load(ctx context.Context) (data any, err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "load", start, err) }()

	raw, err := d.store.Download(ctx, d.blobPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load intermediate dataset %s: %w", d.name, err)
	}

	var value any
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&value); err != nil {
		return nil, fmt.Errorf("failed to decode intermediate dataset %s: %w", d.name, err)
	}

	return value, nil
}

// Save implements Dataset
func (d *RunnerDataset) Save(ctx context.Context, data any) (err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "save", start, err) }()

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&data); err != nil {
		return fmt.Errorf("failed to encode intermediate dataset %s: %w", d.name, err)
	}

	if err := d.store.Upload(ctx, d.blobPath(), buf.Bytes()); err != nil {
		return fmt.Errorf("failed to save intermediate dataset %s: %w", d.name, err)
	}

	return nil
}

// Exists implements Dataset
func (d *RunnerDataset) Exists(ctx context.Context) bool {
	exists, err := d.store.Exists(ctx, d.blobPath())

	return err == nil && exists
}

// Describe implements Dataset
func (d *RunnerDataset) Describe() map[string]any {
	return map[string]any{
		"name":   d.name,
		"run_id": d.runID,
		"path":   d.blobPath(),
	}
}
