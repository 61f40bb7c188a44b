package datasets

import (
	"context"
	"fmt"
	"path"
	"time"
)

// Definition mirrors one catalog entry for a wrapped dataset
type Definition struct {
	Type      string `yaml:"type"`
	Filepath  string `yaml:"filepath"`
	Versioned bool   `yaml:"versioned,omitempty"`
}

// Factory constructs the underlying dataset for a rewritten filepath
type Factory func(filepath string) (Dataset, error)

// PipelineDataset wraps an underlying dataset and rewrites its filepath
// under a staging root, so that the same catalog entry works both locally
// and inside an Azure ML job where the root is a mounted path.
type PipelineDataset struct {
	name       string
	def        Definition
	filepath   string
	underlying Dataset
}

// NewPipelineDataset validates the definition and constructs the wrapped
// dataset with its filepath rooted at root. Versioned definitions are
// rejected: versioning is owned by Azure ML, not the underlying dataset.
func NewPipelineDataset(name string, def Definition, root string, factory Factory) (*PipelineDataset, error) {
	if def.Versioned {
		return nil, fmt.Errorf("%w: %s", ErrVersionedNotSupported, name)
	}

	if def.Filepath == "" {
		return nil, fmt.Errorf("%w: %s", ErrFilepathRequired, name)
	}

	filepath := path.Join(root, def.Filepath)

	underlying, err := factory(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to construct underlying dataset for %s: %w", name, err)
	}

	return &PipelineDataset{
		name:       name,
		def:        def,
		filepath:   filepath,
		underlying: underlying,
	}, nil
}

// Path returns the rewritten filepath of the underlying dataset
func (d *PipelineDataset) Path() string {
	return d.filepath
}

// Load implements Dataset
func (d *PipelineDataset) Load(ctx context.Context) (data any, err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "load", start, err) }()

	return d.underlying.Load(ctx)
}

// Save implements Dataset
func (d *PipelineDataset) Save(ctx context.Context, data any) (err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "save", start, err) }()

	return d.underlying.Save(ctx, data)
}

// Exists implements Dataset
func (d *PipelineDataset) Exists(ctx context.Context) bool {
	return d.underlying.Exists(ctx)
}

// Describe implements Dataset
func (d *PipelineDataset) Describe() map[string]any {
	return map[string]any{
		"name":     d.name,
		"type":     d.def.Type,
		"filepath": d.filepath,
	}
}
