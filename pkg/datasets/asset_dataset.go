package datasets

import (
	"context"
	"fmt"
	"time"

	"github.com/pipetree/azureml/pkg/azureml"
)

// AssetDataset reads and writes a registered Azure ML data asset, staged
// through a local directory. Load pins a specific version when one is
// configured; Save always registers a new version.
type AssetDataset struct {
	name      string
	client    azureml.DatastoreClient
	asset     string
	version   string
	localDir  string
	lastSaved string
}

// NewAssetDataset creates a dataset bound to a named data asset. An empty
// version means "latest" and is resolved by the datastore client.
func NewAssetDataset(name string, client azureml.DatastoreClient, asset, version, localDir string) *AssetDataset {
	return &AssetDataset{
		name:     name,
		client:   client,
		asset:    asset,
		version:  version,
		localDir: localDir,
	}
}

// Load implements Dataset. It returns the local directory the asset was
// downloaded into.
func (d *AssetDataset) Load(ctx context.Context) (data any, err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "load", start, err) }()

	if err := d.client.DownloadAsset(ctx, d.asset, d.version, d.localDir); err != nil {
		return nil, fmt.Errorf("failed to download asset %s: %w", d.asset, err)
	}

	return d.localDir, nil
}

// Save implements Dataset. Data may be a directory path; nil saves the
// dataset's own local directory.
func (d *AssetDataset) Save(ctx context.Context, data any) (err error) {
	start := time.Now()
	defer func() { observeOp(d.name, "save", start, err) }()

	dir := d.localDir

	if data != nil {
		provided, ok := data.(string)
		if !ok {
			return fmt.Errorf("%w: asset dataset %s expects a directory path, got %T", ErrTypeMismatch, d.name, data)
		}

		dir = provided
	}

	version, err := d.client.UploadAsset(ctx, d.asset, dir)
	if err != nil {
		return fmt.Errorf("failed to upload asset %s: %w", d.asset, err)
	}

	d.lastSaved = version

	return nil
}

// Exists implements Dataset. Registered assets are looked up at load time;
// existence here means "a version has been saved or pinned".
func (d *AssetDataset) Exists(_ context.Context) bool {
	return d.version != "" || d.lastSaved != ""
}

// Describe implements Dataset
func (d *AssetDataset) Describe() map[string]any {
	return map[string]any{
		"name":      d.name,
		"asset":     d.asset,
		"version":   d.version,
		"local_dir": d.localDir,
	}
}
