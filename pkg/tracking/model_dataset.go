package tracking

import (
	"context"
	"fmt"
)

// ModelDataset logs a model to the tracking service on save and pulls it
// back by model URI on load. With an explicit run ID it targets that run;
// otherwise it follows the client's active run.
type ModelDataset struct {
	client       Client
	flavor       Flavor
	workflow     Workflow
	runID        string
	artifactPath string
}

// ModelDatasetOption customizes a ModelDataset
type ModelDatasetOption func(*ModelDataset)

// WithRunID pins the dataset to a specific run
func WithRunID(runID string) ModelDatasetOption {
	return func(d *ModelDataset) {
		d.runID = runID
	}
}

// WithArtifactPath overrides the default "model" artifact path
func WithArtifactPath(artifactPath string) ModelDatasetOption {
	return func(d *ModelDataset) {
		d.artifactPath = artifactPath
	}
}

// WithWorkflow sets the pyfunc workflow
func WithWorkflow(workflow Workflow) ModelDatasetOption {
	return func(d *ModelDataset) {
		d.workflow = workflow
	}
}

// NewModelDataset validates the flavor and workflow at construction and
// never returns a partially-valid dataset
func NewModelDataset(client Client, flavor Flavor, opts ...ModelDatasetOption) (*ModelDataset, error) {
	d := &ModelDataset{
		client:       client,
		flavor:       flavor,
		artifactPath: "model",
	}

	for _, opt := range opts {
		opt(d)
	}

	if !ValidFlavor(flavor) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlavor, flavor)
	}

	if flavor == FlavorPyFunc && !ValidWorkflow(d.workflow) {
		return nil, fmt.Errorf("%w: got %q", ErrWorkflowRequired, d.workflow)
	}

	return d, nil
}

// ModelURI returns runs:/<run-id>/<artifact-path>, preferring the explicit
// run ID and falling back to the client's active run
func (d *ModelDataset) ModelURI() (string, error) {
	runID := d.runID
	if runID == "" {
		runID = d.client.ActiveRunID()
	}

	if runID == "" {
		return "", ErrNoActiveRun
	}

	return fmt.Sprintf("runs:/%s/%s", runID, d.artifactPath), nil
}

// Load implements the dataset contract, fetching the model by URI
func (d *ModelDataset) Load(ctx context.Context) (any, error) {
	uri, err := d.ModelURI()
	if err != nil {
		return nil, err
	}

	model, err := d.client.LoadModel(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", uri, err)
	}

	return model, nil
}

// Save implements the dataset contract, logging the model to the tracking
// service. Logging into an explicit run while a different run is active is
// refused: the tracking service only accepts logs for the open run.
func (d *ModelDataset) Save(ctx context.Context, data any) error {
	model, ok := data.(Model)
	if !ok {
		return fmt.Errorf("model dataset expects a tracking.Model, got %T", data)
	}

	model.Flavor = d.flavor

	if d.runID != "" {
		if active := d.client.ActiveRunID(); active != "" && active != d.runID {
			return fmt.Errorf("%w: run ID %s, active run %s", ErrRunConflict, d.runID, active)
		}
	}

	if err := d.client.LogModel(ctx, d.runID, d.artifactPath, model); err != nil {
		return fmt.Errorf("failed to log model: %w", err)
	}

	return nil
}

// Exists reports whether a model URI can currently be resolved
func (d *ModelDataset) Exists(_ context.Context) bool {
	_, err := d.ModelURI()

	return err == nil
}

// Describe returns the dataset parameters for logging and diagnostics
func (d *ModelDataset) Describe() map[string]any {
	return map[string]any{
		"flavor":        string(d.flavor),
		"workflow":      string(d.workflow),
		"run_id":        d.runID,
		"artifact_path": d.artifactPath,
	}
}
