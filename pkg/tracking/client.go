// Package tracking integrates pipeline runs with an MLflow-style
// experiment tracking service: models are logged to runs on save and
// pulled back by model URI on load. The tracking server protocol and
// model serialization formats live behind the Client interface.
package tracking

import (
	"context"
	"errors"
)

var (
	// ErrUnknownFlavor is returned when a model dataset names a flavor that is not registered
	ErrUnknownFlavor = errors.New("unknown model flavor")
	// ErrWorkflowRequired is returned when a pyfunc model dataset has no valid workflow
	ErrWorkflowRequired = errors.New("pyfunc models require a workflow of either python_model or loader_module")
	// ErrNoActiveRun is returned when no run ID is configured and no run is active
	ErrNoActiveRun = errors.New("no run ID configured and no active run to retrieve data from")
	// ErrRunConflict is returned when an explicit run ID clashes with the active run
	ErrRunConflict = errors.New("run ID cannot be specified while a different run is active")
)

// Model is an opaque logged model: the flavor it was logged under and the
// serialized payload the tracking service stored
type Model struct {
	Flavor  Flavor
	Payload []byte
}

// Client is the subset of the tracking service API the model dataset uses
type Client interface {
	// ActiveRunID returns the run the current process is logging to, or
	// empty when no run is active
	ActiveRunID() string

	// LogModel logs a model under artifactPath in the given run. An empty
	// runID targets the active run, starting one if needed.
	LogModel(ctx context.Context, runID, artifactPath string, model Model) error

	// LoadModel fetches a model by its URI (runs:/<run-id>/<artifact-path>)
	LoadModel(ctx context.Context, modelURI string) (Model, error)
}
