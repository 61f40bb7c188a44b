package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pipetree/azureml/pkg/datasets"
	"github.com/pipetree/azureml/pkg/observability"
	"github.com/pipetree/azureml/pkg/pipeline"
	"github.com/pipetree/azureml/pkg/storage"
)

var (
	// ErrNodeFuncMissing is returned when a node has no registered function
	ErrNodeFuncMissing = errors.New("no function registered for node")
)

// NodeFunc executes one pipeline node in-process: it receives the loaded
// inputs keyed by dataset name and returns the outputs keyed the same way
type NodeFunc func(ctx context.Context, inputs map[string]any) (map[string]any, error)

// Local executes a pipeline in-process, in dependency order. Datasets
// declared in the catalog are used directly; every other edge goes through
// a run-scoped RunnerDataset, exactly as it would on Azure ML.
type Local struct {
	log     logrus.FieldLogger
	store   storage.Store
	catalog map[string]datasets.Dataset
	funcs   map[string]NodeFunc
}

// NewLocal creates a local runner. catalog may be nil when every edge is
// intermediate.
func NewLocal(log logrus.FieldLogger, store storage.Store, catalog map[string]datasets.Dataset, funcs map[string]NodeFunc) *Local {
	if catalog == nil {
		catalog = map[string]datasets.Dataset{}
	}

	return &Local{
		log:     log.WithField("component", "local-runner"),
		store:   store,
		catalog: catalog,
		funcs:   funcs,
	}
}

func (l *Local) dataset(name, runID string) datasets.Dataset {
	if ds, ok := l.catalog[name]; ok {
		return ds
	}

	return datasets.NewRunnerDataset(name, runID, l.store)
}

// Run executes the pipeline and returns its run ID
func (l *Local) Run(ctx context.Context, spec *pipeline.Spec) (string, error) {
	runID := uuid.New().String()

	graph, err := pipeline.NewGraph(spec)
	if err != nil {
		return runID, err
	}

	batches, err := graph.TopologicalBatches()
	if err != nil {
		return runID, err
	}

	log := l.log.WithFields(logrus.Fields{
		"pipeline": spec.Name,
		"run_id":   runID,
	})

	for _, batch := range batches {
		for _, name := range batch {
			if err := l.runNode(ctx, log, graph, name, runID); err != nil {
				observability.PipelineRunsTotal.WithLabelValues(spec.Name, "failed").Inc()
				return runID, err
			}
		}
	}

	observability.PipelineRunsTotal.WithLabelValues(spec.Name, "completed").Inc()

	return runID, nil
}

func (l *Local) runNode(ctx context.Context, log logrus.FieldLogger, graph *pipeline.Graph, name, runID string) error {
	node, err := graph.Node(name)
	if err != nil {
		return err
	}

	fn, ok := l.funcs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeFuncMissing, name)
	}

	inputs := make(map[string]any, len(node.Inputs))

	for _, input := range node.Inputs {
		value, loadErr := l.dataset(input, runID).Load(ctx)
		if loadErr != nil {
			return fmt.Errorf("failed to load input %s for node %s: %w", input, name, loadErr)
		}

		inputs[input] = value
	}

	log.WithField("node", name).Info("Running node")

	outputs, err := fn(ctx, inputs)
	if err != nil {
		return fmt.Errorf("node %s failed: %w", name, err)
	}

	for _, output := range node.Outputs {
		value, ok := outputs[output]
		if !ok {
			return fmt.Errorf("node %s did not produce declared output %s", name, output)
		}

		if saveErr := l.dataset(output, runID).Save(ctx, value); saveErr != nil {
			return fmt.Errorf("failed to save output %s of node %s: %w", output, name, saveErr)
		}
	}

	return nil
}
