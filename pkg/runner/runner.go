// Package runner executes pipeline specs: it resolves each node's compute
// target through the configuration's resource table, translates nodes into
// Azure ML command jobs, and submits them wave by wave in dependency order.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/pipetree/azureml/pkg/azureml"
	"github.com/pipetree/azureml/pkg/config"
	"github.com/pipetree/azureml/pkg/observability"
	"github.com/pipetree/azureml/pkg/pipeline"
)

var (
	// ErrJobFailed is returned when a submitted job finishes in a non-successful state
	ErrJobFailed = errors.New("job finished in a non-successful state")
)

// submitRate bounds job submissions to stay under the workspace API quota
const (
	submitRate  = rate.Limit(4)
	submitBurst = 1
)

// Runner submits pipelines to Azure ML
type Runner struct {
	log     logrus.FieldLogger
	cfg     *config.Config
	jobs    azureml.JobsClient
	limiter *rate.Limiter
}

// New creates a runner for the given workspace configuration
func New(log logrus.FieldLogger, cfg *config.Config, jobs azureml.JobsClient) *Runner {
	if cfg.MetricsAddr != "" {
		observability.StartMetricsServer(log, cfg.MetricsAddr)
	}

	return &Runner{
		log:     log.WithField("component", "runner"),
		cfg:     cfg,
		jobs:    jobs,
		limiter: rate.NewLimiter(submitRate, submitBurst),
	}
}

// PlannedJob is one node of the execution plan with its resolved compute target
type PlannedJob struct {
	Node    string
	Wave    int
	Cluster string
	Image   string
}

// Plan resolves the execution order and compute targets without submitting
// anything. Used by dry runs.
func (r *Runner) Plan(spec *pipeline.Spec) ([]PlannedJob, error) {
	graph, err := pipeline.NewGraph(spec)
	if err != nil {
		return nil, err
	}

	batches, err := graph.TopologicalBatches()
	if err != nil {
		return nil, err
	}

	var plan []PlannedJob

	for wave, batch := range batches {
		for _, name := range batch {
			node, nodeErr := graph.Node(name)
			if nodeErr != nil {
				return nil, nodeErr
			}

			resolved := r.cfg.Azure.Resources.Resolve(node.RoleKey())

			plan = append(plan, PlannedJob{
				Node:    name,
				Wave:    wave,
				Cluster: resolved.ClusterName,
				Image:   r.cfg.Docker.Image,
			})
		}
	}

	return plan, nil
}

// Run submits the pipeline and blocks until every job reaches a terminal
// state. It returns the run ID that namespaces the run's temporary data.
func (r *Runner) Run(ctx context.Context, spec *pipeline.Spec) (string, error) {
	runID := uuid.New().String()

	runnerCfg := &config.RunnerConfig{
		TemporaryStorage: r.cfg.Azure.TemporaryStorage,
		RunID:            runID,
	}

	encoded, err := runnerCfg.Encode()
	if err != nil {
		return runID, err
	}

	graph, err := pipeline.NewGraph(spec)
	if err != nil {
		return runID, err
	}

	batches, err := graph.TopologicalBatches()
	if err != nil {
		return runID, err
	}

	log := r.log.WithFields(logrus.Fields{
		"pipeline": spec.Name,
		"run_id":   runID,
	})
	log.WithField("waves", len(batches)).Info("Submitting pipeline")

	if err := r.runBatches(ctx, log, graph, batches, encoded); err != nil {
		observability.PipelineRunsTotal.WithLabelValues(spec.Name, "failed").Inc()
		return runID, err
	}

	observability.PipelineRunsTotal.WithLabelValues(spec.Name, "completed").Inc()
	log.Info("Pipeline completed")

	return runID, nil
}

type submittedJob struct {
	node    string
	jobID   string
	started time.Time
}

func (r *Runner) runBatches(ctx context.Context, log logrus.FieldLogger, graph *pipeline.Graph, batches [][]string, runnerEnv string) error {
	for wave, batch := range batches {
		submitted := make([]submittedJob, 0, len(batch))

		for _, name := range batch {
			job, err := r.submitNode(ctx, graph, name, runnerEnv)
			if err != nil {
				return err
			}

			log.WithFields(logrus.Fields{
				"node": name,
				"job":  job.jobID,
				"wave": wave,
			}).Info("Submitted job")

			submitted = append(submitted, job)
		}

		for _, job := range submitted {
			status, err := r.jobs.Wait(ctx, job.jobID)
			if err != nil {
				return fmt.Errorf("failed to await job %s: %w", job.jobID, err)
			}

			duration := time.Since(job.started)
			observability.JobsCompletedTotal.WithLabelValues(job.node, string(status)).Inc()
			observability.JobDuration.WithLabelValues(job.node, string(status)).Observe(duration.Seconds())

			if status != azureml.JobStatusCompleted {
				return fmt.Errorf("%w: node %s, job %s, status %s", ErrJobFailed, job.node, job.jobID, status)
			}

			log.WithFields(logrus.Fields{
				"node":     job.node,
				"job":      job.jobID,
				"duration": duration,
			}).Info("Job completed")
		}
	}

	return nil
}

func (r *Runner) submitNode(ctx context.Context, graph *pipeline.Graph, name, runnerEnv string) (submittedJob, error) {
	node, err := graph.Node(name)
	if err != nil {
		return submittedJob{}, err
	}

	if err := r.limiter.Wait(ctx); err != nil {
		return submittedJob{}, fmt.Errorf("failed to await submission slot: %w", err)
	}

	resolved := r.cfg.Azure.Resources.Resolve(node.RoleKey())

	spec := azureml.JobSpec{
		Name:          node.Name,
		Experiment:    r.cfg.Azure.ExperimentName,
		ComputeTarget: resolved.ClusterName,
		Image:         r.cfg.Docker.Image,
		Command:       node.Command,
		Environment: map[string]string{
			config.RunnerEnv: runnerEnv,
		},
	}

	started := time.Now()

	jobID, err := r.jobs.Submit(ctx, spec)
	if err != nil {
		return submittedJob{}, fmt.Errorf("failed to submit node %s: %w", node.Name, err)
	}

	observability.JobsSubmittedTotal.WithLabelValues(node.Name, resolved.ClusterName).Inc()

	return submittedJob{node: node.Name, jobID: jobID, started: started}, nil
}
