package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// JobsSubmittedTotal tracks jobs submitted to Azure ML compute
	JobsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipetree_azureml_jobs_submitted_total",
			Help: "Total number of jobs submitted to Azure ML",
		},
		[]string{"node", "cluster"},
	)

	// JobsCompletedTotal tracks terminal job states
	JobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipetree_azureml_jobs_completed_total",
			Help: "Total number of jobs that reached a terminal state",
		},
		[]string{"node", "status"}, // status: Completed, Failed, Canceled
	)

	// JobDuration measures job wall-clock duration in seconds
	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipetree_azureml_job_duration_seconds",
			Help:    "Job duration from submission to terminal state in seconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 14), // 1s to ~4.5h
		},
		[]string{"node", "status"},
	)

	// DatasetOpsTotal tracks dataset load/save operations
	DatasetOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipetree_azureml_dataset_ops_total",
			Help: "Total number of dataset load/save operations",
		},
		[]string{"dataset", "op", "status"}, // op: load, save; status: success, failed
	)

	// DatasetOpDuration measures dataset operation duration in seconds
	DatasetOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipetree_azureml_dataset_op_duration_seconds",
			Help:    "Dataset load/save duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"dataset", "op"},
	)

	// PipelineRunsTotal tracks pipeline runs by outcome
	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipetree_azureml_pipeline_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"pipeline", "status"},
	)
)
