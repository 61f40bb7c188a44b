// Package azureml declares the narrow slice of the Azure ML control plane
// this plugin talks to. Authentication and network transport belong to
// the SDK implementation supplied by the caller; everything here is
// deliberately interface-only so that runs can be planned, tested, and
// executed locally without cloud access.
package azureml

import "context"

// Workspace identifies the Azure ML workspace jobs are submitted to
type Workspace struct {
	SubscriptionID string
	ResourceGroup  string
	Name           string
}

// JobSpec describes one command job bound to a compute cluster
type JobSpec struct {
	// Name is the display name, unique within the run
	Name string
	// Experiment is the Azure ML experiment the job runs under
	Experiment string
	// ComputeTarget is the cluster name resolved for the node's resource role
	ComputeTarget string
	// Image is the docker image the job executes in
	Image string
	// Command is the node entrypoint
	Command []string
	// Environment holds env vars injected into the job container
	Environment map[string]string
}

// JobStatus is the terminal state reported for a submitted job
type JobStatus string

const (
	// JobStatusCompleted indicates the job finished successfully
	JobStatusCompleted JobStatus = "Completed"
	// JobStatusFailed indicates the job finished with an error
	JobStatusFailed JobStatus = "Failed"
	// JobStatusCanceled indicates the job was canceled
	JobStatusCanceled JobStatus = "Canceled"
)

// JobsClient submits command jobs and awaits their completion
type JobsClient interface {
	// Submit starts a job and returns its ID without waiting
	Submit(ctx context.Context, spec JobSpec) (string, error)

	// Wait blocks until the job reaches a terminal state
	Wait(ctx context.Context, jobID string) (JobStatus, error)
}

// DatastoreClient moves registered data assets between the workspace
// default datastore and the local filesystem
type DatastoreClient interface {
	// DownloadAsset fetches a named asset version into destDir
	DownloadAsset(ctx context.Context, name, version, destDir string) error

	// UploadAsset registers the contents of srcDir as a new asset version
	// and returns the version created
	UploadAsset(ctx context.Context, name, srcDir string) (string, error)
}
