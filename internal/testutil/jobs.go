package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/pipetree/azureml/pkg/azureml"
)

// RecordingJobsClient captures submitted job specs and reports configurable
// terminal states. The zero value completes every job successfully.
type RecordingJobsClient struct {
	mu        sync.Mutex
	submitted []azureml.JobSpec
	jobNodes  map[string]string // jobID -> node name

	// Statuses overrides the terminal state per node name
	Statuses map[string]azureml.JobStatus
	// SubmitErr fails every Submit call when set
	SubmitErr error
}

// Submit implements azureml.JobsClient
func (c *RecordingJobsClient) Submit(_ context.Context, spec azureml.JobSpec) (string, error) {
	if c.SubmitErr != nil {
		return "", c.SubmitErr
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.jobNodes == nil {
		c.jobNodes = map[string]string{}
	}

	c.submitted = append(c.submitted, spec)
	jobID := fmt.Sprintf("job-%d", len(c.submitted))
	c.jobNodes[jobID] = spec.Name

	return jobID, nil
}

// Wait implements azureml.JobsClient
func (c *RecordingJobsClient) Wait(_ context.Context, jobID string) (azureml.JobStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.jobNodes[jobID]
	if !ok {
		return "", fmt.Errorf("unknown job %s", jobID)
	}

	if status, found := c.Statuses[node]; found {
		return status, nil
	}

	return azureml.JobStatusCompleted, nil
}

// Submitted returns a copy of the captured job specs in submission order
func (c *RecordingJobsClient) Submitted() []azureml.JobSpec {
	c.mu.Lock()
	defer c.mu.Unlock()

	specs := make([]azureml.JobSpec, len(c.submitted))
	copy(specs, c.submitted)

	return specs
}
