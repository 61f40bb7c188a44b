package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetree/azureml/internal/testutil"
	"github.com/pipetree/azureml/pkg/azureml"
	"github.com/pipetree/azureml/pkg/config"
	"github.com/pipetree/azureml/pkg/pipeline"
)

func testLogger() logrus.FieldLogger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return logger
}

func trainingSpec(t *testing.T) *pipeline.Spec {
	t.Helper()

	spec, err := pipeline.Parse([]byte(`name: training
nodes:
  - name: preprocess
    inputs: [raw_data]
    outputs: [features]
    command: ["python", "-m", "steps.preprocess"]
  - name: train
    resources: chunky
    inputs: [features]
    outputs: [model]
    command: ["python", "-m", "steps.train"]
`))
	require.NoError(t, err)

	return spec
}

func TestRunner_Plan(t *testing.T) {
	cfg := testutil.ConfigFixture(t)
	runner := New(testLogger(), cfg, &testutil.RecordingJobsClient{})

	plan, err := runner.Plan(trainingSpec(t))
	require.NoError(t, err)

	assert.Equal(t, []PlannedJob{
		{Node: "preprocess", Wave: 0, Cluster: "base-cluster", Image: "pipetree-azureml:test"},
		{Node: "train", Wave: 1, Cluster: "chunky-cpu-cluster", Image: "pipetree-azureml:test"},
	}, plan)
}

func TestRunner_Run(t *testing.T) {
	cfg := testutil.ConfigFixture(t)
	jobs := &testutil.RecordingJobsClient{}
	runner := New(testLogger(), cfg, jobs)

	runID, err := runner.Run(context.Background(), trainingSpec(t))
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	submitted := jobs.Submitted()
	require.Len(t, submitted, 2)

	// Dependency order: preprocess before train.
	assert.Equal(t, "preprocess", submitted[0].Name)
	assert.Equal(t, "base-cluster", submitted[0].ComputeTarget)
	assert.Equal(t, "train", submitted[1].Name)
	assert.Equal(t, "chunky-cpu-cluster", submitted[1].ComputeTarget)

	for _, spec := range submitted {
		assert.Equal(t, "test-experiment", spec.Experiment)
		assert.Equal(t, "pipetree-azureml:test", spec.Image)

		// Every job carries the runner context for intermediate datasets.
		encoded, ok := spec.Environment[config.RunnerEnv]
		require.True(t, ok)

		runnerCfg, decodeErr := config.DecodeRunnerConfig(encoded)
		require.NoError(t, decodeErr)
		assert.Equal(t, runID, runnerCfg.RunID)
		assert.Equal(t, "teststorage", runnerCfg.TemporaryStorage.AccountName)
	}
}

func TestRunner_RunStopsOnFailedJob(t *testing.T) {
	cfg := testutil.ConfigFixture(t)
	jobs := &testutil.RecordingJobsClient{
		Statuses: map[string]azureml.JobStatus{
			"preprocess": azureml.JobStatusFailed,
		},
	}
	runner := New(testLogger(), cfg, jobs)

	_, err := runner.Run(context.Background(), trainingSpec(t))
	require.ErrorIs(t, err, ErrJobFailed)

	// The dependent wave is never submitted.
	assert.Len(t, jobs.Submitted(), 1)
}

func TestRunner_RunPropagatesSubmitError(t *testing.T) {
	cfg := testutil.ConfigFixture(t)
	jobs := &testutil.RecordingJobsClient{SubmitErr: fmt.Errorf("quota exceeded")}
	runner := New(testLogger(), cfg, jobs)

	_, err := runner.Run(context.Background(), trainingSpec(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestRunner_UnknownRoleFallsBackToDefaultCluster(t *testing.T) {
	cfg := testutil.ConfigFixture(t)

	spec, err := pipeline.Parse([]byte(`name: typo
nodes:
  - name: solo
    resources: chunkyy
    command: ["python", "-m", "steps.solo"]
`))
	require.NoError(t, err)

	jobs := &testutil.RecordingJobsClient{}
	runner := New(testLogger(), cfg, jobs)

	_, err = runner.Run(context.Background(), spec)
	require.NoError(t, err)

	submitted := jobs.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, "base-cluster", submitted[0].ComputeTarget)
}
