package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pipetree/azureml/pkg/config"
)

// ConfigFixture returns a validated configuration with one resource role
// override ("chunky" -> "chunky-cpu-cluster") on top of "base-cluster"
func ConfigFixture(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Parse([]byte(`azure:
  experiment_name: test-experiment
  workspace_name: test-workspace
  resource_group: test-rg
  cluster_name: base-cluster
  temporary_storage:
    account_name: teststorage
    container: pipelines
  resources:
    __default__:
      cluster_name: base-cluster
    chunky:
      cluster_name: chunky-cpu-cluster
docker:
  image: pipetree-azureml:test
`))
	require.NoError(t, err)

	return cfg
}
