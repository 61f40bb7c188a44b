package config

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// TemplateValues fills the starter configuration template. Empty fields
// fall back to placeholder defaults so the rendered file always parses.
type TemplateValues struct {
	ExperimentName     string
	WorkspaceName      string
	ResourceGroup      string
	ClusterName        string
	StorageAccountName string
	StorageContainer   string
	DockerImage        string
}

const configTemplate = `azure:
  # Name of the Azure ML Compute Cluster
  cluster_name: "{{ .ClusterName | default "cpu-cluster" }}"
  # Azure ML Experiment Name
  experiment_name: "{{ .ExperimentName | default "pipetree-experiment" }}"
  # Azure resource group to use
  resource_group: "{{ .ResourceGroup | default "my-resource-group" }}"
  # Azure ML Workspace name
  workspace_name: "{{ .WorkspaceName | default "my-workspace" }}"

  # Temporary storage settings - this is used to pass data between nodes
  # if the data is not specified in the catalog directly.
  # Set a lifecycle management rule on the container to avoid long-term
  # storage costs; temporary data lives under azureml-temp/<run-id>/.
  temporary_storage:
    # Azure Storage account name, where the temp data should be stored
    account_name: "{{ .StorageAccountName | default "mystorageaccount" }}"
    # Name of the storage container
    container: "{{ .StorageContainer | default "pipelines" }}"

  # Compute targets per resource role. Any role not listed here resolves
  # to the __default__ entry; listed roles override only the fields they set.
  resources:
    __default__:
      cluster_name: "{{ .ClusterName | default "cpu-cluster" }}"

docker:
  # Docker image to use during pipeline execution
  image: "{{ .DockerImage | default "pipetree-azureml:latest" }}"
`

// RenderTemplate produces a starter configuration document. The result is
// guaranteed to pass Parse.
func RenderTemplate(values TemplateValues) (string, error) {
	tmpl, err := template.New("config").Funcs(sprig.TxtFuncMap()).Parse(configTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, values); err != nil {
		return "", fmt.Errorf("failed to render config template: %w", err)
	}

	return buf.String(), nil
}
