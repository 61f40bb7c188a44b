// Package config implements the layered configuration used to run
// Pipetree pipelines on Azure ML: cluster identity, temporary storage,
// docker image selection, and per-role compute resource resolution with
// field-level default inheritance.
package config

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// DockerConfig selects the docker image used for pipeline execution
type DockerConfig struct {
	Image string `yaml:"image" validate:"required"`
}

// StorageConfig identifies the Azure Blob Storage location used for
// temporary data passed between pipeline nodes
type StorageConfig struct {
	AccountName string `yaml:"account_name" validate:"required"`
	Container   string `yaml:"container" validate:"required"`
}

func (c *StorageConfig) validate(path string) error {
	if err := requireString(path+".account_name", c.AccountName); err != nil {
		return err
	}

	return requireString(path+".container", c.Container)
}

// AzureConfig holds the Azure ML workspace identity and compute settings
type AzureConfig struct {
	// ExperimentName is the Azure ML experiment to run under
	ExperimentName string `yaml:"experiment_name" validate:"required"`
	// WorkspaceName is the Azure ML workspace name
	WorkspaceName string `yaml:"workspace_name" validate:"required"`
	// ResourceGroup is the Azure resource group of the workspace
	ResourceGroup string `yaml:"resource_group" validate:"required"`
	// SubscriptionID is the Azure subscription (optional, taken from the
	// ambient credentials when omitted)
	SubscriptionID string `yaml:"subscription_id,omitempty"`
	// ClusterName is the default compute cluster for all pipeline nodes
	ClusterName string `yaml:"cluster_name" validate:"required"`
	// EnvironmentName optionally pins a registered Azure ML environment
	EnvironmentName string `yaml:"environment_name,omitempty"`

	// TemporaryStorage is used to pass data between nodes when a dataset
	// is not declared in the catalog directly
	TemporaryStorage StorageConfig `yaml:"temporary_storage"`

	// Resources maps role keys to compute targets, falling back to the
	// __default__ entry (synthesized from ClusterName when absent)
	Resources ResourceTable `yaml:"resources"`
}

func (c *AzureConfig) validate(path string) error {
	required := []struct {
		path  string
		value string
	}{
		{path + ".experiment_name", c.ExperimentName},
		{path + ".workspace_name", c.WorkspaceName},
		{path + ".resource_group", c.ResourceGroup},
		{path + ".cluster_name", c.ClusterName},
	}

	for _, field := range required {
		if err := requireString(field.path, field.value); err != nil {
			return err
		}
	}

	if err := c.TemporaryStorage.validate(path + ".temporary_storage"); err != nil {
		return err
	}

	return c.Resources.finalize(ResourceConfig{ClusterName: c.ClusterName}, path+".resources")
}

// Config is the root plugin configuration. It is fully validated at
// parse time and read-only afterwards.
type Config struct {
	Azure  AzureConfig  `yaml:"azure"`
	Docker DockerConfig `yaml:"docker"`

	// MetricsAddr optionally exposes Prometheus metrics from long-lived
	// driver processes; short CLI invocations leave it empty
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
}

// Validate checks all required fields and finalizes the resource table.
// Parse calls it exactly once; callers never see a partially-valid Config.
func (c *Config) Validate() error {
	if err := c.Azure.validate("azure"); err != nil {
		return err
	}

	return requireString("docker.image", c.Docker.Image)
}

// Parse turns a raw YAML document into a validated Config
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config file path
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// RunnerEnv is the environment variable carrying the encoded RunnerConfig
// from the driver to remote pipeline nodes
const RunnerEnv = "PIPETREE_AZURE_RUNNER_CONFIG"

// RunnerConfig is the minimal context a remote pipeline node needs to
// exchange intermediate data: the temporary storage location, the run it
// belongs to, and the storage key injected by the driver.
type RunnerConfig struct {
	TemporaryStorage  StorageConfig `yaml:"temporary_storage"`
	RunID             string        `yaml:"run_id"`
	StorageAccountKey string        `yaml:"storage_account_key"`
}

// Encode serializes the runner config for transport in a single
// environment variable
func (c *RunnerConfig) Encode() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode runner config: %w", err)
	}

	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeRunnerConfig reverses RunnerConfig.Encode
func DecodeRunnerConfig(encoded string) (*RunnerConfig, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode runner config: %w", err)
	}

	cfg := &RunnerConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode runner config: %w", err)
	}

	return cfg, nil
}
