// Package pipeline defines the pipeline specification submitted to Azure
// ML and the dependency graph derived from dataset edges between nodes.
package pipeline

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pipetree/azureml/pkg/config"
)

var (
	// ErrPipelineNameRequired is returned when the pipeline has no name
	ErrPipelineNameRequired = errors.New("pipeline name is required")
	// ErrNoNodes is returned when the pipeline declares no nodes
	ErrNoNodes = errors.New("pipeline must declare at least one node")
	// ErrNodeNameRequired is returned when a node has no name
	ErrNodeNameRequired = errors.New("node name is required")
	// ErrDuplicateNode is returned when two nodes share a name
	ErrDuplicateNode = errors.New("duplicate node name")
	// ErrDuplicateOutput is returned when two nodes produce the same dataset
	ErrDuplicateOutput = errors.New("dataset is produced by more than one node")
)

// Node is one pipeline step executed as an Azure ML command job
type Node struct {
	// Name identifies the node within the pipeline
	Name string `yaml:"name"`
	// Resources is the resource role key resolved against the config's
	// resource table; empty means the default compute target
	Resources string `yaml:"resources,omitempty"`
	// Inputs are dataset names consumed by the node
	Inputs []string `yaml:"inputs,omitempty"`
	// Outputs are dataset names produced by the node
	Outputs []string `yaml:"outputs,omitempty"`
	// Command is the node entrypoint inside the docker image
	Command []string `yaml:"command,omitempty"`
	// Tags optionally label the node for filtering
	Tags []string `yaml:"tags,omitempty"`
}

// RoleKey returns the resource role used to resolve the node's compute target
func (n *Node) RoleKey() string {
	if n.Resources == "" {
		return config.DefaultKey
	}

	return n.Resources
}

// Spec is a parsed pipeline document
type Spec struct {
	Name  string `yaml:"name"`
	Nodes []Node `yaml:"nodes"`
}

// Validate checks structural invariants: names present and unique, and
// every dataset produced by at most one node
func (s *Spec) Validate() error {
	if s.Name == "" {
		return ErrPipelineNameRequired
	}

	if len(s.Nodes) == 0 {
		return fmt.Errorf("%w: %s", ErrNoNodes, s.Name)
	}

	seenNodes := make(map[string]struct{}, len(s.Nodes))
	producers := make(map[string]string)

	for i := range s.Nodes {
		node := &s.Nodes[i]

		if node.Name == "" {
			return fmt.Errorf("%w: node %d", ErrNodeNameRequired, i)
		}

		if _, ok := seenNodes[node.Name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateNode, node.Name)
		}

		seenNodes[node.Name] = struct{}{}

		for _, output := range node.Outputs {
			if producer, ok := producers[output]; ok {
				return fmt.Errorf("%w: %s (nodes %s and %s)", ErrDuplicateOutput, output, producer, node.Name)
			}

			producers[output] = node.Name
		}
	}

	return nil
}

// Parse turns a raw YAML document into a validated pipeline spec
func Parse(data []byte) (*Spec, error) {
	spec := &Spec{}

	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline: %w", err)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	return spec, nil
}

// Load reads and parses a pipeline file
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided pipeline file path
	if err != nil {
		return nil, err
	}

	return Parse(data)
}
