package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pipetree/azureml/pkg/config"
)

const validPipeline = `name: training
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
  - name: evaluate
    inputs: [features, model]
    outputs: [metrics]
    command: ["python", "-m", "steps.evaluate"]
`

func TestParse_ValidPipeline(t *testing.T) {
	spec, err := Parse([]byte(validPipeline))
	require.NoError(t, err)

	assert.Equal(t, "training", spec.Name)
	require.Len(t, spec.Nodes, 3)

	assert.Equal(t, config.DefaultKey, spec.Nodes[0].RoleKey())
	assert.Equal(t, "chunky", spec.Nodes[1].RoleKey())
	assert.Equal(t, []string{"features", "model"}, spec.Nodes[2].Inputs)
}

func TestParse_ValidationFailures(t *testing.T) {
	tests := []struct {
		name          string
		document      string
		expectedError error
	}{
		{
			name:          "missing pipeline name",
			document:      "nodes:\n  - name: a\n",
			expectedError: ErrPipelineNameRequired,
		},
		{
			name:          "no nodes",
			document:      "name: empty\n",
			expectedError: ErrNoNodes,
		},
		{
			name:          "node without name",
			document:      "name: p\nnodes:\n  - inputs: [x]\n",
			expectedError: ErrNodeNameRequired,
		},
		{
			name:          "duplicate node names",
			document:      "name: p\nnodes:\n  - name: a\n  - name: a\n",
			expectedError: ErrDuplicateNode,
		},
		{
			name:          "duplicate outputs",
			document:      "name: p\nnodes:\n  - name: a\n    outputs: [x]\n  - name: b\n    outputs: [x]\n",
			expectedError: ErrDuplicateOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.document))
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestGraph_TopologicalBatches(t *testing.T) {
	spec, err := Parse([]byte(validPipeline))
	require.NoError(t, err)

	graph, err := NewGraph(spec)
	require.NoError(t, err)

	batches, err := graph.TopologicalBatches()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"preprocess"},
		{"train"},
		{"evaluate"},
	}, batches)
}

func TestGraph_IndependentNodesShareAWave(t *testing.T) {
	spec, err := Parse([]byte(`name: fanout
nodes:
  - name: ingest
    outputs: [raw]
  - name: stats
    inputs: [raw]
    outputs: [report]
  - name: train
    inputs: [raw]
    outputs: [model]
`))
	require.NoError(t, err)

	graph, err := NewGraph(spec)
	require.NoError(t, err)

	batches, err := graph.TopologicalBatches()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"ingest"},
		{"stats", "train"},
	}, batches)
}

func TestGraph_CatalogInputsAreNotEdges(t *testing.T) {
	spec, err := Parse([]byte(`name: catalog
nodes:
  - name: a
    inputs: [external_table]
    outputs: [x]
  - name: b
    inputs: [x]
`))
	require.NoError(t, err)

	graph, err := NewGraph(spec)
	require.NoError(t, err)

	deps, err := graph.Dependencies("a")
	require.NoError(t, err)
	assert.Empty(t, deps)

	deps, err = graph.Dependencies("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, deps)

	dependents, err := graph.Dependents("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, dependents)
}

func TestGraph_MultipleDatasetsBetweenSameNodes(t *testing.T) {
	spec, err := Parse([]byte(`name: multi-edge
nodes:
  - name: split
    outputs: [train_set, test_set]
  - name: train
    inputs: [train_set, test_set]
    outputs: [model]
`))
	require.NoError(t, err)

	graph, err := NewGraph(spec)
	require.NoError(t, err)

	batches, err := graph.TopologicalBatches()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"split"}, {"train"}}, batches)
}

func TestGraph_RejectsCycles(t *testing.T) {
	spec := &Spec{
		Name: "cyclic",
		Nodes: []Node{
			{Name: "a", Inputs: []string{"y"}, Outputs: []string{"x"}},
			{Name: "b", Inputs: []string{"x"}, Outputs: []string{"y"}},
		},
	}
	require.NoError(t, spec.Validate())

	_, err := NewGraph(spec)
	require.Error(t, err)
}

func TestGraph_Node(t *testing.T) {
	spec, err := Parse([]byte(validPipeline))
	require.NoError(t, err)

	graph, err := NewGraph(spec)
	require.NoError(t, err)

	node, err := graph.Node("train")
	require.NoError(t, err)
	assert.Equal(t, "chunky", node.Resources)

	_, err = graph.Node("missing")
	require.Error(t, err)
}
