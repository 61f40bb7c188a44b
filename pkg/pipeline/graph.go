package pipeline

import (
	"fmt"
	"sort"

	"github.com/heimdalr/dag"
)

// Graph is the dependency graph of a pipeline, built from dataset edges:
// a node producing a dataset precedes every node consuming it
type Graph struct {
	spec *Spec
	dag  *dag.DAG
}

// NewGraph builds the graph and rejects cyclic pipelines
func NewGraph(spec *Spec) (*Graph, error) {
	d := dag.NewDAG()

	for i := range spec.Nodes {
		node := &spec.Nodes[i]

		if err := d.AddVertexByID(node.Name, node); err != nil {
			return nil, fmt.Errorf("failed to add node %s: %w", node.Name, err)
		}
	}

	producers := make(map[string]string)

	for _, node := range spec.Nodes {
		for _, output := range node.Outputs {
			producers[output] = node.Name
		}
	}

	edges := make(map[string]struct{})

	for _, node := range spec.Nodes {
		for _, input := range node.Inputs {
			producer, ok := producers[input]
			if !ok {
				// Dataset comes from the catalog, not from another node.
				continue
			}

			// Two datasets between the same pair of nodes are one edge.
			edgeKey := producer + "\x00" + node.Name
			if _, seen := edges[edgeKey]; seen {
				continue
			}

			edges[edgeKey] = struct{}{}

			// AddEdge returns an error if it would create a cycle
			if err := d.AddEdge(producer, node.Name); err != nil {
				return nil, fmt.Errorf("failed to add edge %s -> %s: %w", producer, node.Name, err)
			}
		}
	}

	return &Graph{spec: spec, dag: d}, nil
}

// Dependencies returns the direct upstream node names of a node, sorted
func (g *Graph) Dependencies(name string) ([]string, error) {
	parents, err := g.dag.GetParents(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependencies of %s: %w", name, err)
	}

	return sortedKeys(parents), nil
}

// Dependents returns the direct downstream node names of a node, sorted
func (g *Graph) Dependents(name string) ([]string, error) {
	children, err := g.dag.GetChildren(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get dependents of %s: %w", name, err)
	}

	return sortedKeys(children), nil
}

// TopologicalBatches groups node names into execution waves: every node in
// a wave depends only on nodes of earlier waves, so a wave can be submitted
// concurrently. Names within a wave are sorted for determinism.
func (g *Graph) TopologicalBatches() ([][]string, error) {
	remaining := make(map[string]int)

	for name := range g.dag.GetVertices() {
		parents, err := g.dag.GetParents(name)
		if err != nil {
			return nil, fmt.Errorf("failed to get parents of %s: %w", name, err)
		}

		remaining[name] = len(parents)
	}

	var batches [][]string

	for len(remaining) > 0 {
		var ready []string

		for name, pending := range remaining {
			if pending == 0 {
				ready = append(ready, name)
			}
		}

		// NewGraph rejects cycles, so an empty wave cannot happen.
		sort.Strings(ready)
		batches = append(batches, ready)

		for _, name := range ready {
			delete(remaining, name)

			children, err := g.dag.GetChildren(name)
			if err != nil {
				return nil, fmt.Errorf("failed to get children of %s: %w", name, err)
			}

			for child := range children {
				remaining[child]--
			}
		}
	}

	return batches, nil
}

// Node returns the spec node by name
func (g *Graph) Node(name string) (*Node, error) {
	vertex, err := g.dag.GetVertex(name)
	if err != nil {
		return nil, fmt.Errorf("node %s not found: %w", name, err)
	}

	node, ok := vertex.(*Node)
	if !ok {
		return nil, fmt.Errorf("node %s has unexpected vertex type %T", name, vertex)
	}

	return node, nil
}

func sortedKeys(vertices map[string]interface{}) []string {
	keys := make([]string, 0, len(vertices))
	for key := range vertices {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}
