// Package graph provides DAG operations for the execution engine: a
// deterministic topological sort and node/edge lookup helpers.
package graph

import (
	"github.com/webauto/engine/pkg/types"
)

// Graph wraps a workflow's nodes and edges for traversal.
type Graph struct {
	nodes []types.Node
	edges []types.Edge
}

// New builds a Graph from nodes and edges.
func New(nodes []types.Node, edges []types.Edge) *Graph {
	return &Graph{nodes: nodes, edges: edges}
}

// TopologicalSort orders nodes for sequential execution using Kahn's
// algorithm.
//
// Unlike a plain Kahn's-algorithm implementation, ties among nodes
// that become ready at the same time are broken by the node's
// position in the authored node list, not by node ID. This keeps
// execution order stable and predictable for a workflow author: two
// independent branches with no edge between them execute in the
// order they were drawn, not in lexical ID order.
func (g *Graph) TopologicalSort() ([]string, error) {
	numNodes := len(g.nodes)
	if numNodes == 0 {
		return []string{}, nil
	}

	nodeIndex := make(map[string]int, numNodes)
	inDegree := make(map[string]int, numNodes)
	adjacency := make(map[string][]string, numNodes)

	for i := range g.nodes {
		nodeIndex[g.nodes[i].ID] = i
		inDegree[g.nodes[i].ID] = 0
	}

	for i := range g.edges {
		edge := &g.edges[i]
		adjacency[edge.Source] = append(adjacency[edge.Source], edge.Target)
		inDegree[edge.Target]++
	}

	// ready holds node IDs with in-degree zero, always kept sorted by
	// nodeIndex so the front of the slice is the next node to run.
	ready := make([]string, 0, numNodes)
	for i := range g.nodes {
		if inDegree[g.nodes[i].ID] == 0 {
			ready = append(ready, g.nodes[i].ID)
		}
	}

	insertReady := func(id string) {
		idx := nodeIndex[id]
		pos := len(ready)
		for pos > 0 && nodeIndex[ready[pos-1]] > idx {
			pos--
		}
		ready = append(ready, "")
		copy(ready[pos+1:], ready[pos:])
		ready[pos] = id
	}

	order := make([]string, 0, numNodes)
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		for _, neighbor := range adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				insertReady(neighbor)
			}
		}
	}

	if len(order) != numNodes {
		return nil, ErrCycleDetected
	}

	return order, nil
}

// GetNode retrieves a node by ID, or nil if not found.
func (g *Graph) GetNode(nodeID string) *types.Node {
	for i := range g.nodes {
		if g.nodes[i].ID == nodeID {
			return &g.nodes[i]
		}
	}
	return nil
}

// GetNodeInputEdges returns all edges targeting nodeID.
func (g *Graph) GetNodeInputEdges(nodeID string) []types.Edge {
	var edges []types.Edge
	for _, edge := range g.edges {
		if edge.Target == nodeID {
			edges = append(edges, edge)
		}
	}
	return edges
}

// GetNodeOutputEdges returns all edges originating at nodeID.
func (g *Graph) GetNodeOutputEdges(nodeID string) []types.Edge {
	var edges []types.Edge
	for _, edge := range g.edges {
		if edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}
	return edges
}

// GetTerminalNodes returns nodes with no outgoing edges.
func (g *Graph) GetTerminalNodes() []string {
	terminal := make(map[string]bool, len(g.nodes))
	for _, node := range g.nodes {
		terminal[node.ID] = true
	}
	for _, edge := range g.edges {
		terminal[edge.Source] = false
	}

	result := make([]string, 0, len(terminal))
	for _, node := range g.nodes {
		if terminal[node.ID] {
			result = append(result, node.ID)
		}
	}
	return result
}

// DetectCycles reports whether the graph contains a cycle.
func (g *Graph) DetectCycles() error {
	_, err := g.TopologicalSort()
	return err
}
