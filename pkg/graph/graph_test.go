package graph

import (
	"sort"
	"strings"
	"testing"

	"github.com/webauto/engine/pkg/types"
)

func TestTopologicalSort_Simple(t *testing.T) {
	tests := []struct {
		name       string
		nodes      []types.Node
		edges      []types.Edge
		wantOrder  []string
		wantErr    bool
		checkOrder bool
	}{
		{
			name: "linear chain",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
				{ID: "3", Type: types.ActionExtract},
			},
			edges: []types.Edge{
				{Source: "1", Target: "2"},
				{Source: "2", Target: "3"},
			},
			wantOrder:  []string{"1", "2", "3"},
			checkOrder: true,
		},
		{
			name: "diamond shape",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
				{ID: "3", Type: types.ActionWait},
				{ID: "4", Type: types.ActionExtract},
			},
			edges: []types.Edge{
				{Source: "1", Target: "2"},
				{Source: "1", Target: "3"},
				{Source: "2", Target: "4"},
				{Source: "3", Target: "4"},
			},
			checkOrder: false,
		},
		{
			name: "single node",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
			},
			edges:      []types.Edge{},
			wantOrder:  []string{"1"},
			checkOrder: true,
		},
		{
			name:       "empty graph",
			nodes:      []types.Node{},
			edges:      []types.Edge{},
			wantOrder:  []string{},
			checkOrder: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.nodes, tt.edges)
			got, err := g.TopologicalSort()

			if (err != nil) != tt.wantErr {
				t.Fatalf("TopologicalSort() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}

			if tt.checkOrder {
				if !equalSlices(got, tt.wantOrder) {
					t.Errorf("TopologicalSort() = %v, want %v", got, tt.wantOrder)
				}
			} else if !isValidTopologicalOrder(got, tt.edges) {
				t.Errorf("TopologicalSort() returned invalid order: %v", got)
			}
		})
	}
}

// TestTopologicalSort_InsertionOrderTieBreak verifies that ready nodes with
// no dependency between them execute in authored order, not ID order.
func TestTopologicalSort_InsertionOrderTieBreak(t *testing.T) {
	nodes := []types.Node{
		{ID: "z", Type: types.ActionNavigate},
		{ID: "a", Type: types.ActionClick},
		{ID: "m", Type: types.ActionWait},
	}
	g := New(nodes, nil)

	got, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"z", "a", "m"}
	if !equalSlices(got, want) {
		t.Errorf("TopologicalSort() = %v, want authored order %v", got, want)
	}
}

// TestTopologicalSort_InsertionOrderAfterRelease verifies nodes that become
// ready after a shared dependency completes still respect authored order.
func TestTopologicalSort_InsertionOrderAfterRelease(t *testing.T) {
	nodes := []types.Node{
		{ID: "root", Type: types.ActionNavigate},
		{ID: "z", Type: types.ActionClick},
		{ID: "a", Type: types.ActionWait},
	}
	edges := []types.Edge{
		{Source: "root", Target: "z"},
		{Source: "root", Target: "a"},
	}
	g := New(nodes, edges)

	got, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"root", "z", "a"}
	if !equalSlices(got, want) {
		t.Errorf("TopologicalSort() = %v, want %v", got, want)
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	tests := []struct {
		name  string
		nodes []types.Node
		edges []types.Edge
	}{
		{
			name: "simple cycle",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
			},
			edges: []types.Edge{
				{Source: "1", Target: "2"},
				{Source: "2", Target: "1"},
			},
		},
		{
			name: "self loop",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
			},
			edges: []types.Edge{
				{Source: "1", Target: "1"},
			},
		},
		{
			name: "three node cycle",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
				{ID: "3", Type: types.ActionWait},
			},
			edges: []types.Edge{
				{Source: "1", Target: "2"},
				{Source: "2", Target: "3"},
				{Source: "3", Target: "1"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.nodes, tt.edges)
			if _, err := g.TopologicalSort(); err == nil {
				t.Error("TopologicalSort() expected error for cyclic graph, got nil")
			}
		})
	}
}

func TestTopologicalSort_Large(t *testing.T) {
	tests := []struct {
		name     string
		numNodes int
	}{
		{name: "100 nodes linear", numNodes: 100},
		{name: "1000 nodes linear", numNodes: 1000},
		{name: "100 nodes wide", numNodes: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nodes []types.Node
			var edges []types.Edge

			if strings.Contains(tt.name, "linear") {
				nodes, edges = generateLinearChain(tt.numNodes)
			} else if strings.Contains(tt.name, "wide") {
				nodes, edges = generateWideGraph(tt.numNodes)
			}

			g := New(nodes, edges)
			order, err := g.TopologicalSort()
			if err != nil {
				t.Fatalf("TopologicalSort() unexpected error: %v", err)
			}
			if len(order) != len(nodes) {
				t.Errorf("TopologicalSort() returned %d nodes, want %d", len(order), len(nodes))
			}
			if !isValidTopologicalOrder(order, edges) {
				t.Error("TopologicalSort() returned invalid order")
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	tests := []struct {
		name    string
		nodes   []types.Node
		edges   []types.Edge
		wantErr bool
	}{
		{
			name: "no cycle",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
			},
			edges:   []types.Edge{{Source: "1", Target: "2"}},
			wantErr: false,
		},
		{
			name: "cycle exists",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
			},
			edges: []types.Edge{
				{Source: "1", Target: "2"},
				{Source: "2", Target: "1"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.nodes, tt.edges)
			err := g.DetectCycles()
			if (err != nil) != tt.wantErr {
				t.Errorf("DetectCycles() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetNode(t *testing.T) {
	nodes := []types.Node{
		{ID: "1", Type: types.ActionNavigate},
		{ID: "2", Type: types.ActionClick},
	}
	g := New(nodes, nil)

	tests := []struct {
		name   string
		nodeID string
		want   *types.Node
	}{
		{name: "existing node", nodeID: "1", want: &nodes[0]},
		{name: "another existing node", nodeID: "2", want: &nodes[1]},
		{name: "non-existing node", nodeID: "3", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.GetNode(tt.nodeID)
			if got == nil && tt.want == nil {
				return
			}
			if got == nil || tt.want == nil {
				t.Errorf("GetNode() = %v, want %v", got, tt.want)
				return
			}
			if got.ID != tt.want.ID || got.Type != tt.want.Type {
				t.Errorf("GetNode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetNodeInputEdges(t *testing.T) {
	edges := []types.Edge{
		{Source: "1", Target: "2"},
		{Source: "3", Target: "2"},
		{Source: "2", Target: "4"},
	}
	g := New(nil, edges)

	tests := []struct {
		name      string
		nodeID    string
		wantCount int
	}{
		{name: "node with 2 inputs", nodeID: "2", wantCount: 2},
		{name: "node with 1 input", nodeID: "4", wantCount: 1},
		{name: "node with no inputs", nodeID: "1", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.GetNodeInputEdges(tt.nodeID)
			if len(got) != tt.wantCount {
				t.Errorf("GetNodeInputEdges() returned %d edges, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestGetNodeOutputEdges(t *testing.T) {
	edges := []types.Edge{
		{Source: "1", Target: "2"},
		{Source: "1", Target: "3"},
		{Source: "2", Target: "4"},
	}
	g := New(nil, edges)

	tests := []struct {
		name      string
		nodeID    string
		wantCount int
	}{
		{name: "node with 2 outputs", nodeID: "1", wantCount: 2},
		{name: "node with 1 output", nodeID: "2", wantCount: 1},
		{name: "node with no outputs", nodeID: "4", wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.GetNodeOutputEdges(tt.nodeID)
			if len(got) != tt.wantCount {
				t.Errorf("GetNodeOutputEdges() returned %d edges, want %d", len(got), tt.wantCount)
			}
		})
	}
}

func TestGetTerminalNodes(t *testing.T) {
	tests := []struct {
		name  string
		nodes []types.Node
		edges []types.Edge
		want  []string
	}{
		{
			name: "single terminal",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
			},
			edges: []types.Edge{{Source: "1", Target: "2"}},
			want:  []string{"2"},
		},
		{
			name: "multiple terminals",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionClick},
				{ID: "3", Type: types.ActionWait},
			},
			edges: []types.Edge{
				{Source: "1", Target: "2"},
				{Source: "1", Target: "3"},
			},
			want: []string{"2", "3"},
		},
		{
			name: "all nodes terminal",
			nodes: []types.Node{
				{ID: "1", Type: types.ActionNavigate},
				{ID: "2", Type: types.ActionNavigate},
			},
			edges: []types.Edge{},
			want:  []string{"1", "2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.nodes, tt.edges)
			got := g.GetTerminalNodes()

			sort.Strings(got)
			sort.Strings(tt.want)

			if !equalSlices(got, tt.want) {
				t.Errorf("GetTerminalNodes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func equalSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isValidTopologicalOrder(order []string, edges []types.Edge) bool {
	pos := make(map[string]int)
	for i, nodeID := range order {
		pos[nodeID] = i
	}

	for _, edge := range edges {
		sourcePos, sourceExists := pos[edge.Source]
		targetPos, targetExists := pos[edge.Target]
		if !sourceExists || !targetExists {
			return false
		}
		if sourcePos >= targetPos {
			return false
		}
	}
	return true
}

// generateLinearChain and generateWideGraph are defined in graph_bench_test.go
