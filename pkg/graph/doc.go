// Package graph implements the DAG operations the scheduler needs:
// topological sort and node/edge lookup.
//
// # Topological sort
//
// TopologicalSort implements Kahn's algorithm. Ties among nodes that
// become ready simultaneously are broken by authored position in the
// node list, not by node ID — a workflow author's drawing order
// determines execution order for independent branches.
//
//	g := graph.New(nodes, edges)
//	order, err := g.TopologicalSort()
//	if err != nil {
//	    // graph.ErrCycleDetected
//	}
//
// # Thread safety
//
// A Graph is read-only after construction and safe for concurrent use.
package graph
