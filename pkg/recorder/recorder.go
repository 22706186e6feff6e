package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/webauto/engine/pkg/observer"
	"github.com/webauto/engine/pkg/types"
)

// Recorder is an observer.Observer that builds an types.ExecutionRecord
// from the event stream of a single execution. One Recorder instance
// tracks exactly one execution; the engine registers a fresh Recorder
// per run with its observer.Manager.
type Recorder struct {
	mu     sync.Mutex
	record types.ExecutionRecord
	nodes  map[string]*types.NodeRecord
	order  []string
}

// New starts a Recorder for executionID/workflowID, status pending
// until the first workflow_start event arrives.
func New(executionID, workflowID string) *Recorder {
	return &Recorder{
		record: types.ExecutionRecord{
			ExecutionID: executionID,
			WorkflowID:  workflowID,
			Status:      types.StatusPending,
			Variables:   map[string]interface{}{},
		},
		nodes: make(map[string]*types.NodeRecord),
	}
}

// OnEvent implements observer.Observer.
func (r *Recorder) OnEvent(ctx context.Context, event observer.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch event.Type {
	case observer.EventWorkflowStart:
		r.record.Status = types.StatusRunning
		r.record.StartedAt = event.Timestamp

	case observer.EventWorkflowEnd:
		r.record.EndedAt = event.Timestamp
		if event.Error != nil {
			r.record.Status = types.StatusFailed
			r.record.Error = event.Error.Error()
		} else {
			r.record.Status = types.StatusCompleted
		}

	case observer.EventPaused:
		r.record.Status = types.StatusPaused

	case observer.EventResumed:
		r.record.Status = types.StatusRunning

	case observer.EventNodeStart:
		r.nodeFor(event.NodeID, event.NodeType).Status = types.NodeStatusRunning
		r.nodeFor(event.NodeID, event.NodeType).StartedAt = event.StartTime

	case observer.EventNodeSuccess:
		nr := r.nodeFor(event.NodeID, event.NodeType)
		nr.Status = types.NodeStatusCompleted
		nr.Output = event.Result
		nr.EndedAt = event.Timestamp

	case observer.EventNodeFailure:
		nr := r.nodeFor(event.NodeID, event.NodeType)
		nr.Status = types.NodeStatusFailed
		nr.EndedAt = event.Timestamp
		if event.Error != nil {
			nr.Error = event.Error.Error()
		}
	}
}

// nodeFor returns the NodeRecord for nodeID, creating it in authored
// arrival order on first reference.
func (r *Recorder) nodeFor(nodeID string, nodeType types.ActionType) *types.NodeRecord {
	if nr, ok := r.nodes[nodeID]; ok {
		return nr
	}
	nr := &types.NodeRecord{NodeID: nodeID, Type: nodeType, Status: types.NodeStatusPending}
	r.nodes[nodeID] = nr
	r.order = append(r.order, nodeID)
	return nr
}

// SetVariables snapshots the execution's final variable map into the
// record. The engine calls this once at the end of a run, since
// variables aren't carried on observer events.
func (r *Recorder) SetVariables(vars map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make(map[string]interface{}, len(vars))
	for k, v := range vars {
		snapshot[k] = v
	}
	r.record.Variables = snapshot
}

// Record returns a snapshot of the execution record built so far, safe
// to call concurrently with in-flight OnEvent calls (e.g. from a
// status-polling HTTP handler).
func (r *Recorder) Record() types.ExecutionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.record
	out.Nodes = make([]types.NodeRecord, 0, len(r.order))
	for _, id := range r.order {
		out.Nodes = append(out.Nodes, *r.nodes[id])
	}
	out.Variables = make(map[string]interface{}, len(r.record.Variables))
	for k, v := range r.record.Variables {
		out.Variables[k] = v
	}
	return out
}

// Elapsed returns how long the execution has been running, or its
// total wall time once ended.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record.StartedAt.IsZero() {
		return 0
	}
	end := r.record.EndedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(r.record.StartedAt)
}
