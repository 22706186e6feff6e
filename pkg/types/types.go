// Package types provides the shared data structures used across the
// execution engine: workflows, nodes, edges, and the execution record
// the engine produces. Defined in one package to avoid import cycles
// between the scheduler, registry, and execution-context packages.
package types

import (
	"context"
	"time"
)

// contextKey avoids collisions with other packages' context keys.
type contextKey string

const (
	ContextKeyExecutionID contextKey = "execution_id"
	ContextKeyWorkflowID  contextKey = "workflow_id"
)

// GetExecutionID extracts the execution ID from context, or "" if absent.
func GetExecutionID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyExecutionID).(string); ok {
		return id
	}
	return ""
}

// GetWorkflowID extracts the workflow ID from context, or "" if absent.
func GetWorkflowID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyWorkflowID).(string); ok {
		return id
	}
	return ""
}

// ActionType identifies a registered action. Case-sensitive.
type ActionType string

const (
	ActionStart           ActionType = "start"
	ActionEnd             ActionType = "end"
	ActionNavigate        ActionType = "navigate"
	ActionClick           ActionType = "click"
	ActionTypeText        ActionType = "type"
	ActionWait            ActionType = "wait"
	ActionExtract         ActionType = "extract"
	ActionScreenshot      ActionType = "screenshot"
	ActionAILocate        ActionType = "ai_locate"
	ActionUserInput       ActionType = "user_input"
	ActionSetVar          ActionType = "set_var"
	ActionCondition       ActionType = "condition"
	ActionHTTPRequest     ActionType = "http_request"
	ActionStorageStateGet ActionType = "storage_state_get"
	ActionOpenTab         ActionType = "open_tab"
)

// Node is one typed step in a workflow DAG.
type Node struct {
	ID     string                 `json:"id"`
	Type   ActionType             `json:"type"`
	Label  string                 `json:"label,omitempty"`
	Config map[string]interface{} `json:"config"`
}

// Edge connects two nodes. SourceHandle distinguishes a conditional
// branch's output port (e.g. "true"/"false") on nodes that have one;
// empty means the node's single unconditional output.
type Edge struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"source_handle,omitempty"`
}

// Workflow is the DAG submitted for execution.
type Workflow struct {
	ID    string `json:"id"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Status is the execution-level state machine per spec §3/§4.G.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// NodeStatus is the per-node lifecycle state recorded for each step.
type NodeStatus string

const (
	NodeStatusPending   NodeStatus = "pending"
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusFailed    NodeStatus = "failed"
	NodeStatusSkipped   NodeStatus = "skipped"
)

// NodeRecord is one node's entry in the execution's audit trail.
type NodeRecord struct {
	NodeID    string      `json:"node_id"`
	Type      ActionType  `json:"type"`
	Status    NodeStatus  `json:"status"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   time.Time   `json:"ended_at,omitempty"`
	Output    interface{} `json:"output,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// ExecutionRecord is the persisted audit trail for one execution, per
// spec §6's storage contract; a later save of the same execution
// replaces the earlier one (latest wins).
type ExecutionRecord struct {
	ExecutionID string                 `json:"execution_id"`
	WorkflowID  string                 `json:"workflow_id"`
	Status      Status                 `json:"status"`
	StartedAt   time.Time              `json:"started_at"`
	EndedAt     time.Time              `json:"ended_at,omitempty"`
	Variables   map[string]interface{} `json:"variables"`
	Nodes       []NodeRecord           `json:"nodes"`
	Error       string                 `json:"error,omitempty"`
}
