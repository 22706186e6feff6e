package stream

import (
	"encoding/json"
	"time"

	"github.com/webauto/engine/pkg/types"
)

// OutboundType identifies one kind of event sent from engine to client.
type OutboundType string

const (
	OutConnected             OutboundType = "connected"
	OutExecutionStarted      OutboundType = "execution_started"
	OutNodeStart             OutboundType = "node_start"
	OutNodeComplete          OutboundType = "node_complete"
	OutScreenshot            OutboundType = "screenshot"
	OutLog                   OutboundType = "log"
	OutError                 OutboundType = "error"
	OutUserInputRequired     OutboundType = "user_input_required"
	OutAIInterventionRequired OutboundType = "ai_intervention_required"
	OutSelectorUpdate        OutboundType = "selector_update"
	OutStorageStateUpdate    OutboundType = "storage_state_update"
	OutExecutionComplete     OutboundType = "execution_complete"
	OutExecutionCancelled    OutboundType = "execution_cancelled"
)

// OutboundMessage is a superset of every outbound event's fields, in
// the same flat-struct style as observer.Event: most fields are
// omitted on the wire depending on Type.
type OutboundMessage struct {
	Type        OutboundType `json:"type"`
	ExecutionID string       `json:"execution_id,omitempty"`
	WorkflowID  string       `json:"workflow_id,omitempty"`
	NodeOrder   []string     `json:"node_order,omitempty"`

	NodeID   string           `json:"node_id,omitempty"`
	NodeType types.ActionType `json:"node_type,omitempty"`

	Success bool              `json:"success,omitempty"`
	Result  interface{}       `json:"result,omitempty"`
	Record  *types.NodeRecord `json:"record,omitempty"`
	Error   string            `json:"error,omitempty"`

	Data      string    `json:"data,omitempty"` // base64 JPEG screenshot, or opaque storage-state blob
	Timestamp time.Time `json:"timestamp,omitempty"`

	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`

	Prompt  string        `json:"prompt,omitempty"`
	Timeout time.Duration `json:"timeout,omitempty"`

	InterventionType string  `json:"intervention_type,omitempty"`
	Reason           string  `json:"reason,omitempty"`
	Confidence       float64 `json:"confidence,omitempty"`
	Screenshot       string  `json:"screenshot,omitempty"`

	Selector string `json:"selector,omitempty"`
}

// InboundType identifies one kind of control message from client to engine.
type InboundType string

const (
	InStartExecution    InboundType = "start_execution"
	InUserInputResponse InboundType = "user_input_response"
	InStopExecution     InboundType = "stop_execution"
	InLoginConfirmed    InboundType = "login_confirmed"
	InDebugAILocator    InboundType = "debug_ai_locator"
)

// InboundMessage is a superset of every inbound control message's fields.
type InboundMessage struct {
	Type InboundType `json:"type"`

	WorkflowID           string                 `json:"workflow_id,omitempty"`
	Workflow             *types.Workflow        `json:"workflow,omitempty"`
	Variables            map[string]interface{} `json:"variables,omitempty"`
	Mode                 string                 `json:"mode,omitempty"`
	InjectedStorageState json.RawMessage        `json:"injected_storage_state,omitempty"`

	Action string `json:"action,omitempty"`
	NodeID string `json:"node_id,omitempty"`

	// debug_ai_locator carries an arbitrary probe config (selector,
	// target description, URL) forwarded straight to pkg/locator.
	Debug map[string]interface{} `json:"debug,omitempty"`
}
