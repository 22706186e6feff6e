package stream

import (
	"context"

	"github.com/webauto/engine/pkg/observer"
	"github.com/webauto/engine/pkg/types"
)

// Bridge adapts an execution's observer.Event stream onto a Channel's
// outbound wire protocol, translating the engine's internal event
// vocabulary into the client-facing OutboundMessage types. One Bridge
// is registered per execution, alongside the recorder, on the same
// observer.Manager the engine notifies.
type Bridge struct {
	channel *Channel
	order   []string
}

// NewBridge returns a Bridge that forwards onto channel. order is the
// workflow's topological node order, sent once on execution_started so
// a client can render a progress list before any node_start arrives.
func NewBridge(channel *Channel, order []string) *Bridge {
	return &Bridge{channel: channel, order: order}
}

// OnEvent implements observer.Observer.
func (b *Bridge) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventWorkflowStart:
		b.channel.Send(OutboundMessage{
			Type: OutExecutionStarted, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			NodeOrder: b.order, Timestamp: event.Timestamp,
		})

	case observer.EventNodeStart:
		b.channel.Send(OutboundMessage{
			Type: OutNodeStart, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			NodeID: event.NodeID, NodeType: event.NodeType, Timestamp: event.Timestamp,
		})

	case observer.EventNodeSuccess:
		b.channel.Send(OutboundMessage{
			Type: OutNodeComplete, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			NodeID: event.NodeID, NodeType: event.NodeType, Success: true, Result: event.Result,
			Timestamp: event.Timestamp,
		})
		if event.NodeType == types.ActionScreenshot {
			b.sendScreenshot(event)
		}

	case observer.EventNodeFailure:
		b.channel.Send(OutboundMessage{
			Type: OutNodeComplete, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			NodeID: event.NodeID, NodeType: event.NodeType, Success: false, Error: errString(event.Error),
			Timestamp: event.Timestamp,
		})

	case observer.EventWorkflowEnd:
		msgType := OutExecutionComplete
		if event.Error != nil {
			msgType = OutError
		}
		b.channel.Send(OutboundMessage{
			Type: msgType, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			Error: errString(event.Error), Timestamp: event.Timestamp,
		})

	case observer.EventSelectorHealed:
		selector, _ := event.Metadata["selector"].(string)
		b.channel.Send(OutboundMessage{
			Type: OutSelectorUpdate, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			NodeID: event.NodeID, NodeType: event.NodeType, Selector: selector, Timestamp: event.Timestamp,
		})

	case observer.EventInterventionNeeded:
		interventionType, _ := event.Metadata["intervention_type"].(string)
		reason, _ := event.Metadata["reason"].(string)
		confidence, _ := event.Metadata["confidence"].(float64)
		screenshot, _ := event.Metadata["screenshot"].(string)
		b.channel.Send(OutboundMessage{
			Type: OutAIInterventionRequired, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			NodeID: event.NodeID, InterventionType: interventionType, Reason: reason, Confidence: confidence,
			Screenshot: screenshot, Timestamp: event.Timestamp,
		})

	case observer.EventPaused, observer.EventResumed, observer.EventInterventionCleared, observer.EventDebugLocatorResult:
		b.channel.Send(OutboundMessage{
			Type: OutLog, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
			Level: "info", Message: string(event.Type), Timestamp: event.Timestamp,
		})
	}
}

// sendScreenshot pulls jpeg_base64 out of a screenshot node's result
// map and forwards it as a dedicated OutScreenshot frame, so a client
// doesn't have to parse node_complete's opaque Result to find it.
func (b *Bridge) sendScreenshot(event observer.Event) {
	m, ok := event.Result.(map[string]interface{})
	if !ok {
		return
	}
	data, ok := m["jpeg_base64"].(string)
	if !ok {
		return
	}
	b.channel.Send(OutboundMessage{
		Type: OutScreenshot, ExecutionID: event.ExecutionID, WorkflowID: event.WorkflowID,
		NodeID: event.NodeID, Data: data, Timestamp: event.Timestamp,
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
