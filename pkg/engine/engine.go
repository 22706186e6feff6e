// Package engine is the scheduler/executor (component G): it walks a
// workflow's nodes in topological order, dispatching each to
// pkg/registry, while driving the pending→running↔paused→{completed,
// failed,cancelled} execution state machine.
//
// Grounded on pkg/engine/engine.go's Execute (goroutine + done channel
// + select on ctx.Done(), observer notifications around node/workflow
// boundaries) and shouldExecuteNode (conditional-edge gating via
// SourceHandle), generalized from a single in-process Engine per
// execution to a process-wide Engine that can run many executions
// concurrently, each tracked by its own *Execution.
package engine

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/config"
	"github.com/webauto/engine/pkg/execctx"
	"github.com/webauto/engine/pkg/graph"
	"github.com/webauto/engine/pkg/interpolate"
	"github.com/webauto/engine/pkg/intervention"
	"github.com/webauto/engine/pkg/logging"
	"github.com/webauto/engine/pkg/observer"
	"github.com/webauto/engine/pkg/recorder"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/screenshot"
	"github.com/webauto/engine/pkg/types"
)

// Engine owns the process-wide set of in-flight executions. One
// Engine is created per server process; every started workflow gets
// its own *Execution tracked in the registry map.
type Engine struct {
	registry     *registry.Registry
	config       *config.Config
	logger       *logging.Logger
	intervention *intervention.Detector

	mu         sync.RWMutex
	executions map[string]*Execution
}

// New builds an Engine that dispatches through reg and applies cfg's
// limits to every execution it starts. detector may be nil, in which
// case a node's intervention_check config flag is silently ignored —
// matching how the locator degrades when no AI client is configured.
func New(reg *registry.Registry, cfg *config.Config, logger *logging.Logger, detector *intervention.Detector) *Engine {
	if logger == nil {
		logger = logging.New(logging.DefaultConfig())
	}
	return &Engine{
		registry:     reg,
		config:       cfg,
		logger:       logger,
		intervention: detector,
		executions:   make(map[string]*Execution),
	}
}

// Start begins executing workflow in a new goroutine and returns
// immediately with the tracking *Execution. variables seeds the
// execution context before the first node runs.
func (e *Engine) Start(executionID string, workflow types.Workflow, variables map[string]interface{}, observerMgr *observer.Manager) (*Execution, error) {
	g := graph.New(workflow.Nodes, workflow.Edges)
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	ectx := execctx.New(executionID, workflow.ID, e.config, e.logFunc())
	ectx.SetInterpolator(interpolate.String)
	for k, v := range variables {
		ectx.SetVariable(k, v)
	}

	if observerMgr == nil {
		observerMgr = observer.NewManager()
	}
	rec := recorder.New(executionID, workflow.ID)
	observerMgr.Register(rec)

	exec := &Execution{
		id:               executionID,
		workflow:         workflow,
		order:            order,
		ctx:              ectx,
		status:           types.StatusPending,
		observerMgr:      observerMgr,
		recorder:         rec,
		done:             make(chan struct{}),
		registry:         e.registry,
		intervention:     e.intervention,
		userInputTimeout: e.config.UserInputTimeout,
		logger:           e.logger.WithExecutionID(executionID).WithWorkflowID(workflow.ID),
	}

	e.mu.Lock()
	e.executions[executionID] = exec
	e.mu.Unlock()

	go exec.run()

	return exec, nil
}

// Get returns the tracked Execution for executionID, if still known
// to this process. An execution stays in the map, terminal or not,
// until Engine.Forget removes it.
func (e *Engine) Get(executionID string) (*Execution, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	exec, ok := e.executions[executionID]
	return exec, ok
}

// Forget drops executionID from the process-wide map. Call this after
// persisting the final record — there is no reason to keep a
// completed execution's goroutine state resident forever.
func (e *Engine) Forget(executionID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.executions, executionID)
}

func (e *Engine) logFunc() execctx.LogFunc {
	return func(level, message string, fields map[string]interface{}) {
		l := e.logger.WithFields(fields)
		switch level {
		case "debug":
			l.Debug(message)
		case "warn":
			l.Warn(message)
		case "error":
			l.Error(message)
		default:
			l.Info(message)
		}
	}
}

// Execution tracks one workflow run: its topological order, execution
// context, and the pending→running↔paused→{completed,failed,cancelled}
// state machine.
type Execution struct {
	id               string
	workflow         types.Workflow
	order            []string
	ctx              *execctx.Context
	registry         *registry.Registry
	intervention     *intervention.Detector
	userInputTimeout time.Duration
	logger           *logging.Logger

	observerMgr *observer.Manager
	recorder    *recorder.Recorder

	mu           sync.Mutex
	status       types.Status
	resumeSignal chan struct{} // non-nil and open while paused; closed on Resume

	done chan struct{}
}

// ID returns the execution's ID.
func (ex *Execution) ID() string { return ex.id }

// Order returns the workflow's topological node order computed at
// Start, for a client that wants to render a progress list up front.
func (ex *Execution) Order() []string { return ex.order }

// Status returns the execution's current state.
func (ex *Execution) Status() types.Status {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	return ex.status
}

// Record returns a snapshot of the execution's audit trail built so far.
func (ex *Execution) Record() types.ExecutionRecord {
	return ex.recorder.Record()
}

// Done returns a channel that closes once the execution reaches a
// terminal state.
func (ex *Execution) Done() <-chan struct{} { return ex.done }

// Pause requests the execution stop before its next node. It's a
// no-op if the execution isn't currently running.
func (ex *Execution) Pause() {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.status != types.StatusRunning {
		return
	}
	ex.status = types.StatusPaused
	ex.resumeSignal = make(chan struct{})
	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventPaused, ExecutionID: ex.id, WorkflowID: ex.workflow.ID, Timestamp: time.Now(),
	})
}

// Resume releases a paused execution to continue. No-op if not paused.
func (ex *Execution) Resume() {
	ex.mu.Lock()
	defer ex.mu.Unlock()
	if ex.status != types.StatusPaused {
		return
	}
	ex.status = types.StatusRunning
	close(ex.resumeSignal)
	ex.resumeSignal = nil
	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventResumed, ExecutionID: ex.id, WorkflowID: ex.workflow.ID, Timestamp: time.Now(),
	})
}

// Cancel stops the execution, including one that is currently paused.
// Cancellation always wins over a concurrent pause/resume/user-input
// response — it cancels the underlying context, which unblocks
// waitIfPaused and RequestUserInput alike.
func (ex *Execution) Cancel() {
	ex.ctx.CancelUserInput()
	ex.ctx.Cancel()
}

// ProvideUserInput delivers a value to a paused user_input node. See
// execctx.Context.ProvideUserInput.
func (ex *Execution) ProvideUserInput(value string) bool {
	return ex.ctx.ProvideUserInput(value)
}

// waitIfPaused blocks the execution goroutine while paused, returning
// early if ctx is cancelled. A cancel while paused always wins: Cancel
// cancels the context this select is already waiting on.
func (ex *Execution) waitIfPaused(ctx context.Context) error {
	for {
		ex.mu.Lock()
		ch := ex.resumeSignal
		ex.mu.Unlock()
		if ch == nil {
			return nil
		}
		select {
		case <-ch:
			continue
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// run walks the workflow's nodes in topological order, dispatching
// each through the registry, until it finishes, fails, or is
// cancelled. It always closes ex.done on return.
func (ex *Execution) run() {
	defer close(ex.done)

	ex.mu.Lock()
	ex.status = types.StatusRunning
	ex.mu.Unlock()

	startTime := time.Now()
	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventWorkflowStart, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
		Timestamp: startTime, StartTime: startTime,
	})

	err := ex.runNodes()

	ex.mu.Lock()
	switch {
	case ex.ctx.Err() != nil && err != nil:
		ex.status = types.StatusCancelled
	case err != nil:
		ex.status = types.StatusFailed
	default:
		ex.status = types.StatusCompleted
	}
	ex.mu.Unlock()

	ex.recorder.SetVariables(ex.ctx.GetVariables())
	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventWorkflowEnd, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
		Timestamp: time.Now(), StartTime: startTime, ElapsedTime: time.Since(startTime), Error: err,
	})
}

func (ex *Execution) runNodes() error {
	nodesByID := make(map[string]types.Node, len(ex.workflow.Nodes))
	for _, n := range ex.workflow.Nodes {
		nodesByID[n.ID] = n
	}
	incoming := make(map[string][]types.Edge)
	for _, edge := range ex.workflow.Edges {
		incoming[edge.Target] = append(incoming[edge.Target], edge)
	}

	for _, nodeID := range ex.order {
		if err := ex.waitIfPaused(ex.ctx); err != nil {
			return err
		}
		select {
		case <-ex.ctx.Done():
			return ex.ctx.Err()
		default:
		}

		if !shouldExecuteNode(ex.ctx, nodeID, incoming[nodeID]) {
			continue
		}

		node := nodesByID[nodeID]
		if err := ex.executeNode(node); err != nil {
			return err
		}
	}
	return nil
}

func (ex *Execution) executeNode(node types.Node) error {
	startTime := time.Now()
	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventNodeStart, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
		NodeID: node.ID, NodeType: node.Type, Timestamp: startTime, StartTime: startTime,
	})

	// Interpolate {{variable}} references in the node's config exactly
	// once, immediately before dispatch, so every action sees resolved
	// values and never has to call back into the interpolator itself.
	node.Config = interpolateConfig(node.Config, ex.ctx.GetVariables())

	if err := ex.checkIntervention(node); err != nil {
		ex.observerMgr.Notify(ex.ctx, observer.Event{
			Type: observer.EventNodeFailure, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
			NodeID: node.ID, NodeType: node.Type, Timestamp: time.Now(),
			StartTime: startTime, ElapsedTime: time.Since(startTime), Error: err,
		})
		return fmt.Errorf("node %s: %w", node.ID, err)
	}

	result, err := ex.registry.Execute(ex.ctx, node)
	if err != nil {
		ex.observerMgr.Notify(ex.ctx, observer.Event{
			Type: observer.EventNodeFailure, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
			NodeID: node.ID, NodeType: node.Type, Timestamp: time.Now(),
			StartTime: startTime, ElapsedTime: time.Since(startTime), Error: err,
		})
		return fmt.Errorf("node %s: %w", node.ID, err)
	}

	ex.ctx.SetNodeResult(node.ID, result)
	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventNodeSuccess, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
		NodeID: node.ID, NodeType: node.Type, Timestamp: time.Now(),
		StartTime: startTime, ElapsedTime: time.Since(startTime), Result: result,
	})

	if selector, healed := healedSelector(node, result); healed {
		ex.observerMgr.Notify(ex.ctx, observer.Event{
			Type: observer.EventSelectorHealed, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
			NodeID: node.ID, NodeType: node.Type, Timestamp: time.Now(),
			Metadata: map[string]interface{}{"selector": selector},
		})
	}
	return nil
}

// checkIntervention runs the node's config-requested intervention
// check (spec.md §4.G step 5): if node.Config["intervention_check"]
// is true, screenshot the current page, classify it with the
// Detector, and — if it reports the page needs human attention —
// notify observers and block on the same user-input rendezvous
// request_user_input uses, until an operator responds or the
// execution is cancelled. A missing detector, browser session, or
// page is not an error: the check is simply skipped, the same way the
// locator falls through when no AI client is configured.
func (ex *Execution) checkIntervention(node types.Node) error {
	if !optionalBool(node.Config, "intervention_check") || ex.intervention == nil {
		return nil
	}

	session, ok := ex.ctx.GetBrowser().(*browser.Session)
	if !ok || session == nil || session.Page == nil {
		return nil
	}

	raw, err := session.Page.Screenshot(ex.ctx)
	if err != nil {
		return nil
	}

	result, err := ex.intervention.Detect(ex.ctx, raw)
	if err != nil || !result.NeedsIntervention {
		return nil
	}

	normalized, _, err := screenshot.Normalize(raw)
	if err != nil {
		normalized = raw
	}

	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventInterventionNeeded, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
		NodeID: node.ID, NodeType: node.Type, Timestamp: time.Now(),
		Metadata: map[string]interface{}{
			"intervention_type": string(result.InterventionType),
			"reason":            result.Reason,
			"confidence":        result.Confidence,
			"screenshot":        base64.StdEncoding.EncodeToString(normalized),
		},
	})

	prompt := fmt.Sprintf("intervention required: %s", result.Reason)
	if _, err := ex.ctx.RequestUserInput(prompt, ex.userInputTimeout); err != nil {
		return err
	}

	ex.observerMgr.Notify(ex.ctx, observer.Event{
		Type: observer.EventInterventionCleared, ExecutionID: ex.id, WorkflowID: ex.workflow.ID,
		NodeID: node.ID, NodeType: node.Type, Timestamp: time.Now(),
	})
	return nil
}

// optionalBool reads a bool field from a node's config, defaulting to
// false when absent or of the wrong type.
func optionalBool(cfg map[string]interface{}, key string) bool {
	v, _ := cfg[key].(bool)
	return v
}

// healedSelector reports the action's effective_selector when it
// differs from the node's originally authored selector — the signal
// for the selector-healing loopback (spec.md §4.G, scenario S6).
func healedSelector(node types.Node, result interface{}) (string, bool) {
	m, ok := result.(map[string]interface{})
	if !ok {
		return "", false
	}
	effective, ok := m["effective_selector"].(string)
	if !ok || effective == "" {
		return "", false
	}
	authored, _ := node.Config["selector"].(string)
	if effective == authored {
		return "", false
	}
	return effective, true
}

// shouldExecuteNode reports whether nodeID should run, given its
// incoming edges and the node results recorded so far. A node with no
// incoming edges always runs. Otherwise it runs if at least one
// incoming edge is satisfied: an edge with no SourceHandle is
// satisfied whenever its source executed at all; an edge with a
// SourceHandle is satisfied only when the source's result carries a
// matching "path" field (the convention condition/switch actions use
// to report which branch they took).
func shouldExecuteNode(ectx *execctx.Context, nodeID string, edges []types.Edge) bool {
	if len(edges) == 0 {
		return true
	}

	executedAny := false
	hasConditional := false
	satisfied := false

	for _, edge := range edges {
		result, ok := ectx.GetNodeResult(edge.Source)
		if !ok {
			continue
		}
		executedAny = true

		if edge.SourceHandle == "" {
			return true
		}
		hasConditional = true
		if pathTaken(result) == edge.SourceHandle {
			satisfied = true
		}
	}

	if !executedAny {
		return false
	}
	return !hasConditional || satisfied
}

// interpolateConfig returns a copy of cfg with every string value
// passed through the variable interpolator. nil passes through as nil
// so nodes with no config don't allocate an empty map.
func interpolateConfig(cfg map[string]interface{}, vars map[string]interface{}) map[string]interface{} {
	if cfg == nil {
		return nil
	}
	out, ok := interpolate.Value(cfg, vars).(map[string]interface{})
	if !ok {
		return cfg
	}
	return out
}

func pathTaken(result interface{}) string {
	m, ok := result.(map[string]interface{})
	if !ok {
		return ""
	}
	if path, ok := m["path"].(string); ok {
		return path
	}
	return ""
}
