package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/browser/fakedriver"
	"github.com/webauto/engine/pkg/config"
	"github.com/webauto/engine/pkg/intervention"
	"github.com/webauto/engine/pkg/llm/llmtest"
	"github.com/webauto/engine/pkg/observer"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []observer.EventType
}

func (o *recordingObserver) OnEvent(ctx context.Context, event observer.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event.Type)
}

func (o *recordingObserver) seen() []observer.EventType {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]observer.EventType, len(o.events))
	copy(out, o.events)
	return out
}

const actionNoop types.ActionType = "test_noop"
const actionFail types.ActionType = "test_fail"
const actionRecordPath types.ActionType = "test_path"
const actionBlock types.ActionType = "test_block"
const actionConnect types.ActionType = "test_connect"

func newTestRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	reg.Register(&registry.ActionDefinition{
		Name: actionNoop,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			return "ok", nil
		},
	})
	reg.Register(&registry.ActionDefinition{
		Name: actionFail,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			return nil, errors.New("boom")
		},
	})
	reg.Register(&registry.ActionDefinition{
		Name: actionRecordPath,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			path, _ := node.Config["path"].(string)
			return map[string]interface{}{"path": path}, nil
		},
	})
	reg.Register(&registry.ActionDefinition{
		Name: actionConnect,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			driver := fakedriver.New()
			handle, _ := driver.Launch(ctx, true)
			pc, _ := handle.DefaultContext(ctx)
			page, _ := pc.NewPage(ctx)
			ctx.SetBrowser(&browser.Session{Handle: handle, PageContext: pc, Page: page})
			return "connected", nil
		},
	})
	return reg
}

func testEngineWithIntervention(reg *registry.Registry, detector *intervention.Detector) *Engine {
	return New(reg, config.Testing(), nil, detector)
}

func testEngine(reg *registry.Registry) *Engine {
	return New(reg, config.Testing(), nil, nil)
}

func waitDone(t *testing.T, exec *Execution) {
	t.Helper()
	select {
	case <-exec.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("execution did not finish in time")
	}
}

func TestEngine_LinearWorkflowCompletes(t *testing.T) {
	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "a", Type: actionNoop},
			{ID: "b", Type: actionNoop},
		},
		Edges: []types.Edge{{Source: "a", Target: "b"}},
	}
	eng := testEngine(newTestRegistry())
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)

	if got := exec.Status(); got != types.StatusCompleted {
		t.Errorf("Status() = %v, want completed", got)
	}
	record := exec.Record()
	if len(record.Nodes) != 2 {
		t.Errorf("got %d node records, want 2", len(record.Nodes))
	}
}

func TestEngine_NodeFailurePropagates(t *testing.T) {
	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "a", Type: actionNoop},
			{ID: "b", Type: actionFail},
			{ID: "c", Type: actionNoop},
		},
		Edges: []types.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
	}
	eng := testEngine(newTestRegistry())
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)

	if got := exec.Status(); got != types.StatusFailed {
		t.Errorf("Status() = %v, want failed", got)
	}
	record := exec.Record()
	var cNode *types.NodeRecord
	for i := range record.Nodes {
		if record.Nodes[i].NodeID == "c" {
			cNode = &record.Nodes[i]
		}
	}
	if cNode != nil {
		t.Errorf("node c should never have run after b failed, got record %+v", cNode)
	}
}

func TestEngine_ConditionalEdgeSkipsUnmatchedBranch(t *testing.T) {
	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "switch", Type: actionRecordPath, Config: map[string]interface{}{"path": "true"}},
			{ID: "onTrue", Type: actionNoop},
			{ID: "onFalse", Type: actionNoop},
		},
		Edges: []types.Edge{
			{Source: "switch", Target: "onTrue", SourceHandle: "true"},
			{Source: "switch", Target: "onFalse", SourceHandle: "false"},
		},
	}
	eng := testEngine(newTestRegistry())
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)

	if got := exec.Status(); got != types.StatusCompleted {
		t.Errorf("Status() = %v, want completed", got)
	}
	byID := map[string]types.NodeStatus{}
	for _, n := range exec.Record().Nodes {
		byID[n.NodeID] = n.Status
	}
	if byID["onTrue"] != types.NodeStatusCompleted {
		t.Errorf("onTrue status = %v, want completed", byID["onTrue"])
	}
	if _, ran := byID["onFalse"]; ran {
		t.Errorf("onFalse should have been skipped, got status %v", byID["onFalse"])
	}
}

func TestEngine_PauseResume(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	reg := newTestRegistry()
	reg.Register(&registry.ActionDefinition{
		Name: actionBlock,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			close(started)
			<-block
			return nil, nil
		},
	})

	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "a", Type: actionBlock},
			{ID: "b", Type: actionNoop},
		},
		Edges: []types.Edge{{Source: "a", Target: "b"}},
	}
	eng := testEngine(reg)
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	<-started
	exec.Pause()
	if got := exec.Status(); got != types.StatusPaused {
		t.Fatalf("Status() = %v, want paused", got)
	}
	close(block)

	// The run is blocked inside waitIfPaused before node b, even though
	// node a's action already returned.
	select {
	case <-exec.Done():
		t.Fatal("execution finished while paused")
	case <-time.After(100 * time.Millisecond):
	}

	exec.Resume()
	waitDone(t, exec)
	if got := exec.Status(); got != types.StatusCompleted {
		t.Errorf("Status() = %v, want completed", got)
	}
}

func TestEngine_CancelWinsOverPause(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{})
	reg := newTestRegistry()
	reg.Register(&registry.ActionDefinition{
		Name: actionBlock,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			close(started)
			<-block
			return nil, nil
		},
	})

	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "a", Type: actionBlock},
			{ID: "b", Type: actionNoop},
		},
		Edges: []types.Edge{{Source: "a", Target: "b"}},
	}
	eng := testEngine(reg)
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	<-started
	exec.Pause()
	close(block)
	exec.Cancel()

	waitDone(t, exec)
	if got := exec.Status(); got != types.StatusCancelled {
		t.Errorf("Status() = %v, want cancelled", got)
	}
}

func TestEngine_GetAndForget(t *testing.T) {
	wf := types.Workflow{
		ID:    "wf-1",
		Nodes: []types.Node{{ID: "a", Type: actionNoop}},
	}
	eng := testEngine(newTestRegistry())
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)

	if _, ok := eng.Get("exec-1"); !ok {
		t.Fatal("Get() did not find started execution")
	}
	eng.Forget("exec-1")
	if _, ok := eng.Get("exec-1"); ok {
		t.Error("Get() still finds execution after Forget()")
	}
}

func TestEngine_VariablesSeedExecutionContext(t *testing.T) {
	var seen interface{}
	reg := newTestRegistry()
	reg.Register(&registry.ActionDefinition{
		Name: actionNoop,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			v, _ := ctx.GetVariable("greeting")
			seen = v
			return nil, nil
		},
	})
	wf := types.Workflow{
		ID:    "wf-1",
		Nodes: []types.Node{{ID: "a", Type: actionNoop}},
	}
	eng := testEngine(reg)
	exec, err := eng.Start("exec-1", wf, map[string]interface{}{"greeting": "hello"}, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)

	if seen != "hello" {
		t.Errorf("GetVariable(greeting) = %v, want hello", seen)
	}
}

func TestEngine_InterpolatesConfigBeforeDispatch(t *testing.T) {
	var seenURL interface{}
	var seenNested interface{}
	reg := newTestRegistry()
	reg.Register(&registry.ActionDefinition{
		Name: actionNoop,
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			seenURL = node.Config["url"]
			list, _ := node.Config["headers"].([]interface{})
			if len(list) > 0 {
				seenNested = list[0]
			}
			return nil, nil
		},
	})
	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{{
			ID:   "a",
			Type: actionNoop,
			Config: map[string]interface{}{
				"url":     "https://example.com/{{path}}",
				"headers": []interface{}{"Bearer {{token}}"},
			},
		}},
	}
	eng := testEngine(reg)
	vars := map[string]interface{}{"path": "users", "token": "abc123"}
	exec, err := eng.Start("exec-1", wf, vars, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)

	if seenURL != "https://example.com/users" {
		t.Errorf("url = %v, want interpolated", seenURL)
	}
	if seenNested != "Bearer abc123" {
		t.Errorf("headers[0] = %v, want interpolated", seenNested)
	}
}

func TestEngine_NotifiesObserverForWorkflowAndNodeEvents(t *testing.T) {
	rec := &recordingObserver{}
	mgr := observer.NewManager()
	mgr.Register(rec)

	wf := types.Workflow{
		ID:    "wf-1",
		Nodes: []types.Node{{ID: "a", Type: actionNoop}},
	}
	eng := testEngine(newTestRegistry())
	exec, err := eng.Start("exec-1", wf, nil, mgr)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)
	time.Sleep(20 * time.Millisecond) // observer dispatch runs in its own goroutine

	events := rec.seen()
	want := []observer.EventType{observer.EventWorkflowStart, observer.EventNodeStart, observer.EventNodeSuccess, observer.EventWorkflowEnd}
	if len(events) < len(want) {
		t.Fatalf("got %d events %v, want at least %d", len(events), events, len(want))
	}
	for _, w := range want {
		found := false
		for _, e := range events {
			if e == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing %s in %v", w, events)
		}
	}
}

func TestEngine_InterventionCheckPausesUntilUserInput(t *testing.T) {
	stub := llmtest.New(llmtest.Response{Value: map[string]interface{}{
		"needs_intervention": true,
		"intervention_type":  "login_form",
		"confidence":         0.9,
		"reason":             "login form visible",
	}})
	detector := intervention.New(stub, 0.7)

	rec := &recordingObserver{}
	mgr := observer.NewManager()
	mgr.Register(rec)

	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "connect", Type: actionConnect},
			{ID: "gated", Type: actionNoop, Config: map[string]interface{}{"intervention_check": true}},
		},
		Edges: []types.Edge{{Source: "connect", Target: "gated"}},
	}

	eng := testEngineWithIntervention(newTestRegistry(), detector)
	exec, err := eng.Start("exec-1", wf, nil, mgr)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	go func() {
		for i := 0; i < 200; i++ {
			if exec.ProvideUserInput("continue") {
				return
			}
			time.Sleep(time.Millisecond)
		}
	}()

	waitDone(t, exec)

	if got := exec.Status(); got != types.StatusCompleted {
		t.Errorf("Status() = %v, want completed", got)
	}

	var sawNeeded, sawCleared bool
	for _, e := range rec.seen() {
		if e == observer.EventInterventionNeeded {
			sawNeeded = true
		}
		if e == observer.EventInterventionCleared {
			sawCleared = true
		}
	}
	if !sawNeeded {
		t.Error("expected an intervention_needed event")
	}
	if !sawCleared {
		t.Error("expected an intervention_cleared event once the operator responded")
	}
}

func TestEngine_InterventionCheckSkippedWhenNotRequested(t *testing.T) {
	stub := llmtest.New() // no responses queued — a call would fail the test
	detector := intervention.New(stub, 0.7)

	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "connect", Type: actionConnect},
			{ID: "ungated", Type: actionNoop},
		},
		Edges: []types.Edge{{Source: "connect", Target: "ungated"}},
	}

	eng := testEngineWithIntervention(newTestRegistry(), detector)
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitDone(t, exec)

	if got := exec.Status(); got != types.StatusCompleted {
		t.Errorf("Status() = %v, want completed", got)
	}
	if len(stub.Calls()) != 0 {
		t.Error("expected no AI call when intervention_check is unset")
	}
}

func TestEngine_InterventionCheckFailsNodeOnCancelDuringRendezvous(t *testing.T) {
	stub := llmtest.New(llmtest.Response{Value: map[string]interface{}{
		"needs_intervention": true,
		"confidence":         0.9,
	}})
	detector := intervention.New(stub, 0.7)

	wf := types.Workflow{
		ID: "wf-1",
		Nodes: []types.Node{
			{ID: "connect", Type: actionConnect},
			{ID: "gated", Type: actionNoop, Config: map[string]interface{}{"intervention_check": true}},
		},
		Edges: []types.Edge{{Source: "connect", Target: "gated"}},
	}

	eng := testEngineWithIntervention(newTestRegistry(), detector)
	exec, err := eng.Start("exec-1", wf, nil, nil)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	exec.Cancel()
	waitDone(t, exec)

	if got := exec.Status(); got != types.StatusCancelled {
		t.Errorf("Status() = %v, want cancelled", got)
	}
}
