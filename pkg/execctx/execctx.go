// Package execctx implements the execution context (component E): the
// per-run state envelope a scheduler hands to every action it runs —
// variables, clipboard, node results, the browser session handle, and
// the one-shot user-input rendezvous that backs human-in-the-loop
// pauses.
//
// Grounded on pkg/state's mutex-guarded Manager, generalized from that
// package's generic variable/accumulator/cache state to the fixed set
// of fields a browser-automation run needs.
package execctx

import (
	"context"
	"sync"
	"time"

	"github.com/webauto/engine/pkg/config"
)

// UserInputRequest describes a pending rendezvous; the stream layer
// reads this to know what to show a human operator.
type UserInputRequest struct {
	Prompt      string
	RequestedAt time.Time
}

// LogFunc receives structured log lines emitted through Context.Log.
type LogFunc func(level, message string, fields map[string]interface{})

// Context is the concrete execution context for one run.
type Context struct {
	context.Context
	cancel context.CancelFunc

	executionID string
	workflowID  string
	cfg         *config.Config
	logFn       LogFunc

	mu            sync.RWMutex
	variables     map[string]interface{}
	clipboard     interface{}
	nodeResults   map[string]interface{}
	browser       interface{} // *browser.Session; interface{} here avoids an import cycle
	storageState  []byte
	interpolateFn interpolateFunc

	inputMu      sync.Mutex
	pendingInput chan string
	onInputReq   func(UserInputRequest)
}

// New builds a fresh execution context with the given wall-clock
// budget. Callers must call Cancel (or let the timeout fire) to
// release the underlying context.
func New(executionID, workflowID string, cfg *config.Config, logFn LogFunc) *Context {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MaxExecutionTime)
	return &Context{
		Context:     ctx,
		cancel:      cancel,
		executionID: executionID,
		workflowID:  workflowID,
		cfg:         cfg,
		logFn:       logFn,
		variables:   make(map[string]interface{}),
		nodeResults: make(map[string]interface{}),
	}
}

// Cancel force-terminates the context; the node loop observes this
// through Done() on its next check.
func (c *Context) Cancel() { c.cancel() }

func (c *Context) ExecutionID() string { return c.executionID }
func (c *Context) WorkflowID() string  { return c.workflowID }
func (c *Context) GetConfig() *config.Config { return c.cfg }

// GetVariable returns a flat-namespace variable by name.
func (c *Context) GetVariable(name string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.variables[name]
	return v, ok
}

// SetVariable sets a flat-namespace variable.
func (c *Context) SetVariable(name string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variables[name] = value
}

// GetVariables returns a defensive copy of all variables.
func (c *Context) GetVariables() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]interface{}, len(c.variables))
	for k, v := range c.variables {
		out[k] = v
	}
	return out
}

// GetClipboard returns the last extracted/copied value.
func (c *Context) GetClipboard() interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.clipboard
}

// SetClipboard stores a value for later actions to reference.
func (c *Context) SetClipboard(value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clipboard = value
}

// GetNodeResult returns a previously recorded node's output.
func (c *Context) GetNodeResult(nodeID string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.nodeResults[nodeID]
	return v, ok
}

// SetNodeResult records a node's output for downstream nodes to read.
func (c *Context) SetNodeResult(nodeID string, result interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodeResults[nodeID] = result
}

// GetBrowser returns the current browser session handle, or nil if
// none has been established yet.
func (c *Context) GetBrowser() interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.browser
}

// SetBrowser stores the browser session handle.
func (c *Context) SetBrowser(session interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.browser = session
}

// GetStorageState returns the opaque storage_state blob, if any.
func (c *Context) GetStorageState() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.storageState
}

// SetStorageState stores the opaque storage_state blob.
func (c *Context) SetStorageState(state []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storageState = state
}

// InterpolateString is filled in by the engine via SetInterpolator,
// keeping this package free of a direct dependency on pkg/interpolate
// so either can evolve independently.
func (c *Context) InterpolateString(s string) string {
	c.mu.RLock()
	fn := c.interpolateFn
	c.mu.RUnlock()
	if fn == nil {
		return s
	}
	return fn(s, c.GetVariables())
}

// interpolateFn is set once at construction by the engine.
type interpolateFunc = func(s string, vars map[string]interface{}) string

func (c *Context) SetInterpolator(fn interpolateFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interpolateFn = fn
}

// Log forwards a structured log line to the function supplied at
// construction (normally a *logging.Logger method set).
func (c *Context) Log(level, message string, fields map[string]interface{}) {
	if c.logFn != nil {
		c.logFn(level, message, fields)
	}
}

// SetOnUserInputRequested registers the callback invoked whenever
// RequestUserInput starts waiting, so the streaming channel can push
// a prompt to the client.
func (c *Context) SetOnUserInputRequested(fn func(UserInputRequest)) {
	c.inputMu.Lock()
	defer c.inputMu.Unlock()
	c.onInputReq = fn
}

// RequestUserInput blocks until a response arrives via ProvideUserInput,
// the context is cancelled, or timeout elapses. The rendezvous channel
// is created fresh for this call and is never reused: a second call
// while one is already pending returns ErrInputAlreadyPending.
func (c *Context) RequestUserInput(prompt string, timeout time.Duration) (string, error) {
	c.inputMu.Lock()
	if c.pendingInput != nil {
		c.inputMu.Unlock()
		return "", ErrInputAlreadyPending
	}
	ch := make(chan string, 1)
	c.pendingInput = ch
	notify := c.onInputReq
	c.inputMu.Unlock()

	if notify != nil {
		notify(UserInputRequest{Prompt: prompt, RequestedAt: time.Now()})
	}

	defer func() {
		c.inputMu.Lock()
		c.pendingInput = nil
		c.inputMu.Unlock()
	}()

	var timer *time.Timer
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer = time.NewTimer(timeout)
		timeoutCh = timer.C
		defer timer.Stop()
	}

	select {
	case v := <-ch:
		if v == cancelSentinel {
			return "", ErrUserCancelled
		}
		return v, nil
	case <-timeoutCh:
		return "", ErrUserInputTimeout
	case <-c.Done():
		return "", ErrUserCancelled
	}
}

// cancelSentinel is delivered through the rendezvous channel by
// CancelUserInput so a concurrent cancel always wins over a
// concurrently arriving response.
const cancelSentinel = "\x00cancel"

// ProvideUserInput delivers a response to a pending RequestUserInput
// call. Returns false if nothing is currently waiting.
func (c *Context) ProvideUserInput(value string) bool {
	c.inputMu.Lock()
	ch := c.pendingInput
	c.inputMu.Unlock()
	if ch == nil {
		return false
	}
	select {
	case ch <- value:
		return true
	default:
		return false
	}
}

// CancelUserInput unblocks a pending RequestUserInput with a cancel
// signal, regardless of whether a response is also in flight: a
// response that was delivered but not yet read is replaced by the
// cancel.
func (c *Context) CancelUserInput() bool {
	c.inputMu.Lock()
	ch := c.pendingInput
	c.inputMu.Unlock()
	if ch == nil {
		return false
	}
	select {
	case ch <- cancelSentinel:
		return true
	default:
	}
	// A response is already buffered: drop it so the cancel wins.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- cancelSentinel:
		return true
	default:
		return false
	}
}
