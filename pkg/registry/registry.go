// Package registry implements the action registry: a name-to-behavior
// lookup table for every node type the scheduler can dispatch to, in
// the Strategy pattern style the engine uses throughout.
package registry

import (
	"context"
	"sync"
	"time"

	"github.com/webauto/engine/pkg/config"
	"github.com/webauto/engine/pkg/types"
)

// ExecutionContext is what an action gets to interact with the run
// it's executing in. It breaks the import cycle between this package
// and pkg/execctx: the concrete *execctx.Context satisfies this
// interface structurally, without either package importing the other.
type ExecutionContext interface {
	context.Context

	ExecutionID() string
	WorkflowID() string

	GetVariable(name string) (interface{}, bool)
	SetVariable(name string, value interface{})
	GetVariables() map[string]interface{}

	GetClipboard() interface{}
	SetClipboard(value interface{})

	GetNodeResult(nodeID string) (interface{}, bool)
	SetNodeResult(nodeID string, result interface{})

	// GetBrowser/SetBrowser carry a *browser.Session as interface{},
	// the same opaque-handle convention execctx.Context uses to avoid
	// an import cycle between this package and pkg/browser.
	GetBrowser() interface{}
	SetBrowser(session interface{})

	GetStorageState() []byte
	SetStorageState(state []byte)

	InterpolateString(s string) string

	RequestUserInput(prompt string, timeout time.Duration) (string, error)

	Log(level, message string, fields map[string]interface{})

	GetConfig() *config.Config
}

// ActionDefinition describes one registered action: its schema and
// the function that carries it out.
type ActionDefinition struct {
	Name        types.ActionType
	Label       string
	Description string
	Category    string // base | browser | data | control | ai
	Schema      map[string]interface{}
	Run         func(ctx ExecutionContext, node types.Node) (interface{}, error)
}

// Registry is a thread-safe name -> ActionDefinition table.
type Registry struct {
	actions map[types.ActionType]*ActionDefinition
	mu      sync.RWMutex
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[types.ActionType]*ActionDefinition)}
}

// Register adds or overwrites the action definition for its name.
// Unlike a registry that errors on duplicate registration, this one
// is idempotent by name: re-registering the same action type (e.g. a
// test replacing a built-in with a fake) simply replaces it. Built-in
// actions are all registered once at process init, so this never
// masks an accidental double-registration in production use.
func (r *Registry) Register(def *ActionDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[def.Name] = def
}

// Execute dispatches to the registered action for node.Type.
func (r *Registry) Execute(ctx ExecutionContext, node types.Node) (interface{}, error) {
	r.mu.RLock()
	def, ok := r.actions[node.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownAction(node.Type)
	}
	return def.Run(ctx, node)
}

// Get returns the action definition for a type, or nil if unregistered.
func (r *Registry) Get(actionType types.ActionType) *ActionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[actionType]
}

// ListSchemas returns every registered action's schema, excluding the
// base category (start/end) since those aren't user-placeable nodes.
func (r *Registry) ListSchemas() []*ActionDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*ActionDefinition, 0, len(r.actions))
	for _, def := range r.actions {
		if def.Category == "base" {
			continue
		}
		out = append(out, def)
	}
	return out
}

// ListRegisteredTypes returns every registered action type, including base.
func (r *Registry) ListRegisteredTypes() []types.ActionType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.ActionType, 0, len(r.actions))
	for t := range r.actions {
		out = append(out, t)
	}
	return out
}
