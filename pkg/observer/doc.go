// Package observer provides an event-driven observer pattern for workflow execution.
//
// # Overview
//
// The engine reports each stage of an execution as an Event passed to
// every Observer registered with a Manager. Observers can log, record,
// stream or measure an execution without coupling to the engine.
//
// # Observer Interface
//
//	type Observer interface {
//	    OnEvent(ctx context.Context, event Event)
//	}
//
// An Event carries its Type, a Status, a Timestamp, the ExecutionID and
// WorkflowID, for node events the NodeID and NodeType, and optional
// Result, Error, timing fields and a Metadata map. Which fields are set
// depends on the event and on its sender.
//
// # Event Types
//
//   - EventWorkflowStart, EventWorkflowEnd: an execution begins and
//     ends; a failed or cancelled run carries Error on the end event
//   - EventNodeStart, EventNodeSuccess, EventNodeFailure: one node's
//     dispatch and its outcome (EventNodeEnd is also defined)
//   - EventPaused, EventResumed: the execution is paused or resumed
//   - EventInterventionNeeded, EventInterventionCleared: a page needs
//     a human, and the operator has responded
//   - EventSelectorHealed: the locator resolved a selector other than
//     the authored one
//   - EventDebugLocatorResult: the result of a debug locator request
//
// # Basic Usage
//
//	import "github.com/webauto/engine/pkg/observer"
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//	mgr.Register(myObserver)
//
//	mgr.Notify(ctx, observer.Event{
//	    Type:        observer.EventWorkflowStart,
//	    Status:      observer.StatusStarted,
//	    Timestamp:   time.Now(),
//	    ExecutionID: "exec-1",
//	})
//
// # Custom Observer Example
//
//	type CountingObserver struct {
//	    mu     sync.Mutex
//	    counts map[observer.EventType]int
//	}
//
//	func (o *CountingObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    o.mu.Lock()
//	    defer o.mu.Unlock()
//	    o.counts[event.Type]++
//	}
//
// # Built-in Observers
//
// NoOpObserver ignores every event. ConsoleObserver writes each event
// through a Logger (NewDefaultLogger, or the one given to
// NewConsoleObserverWithLogger): workflow events at info level (error
// level for an end event with an Error), node start and success at
// debug level, node failure at warn level, other events at info level.
//
// # Delivery
//
// Manager.Notify calls each registered observer in its own goroutine
// and returns without waiting. Events therefore reach observers in no
// guaranteed order, neither across observers nor, for successive
// Notify calls, within one observer.
//
// # Error Handling
//
// A panic inside an observer is recovered and discarded; it is not
// logged. Other observers and the execution continue normally.
//
// # Use Cases
//
//   - Logging and auditing
//   - Metrics collection and monitoring
//   - Real-time dashboards
//   - Debugging and troubleshooting
//   - Performance profiling
//   - Event streaming to external systems
//   - Workflow analytics
//   - Alerting and notifications
//
// # Testing
//
// For testing, use a recording observer:
//
//	type MockObserver struct {
//	    mu     sync.Mutex
//	    events []observer.Event
//	}
//
//	func (o *MockObserver) OnEvent(ctx context.Context, event observer.Event) {
//	    o.mu.Lock()
//	    defer o.mu.Unlock()
//	    o.events = append(o.events, event)
//	}
//
// # Best Practices
//
//   - Keep observer logic simple and fast
//   - Use async processing for expensive operations
//   - Don't modify workflow or node state
//   - Handle errors gracefully (don't panic)
//   - Use structured logging for consistency
//   - Consider observer overhead in production
//
// # Thread Safety
//
// Observer methods may be called concurrently from multiple goroutines.
// Implementations must be thread-safe using appropriate synchronization.
package observer
