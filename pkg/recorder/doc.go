// Package recorder is the execution recorder (component F): an
// observer.Observer that accumulates one execution's event stream
// into a types.ExecutionRecord, the shape pkg/storage persists.
//
// Grounded on pkg/observer's Manager.Notify dispatch pattern — a
// Recorder is just another Observer, registered the same way a
// console logger would be, so recording and logging compose instead
// of being a special case in the engine.
package recorder
