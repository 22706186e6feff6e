// Package types provides the shared data structures used across the
// execution engine.
//
// # Overview
//
// This package holds the Workflow/Node/Edge wire types, the execution
// Status and NodeStatus enums, and the ExecutionRecord audit-trail
// shape. It has no dependency on any other engine package, which keeps
// the registry, scheduler, and execution-context packages free of
// import cycles.
//
// # Thread safety
//
// Values in this package are plain data; mutation is not synchronized
// here. Callers holding a shared Node/Workflow across goroutines must
// coordinate their own access.
package types
