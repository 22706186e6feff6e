// Package server exposes the execution engine over a WebSocket: a
// client opens /ws/execute, sends a start_execution control message
// carrying a workflow, and receives every observer event the engine
// emits as it runs (node_start, node_complete, screenshot,
// selector_update, ai_intervention_required, ...) via pkg/stream.
// Alongside streaming it provides:
//   - A read endpoint for previously persisted execution records
//   - Health check and readiness endpoints
//   - Prometheus metrics endpoint
//   - Request/response logging and panic recovery
//   - Graceful shutdown
package server
