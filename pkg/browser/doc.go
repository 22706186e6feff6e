// Package browser is the browser session manager (component C).
//
// # Connection modes
//
// Connect tries CDP attach first when a debug URL is configured,
// falling back to an ephemeral launch on failure or when no debug URL
// is set. CDP attach is always opt-in through ConnectOptions — this
// package never probes well-known debug ports on its own.
//
// # Cleanup discipline
//
// Cleanup only closes a browsing context this manager created itself.
// An attached CDP browser's pre-existing context (the user's own open
// browser) is left running; only a context this package asked for via
// NewContext is torn down.
package browser
