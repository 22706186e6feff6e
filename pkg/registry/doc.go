// Package registry is the action registry (component A): a
// name-to-behavior lookup table for every node type the scheduler can
// dispatch, built the same Strategy-pattern way the engine dispatches
// node executors.
//
// # Registration
//
// Built-in actions are registered once at process init via
// DefaultRegistry (pkg/actions). Register is idempotent by name,
// which lets tests swap in a fake action under a built-in's name
// without touching the shared default registry.
//
// # Categories
//
// Every action has a category (base, browser, data, control, ai).
// ListSchemas excludes base, since start/end are structural markers a
// workflow author never places directly.
package registry
