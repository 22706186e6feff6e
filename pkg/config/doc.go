// Package config centralizes execution-engine configuration.
//
// # Overview
//
// A Config is a plain, validated value assembled in code by the
// process that constructs the engine (cmd/server, or a test). This
// package has no file or environment loader; wiring configuration
// from TOML/YAML/env is left to the caller.
//
// # Sections
//
//   - Execution limits: per-execution timeout and user_input wait; the
//     per-node timeout and node cap are validated but not enforced by
//     pkg/engine
//   - Network: zero-trust allow-list for the http_request action
//   - AI: locator/intervention-detector fallback behavior
//   - Selector cache: optional cross-call cache sizing
//   - Retry: default attempts/backoff values, validated only; pkg/engine
//     runs each node once and does not retry
//
// # Thread safety
//
// A *Config is read-only once constructed; callers needing to mutate
// one safely should Clone it first.
package config
