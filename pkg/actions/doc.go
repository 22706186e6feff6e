// Package actions implements the built-in action catalog dispatched
// through pkg/registry: navigate, click, type, wait, extract,
// screenshot, ai_locate, user_input, set_var, condition, http_request,
// storage_state_get, and open_tab, plus the base start/end no-ops.
//
// Grounded on pkg/registry/registry.go's ActionDefinition shape and
// pkg/executor/registry.go's DefaultRegistry()-style enumeration (one
// Register call per built-in, no reflection-based discovery).
// Every action that touches a page resolves it through Deps, which
// carries the shared collaborators (browser manager, hybrid locator,
// intervention detector, SSRF guard, HTTP client) built once at
// process start and threaded through every execution.
package actions
