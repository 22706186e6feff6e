// Package selectorcache is the optional cross-call selector cache
// mentioned in spec.md: a resolved CSS selector, keyed by node type,
// node ID, and field, so a workflow re-run doesn't pay for another AI
// locate on a page that hasn't changed.
//
// New returns a github.com/redis/go-redis/v9-backed Cache when a
// Redis address is configured, grounded on Yoriyoi-drop-citadel-agent's
// internal/database/redis.go wrapper, and an in-memory LRU otherwise —
// the cache is always a pure optimization, never load-bearing for
// correctness.
package selectorcache
