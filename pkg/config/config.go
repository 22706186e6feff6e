// Package config centralizes execution engine configuration: timeouts,
// resource caps, and the zero-trust network policy that governs the
// http_request action and any AI calls the locator/intervention
// detector make. It intentionally does not load from a file or
// environment — that's an external collaborator's job.
package config

import "time"

// Config holds execution engine configuration.
type Config struct {
	// Execution limits
	MaxExecutionTime     time.Duration // wall clock budget for one execution
	MaxNodeExecutionTime time.Duration // wall clock budget for one node; validated, not enforced by pkg/engine
	MaxNodeExecutions    int           // cap on total node runs per execution, 0 = unlimited; not enforced by pkg/engine
	UserInputTimeout     time.Duration // how long a paused execution waits for user_input

	// HTTP / network (used by the http_request action, zero trust)
	HTTPTimeout         time.Duration
	MaxHTTPRedirects    int
	MaxResponseSize     int64
	MaxHTTPCallsPerExec int // 0 = unlimited
	AllowedURLPatterns  []string

	AllowHTTP          bool // allow plain HTTP, not just HTTPS
	AllowedDomains     []string
	AllowPrivateIPs    bool
	AllowLocalhost     bool
	AllowLinkLocal     bool
	AllowCloudMetadata bool

	// AI locator / intervention detector
	AIFallbackEnabled    bool          // allow falling back to the vision LLM when a selector misses
	AIConfidenceMinimum  float64       // minimum confidence to accept an AI-proposed locator
	AICallTimeout        time.Duration
	InterventionOnLLMErr bool // treat an LLM call failure as "needs intervention" (safety-first default)

	// Selector cache (optional, pkg/selectorcache)
	SelectorCacheTTL time.Duration
	SelectorCacheMax int // in-memory fallback cap when Redis is not configured

	// Resource limits
	MaxPayloadSize  int
	MaxNodes        int
	MaxEdges        int
	MaxStringLength int
	MaxVariables    int

	// Retry defaults (validated only; pkg/engine runs each node once)
	DefaultMaxAttempts int
	DefaultBackoff     time.Duration
}

// Default returns secure, production-ready defaults.
func Default() *Config {
	return &Config{
		MaxExecutionTime:     10 * time.Minute,
		MaxNodeExecutionTime: 60 * time.Second,
		MaxNodeExecutions:    0,
		UserInputTimeout:     5 * time.Minute,

		HTTPTimeout:         30 * time.Second,
		MaxHTTPRedirects:    10,
		MaxResponseSize:     10 * 1024 * 1024,
		MaxHTTPCallsPerExec: 100,
		AllowedURLPatterns:  nil,

		AllowHTTP:          false,
		AllowedDomains:     nil,
		AllowPrivateIPs:    false,
		AllowLocalhost:     false,
		AllowLinkLocal:     false,
		AllowCloudMetadata: false,

		AIFallbackEnabled:    true,
		AIConfidenceMinimum:  0.7,
		AICallTimeout:        20 * time.Second,
		InterventionOnLLMErr: true,

		SelectorCacheTTL: 1 * time.Hour,
		SelectorCacheMax: 1000,

		MaxPayloadSize:  10 * 1024 * 1024,
		MaxNodes:        1000,
		MaxEdges:        5000,
		MaxStringLength: 0,
		MaxVariables:    0,

		DefaultMaxAttempts: 3,
		DefaultBackoff:     1 * time.Second,
	}
}

// Development relaxes network restrictions for local work against a
// developer's own machine/browser.
func Development() *Config {
	cfg := Default()
	cfg.AllowHTTP = true
	cfg.AllowPrivateIPs = true
	cfg.AllowLocalhost = true
	cfg.MaxExecutionTime = 30 * time.Minute
	return cfg
}

// Production keeps every zero-trust field at its deny-by-default value.
func Production() *Config {
	return Default()
}

// Testing trims timeouts so unit tests fail fast instead of hanging.
func Testing() *Config {
	cfg := Default()
	cfg.AllowHTTP = true
	cfg.AllowPrivateIPs = true
	cfg.AllowLocalhost = true
	cfg.MaxExecutionTime = 30 * time.Second
	cfg.MaxNodeExecutionTime = 5 * time.Second
	cfg.UserInputTimeout = 2 * time.Second
	cfg.HTTPTimeout = 2 * time.Second
	cfg.AICallTimeout = 2 * time.Second
	return cfg
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.MaxExecutionTime < 0 {
		return ErrInvalidExecutionTime
	}
	if c.MaxNodeExecutionTime < 0 {
		return ErrInvalidNodeExecutionTime
	}
	if c.UserInputTimeout < 0 {
		return ErrInvalidUserInputTimeout
	}
	if c.HTTPTimeout < 0 {
		return ErrInvalidHTTPTimeout
	}
	if c.MaxHTTPRedirects < 0 {
		return ErrInvalidMaxRedirects
	}
	if c.MaxResponseSize < 0 {
		return ErrInvalidMaxResponseSize
	}
	if c.AIConfidenceMinimum < 0 || c.AIConfidenceMinimum > 1 {
		return ErrInvalidAIConfidence
	}
	if c.DefaultBackoff < 0 {
		return ErrInvalidBackoff
	}
	if c.DefaultMaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without racing the original.
func (c *Config) Clone() *Config {
	clone := *c
	if c.AllowedURLPatterns != nil {
		clone.AllowedURLPatterns = append([]string(nil), c.AllowedURLPatterns...)
	}
	if c.AllowedDomains != nil {
		clone.AllowedDomains = append([]string(nil), c.AllowedDomains...)
	}
	return &clone
}
