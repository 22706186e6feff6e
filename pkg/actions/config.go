package actions

import (
	"fmt"
	"time"
)

// stringField reads a required string field from a node's config.
func stringField(cfg map[string]interface{}, key string) (string, error) {
	v, ok := cfg[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingConfig, key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingConfig, key)
	}
	return s, nil
}

// optionalString reads a string field, defaulting to "" when absent
// or of the wrong type.
func optionalString(cfg map[string]interface{}, key string) string {
	if v, ok := cfg[key].(string); ok {
		return v
	}
	return ""
}

// optionalBool reads a bool field, defaulting to def when absent.
func optionalBool(cfg map[string]interface{}, key string, def bool) bool {
	if v, ok := cfg[key].(bool); ok {
		return v
	}
	return def
}

// optionalSeconds reads a numeric seconds field as a time.Duration,
// defaulting to def when absent. JSON numbers decode as float64.
func optionalSeconds(cfg map[string]interface{}, key string, def time.Duration) time.Duration {
	switch v := cfg[key].(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case int:
		return time.Duration(v) * time.Second
	}
	return def
}

// optionalStringMap reads a map[string]interface{} field and coerces
// its values to strings, e.g. for HTTP headers.
func optionalStringMap(cfg map[string]interface{}, key string) map[string]string {
	raw, ok := cfg[key].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		out[k] = fmt.Sprint(v)
	}
	return out
}
