// Package interpolate implements the variable interpolator (component
// B): single-pass `{{identifier}}` substitution over strings and over
// arbitrarily nested JSON-like values.
package interpolate

import (
	"fmt"
	"regexp"
)

var templateRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)

// String replaces every `{{identifier}}` occurrence in s with its
// value from vars, formatted with fmt.Sprint. An identifier absent
// from vars is left verbatim, braces included, so a pass over text
// with no matching variables is the identity function. Substitution
// is a single pass: text inserted from vars is not scanned again, so
// a value containing `{{name}}` comes out verbatim. A second call over
// that output does expand such a token when name is a key of vars.
func String(s string, vars map[string]interface{}) string {
	return templateRegex.ReplaceAllStringFunc(s, func(match string) string {
		name := templateRegex.FindStringSubmatch(match)[1]
		if v, ok := vars[name]; ok {
			return fmt.Sprint(v)
		}
		return match
	})
}

// Value recurses into maps and slices, interpolating every string it
// finds; non-string, non-container values pass through unchanged.
func Value(v interface{}, vars map[string]interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return String(val, vars)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = Value(item, vars)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Value(item, vars)
		}
		return out
	default:
		return v
	}
}
