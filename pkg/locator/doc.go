// Package locator is the hybrid element locator (component D): a CSS
// selector attempt first, an AI "set-of-mark" fallback when the
// selector misses, and a deterministic fallback chain (role/text/
// placeholder) as the last resort before giving up.
//
// Grounded on original_source's ai_locator.py: the numbered element
// list handed to the vision model and the JSON response shape
// (best_match_index/selector/confidence/reasoning/alternatives) carry
// over unchanged in meaning, expressed as Go structs instead of a
// prompt built from Python f-strings.
package locator
