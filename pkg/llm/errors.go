package llm

import "errors"

// ErrLLMCall wraps any failure talking to the vision model: network
// error, non-2xx response, or a response that doesn't parse as the
// expected JSON shape.
var ErrLLMCall = errors.New("llm call failed")
