package intervention

import "errors"

// ErrNoClient means New was never given a working llm.Client — a
// wiring mistake, not a runtime detection failure.
var ErrNoClient = errors.New("intervention: no llm client configured")
