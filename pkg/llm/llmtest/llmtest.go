// Package llmtest provides a scripted llm.Client for tests: no
// network call, a queue of canned responses (or errors) played back
// in order.
package llmtest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/webauto/engine/pkg/llm"
)

// Stub is a scripted llm.Client.
type Stub struct {
	mu        sync.Mutex
	responses []Response
	calls     []llm.VisionRequest

	// ReachableErr, when set, is returned by Reachable.
	ReachableErr error
}

// Response is one queued Classify outcome.
type Response struct {
	Value interface{} // marshaled to JSON, then unmarshaled into Classify's out
	Err   error
}

// New returns a Stub that plays back responses in order.
func New(responses ...Response) *Stub {
	return &Stub{responses: responses}
}

// Calls returns every VisionRequest passed to Classify, in order.
func (s *Stub) Calls() []llm.VisionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.VisionRequest(nil), s.calls...)
}

// Reachable implements llm.Client.
func (s *Stub) Reachable(ctx context.Context) error {
	return s.ReachableErr
}

// Classify implements llm.Client.
func (s *Stub) Classify(ctx context.Context, req llm.VisionRequest, out interface{}) error {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	if len(s.responses) == 0 {
		s.mu.Unlock()
		return fmt.Errorf("llmtest: no scripted response queued")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	s.mu.Unlock()

	if resp.Err != nil {
		return resp.Err
	}

	data, err := json.Marshal(resp.Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
