package intervention

import (
	"context"
	"errors"
	"testing"

	"github.com/webauto/engine/pkg/llm/llmtest"
)

func TestDetect_NeedsIntervention(t *testing.T) {
	stub := llmtest.New(llmtest.Response{Value: map[string]interface{}{
		"needs_intervention": true,
		"intervention_type":  "login_form",
		"confidence":         0.92,
		"reason":             "username/password fields visible",
	}})

	d := New(stub, 0.7)
	result, err := d.Detect(context.Background(), []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if !result.NeedsIntervention || result.InterventionType != TypeLogin {
		t.Errorf("got %+v, want needs_intervention login_form", result)
	}
}

func TestDetect_NoInterventionNeeded(t *testing.T) {
	stub := llmtest.New(llmtest.Response{Value: map[string]interface{}{
		"needs_intervention": false,
		"confidence":         0.8,
	}})

	d := New(stub, 0.7)
	result, err := d.Detect(context.Background(), []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if result.NeedsIntervention {
		t.Errorf("got %+v, want needs_intervention=false", result)
	}
}

func TestDetect_LowConfidenceDefaultsToNeedsIntervention(t *testing.T) {
	stub := llmtest.New(llmtest.Response{Value: map[string]interface{}{
		"needs_intervention": false,
		"confidence":         0.4,
	}})

	d := New(stub, 0.7)
	result, err := d.Detect(context.Background(), []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if !result.NeedsIntervention {
		t.Error("expected low-confidence classification to default to needs_intervention=true, even though the model said false")
	}
}

func TestDetect_CallFailureDefaultsToNeedsIntervention(t *testing.T) {
	stub := llmtest.New(llmtest.Response{Err: errors.New("connection reset")})

	d := New(stub, 0.7)
	result, err := d.Detect(context.Background(), []byte{0xFF, 0xD8})
	if err != nil {
		t.Fatalf("Detect() error = %v, want nil (failure degrades to a positive Result)", err)
	}
	if !result.NeedsIntervention {
		t.Error("expected safety-first default of needs_intervention=true on call failure")
	}
}

func TestDetect_NoClientConfigured(t *testing.T) {
	d := New(nil, 0.7)
	_, err := d.Detect(context.Background(), []byte{0xFF, 0xD8})
	if err != ErrNoClient {
		t.Errorf("got error %v, want ErrNoClient", err)
	}
}
