package intervention

import (
	"context"

	"github.com/webauto/engine/pkg/llm"
	"github.com/webauto/engine/pkg/screenshot"
)

// Type names the kind of situation that triggered a pause.
type Type string

const (
	TypeLogin    Type = "login_form"
	TypeCaptcha  Type = "captcha"
	TypePopup    Type = "popup"
	TypeSecurity Type = "security_confirmation"
	TypeUnknown  Type = "unknown"
)

// detectionPrompt mirrors original_source's INTERVENTION_DETECTION_PROMPT.
const detectionPrompt = `Analyze this webpage screenshot and decide whether it needs human intervention.

Check for any of the following:
1. A login form (username/password fields, a login button)
2. A CAPTCHA challenge
3. An ad-blocker or privacy-policy popup
4. A security confirmation or warning dialog that needs human judgment
5. Any other human-verification challenge (CAPTCHA, reCAPTCHA, hCaptcha, etc.)

Respond in JSON format:
{"needs_intervention": true/false, "intervention_type": "<description>", "confidence": 0.0-1.0, "reason": "<why>"}

Respond ONLY with valid JSON, no other text.`

// Result is one detection outcome.
type Result struct {
	NeedsIntervention bool    `json:"needs_intervention"`
	InterventionType  Type    `json:"intervention_type"`
	Confidence        float64 `json:"confidence"`
	Reason            string  `json:"reason"`
}

// Detector classifies a page screenshot as needing human intervention
// or not, using a vision LLM. It fails closed: any call error, low
// confidence, or unparseable response is treated as "needs
// intervention" rather than silently letting the workflow proceed
// past something it never actually evaluated.
type Detector struct {
	llmClient           llm.Client
	confidenceThreshold float64
}

// New builds a Detector around the given vision client. confidenceThreshold
// is the minimum confidence a "no intervention needed" classification
// must carry to be trusted; below it, the page is treated as needing
// intervention regardless of what the model said, per the same
// safety-first default as a call failure.
func New(client llm.Client, confidenceThreshold float64) *Detector {
	if confidenceThreshold <= 0 {
		confidenceThreshold = 0.7
	}
	return &Detector{llmClient: client, confidenceThreshold: confidenceThreshold}
}

// Detect classifies screenshotPNG. It never returns an error to the
// caller for an LLM-side failure — a failed detection itself becomes
// a positive Result (needs_intervention=true, type unknown) per the
// safety-first default. An error is returned only if the client
// itself is nil, which is a caller-configuration mistake, not a
// runtime condition to degrade through.
func (d *Detector) Detect(ctx context.Context, screenshotPNG []byte) (Result, error) {
	if d.llmClient == nil {
		return Result{}, ErrNoClient
	}

	normalized, _, err := screenshot.Normalize(screenshotPNG)
	if err != nil {
		normalized = screenshotPNG
	}

	var resp Result
	req := llm.VisionRequest{
		Instructions: detectionPrompt,
		Screenshot:   normalized,
		MaxTokens:    500,
	}
	if err := d.llmClient.Classify(ctx, req, &resp); err != nil {
		return Result{
			NeedsIntervention: true,
			InterventionType:  TypeUnknown,
			Confidence:        0.5,
			Reason:            "detection call failed; defaulting to intervention for safety: " + err.Error(),
		}, nil
	}

	if resp.Confidence < d.confidenceThreshold {
		return Result{
			NeedsIntervention: true,
			InterventionType:  TypeUnknown,
			Confidence:        resp.Confidence,
			Reason:            "classification confidence below threshold; defaulting to intervention for safety",
		}, nil
	}

	return resp, nil
}
