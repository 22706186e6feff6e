// Package llm wraps the Anthropic SDK client behind the small
// interface the element locator (component D) and intervention
// detector (component I) actually need: a single vision-capable
// structured-output call. Grounded in the pack's dshills-langgraph-go
// and goadesign-goa-ai repos, both of which wire
// github.com/anthropics/anthropic-sdk-go the same way: a thin call
// wrapper around client.Messages.New, not the full SDK surface.
package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var base64Encoding = base64.StdEncoding

// VisionRequest is one screenshot-plus-instructions call. Screenshot is
// expected to already be normalized (see pkg/screenshot) to JPEG
// before reaching here.
type VisionRequest struct {
	Instructions string
	Screenshot   []byte
	// MaxTokens bounds the structured JSON response.
	MaxTokens int64
}

// Client is the minimal surface the locator/intervention detector use.
type Client interface {
	// Classify sends a screenshot and instructions, and unmarshals the
	// model's JSON response into out.
	Classify(ctx context.Context, req VisionRequest, out interface{}) error

	// Reachable reports whether the client is configured to reach the
	// vision model. It does not itself make a network call — the
	// health endpoint is polled far more often than the locator or
	// intervention detector actually call the model, and spending a
	// real (billed) request on every poll would be wasteful.
	Reachable(ctx context.Context) error
}

// AnthropicClient is the production Client backed by
// github.com/anthropics/anthropic-sdk-go.
type AnthropicClient struct {
	client     anthropic.Client
	model      anthropic.Model
	configured bool
}

// New constructs an AnthropicClient. apiKey may be empty to pick up
// ANTHROPIC_API_KEY from the environment, matching the SDK's default
// option resolution.
func New(apiKey string, model anthropic.Model) *AnthropicClient {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	return &AnthropicClient{
		client:     anthropic.NewClient(opts...),
		model:      model,
		configured: apiKey != "" || os.Getenv("ANTHROPIC_API_KEY") != "",
	}
}

// Reachable implements Client.
func (c *AnthropicClient) Reachable(ctx context.Context) error {
	if !c.configured {
		return fmt.Errorf("llm: no API key configured")
	}
	return nil
}

// Classify implements Client.
func (c *AnthropicClient) Classify(ctx context.Context, req VisionRequest, out interface{}) error {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1024
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64("image/jpeg", encodeBase64(req.Screenshot)),
				anthropic.NewTextBlock(req.Instructions),
			),
		},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLLMCall, err)
	}

	text := ""
	for _, block := range msg.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return fmt.Errorf("%w: empty response", ErrLLMCall)
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: unparseable response: %v", ErrLLMCall, err)
	}
	return nil
}

func encodeBase64(data []byte) string {
	return base64Encoding.EncodeToString(data)
}
