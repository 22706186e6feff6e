package actions

import (
	"encoding/base64"

	"github.com/webauto/engine/pkg/locator"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/screenshot"
	"github.com/webauto/engine/pkg/types"
)

func clickDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionClick,
		Label:       "Click",
		Description: "Clicks an element, resolved via the hybrid locator (direct selector, AI, then deterministic fallback chain).",
		Category:    "browser",
		Schema: map[string]interface{}{
			"selector": map[string]interface{}{"type": "string"},
			"target":   map[string]interface{}{"type": "string"},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			page, _, err := currentPage(ctx, deps, node)
			if err != nil {
				return nil, err
			}

			cand, err := resolveSelector(ctx, deps, node, page)
			if err != nil {
				return nil, err
			}

			if err := page.Click(ctx, cand.Selector); err != nil {
				return nil, err
			}

			return selectorResult(node, cand), nil
		},
	}
}

func typeDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionTypeText,
		Label:       "Type",
		Description: "Types text into an element, resolved via the hybrid locator.",
		Category:    "browser",
		Schema: map[string]interface{}{
			"selector": map[string]interface{}{"type": "string"},
			"target":   map[string]interface{}{"type": "string"},
			"text":     map[string]interface{}{"type": "string", "required": true},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			text, err := stringField(node.Config, "text")
			if err != nil {
				return nil, err
			}

			page, _, err := currentPage(ctx, deps, node)
			if err != nil {
				return nil, err
			}

			cand, err := resolveSelector(ctx, deps, node, page)
			if err != nil {
				return nil, err
			}

			if err := page.Type(ctx, cand.Selector, text); err != nil {
				return nil, err
			}

			return selectorResult(node, cand), nil
		},
	}
}

func waitDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionWait,
		Label:       "Wait",
		Description: "Waits for a selector to appear on the page.",
		Category:    "browser",
		Schema: map[string]interface{}{
			"selector": map[string]interface{}{"type": "string", "required": true},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			selector, err := stringField(node.Config, "selector")
			if err != nil {
				return nil, err
			}

			page, _, err := currentPage(ctx, deps, node)
			if err != nil {
				return nil, err
			}

			if err := page.WaitFor(ctx, selector); err != nil {
				return nil, err
			}

			return map[string]interface{}{"selector": selector}, nil
		},
	}
}

func extractDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionExtract,
		Label:       "Extract",
		Description: "Reads an element's text content and stores it on the clipboard for downstream nodes.",
		Category:    "data",
		Schema: map[string]interface{}{
			"selector": map[string]interface{}{"type": "string"},
			"target":   map[string]interface{}{"type": "string"},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			page, _, err := currentPage(ctx, deps, node)
			if err != nil {
				return nil, err
			}

			cand, err := resolveSelector(ctx, deps, node, page)
			if err != nil {
				return nil, err
			}

			text, err := page.TextContent(ctx, cand.Selector)
			if err != nil {
				return nil, err
			}
			ctx.SetClipboard(text)

			result := selectorResult(node, cand)
			result["text"] = text
			return result, nil
		},
	}
}

func screenshotDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionScreenshot,
		Label:       "Screenshot",
		Description: "Captures the current page, normalized to a bounded-size JPEG, and records whether it needs human intervention.",
		Category:    "browser",
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			page, _, err := currentPage(ctx, deps, node)
			if err != nil {
				return nil, err
			}

			raw, err := page.Screenshot(ctx)
			if err != nil {
				return nil, err
			}
			normalized, _, err := screenshot.Normalize(raw)
			if err != nil {
				normalized = raw
			}

			result := map[string]interface{}{
				"jpeg_bytes":  len(normalized),
				"jpeg_base64": base64.StdEncoding.EncodeToString(normalized),
			}
			if deps.Intervention != nil {
				check, err := deps.Intervention.Detect(ctx, raw)
				if err == nil {
					result["needs_intervention"] = check.NeedsIntervention
					result["intervention_type"] = string(check.InterventionType)
				}
			}
			return result, nil
		},
	}
}

func openTabDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionOpenTab,
		Label:       "Open tab",
		Description: "Opens a new page within the current browsing context, preserving cookies and session state.",
		Category:    "browser",
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			session, err := ensureSession(ctx, deps, node)
			if err != nil {
				return nil, err
			}
			if deps.BrowserMgr == nil {
				return nil, ErrNoBrowser
			}

			page, err := deps.BrowserMgr.OpenTab(ctx, session)
			if err != nil {
				return nil, err
			}
			session.Page = page
			ctx.SetBrowser(session)

			if url := optionalString(node.Config, "url"); url != "" {
				if err := page.Navigate(ctx, url); err != nil {
					return nil, err
				}
			}

			return map[string]interface{}{"opened": true}, nil
		},
	}
}

// selectorResult builds a result map carrying effective_selector only
// when it differs from the node's authored selector, the signal
// engine.go's healedSelector reads to fire EventSelectorHealed.
func selectorResult(node types.Node, cand *locator.Candidate) map[string]interface{} {
	result := map[string]interface{}{"source": string(cand.Source)}
	authored, _ := node.Config["selector"].(string)
	if cand.Selector != authored {
		result["effective_selector"] = cand.Selector
	}
	return result
}
