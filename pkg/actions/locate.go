package actions

import (
	"github.com/webauto/engine/pkg/browser"
	"github.com/webauto/engine/pkg/locator"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/selectorcache"
	"github.com/webauto/engine/pkg/types"
)

// resolveSelector locates the element a selector-based action (click,
// type, extract) should act on: the node's own CSS selector when
// present, otherwise the hybrid locator's AI/fallback-chain
// resolution. With no Locator configured, the node's selector is used
// as is, and a missing or empty selector fails here with the error
// from stringField. Otherwise falls straight to Locator.Locate with
// whatever selector and target the node supplies.
func resolveSelector(ctx registry.ExecutionContext, deps Deps, node types.Node, page browser.Page) (*locator.Candidate, error) {
	if deps.Locator == nil {
		selector, err := stringField(node.Config, "selector")
		if err != nil {
			return nil, err
		}
		return &locator.Candidate{Selector: selector, Source: locator.SourceDirect, Confidence: 1.0}, nil
	}

	selector := optionalString(node.Config, "selector")
	target := optionalString(node.Config, "target")
	url := pageURL(ctx, page)

	cacheKey := selectorcache.Key{NodeType: string(node.Type), NodeID: node.ID, Field: "selector"}
	return deps.Locator.Locate(ctx, page, selector, target, url, cacheKey)
}

// pageURL best-effort reads the page's current location for the
// locator's AI prompt context. A failure just means a blank URL line
// in the prompt, never a failed action.
func pageURL(ctx registry.ExecutionContext, page browser.Page) string {
	raw, err := page.Evaluate(ctx, "window.location.href")
	if err != nil {
		return ""
	}
	url, _ := raw.(string)
	return url
}
