package actions

import (
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

func navigateDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionNavigate,
		Label:       "Navigate",
		Description: "Connects a browser session if one doesn't exist yet, then loads a URL.",
		Category:    "browser",
		Schema: map[string]interface{}{
			"url":           map[string]interface{}{"type": "string", "required": true},
			"cdp_debug_url": map[string]interface{}{"type": "string"},
			"headless":      map[string]interface{}{"type": "boolean", "default": true},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			url, err := stringField(node.Config, "url")
			if err != nil {
				return nil, err
			}

			page, _, err := currentPage(ctx, deps, node)
			if err != nil {
				return nil, err
			}

			if err := page.Navigate(ctx, url); err != nil {
				return nil, err
			}

			return map[string]interface{}{"url": url}, nil
		},
	}
}
