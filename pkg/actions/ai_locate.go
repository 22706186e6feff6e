package actions

import (
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

// aiLocateDefinition runs the hybrid locator standalone, without
// acting on the result — a debug/inspection node an author drops into
// a workflow to see what the locator would resolve a target to before
// wiring a click/type node to it.
func aiLocateDefinition(deps Deps) *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionAILocate,
		Label:       "AI locate (debug)",
		Description: "Resolves a target description to a selector without acting on it, for workflow authoring.",
		Category:    "ai",
		Schema: map[string]interface{}{
			"target":   map[string]interface{}{"type": "string", "required": true},
			"selector": map[string]interface{}{"type": "string"},
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

			ctx.Log("debug", "ai_locate resolved", map[string]interface{}{
				"node_id":    node.ID,
				"selector":   cand.Selector,
				"source":     string(cand.Source),
				"confidence": cand.Confidence,
			})

			return map[string]interface{}{
				"selector":   cand.Selector,
				"source":     string(cand.Source),
				"confidence": cand.Confidence,
				"reasoning":  cand.Reasoning,
			}, nil
		},
	}
}
