package actions

import (
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

func startDefinition() *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionStart,
		Label:       "Start",
		Description: "Marks the entry point of a workflow. Carries no side effects.",
		Category:    "base",
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			return nil, nil
		},
	}
}

func endDefinition() *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionEnd,
		Label:       "End",
		Description: "Marks a terminal point of a workflow. Carries no side effects.",
		Category:    "base",
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			return nil, nil
		},
	}
}
