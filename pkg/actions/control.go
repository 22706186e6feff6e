package actions

import (
	"github.com/webauto/engine/pkg/expression"
	"github.com/webauto/engine/pkg/registry"
	"github.com/webauto/engine/pkg/types"
)

func userInputDefinition() *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionUserInput,
		Label:       "User input",
		Description: "Pauses the execution and waits for a human operator to supply a value.",
		Category:    "control",
		Schema: map[string]interface{}{
			"prompt":          map[string]interface{}{"type": "string", "required": true},
			"timeout_seconds": map[string]interface{}{"type": "number"},
			"variable":        map[string]interface{}{"type": "string"},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			prompt, err := stringField(node.Config, "prompt")
			if err != nil {
				return nil, err
			}
			timeout := optionalSeconds(node.Config, "timeout_seconds", ctx.GetConfig().UserInputTimeout)

			value, err := ctx.RequestUserInput(prompt, timeout)
			if err != nil {
				return nil, err
			}

			if varName := optionalString(node.Config, "variable"); varName != "" {
				ctx.SetVariable(varName, value)
			}

			return map[string]interface{}{"value": value}, nil
		},
	}
}

func setVarDefinition() *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionSetVar,
		Label:       "Set variable",
		Description: "Assigns a value to a workflow variable.",
		Category:    "data",
		Schema: map[string]interface{}{
			"name":  map[string]interface{}{"type": "string", "required": true},
			"value": map[string]interface{}{},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			name, err := stringField(node.Config, "name")
			if err != nil {
				return nil, err
			}
			value := node.Config["value"]
			ctx.SetVariable(name, value)
			return map[string]interface{}{"name": name, "value": value}, nil
		},
	}
}

func conditionDefinition() *registry.ActionDefinition {
	return &registry.ActionDefinition{
		Name:        types.ActionCondition,
		Label:       "Condition",
		Description: "Evaluates a boolean expression against node results and variables, gating which downstream edge fires.",
		Category:    "control",
		Schema: map[string]interface{}{
			"expression": map[string]interface{}{"type": "string", "required": true},
		},
		Run: func(ctx registry.ExecutionContext, node types.Node) (interface{}, error) {
			expr, err := stringField(node.Config, "expression")
			if err != nil {
				return nil, err
			}

			exprCtx := &expression.Context{
				NodeResults: nodeResultsFor(ctx, expr),
				Variables:   ctx.GetVariables(),
				ContextVars: map[string]interface{}{
					"clipboard": ctx.GetClipboard(),
				},
			}

			result, err := expression.Evaluate(expr, exprCtx)
			if err != nil {
				return nil, err
			}

			path := "false"
			if result {
				path = "true"
			}
			return map[string]interface{}{"result": result, "path": path}, nil
		},
	}
}

// nodeResultsFor resolves only the node IDs expr actually references
// (via ExtractDependencies), since ExecutionContext's GetNodeResult is
// keyed lookup, not bulk enumeration — a condition node never needs
// more than the handful of upstream results its own expression names.
func nodeResultsFor(ctx registry.ExecutionContext, expr string) map[string]interface{} {
	out := make(map[string]interface{})
	for _, nodeID := range expression.ExtractDependencies(expr) {
		if result, ok := ctx.GetNodeResult(nodeID); ok {
			out[nodeID] = result
		}
	}
	return out
}
