// Package expression evaluates the boolean gate expressions used by
// the condition action: comparisons and boolean logic over node
// results, workflow variables, and context values, powered by
// expr-lang/expr.
package expression

import (
	"regexp"
	"sync"
)

// Context provides access to workflow state during expression evaluation.
type Context struct {
	NodeResults map[string]interface{} // Results from executed nodes
	Variables   map[string]interface{} // Workflow variables
	ContextVars map[string]interface{} // Context variables/constants
}

var (
	globalEngine *ExprEngine
	engineOnce   sync.Once
)

// getEngine returns the singleton expression engine.
func getEngine() *ExprEngine {
	engineOnce.Do(func() {
		globalEngine = NewExprEngine()
	})
	return globalEngine
}

// Evaluate evaluates expression and returns a boolean result. Supports:
//   - Node references: "node.id.output > 100"
//   - Variable references: "variables.count > 10"
//   - Context references: "context.maxValue < 50"
//   - Boolean operators: "&&", "||", "!"
//   - String helpers: contains(), startsWith(), endsWith(), upper(),
//     lower(), trim(), isNull(), coalesce()
func Evaluate(expression string, ctx *Context) (bool, error) {
	if ctx == nil {
		ctx = &Context{
			NodeResults: make(map[string]interface{}),
			Variables:   make(map[string]interface{}),
			ContextVars: make(map[string]interface{}),
		}
	}

	return getEngine().EvaluateBoolean(expression, ctx)
}

// ExtractDependencies extracts node IDs referenced in expression, used
// to resolve only the upstream node results a condition needs.
func ExtractDependencies(expression string) []string {
	var dependencies []string
	seen := make(map[string]bool)

	re := regexp.MustCompile(`node\.([a-zA-Z0-9_-]+)`)
	matches := re.FindAllStringSubmatch(expression, -1)

	for _, match := range matches {
		if len(match) > 1 {
			nodeID := match[1]
			if !seen[nodeID] {
				dependencies = append(dependencies, nodeID)
				seen[nodeID] = true
			}
		}
	}

	return dependencies
}
