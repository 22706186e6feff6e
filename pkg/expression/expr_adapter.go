package expression

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprEngine wraps expr-lang/expr for boolean condition evaluation.
type ExprEngine struct {
	programCache map[string]*vm.Program
}

// NewExprEngine creates a new expression engine using expr-lang/expr.
func NewExprEngine() *ExprEngine {
	return &ExprEngine{
		programCache: make(map[string]*vm.Program),
	}
}

// EvaluateBoolean compiles (or reuses a cached compile of) expression
// and runs it against env, requiring a boolean result. This is the
// expr-lang/expr implementation behind Evaluate.
func (e *ExprEngine) EvaluateBoolean(expression string, ctx *Context) (bool, error) {
	if ctx == nil {
		ctx = &Context{
			NodeResults: make(map[string]interface{}),
			Variables:   make(map[string]interface{}),
			ContextVars: make(map[string]interface{}),
		}
	}

	env := e.buildEnvironment(ctx)

	program, exists := e.programCache[expression]
	if !exists {
		var err error
		program, err = expr.Compile(expression, expr.Env(env), expr.AsBool())
		if err != nil {
			return false, fmt.Errorf("expression compilation failed: %w", err)
		}
		e.programCache[expression] = program
	}

	output, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("expression execution failed: %w", err)
	}

	result, ok := output.(bool)
	if !ok {
		return false, fmt.Errorf("expression did not return boolean, got %T", output)
	}

	return result, nil
}

// buildEnvironment creates the execution environment with node results,
// variables, context values, and the condition's helper functions.
func (e *ExprEngine) buildEnvironment(ctx *Context) map[string]interface{} {
	env := make(map[string]interface{})

	e.addCustomFunctions(env)

	if ctx.NodeResults != nil {
		env["node"] = ctx.NodeResults
	}

	if ctx.Variables != nil {
		env["variables"] = ctx.Variables
		for k, v := range ctx.Variables {
			if k != "node" && k != "variables" && k != "context" {
				env[k] = v
			}
		}
	}

	if ctx.ContextVars != nil {
		env["context"] = ctx.ContextVars
	}

	return env
}

// addCustomFunctions adds the string and null-handling helpers a
// condition's boolean expression can call.
func (e *ExprEngine) addCustomFunctions(env map[string]interface{}) {
	env["contains"] = func(s, substr string) bool {
		return strings.Contains(s, substr)
	}
	env["startsWith"] = func(s, prefix string) bool {
		return strings.HasPrefix(s, prefix)
	}
	env["endsWith"] = func(s, suffix string) bool {
		return strings.HasSuffix(s, suffix)
	}
	env["upper"] = strings.ToUpper
	env["lower"] = strings.ToLower
	env["trim"] = strings.TrimSpace

	env["isNull"] = func(v interface{}) bool {
		return v == nil
	}
	env["coalesce"] = func(args ...interface{}) interface{} {
		for _, arg := range args {
			if arg != nil {
				return arg
			}
		}
		return nil
	}
}
