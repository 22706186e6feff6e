// Package expression evaluates the condition action's boolean gate
// expressions.
//
// # Overview
//
// A condition node carries a single expression string; the condition
// action evaluates it and follows the "true" or "false" downstream
// edge. The expression is compiled and run through expr-lang/expr
// against an environment built from the node's upstream results, the
// workflow's variables, and its context values (currently just the
// clipboard).
//
// # Expression Syntax
//
//	node.fetch.output.status == 200
//	variables.retryCount < 3
//	context.clipboard != "" && variables.loggedIn
//	!isNull(node.login.error)
//
// Operators: ==, !=, >, <, >=, <=, &&, ||, !
//
// # Built-in Functions
//
//	contains(s, substr)   startsWith(s, prefix)   endsWith(s, suffix)
//	upper(s)              lower(s)                trim(s)
//	isNull(v)             coalesce(v1, v2, ...)
//
// # Dependency Extraction
//
// ExtractDependencies scans an expression for node.<id> references so
// the condition action only resolves the upstream results a condition
// actually reads, not every node that ran before it.
package expression
