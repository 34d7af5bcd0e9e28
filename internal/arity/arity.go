// Package arity statically determines the apparent curried arity of an
// expression: one descriptor entry per syntactic layer of function
// abstraction.
package arity

import "github.com/probekit/go-landmark-instrumentation/internal/ast"

// Descriptor lists the passing convention of each curried parameter layer,
// outermost first. An empty descriptor means the expression is not
// function-shaped at its outermost layer.
type Descriptor []ast.Param

// Of computes the descriptor of an expression. Type ascriptions and explicit
// type-parameter binders are transparent. A match dispatch is only as deep as
// its shallowest arm: deeper layers may not exist on all paths, and
// under-wrapping is safe where over-wrapping would not be.
func Of(e ast.Expr) Descriptor {
	switch v := e.(type) {
	case *ast.Func:
		return append(Descriptor{v.Param}, Of(v.Body)...)
	case *ast.Ascribe:
		return Of(v.Expr)
	case *ast.TypeAbs:
		return Of(v.Body)
	case *ast.Match:
		return shortestArm(v.Arms)
	}
	return nil
}

func shortestArm(arms []ast.Arm) Descriptor {
	var shortest Descriptor
	for i, arm := range arms {
		d := Of(arm.Body)
		if i == 0 || len(d) < len(shortest) {
			shortest = d
		}
		if len(shortest) == 0 {
			break
		}
	}
	return shortest
}
