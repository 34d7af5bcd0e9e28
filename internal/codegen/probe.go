package codegen

import (
	"fmt"

	"github.com/probekit/go-landmark-instrumentation/internal/ast"
)

// Names bound by synthesized code. The generated_ prefix keeps them out of
// the user's namespace, matching the probe identifier scheme.
const (
	resultVariable    = "generated_landmark_result"
	exceptionVariable = "generated_landmark_exc"
	parameterPrefix   = "generated_arg_"
)

// raisePrimitive is the language primitive that re-raises a caught exception
// with its identity intact.
const raisePrimitive = "raise"

// EnterProbe returns a call to the runtime enter entry point for the probe
// bound to probeID.
func (r Runtime) EnterProbe(probeID string) ast.Expr {
	return &ast.Apply{
		Fn:   r.enterRef(),
		Args: []ast.Arg{{Value: ast.NewIdent(probeID)}},
	}
}

// ExitProbe returns a call to the runtime exit entry point for the probe
// bound to probeID.
func (r Runtime) ExitProbe(probeID string) ast.Expr {
	return &ast.Apply{
		Fn:   r.exitRef(),
		Args: []ast.Arg{{Value: ast.NewIdent(probeID)}},
	}
}

// RegisterProbe returns a call to the runtime register entry point with the
// probe's display name and source location.
func (r Runtime) RegisterProbe(displayName, location string) ast.Expr {
	return &ast.Apply{
		Fn: r.registerRef(),
		Args: []ast.Arg{
			{Value: ast.NewString(displayName)},
			{Value: ast.NewString(location)},
		},
	}
}

// WrapBody returns an expression equivalent to body, bracketed by the probe:
//
//	enter probe;
//	let result = try body with exc -> exit probe; raise exc in
//	exit probe;
//	result
//
// The value of body is preserved, and an escaping exception is re-raised with
// the same identity after the probe exits. Exactly one exit runs on every
// path. The input expression is cloned.
func (r Runtime) WrapBody(probeID string, body ast.Expr) ast.Expr {
	guarded := &ast.Try{
		Body:    ast.CloneExpr(body),
		ExcName: exceptionVariable,
		Handler: &ast.Seq{
			First: r.ExitProbe(probeID),
			Next: &ast.Apply{
				Fn:   ast.NewIdent(raisePrimitive),
				Args: []ast.Arg{{Value: ast.NewIdent(exceptionVariable)}},
			},
		},
	}

	return &ast.Seq{
		First: r.EnterProbe(probeID),
		Next: &ast.Let{
			Bindings: []*ast.Binding{{Name: resultVariable, Expr: guarded}},
			Body: &ast.Seq{
				First: r.ExitProbe(probeID),
				Next:  ast.NewIdent(resultVariable),
			},
		},
	}
}

// EtaExpand returns a function of the same curried shape as the descriptor
// whose body applies fnRef to the fresh parameters, wrapped in the probe.
// Parameter labels and optionality match the descriptor layer for layer, so
// the synthesized function is indistinguishable in calling convention from
// the original. The descriptor must be non-empty. The function reference is
// cloned.
func (r Runtime) EtaExpand(probeID string, fnRef ast.Expr, desc []ast.Param) ast.Expr {
	if len(desc) == 0 {
		panic("codegen: eta expansion requires at least one parameter layer")
	}

	args := make([]ast.Arg, len(desc))
	for i, p := range desc {
		args[i] = ast.Arg{
			Kind:  p.Kind,
			Label: p.Label,
			Value: ast.NewIdent(parameterName(i)),
		}
	}

	body := r.WrapBody(probeID, &ast.Apply{
		Fn:   ast.CloneExpr(fnRef),
		Args: args,
	})

	for i := len(desc) - 1; i >= 0; i-- {
		p := desc[i]
		body = &ast.Func{
			Param: ast.Param{Kind: p.Kind, Label: p.Label, Name: parameterName(i)},
			Body:  body,
		}
	}
	return body
}

func parameterName(i int) string {
	return fmt.Sprintf("%s%d", parameterPrefix, i)
}
