// Package rewriter implements the landmark instrumentation passes over a
// compilation unit: the instrumenting rewrite, which inserts probe
// enter/exit code and accumulates the probe registration table, and the
// stripping pass, which removes every instrumentation annotation without
// touching anything else.
package rewriter

import (
	"strings"

	"github.com/probekit/go-landmark-instrumentation/internal/annotation"
	"github.com/probekit/go-landmark-instrumentation/internal/arity"
	"github.com/probekit/go-landmark-instrumentation/internal/ast"
	"github.com/probekit/go-landmark-instrumentation/internal/diag"
	"github.com/probekit/go-landmark-instrumentation/internal/report"
)

// Wrapper groups shadow the original name without every caller switching
// immediately, so the unused-value warning is suppressed around them.
const (
	warningAttrName    = "warning"
	unusedValueWarning = "-32"
)

// scope is the read-mostly traversal configuration: the stack of enclosing
// names used to build display names, and the current instrumentation mode.
// It is rebound on recursive descent, never mutated through a pointer.
type scope struct {
	qualifier []string
	auto      bool
}

func (s scope) qualified(name string) string {
	if len(s.qualifier) == 0 {
		return name
	}
	return strings.Join(s.qualifier, ".") + "." + name
}

func (s scope) enterModule(name string) scope {
	q := make([]string, 0, len(s.qualifier)+1)
	q = append(q, s.qualifier...)
	q = append(q, name)
	return scope{qualifier: q, auto: s.auto}
}

func (s scope) withAuto(auto bool) scope {
	return scope{qualifier: s.qualifier, auto: auto}
}

// rewriteDecls rewrites a declaration list left to right. Pragma
// declarations flip the mode for the remaining siblings and are deleted from
// the output.
func (m *Manager) rewriteDecls(decls []ast.Decl, sc scope) ([]ast.Decl, error) {
	if len(decls) == 0 {
		return nil, nil
	}
	out := make([]ast.Decl, 0, len(decls))
	for _, d := range decls {
		switch v := d.(type) {
		case *ast.FloatingAttr:
			if v.Attr.Name != annotation.Name {
				out = append(out, ast.CloneDecl(d))
				continue
			}
			payload, err := annotation.PragmaPayload(v.Attr)
			if err != nil {
				return nil, err
			}
			switch payload {
			case annotation.PragmaAuto:
				sc = sc.withAuto(true)
			case annotation.PragmaAutoOff:
				sc = sc.withAuto(false)
			case annotation.PragmaDisable:
				return nil, diag.Errorf(diag.UnrecognizedPragma, v.Attr.Loc, "%q is only recognized at the unit level", payload)
			default:
				return nil, diag.Errorf(diag.UnrecognizedPragma, v.Attr.Loc, "%q", payload)
			}
		case *ast.ValueGroup:
			groups, err := m.rewriteGroup(v, sc)
			if err != nil {
				return nil, err
			}
			out = append(out, groups...)
		case *ast.ModuleDecl:
			body, err := m.rewriteDecls(v.Body, sc.enterModule(v.Name))
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.ModuleDecl{
				Name:       v.Name,
				Body:       body,
				Loc:        v.Loc,
				Attributes: ast.CloneAttrs(v.Attributes),
			})
		case *ast.EvalDecl:
			e, err := m.rewriteExpr(v.Expr, sc)
			if err != nil {
				return nil, err
			}
			out = append(out, &ast.EvalDecl{Expr: e, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)})
		default:
			out = append(out, ast.CloneDecl(d))
		}
	}
	return out, nil
}

// rewriteGroup processes one value binding group. When any binding needs an
// eta-expanded wrapper, the wrappers land in a separate, later,
// non-recursive group so internal recursive self-calls keep their original
// unwrapped identity while external callers bind to the wrapper.
func (m *Manager) rewriteGroup(g *ast.ValueGroup, sc scope) ([]ast.Decl, error) {
	bindings, wrappers, err := m.processBindings(g.Bindings, sc)
	if err != nil {
		return nil, err
	}

	out := []ast.Decl{&ast.ValueGroup{
		Rec:        g.Rec,
		Bindings:   bindings,
		Loc:        g.Loc,
		Attributes: ast.CloneAttrs(g.Attributes),
	}}
	if len(wrappers) > 0 {
		out = append(out, &ast.ValueGroup{
			Bindings:   wrappers,
			Attributes: []ast.Attr{{Name: warningAttrName, Payload: ast.NewString(unusedValueWarning)}},
		})
	}
	return out, nil
}

// processBindings decides and applies instrumentation for each binding of a
// group or let expression. It returns the rewritten bindings plus any
// synthesized wrapper bindings for function-shaped sites.
func (m *Manager) processBindings(bindings []*ast.Binding, sc scope) ([]*ast.Binding, []*ast.Binding, error) {
	var out, wrappers []*ast.Binding
	for _, b := range bindings {
		nb, wrapper, err := m.processBinding(b, sc)
		if err != nil {
			return nil, nil, err
		}
		out = append(out, nb)
		if wrapper != nil {
			wrappers = append(wrappers, wrapper)
		}
	}
	return out, wrappers, nil
}

func (m *Manager) processBinding(b *ast.Binding, sc scope) (*ast.Binding, *ast.Binding, error) {
	// The marker may sit on the binding itself or on its right-hand side;
	// both count toward the one-annotation limit.
	combined := append(ast.CloneAttrs(b.Attributes), exprAttrs(b.Expr)...)
	finding, err := annotation.Find(combined, annotation.Name)
	if err != nil {
		return nil, nil, err
	}

	if !finding.Present && !sc.auto {
		e, err := m.rewriteExpr(b.Expr, sc)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Binding{Name: b.Name, Expr: e, Loc: b.Loc, Attributes: ast.CloneAttrs(b.Attributes)}, nil, nil
	}

	// Constants and plain references are never wrapped; wrapping them has no
	// timing meaning and would break compile-time-constant expectations.
	if trivialValue(b.Expr) {
		if finding.Present {
			report.Info(b.Loc, "marker on constant-shaped binding ignored", "only function bodies and effectful bindings can be timed")
		}
		rhs := consumeMarker(b.Expr)
		e, err := m.rewriteExpr(rhs, sc)
		if err != nil {
			return nil, nil, err
		}
		return &ast.Binding{
			Name:       b.Name,
			Expr:       e,
			Loc:        b.Loc,
			Attributes: annotation.Remove(ast.CloneAttrs(b.Attributes), annotation.Name),
		}, nil, nil
	}

	displayName := finding.Payload
	if !finding.HasPayload {
		if b.Name == "" {
			if finding.Present {
				return nil, nil, diag.Errorf(diag.NameRequired, b.Loc, "binding has no identifiable name; give the marker an explicit display name")
			}
			// Auto mode cannot name an anonymous binding; leave it alone.
			e, err := m.rewriteExpr(b.Expr, sc)
			if err != nil {
				return nil, nil, err
			}
			return &ast.Binding{Name: b.Name, Expr: e, Loc: b.Loc, Attributes: ast.CloneAttrs(b.Attributes)}, nil, nil
		}
		displayName = sc.qualified(b.Name)
	}

	probeID := m.allocate(displayName, b.Loc.String())

	rhs := consumeMarker(b.Expr)
	desc := arity.Of(rhs)
	body, err := m.rewriteExpr(rhs, sc)
	if err != nil {
		return nil, nil, err
	}

	attrs := annotation.Remove(ast.CloneAttrs(b.Attributes), annotation.Name)

	if len(desc) == 0 || b.Name == "" {
		// Constant-shaped but effectful, or a nameless binding that leaves a
		// wrapper nothing to reference: wrap the expression in place.
		report.Info(b.Loc, "instrumented "+displayName)
		return &ast.Binding{
			Name:       b.Name,
			Expr:       m.runtime.WrapBody(probeID, body),
			Loc:        b.Loc,
			Attributes: attrs,
		}, nil, nil
	}

	// Function-shaped: the original binding keeps its identity so internal
	// recursive calls stay unwrapped, and external callers bind to the
	// eta-expanded wrapper emitted after the group.
	report.Info(b.Loc, "instrumented "+displayName, "external calls are timed through a wrapper of matching arity")
	original := &ast.Binding{Name: b.Name, Expr: body, Loc: b.Loc, Attributes: attrs}
	wrapper := &ast.Binding{
		Name: b.Name,
		Expr: m.runtime.EtaExpand(probeID, ast.NewIdent(b.Name), desc),
		Loc:  b.Loc,
	}
	return original, wrapper, nil
}

// rewriteExpr rewrites one expression. An expression bearing an explicit
// marker is wrapped in place; expression markers always need an explicit
// display name since there is no declared name to fall back on.
func (m *Manager) rewriteExpr(e ast.Expr, sc scope) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	finding, err := annotation.Find(e.Attrs(), annotation.Name)
	if err != nil {
		return nil, err
	}
	if !finding.Present {
		return m.rewriteChildren(e, sc)
	}
	if !finding.HasPayload {
		return nil, diag.Errorf(diag.NameRequired, finding.Loc, "expression markers need an explicit display name")
	}

	probeID := m.allocate(finding.Payload, e.Pos().String())
	inner, err := m.rewriteChildren(consumeMarker(e), sc)
	if err != nil {
		return nil, err
	}
	report.Info(e.Pos(), "instrumented "+finding.Payload)
	return m.runtime.WrapBody(probeID, inner), nil
}

// rewriteChildren rebuilds an expression with its children rewritten. Let
// bindings are processed with auto mode off: auto-instrumenting every local
// helper would be noise, so only explicit markers take effect inside lets.
func (m *Manager) rewriteChildren(e ast.Expr, sc scope) (ast.Expr, error) {
	switch v := e.(type) {
	case *ast.Ident, *ast.Lit:
		return ast.CloneExpr(e), nil
	case *ast.Func:
		body, err := m.rewriteExpr(v.Body, sc)
		if err != nil {
			return nil, err
		}
		return &ast.Func{Param: v.Param, Body: body, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	case *ast.Apply:
		fn, err := m.rewriteExpr(v.Fn, sc)
		if err != nil {
			return nil, err
		}
		var args []ast.Arg
		for _, a := range v.Args {
			value, err := m.rewriteExpr(a.Value, sc)
			if err != nil {
				return nil, err
			}
			args = append(args, ast.Arg{Kind: a.Kind, Label: a.Label, Value: value})
		}
		return &ast.Apply{Fn: fn, Args: args, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	case *ast.Match:
		subject, err := m.rewriteExpr(v.Subject, sc)
		if err != nil {
			return nil, err
		}
		var arms []ast.Arm
		for _, a := range v.Arms {
			body, err := m.rewriteExpr(a.Body, sc)
			if err != nil {
				return nil, err
			}
			arms = append(arms, ast.Arm{Pattern: a.Pattern, Body: body})
		}
		return &ast.Match{Subject: subject, Arms: arms, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	case *ast.Let:
		bindings, wrappers, err := m.processBindings(v.Bindings, sc.withAuto(false))
		if err != nil {
			return nil, err
		}
		body, err := m.rewriteExpr(v.Body, sc)
		if err != nil {
			return nil, err
		}
		if len(wrappers) > 0 {
			// Wrappers bind in their own non-recursive let so original
			// recursive bindings and new wrappers never mix recursion scopes.
			body = &ast.Let{Bindings: wrappers, Body: body}
		}
		return &ast.Let{Rec: v.Rec, Bindings: bindings, Body: body, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	case *ast.Seq:
		first, err := m.rewriteExpr(v.First, sc)
		if err != nil {
			return nil, err
		}
		next, err := m.rewriteExpr(v.Next, sc)
		if err != nil {
			return nil, err
		}
		return &ast.Seq{First: first, Next: next, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	case *ast.Try:
		body, err := m.rewriteExpr(v.Body, sc)
		if err != nil {
			return nil, err
		}
		handler, err := m.rewriteExpr(v.Handler, sc)
		if err != nil {
			return nil, err
		}
		return &ast.Try{Body: body, ExcName: v.ExcName, Handler: handler, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	case *ast.Ascribe:
		inner, err := m.rewriteExpr(v.Expr, sc)
		if err != nil {
			return nil, err
		}
		return &ast.Ascribe{Expr: inner, Type: v.Type, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	case *ast.TypeAbs:
		body, err := m.rewriteExpr(v.Body, sc)
		if err != nil {
			return nil, err
		}
		vars := append([]string(nil), v.Vars...)
		return &ast.TypeAbs{Vars: vars, Body: body, Loc: v.Loc, Attributes: ast.CloneAttrs(v.Attributes)}, nil
	}
	return ast.CloneExpr(e), nil
}

// trivialValue reports whether an expression is a constant or a plain
// reference, looking through type ascriptions.
func trivialValue(e ast.Expr) bool {
	for {
		switch v := e.(type) {
		case *ast.Lit, *ast.Ident:
			return true
		case *ast.Ascribe:
			e = v.Expr
		default:
			return false
		}
	}
}

// consumeMarker returns a copy of the expression with the instrumentation
// marker removed from its own annotation set.
func consumeMarker(e ast.Expr) ast.Expr {
	if e == nil {
		return nil
	}
	out := ast.CloneExpr(e)
	out.SetAttrs(annotation.Remove(out.Attrs(), annotation.Name))
	return out
}

func exprAttrs(e ast.Expr) []ast.Attr {
	if e == nil {
		return nil
	}
	return ast.CloneAttrs(e.Attrs())
}
