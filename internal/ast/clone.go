package ast

import "fmt"

// Clone returns a deep copy of a node. Any subtree that appears in an output
// tree more than once must be cloned first; sharing node values between tree
// positions breaks the exclusive-ownership rule the passes rely on.
func Clone(n Node) Node {
	switch v := n.(type) {
	case Decl:
		return CloneDecl(v)
	case Expr:
		return CloneExpr(v)
	case *Binding:
		return CloneBinding(v)
	}
	panic(fmt.Sprintf("ast: unknown node type %T", n))
}

// CloneDecl deep-copies a declaration.
func CloneDecl(d Decl) Decl {
	switch v := d.(type) {
	case *ValueGroup:
		return &ValueGroup{
			Rec:        v.Rec,
			Bindings:   cloneBindings(v.Bindings),
			Loc:        v.Loc,
			Attributes: CloneAttrs(v.Attributes),
		}
	case *ModuleDecl:
		return &ModuleDecl{
			Name:       v.Name,
			Body:       CloneDecls(v.Body),
			Loc:        v.Loc,
			Attributes: CloneAttrs(v.Attributes),
		}
	case *FloatingAttr:
		return &FloatingAttr{Attr: cloneAttr(v.Attr), Loc: v.Loc}
	case *EvalDecl:
		return &EvalDecl{
			Expr:       CloneExpr(v.Expr),
			Loc:        v.Loc,
			Attributes: CloneAttrs(v.Attributes),
		}
	}
	panic(fmt.Sprintf("ast: unknown declaration type %T", d))
}

// CloneDecls deep-copies a declaration list.
func CloneDecls(decls []Decl) []Decl {
	if decls == nil {
		return nil
	}
	out := make([]Decl, len(decls))
	for i, d := range decls {
		out[i] = CloneDecl(d)
	}
	return out
}

// CloneExpr deep-copies an expression.
func CloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *Ident:
		return &Ident{Name: v.Name, Path: v.Path, Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	case *Lit:
		return &Lit{Kind: v.Kind, Value: v.Value, Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	case *Func:
		return &Func{Param: v.Param, Body: CloneExpr(v.Body), Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	case *Apply:
		var args []Arg
		for _, a := range v.Args {
			args = append(args, Arg{Kind: a.Kind, Label: a.Label, Value: CloneExpr(a.Value)})
		}
		return &Apply{Fn: CloneExpr(v.Fn), Args: args, Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	case *Match:
		var arms []Arm
		for _, a := range v.Arms {
			arms = append(arms, Arm{Pattern: a.Pattern, Body: CloneExpr(a.Body)})
		}
		return &Match{Subject: CloneExpr(v.Subject), Arms: arms, Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	case *Let:
		return &Let{
			Rec:        v.Rec,
			Bindings:   cloneBindings(v.Bindings),
			Body:       CloneExpr(v.Body),
			Loc:        v.Loc,
			Attributes: CloneAttrs(v.Attributes),
		}
	case *Seq:
		return &Seq{First: CloneExpr(v.First), Next: CloneExpr(v.Next), Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	case *Try:
		return &Try{
			Body:       CloneExpr(v.Body),
			ExcName:    v.ExcName,
			Handler:    CloneExpr(v.Handler),
			Loc:        v.Loc,
			Attributes: CloneAttrs(v.Attributes),
		}
	case *Ascribe:
		return &Ascribe{Expr: CloneExpr(v.Expr), Type: v.Type, Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	case *TypeAbs:
		vars := append([]string(nil), v.Vars...)
		return &TypeAbs{Vars: vars, Body: CloneExpr(v.Body), Loc: v.Loc, Attributes: CloneAttrs(v.Attributes)}
	}
	panic(fmt.Sprintf("ast: unknown expression type %T", e))
}

// CloneBinding deep-copies a binding.
func CloneBinding(b *Binding) *Binding {
	return &Binding{
		Name:       b.Name,
		Expr:       CloneExpr(b.Expr),
		Loc:        b.Loc,
		Attributes: CloneAttrs(b.Attributes),
	}
}

// CloneAttrs deep-copies an attribute list, including payload expressions.
func CloneAttrs(attrs []Attr) []Attr {
	if attrs == nil {
		return nil
	}
	out := make([]Attr, len(attrs))
	for i, a := range attrs {
		out[i] = cloneAttr(a)
	}
	return out
}

func cloneAttr(a Attr) Attr {
	return Attr{Name: a.Name, Payload: CloneExpr(a.Payload), Loc: a.Loc}
}

func cloneBindings(bs []*Binding) []*Binding {
	if bs == nil {
		return nil
	}
	out := make([]*Binding, len(bs))
	for i, b := range bs {
		out[i] = CloneBinding(b)
	}
	return out
}

// CloneUnit deep-copies a whole compilation unit.
func CloneUnit(u *Unit) *Unit {
	if u == nil {
		return nil
	}
	return &Unit{Name: u.Name, File: u.File, Decls: CloneDecls(u.Decls)}
}
