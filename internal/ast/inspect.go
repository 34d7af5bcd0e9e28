package ast

// Inspect walks the tree rooted at n in depth-first order, calling f for each
// node. If f returns false the children of that node are skipped. Attribute
// payload expressions are visited as children of their owning node.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	inspectAttrs(n.Attrs(), f)
	switch v := n.(type) {
	case *ValueGroup:
		for _, b := range v.Bindings {
			Inspect(b, f)
		}
	case *ModuleDecl:
		for _, d := range v.Body {
			Inspect(d, f)
		}
	case *FloatingAttr:
		if v.Attr.Payload != nil {
			Inspect(v.Attr.Payload, f)
		}
	case *EvalDecl:
		Inspect(v.Expr, f)
	case *Binding:
		Inspect(v.Expr, f)
	case *Ident, *Lit:
	case *Func:
		Inspect(v.Body, f)
	case *Apply:
		Inspect(v.Fn, f)
		for _, a := range v.Args {
			Inspect(a.Value, f)
		}
	case *Match:
		Inspect(v.Subject, f)
		for _, a := range v.Arms {
			Inspect(a.Body, f)
		}
	case *Let:
		for _, b := range v.Bindings {
			Inspect(b, f)
		}
		Inspect(v.Body, f)
	case *Seq:
		Inspect(v.First, f)
		Inspect(v.Next, f)
	case *Try:
		Inspect(v.Body, f)
		Inspect(v.Handler, f)
	case *Ascribe:
		Inspect(v.Expr, f)
	case *TypeAbs:
		Inspect(v.Body, f)
	}
}

// InspectUnit applies Inspect to every declaration of a unit.
func InspectUnit(u *Unit, f func(Node) bool) {
	if u == nil {
		return
	}
	for _, d := range u.Decls {
		Inspect(d, f)
	}
}

func inspectAttrs(attrs []Attr, f func(Node) bool) {
	for _, a := range attrs {
		if a.Payload != nil {
			Inspect(a.Payload, f)
		}
	}
}
