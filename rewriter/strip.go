package rewriter

import (
	"github.com/probekit/go-landmark-instrumentation/internal/annotation"
	"github.com/probekit/go-landmark-instrumentation/internal/ast"
)

// StripUnit removes every instrumentation pragma declaration and every
// instrumentation annotation from a unit without inserting any probe code.
// It never touches the probe allocator, so stripped builds carry no
// dependency on the probe runtime at all.
func StripUnit(u *ast.Unit) *ast.Unit {
	if u == nil {
		return nil
	}
	return &ast.Unit{Name: u.Name, File: u.File, Decls: stripDecls(u.Decls)}
}

func stripDecls(decls []ast.Decl) []ast.Decl {
	var out []ast.Decl
	for _, d := range decls {
		if fa, ok := d.(*ast.FloatingAttr); ok && fa.Attr.Name == annotation.Name {
			continue
		}
		nd := ast.CloneDecl(d)
		if mod, ok := nd.(*ast.ModuleDecl); ok {
			mod.Body = stripDecls(mod.Body)
		}
		ast.Inspect(nd, func(n ast.Node) bool {
			if attrs := n.Attrs(); len(attrs) > 0 {
				n.SetAttrs(annotation.Remove(attrs, annotation.Name))
			}
			return true
		})
		out = append(out, nd)
	}
	return out
}
