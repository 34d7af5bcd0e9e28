package rewriter

import (
	"github.com/probekit/go-landmark-instrumentation/internal/annotation"
	"github.com/probekit/go-landmark-instrumentation/internal/ast"
)

// InstrumentUnit rewrites one compilation unit, inserting probe code and
// prepending the probe registration group. raw is the unit's input encoding,
// hashed before any validation so probe identifiers stay stable across
// repeated compilations of the same input.
//
// A unit carrying a unit-level "disable" pragma is stripped instead: no
// probes anywhere, no explicit marker can override it. When the default mode
// is on, a unit-wide load probe brackets the unit's top-level effects with
// enter/exit statements, leaving initialization order across bindings
// untouched.
func (m *Manager) InstrumentUnit(unit *ast.Unit, raw []byte) (*ast.Unit, error) {
	if unit == nil || len(unit.Decls) == 0 {
		return ast.CloneUnit(unit), nil
	}
	m.setUnitHash(raw)

	disabled, err := hasDisablePragma(unit.Decls)
	if err != nil {
		return nil, err
	}
	if disabled {
		return StripUnit(unit), nil
	}

	sc := scope{qualifier: []string{unit.Name}, auto: m.autoByDefault}
	decls, err := m.rewriteDecls(unit.Decls, sc)
	if err != nil {
		return nil, err
	}

	if m.autoByDefault {
		loadID := m.allocate("load("+unit.Name+")", ast.Loc{File: unit.File, Line: 1}.String())
		decls = append([]ast.Decl{&ast.EvalDecl{Expr: m.runtime.EnterProbe(loadID)}}, decls...)
		decls = append(decls, &ast.EvalDecl{Expr: m.runtime.ExitProbe(loadID)})
	}

	if len(m.registrations) > 0 {
		bindings := make([]*ast.Binding, len(m.registrations))
		for i, reg := range m.registrations {
			bindings[i] = &ast.Binding{
				Name: reg.ProbeID,
				Expr: m.runtime.RegisterProbe(reg.DisplayName, reg.Location),
			}
		}
		decls = append([]ast.Decl{&ast.ValueGroup{Bindings: bindings}}, decls...)
	}

	return &ast.Unit{Name: unit.Name, File: unit.File, Decls: decls}, nil
}

// hasDisablePragma scans the unit-level declarations for a "disable" pragma.
// Malformed pragma payloads are fatal here already; payload recognition for
// the remaining pragmas happens during the rewrite.
func hasDisablePragma(decls []ast.Decl) (bool, error) {
	for _, d := range decls {
		fa, ok := d.(*ast.FloatingAttr)
		if !ok || fa.Attr.Name != annotation.Name {
			continue
		}
		payload, err := annotation.PragmaPayload(fa.Attr)
		if err != nil {
			return false, err
		}
		if payload == annotation.PragmaDisable {
			return true, nil
		}
	}
	return false, nil
}
