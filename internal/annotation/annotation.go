// Package annotation reads the instrumentation annotations attached to syntax
// tree nodes. Finding an annotation and consuming it are separate steps:
// callers query with Find and only call Remove once the decision to
// instrument has been made.
package annotation

import (
	"github.com/probekit/go-landmark-instrumentation/internal/ast"
	"github.com/probekit/go-landmark-instrumentation/internal/diag"
)

// Name is the attribute name recognized by every instrumentation pass, for
// both per-node markers and standalone pragma declarations.
const Name = "landmark"

// Pragma payloads recognized on standalone declarations.
const (
	PragmaAuto    = "auto"
	PragmaAutoOff = "auto-off"
	PragmaDisable = "disable"
)

// Finding is the result of looking up an instrumentation annotation on one
// node.
type Finding struct {
	Present    bool
	HasPayload bool
	Payload    string
	Loc        ast.Loc
}

// Find scans an annotation set for the attribute called name. At most one
// such attribute may be present, and its payload, when given, must be a
// literal string.
func Find(attrs []ast.Attr, name string) (Finding, error) {
	var found Finding
	for _, a := range attrs {
		if a.Name != name {
			continue
		}
		if found.Present {
			return Finding{}, diag.Errorf(diag.TooManyAnnotations, a.Loc, "duplicate %q annotation", name)
		}
		found = Finding{Present: true, Loc: a.Loc}
		if a.Payload != nil {
			lit, ok := a.Payload.(*ast.Lit)
			if !ok || lit.Kind != ast.StringLit {
				return Finding{}, diag.Errorf(diag.PayloadNotAString, a.Loc, "%q annotation", name)
			}
			found.HasPayload = true
			found.Payload = lit.Value
		}
	}
	return found, nil
}

// Remove returns the annotation set without any attribute called name. The
// input slice is not modified.
func Remove(attrs []ast.Attr, name string) []ast.Attr {
	var out []ast.Attr
	for _, a := range attrs {
		if a.Name == name {
			continue
		}
		out = append(out, a)
	}
	return out
}

// PragmaPayload validates a standalone pragma attribute and returns its
// payload string. Pragmas always require a string payload; the caller decides
// whether the payload itself is recognized.
func PragmaPayload(attr ast.Attr) (string, error) {
	if attr.Payload == nil {
		return "", diag.Errorf(diag.MissingPayload, attr.Loc, "%q pragma", attr.Name)
	}
	lit, ok := attr.Payload.(*ast.Lit)
	if !ok || lit.Kind != ast.StringLit {
		return "", diag.Errorf(diag.PayloadNotAString, attr.Loc, "%q pragma", attr.Name)
	}
	return lit.Value, nil
}
