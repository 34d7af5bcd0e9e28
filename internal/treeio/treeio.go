// Package treeio reads and writes compilation units as kind-tagged JSON
// trees. This is the interchange seam between the instrumentation passes and
// the surrounding toolchain; it is a tree encoding, not a source renderer.
package treeio

import (
	"encoding/json"
	"fmt"

	"github.com/probekit/go-landmark-instrumentation/internal/ast"
)

// Node kind tags.
const (
	kindValueGroup = "value_group"
	kindModule     = "module"
	kindPragma     = "pragma"
	kindEval       = "eval"
	kindIdent      = "ident"
	kindLit        = "lit"
	kindFunc       = "func"
	kindApply      = "apply"
	kindMatch      = "match"
	kindLet        = "let"
	kindSeq        = "seq"
	kindTry        = "try"
	kindAscribe    = "ascribe"
	kindTypeAbs    = "typeabs"
)

type jsonUnit struct {
	Name  string      `json:"name"`
	File  string      `json:"file,omitempty"`
	Decls []*jsonNode `json:"decls"`
}

type jsonLoc struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

type jsonAttr struct {
	Name    string    `json:"name"`
	Payload *jsonNode `json:"payload,omitempty"`
	Loc     *jsonLoc  `json:"loc,omitempty"`
}

type jsonParam struct {
	Kind  string `json:"kind,omitempty"`
	Label string `json:"label,omitempty"`
	Name  string `json:"name,omitempty"`
}

type jsonArg struct {
	Kind  string    `json:"kind,omitempty"`
	Label string    `json:"label,omitempty"`
	Value *jsonNode `json:"value"`
}

type jsonArm struct {
	Pattern string    `json:"pattern"`
	Body    *jsonNode `json:"body"`
}

type jsonBinding struct {
	Name  string     `json:"name,omitempty"`
	Expr  *jsonNode  `json:"expr"`
	Loc   *jsonLoc   `json:"loc,omitempty"`
	Attrs []jsonAttr `json:"attrs,omitempty"`
}

// jsonNode is the envelope shared by every declaration and expression kind;
// which fields are meaningful depends on Kind.
type jsonNode struct {
	Kind     string        `json:"kind"`
	Name     string        `json:"name,omitempty"`
	Path     string        `json:"path,omitempty"`
	Lit      string        `json:"lit,omitempty"`
	Value    string        `json:"value,omitempty"`
	Rec      bool          `json:"rec,omitempty"`
	Type     string        `json:"type,omitempty"`
	Vars     []string      `json:"vars,omitempty"`
	Exc      string        `json:"exc,omitempty"`
	Param    *jsonParam    `json:"param,omitempty"`
	Args     []jsonArg     `json:"args,omitempty"`
	Arms     []jsonArm     `json:"arms,omitempty"`
	Bindings []jsonBinding `json:"bindings,omitempty"`
	Decls    []*jsonNode   `json:"decls,omitempty"`
	Fn       *jsonNode     `json:"fn,omitempty"`
	Subject  *jsonNode     `json:"subject,omitempty"`
	Body     *jsonNode     `json:"body,omitempty"`
	First    *jsonNode     `json:"first,omitempty"`
	Next     *jsonNode     `json:"next,omitempty"`
	Handler  *jsonNode     `json:"handler,omitempty"`
	Expr     *jsonNode     `json:"expr,omitempty"`
	Attr     *jsonAttr     `json:"attr,omitempty"`
	Attrs    []jsonAttr    `json:"attrs,omitempty"`
	Loc      *jsonLoc      `json:"loc,omitempty"`
}

// EncodeUnit renders a unit as indented JSON so unified diffs of units stay
// readable.
func EncodeUnit(u *ast.Unit) ([]byte, error) {
	if u == nil {
		return nil, fmt.Errorf("treeio: nil unit")
	}
	ju := &jsonUnit{Name: u.Name, File: u.File}
	for _, d := range u.Decls {
		ju.Decls = append(ju.Decls, encodeDecl(d))
	}
	out, err := json.MarshalIndent(ju, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// DecodeUnit parses a unit from its JSON encoding.
func DecodeUnit(data []byte) (*ast.Unit, error) {
	var ju jsonUnit
	if err := json.Unmarshal(data, &ju); err != nil {
		return nil, fmt.Errorf("treeio: %w", err)
	}
	u := &ast.Unit{Name: ju.Name, File: ju.File}
	for _, jn := range ju.Decls {
		d, err := decodeDecl(jn)
		if err != nil {
			return nil, err
		}
		u.Decls = append(u.Decls, d)
	}
	return u, nil
}

// ---- encoding ----

func encodeDecl(d ast.Decl) *jsonNode {
	switch v := d.(type) {
	case *ast.ValueGroup:
		return &jsonNode{
			Kind:     kindValueGroup,
			Rec:      v.Rec,
			Bindings: encodeBindings(v.Bindings),
			Attrs:    encodeAttrs(v.Attributes),
			Loc:      encodeLoc(v.Loc),
		}
	case *ast.ModuleDecl:
		n := &jsonNode{Kind: kindModule, Name: v.Name, Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
		for _, d := range v.Body {
			n.Decls = append(n.Decls, encodeDecl(d))
		}
		return n
	case *ast.FloatingAttr:
		attr := encodeAttr(v.Attr)
		return &jsonNode{Kind: kindPragma, Attr: &attr, Loc: encodeLoc(v.Loc)}
	case *ast.EvalDecl:
		return &jsonNode{Kind: kindEval, Expr: encodeExpr(v.Expr), Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
	}
	panic(fmt.Sprintf("treeio: unknown declaration type %T", d))
}

func encodeExpr(e ast.Expr) *jsonNode {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.Ident:
		return &jsonNode{Kind: kindIdent, Name: v.Name, Path: v.Path, Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
	case *ast.Lit:
		return &jsonNode{Kind: kindLit, Lit: litKindTag(v.Kind), Value: v.Value, Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
	case *ast.Func:
		p := encodeParam(v.Param)
		return &jsonNode{Kind: kindFunc, Param: &p, Body: encodeExpr(v.Body), Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
	case *ast.Apply:
		n := &jsonNode{Kind: kindApply, Fn: encodeExpr(v.Fn), Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
		for _, a := range v.Args {
			n.Args = append(n.Args, jsonArg{Kind: paramKindTag(a.Kind), Label: a.Label, Value: encodeExpr(a.Value)})
		}
		return n
	case *ast.Match:
		n := &jsonNode{Kind: kindMatch, Subject: encodeExpr(v.Subject), Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
		for _, a := range v.Arms {
			n.Arms = append(n.Arms, jsonArm{Pattern: a.Pattern, Body: encodeExpr(a.Body)})
		}
		return n
	case *ast.Let:
		return &jsonNode{
			Kind:     kindLet,
			Rec:      v.Rec,
			Bindings: encodeBindings(v.Bindings),
			Body:     encodeExpr(v.Body),
			Attrs:    encodeAttrs(v.Attributes),
			Loc:      encodeLoc(v.Loc),
		}
	case *ast.Seq:
		return &jsonNode{Kind: kindSeq, First: encodeExpr(v.First), Next: encodeExpr(v.Next), Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
	case *ast.Try:
		return &jsonNode{
			Kind:    kindTry,
			Body:    encodeExpr(v.Body),
			Exc:     v.ExcName,
			Handler: encodeExpr(v.Handler),
			Attrs:   encodeAttrs(v.Attributes),
			Loc:     encodeLoc(v.Loc),
		}
	case *ast.Ascribe:
		return &jsonNode{Kind: kindAscribe, Expr: encodeExpr(v.Expr), Type: v.Type, Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
	case *ast.TypeAbs:
		return &jsonNode{Kind: kindTypeAbs, Vars: v.Vars, Body: encodeExpr(v.Body), Attrs: encodeAttrs(v.Attributes), Loc: encodeLoc(v.Loc)}
	}
	panic(fmt.Sprintf("treeio: unknown expression type %T", e))
}

func encodeBindings(bs []*ast.Binding) []jsonBinding {
	var out []jsonBinding
	for _, b := range bs {
		out = append(out, jsonBinding{
			Name:  b.Name,
			Expr:  encodeExpr(b.Expr),
			Loc:   encodeLoc(b.Loc),
			Attrs: encodeAttrs(b.Attributes),
		})
	}
	return out
}

func encodeAttrs(attrs []ast.Attr) []jsonAttr {
	var out []jsonAttr
	for _, a := range attrs {
		out = append(out, encodeAttr(a))
	}
	return out
}

func encodeAttr(a ast.Attr) jsonAttr {
	return jsonAttr{Name: a.Name, Payload: encodeExpr(a.Payload), Loc: encodeLoc(a.Loc)}
}

func encodeParam(p ast.Param) jsonParam {
	return jsonParam{Kind: paramKindTag(p.Kind), Label: p.Label, Name: p.Name}
}

func encodeLoc(l ast.Loc) *jsonLoc {
	if l == (ast.Loc{}) {
		return nil
	}
	return &jsonLoc{File: l.File, Line: l.Line}
}

func paramKindTag(k ast.ParamKind) string {
	switch k {
	case ast.Positional:
		return "" // the default, omitted from the encoding
	case ast.Labelled:
		return "labelled"
	case ast.Optional:
		return "optional"
	}
	panic(fmt.Sprintf("treeio: unknown parameter kind %d", int(k)))
}

func litKindTag(k ast.LitKind) string {
	switch k {
	case ast.StringLit:
		return "string"
	case ast.IntLit:
		return "int"
	case ast.BoolLit:
		return "bool"
	case ast.UnitLit:
		return "unit"
	}
	panic(fmt.Sprintf("treeio: unknown literal kind %d", int(k)))
}

// ---- decoding ----

func decodeDecl(n *jsonNode) (ast.Decl, error) {
	if n == nil {
		return nil, fmt.Errorf("treeio: missing declaration node")
	}
	switch n.Kind {
	case kindValueGroup:
		bs, err := decodeBindings(n.Bindings)
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttrs(n.Attrs)
		if err != nil {
			return nil, err
		}
		return &ast.ValueGroup{Rec: n.Rec, Bindings: bs, Attributes: attrs, Loc: decodeLoc(n.Loc)}, nil
	case kindModule:
		d := &ast.ModuleDecl{Name: n.Name, Loc: decodeLoc(n.Loc)}
		attrs, err := decodeAttrs(n.Attrs)
		if err != nil {
			return nil, err
		}
		d.Attributes = attrs
		for _, jn := range n.Decls {
			child, err := decodeDecl(jn)
			if err != nil {
				return nil, err
			}
			d.Body = append(d.Body, child)
		}
		return d, nil
	case kindPragma:
		if n.Attr == nil {
			return nil, fmt.Errorf("treeio: pragma declaration without an attribute")
		}
		attr, err := decodeAttr(*n.Attr)
		if err != nil {
			return nil, err
		}
		return &ast.FloatingAttr{Attr: attr, Loc: decodeLoc(n.Loc)}, nil
	case kindEval:
		e, err := decodeRequiredExpr(n.Expr, "eval.expr")
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttrs(n.Attrs)
		if err != nil {
			return nil, err
		}
		return &ast.EvalDecl{Expr: e, Attributes: attrs, Loc: decodeLoc(n.Loc)}, nil
	}
	return nil, fmt.Errorf("treeio: unknown declaration kind %q", n.Kind)
}

// decodeRequiredExpr decodes a child node the owning kind cannot do without.
// Only attribute payloads are optional; every other child slot must be
// present, and a hole is a fatal decode error rather than a nil subtree.
func decodeRequiredExpr(n *jsonNode, field string) (ast.Expr, error) {
	if n == nil {
		return nil, fmt.Errorf("treeio: missing required %s node", field)
	}
	return decodeExpr(n)
}

func decodeExpr(n *jsonNode) (ast.Expr, error) {
	if n == nil {
		return nil, nil
	}
	attrs, err := decodeAttrs(n.Attrs)
	if err != nil {
		return nil, err
	}
	loc := decodeLoc(n.Loc)

	switch n.Kind {
	case kindIdent:
		return &ast.Ident{Name: n.Name, Path: n.Path, Attributes: attrs, Loc: loc}, nil
	case kindLit:
		lk, err := decodeLitKind(n.Lit)
		if err != nil {
			return nil, err
		}
		return &ast.Lit{Kind: lk, Value: n.Value, Attributes: attrs, Loc: loc}, nil
	case kindFunc:
		if n.Param == nil {
			return nil, fmt.Errorf("treeio: func node without a parameter")
		}
		p, err := decodeParam(*n.Param)
		if err != nil {
			return nil, err
		}
		body, err := decodeRequiredExpr(n.Body, "func.body")
		if err != nil {
			return nil, err
		}
		return &ast.Func{Param: p, Body: body, Attributes: attrs, Loc: loc}, nil
	case kindApply:
		fn, err := decodeRequiredExpr(n.Fn, "apply.fn")
		if err != nil {
			return nil, err
		}
		e := &ast.Apply{Fn: fn, Attributes: attrs, Loc: loc}
		for _, ja := range n.Args {
			k, err := decodeParamKind(ja.Kind)
			if err != nil {
				return nil, err
			}
			v, err := decodeRequiredExpr(ja.Value, "apply.args.value")
			if err != nil {
				return nil, err
			}
			e.Args = append(e.Args, ast.Arg{Kind: k, Label: ja.Label, Value: v})
		}
		return e, nil
	case kindMatch:
		subject, err := decodeRequiredExpr(n.Subject, "match.subject")
		if err != nil {
			return nil, err
		}
		e := &ast.Match{Subject: subject, Attributes: attrs, Loc: loc}
		for _, ja := range n.Arms {
			body, err := decodeRequiredExpr(ja.Body, "match.arms.body")
			if err != nil {
				return nil, err
			}
			e.Arms = append(e.Arms, ast.Arm{Pattern: ja.Pattern, Body: body})
		}
		return e, nil
	case kindLet:
		bs, err := decodeBindings(n.Bindings)
		if err != nil {
			return nil, err
		}
		body, err := decodeRequiredExpr(n.Body, "let.body")
		if err != nil {
			return nil, err
		}
		return &ast.Let{Rec: n.Rec, Bindings: bs, Body: body, Attributes: attrs, Loc: loc}, nil
	case kindSeq:
		first, err := decodeRequiredExpr(n.First, "seq.first")
		if err != nil {
			return nil, err
		}
		next, err := decodeRequiredExpr(n.Next, "seq.next")
		if err != nil {
			return nil, err
		}
		return &ast.Seq{First: first, Next: next, Attributes: attrs, Loc: loc}, nil
	case kindTry:
		body, err := decodeRequiredExpr(n.Body, "try.body")
		if err != nil {
			return nil, err
		}
		handler, err := decodeRequiredExpr(n.Handler, "try.handler")
		if err != nil {
			return nil, err
		}
		return &ast.Try{Body: body, ExcName: n.Exc, Handler: handler, Attributes: attrs, Loc: loc}, nil
	case kindAscribe:
		inner, err := decodeRequiredExpr(n.Expr, "ascribe.expr")
		if err != nil {
			return nil, err
		}
		return &ast.Ascribe{Expr: inner, Type: n.Type, Attributes: attrs, Loc: loc}, nil
	case kindTypeAbs:
		body, err := decodeRequiredExpr(n.Body, "typeabs.body")
		if err != nil {
			return nil, err
		}
		return &ast.TypeAbs{Vars: n.Vars, Body: body, Attributes: attrs, Loc: loc}, nil
	}
	return nil, fmt.Errorf("treeio: unknown expression kind %q", n.Kind)
}

func decodeBindings(jbs []jsonBinding) ([]*ast.Binding, error) {
	var out []*ast.Binding
	for _, jb := range jbs {
		e, err := decodeRequiredExpr(jb.Expr, "binding.expr")
		if err != nil {
			return nil, err
		}
		attrs, err := decodeAttrs(jb.Attrs)
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.Binding{Name: jb.Name, Expr: e, Loc: decodeLoc(jb.Loc), Attributes: attrs})
	}
	return out, nil
}

func decodeAttrs(jas []jsonAttr) ([]ast.Attr, error) {
	var out []ast.Attr
	for _, ja := range jas {
		a, err := decodeAttr(ja)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func decodeAttr(ja jsonAttr) (ast.Attr, error) {
	payload, err := decodeExpr(ja.Payload)
	if err != nil {
		return ast.Attr{}, err
	}
	return ast.Attr{Name: ja.Name, Payload: payload, Loc: decodeLoc(ja.Loc)}, nil
}

func decodeParam(jp jsonParam) (ast.Param, error) {
	k, err := decodeParamKind(jp.Kind)
	if err != nil {
		return ast.Param{}, err
	}
	return ast.Param{Kind: k, Label: jp.Label, Name: jp.Name}, nil
}

func decodeParamKind(tag string) (ast.ParamKind, error) {
	switch tag {
	case "", "positional":
		return ast.Positional, nil
	case "labelled":
		return ast.Labelled, nil
	case "optional":
		return ast.Optional, nil
	}
	return 0, fmt.Errorf("treeio: unknown parameter kind %q", tag)
}

func decodeLitKind(tag string) (ast.LitKind, error) {
	switch tag {
	case "string":
		return ast.StringLit, nil
	case "int":
		return ast.IntLit, nil
	case "bool":
		return ast.BoolLit, nil
	case "unit":
		return ast.UnitLit, nil
	}
	return 0, fmt.Errorf("treeio: unknown literal kind %q", tag)
}

func decodeLoc(jl *jsonLoc) ast.Loc {
	if jl == nil {
		return ast.Loc{}
	}
	return ast.Loc{File: jl.File, Line: jl.Line}
}
