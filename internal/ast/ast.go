// Package ast defines the syntax tree for compilation units handled by the
// landmark instrumentation passes. Nodes form a closed set of kinds dispatched
// by type switch; passes never mutate a tree they were given and build new
// nodes instead. Use Clone before placing a consumed subtree into an output
// tree more than once.
package ast

import "fmt"

// Loc is a source position attached to nodes and attributes.
type Loc struct {
	File string
	Line int
}

func (l Loc) String() string {
	if l.File == "" && l.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Attr is a single annotation attached to a node. Payload is nil for a bare
// marker; a well-formed payload is a string Lit, but malformed trees may carry
// any expression here, so readers must check.
type Attr struct {
	Name    string
	Payload Expr
	Loc     Loc
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Loc
	Attrs() []Attr
	SetAttrs([]Attr)
}

// Decl is a declaration in a declaration list.
type Decl interface {
	Node
	declNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Unit is one compilation unit: a named declaration list.
type Unit struct {
	Name  string
	File  string
	Decls []Decl
}

// ParamKind is the passing convention of one curried parameter layer.
type ParamKind int

const (
	Positional ParamKind = iota
	Labelled
	Optional
)

func (k ParamKind) String() string {
	switch k {
	case Positional:
		return "positional"
	case Labelled:
		return "labelled"
	case Optional:
		return "optional"
	}
	return fmt.Sprintf("ParamKind(%d)", int(k))
}

// Param is one function parameter. Label is empty for positional parameters.
type Param struct {
	Kind  ParamKind
	Label string
	Name  string
}

// Arg is one application argument, carrying the same convention data as the
// parameter it binds to.
type Arg struct {
	Kind  ParamKind
	Label string
	Value Expr
}

// Arm is one case of a match expression. Patterns are opaque to the
// instrumentation passes.
type Arm struct {
	Pattern string
	Body    Expr
}

// Binding is one name bound inside a value group or let expression. An empty
// Name models a wildcard or non-identifier pattern.
type Binding struct {
	Name       string
	Expr       Expr
	Loc        Loc
	Attributes []Attr
}

func (b *Binding) Pos() Loc           { return b.Loc }
func (b *Binding) Attrs() []Attr      { return b.Attributes }
func (b *Binding) SetAttrs(as []Attr) { b.Attributes = as }

// LitKind discriminates literal constants.
type LitKind int

const (
	StringLit LitKind = iota
	IntLit
	BoolLit
	UnitLit
)

func (k LitKind) String() string {
	switch k {
	case StringLit:
		return "string"
	case IntLit:
		return "int"
	case BoolLit:
		return "bool"
	case UnitLit:
		return "unit"
	}
	return fmt.Sprintf("LitKind(%d)", int(k))
}

// ---- declarations ----

// ValueGroup is a group of simultaneous value bindings, recursive when Rec is
// set. Bindings in one group share a recursion scope.
type ValueGroup struct {
	Rec        bool
	Bindings   []*Binding
	Loc        Loc
	Attributes []Attr
}

// ModuleDecl is a nested module with its own declaration list.
type ModuleDecl struct {
	Name       string
	Body       []Decl
	Loc        Loc
	Attributes []Attr
}

// FloatingAttr is a standalone attribute declaration, the pragma form.
type FloatingAttr struct {
	Attr Attr
	Loc  Loc
}

// EvalDecl is a top-level side-effecting statement.
type EvalDecl struct {
	Expr       Expr
	Loc        Loc
	Attributes []Attr
}

func (d *ValueGroup) Pos() Loc           { return d.Loc }
func (d *ValueGroup) Attrs() []Attr      { return d.Attributes }
func (d *ValueGroup) SetAttrs(as []Attr) { d.Attributes = as }
func (d *ValueGroup) declNode()          {}

func (d *ModuleDecl) Pos() Loc           { return d.Loc }
func (d *ModuleDecl) Attrs() []Attr      { return d.Attributes }
func (d *ModuleDecl) SetAttrs(as []Attr) { d.Attributes = as }
func (d *ModuleDecl) declNode()          {}

func (d *FloatingAttr) Pos() Loc        { return d.Loc }
func (d *FloatingAttr) Attrs() []Attr   { return nil }
func (d *FloatingAttr) SetAttrs([]Attr) {}
func (d *FloatingAttr) declNode()       {}

func (d *EvalDecl) Pos() Loc           { return d.Loc }
func (d *EvalDecl) Attrs() []Attr      { return d.Attributes }
func (d *EvalDecl) SetAttrs(as []Attr) { d.Attributes = as }
func (d *EvalDecl) declNode()          {}

// ---- expressions ----

// Ident is a reference to a name. Path qualifies references into an external
// module, such as the probe runtime; it is empty for unit-local names.
type Ident struct {
	Name       string
	Path       string
	Loc        Loc
	Attributes []Attr
}

// Lit is a literal constant.
type Lit struct {
	Kind       LitKind
	Value      string
	Loc        Loc
	Attributes []Attr
}

// Func is one curried layer of function abstraction.
type Func struct {
	Param      Param
	Body       Expr
	Loc        Loc
	Attributes []Attr
}

// Apply is a function application.
type Apply struct {
	Fn         Expr
	Args       []Arg
	Loc        Loc
	Attributes []Attr
}

// Match is a case dispatch over a subject expression.
type Match struct {
	Subject    Expr
	Arms       []Arm
	Loc        Loc
	Attributes []Attr
}

// Let binds a group of values inside an expression body.
type Let struct {
	Rec        bool
	Bindings   []*Binding
	Body       Expr
	Loc        Loc
	Attributes []Attr
}

// Seq evaluates First for effect, then Next for its value.
type Seq struct {
	First      Expr
	Next       Expr
	Loc        Loc
	Attributes []Attr
}

// Try evaluates Body; an escaping exception is bound to ExcName and the
// Handler runs in its place.
type Try struct {
	Body       Expr
	ExcName    string
	Handler    Expr
	Loc        Loc
	Attributes []Attr
}

// Ascribe is a type ascription, transparent to evaluation.
type Ascribe struct {
	Expr       Expr
	Type       string
	Loc        Loc
	Attributes []Attr
}

// TypeAbs is an explicit type-parameter binder, transparent to evaluation.
type TypeAbs struct {
	Vars       []string
	Body       Expr
	Loc        Loc
	Attributes []Attr
}

func (e *Ident) Pos() Loc           { return e.Loc }
func (e *Ident) Attrs() []Attr      { return e.Attributes }
func (e *Ident) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Ident) exprNode()          {}

func (e *Lit) Pos() Loc           { return e.Loc }
func (e *Lit) Attrs() []Attr      { return e.Attributes }
func (e *Lit) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Lit) exprNode()          {}

func (e *Func) Pos() Loc           { return e.Loc }
func (e *Func) Attrs() []Attr      { return e.Attributes }
func (e *Func) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Func) exprNode()          {}

func (e *Apply) Pos() Loc           { return e.Loc }
func (e *Apply) Attrs() []Attr      { return e.Attributes }
func (e *Apply) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Apply) exprNode()          {}

func (e *Match) Pos() Loc           { return e.Loc }
func (e *Match) Attrs() []Attr      { return e.Attributes }
func (e *Match) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Match) exprNode()          {}

func (e *Let) Pos() Loc           { return e.Loc }
func (e *Let) Attrs() []Attr      { return e.Attributes }
func (e *Let) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Let) exprNode()          {}

func (e *Seq) Pos() Loc           { return e.Loc }
func (e *Seq) Attrs() []Attr      { return e.Attributes }
func (e *Seq) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Seq) exprNode()          {}

func (e *Try) Pos() Loc           { return e.Loc }
func (e *Try) Attrs() []Attr      { return e.Attributes }
func (e *Try) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Try) exprNode()          {}

func (e *Ascribe) Pos() Loc           { return e.Loc }
func (e *Ascribe) Attrs() []Attr      { return e.Attributes }
func (e *Ascribe) SetAttrs(as []Attr) { e.Attributes = as }
func (e *Ascribe) exprNode()          {}

func (e *TypeAbs) Pos() Loc           { return e.Loc }
func (e *TypeAbs) Attrs() []Attr      { return e.Attributes }
func (e *TypeAbs) SetAttrs(as []Attr) { e.Attributes = as }
func (e *TypeAbs) exprNode()          {}

// NewIdent returns an unqualified identifier reference.
func NewIdent(name string) *Ident {
	return &Ident{Name: name}
}

// NewString returns a string literal.
func NewString(value string) *Lit {
	return &Lit{Kind: StringLit, Value: value}
}
