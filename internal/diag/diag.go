// Package diag defines the fatal diagnostics raised by the instrumentation
// passes. Every detected problem aborts the current unit; there is no partial
// output. Internal invariant violations are not diagnostics and panic instead.
package diag

import (
	"errors"
	"fmt"

	"github.com/probekit/go-landmark-instrumentation/internal/ast"
)

// Kind classifies a diagnostic.
type Kind int

const (
	// TooManyAnnotations reports more than one instrumentation annotation on
	// a single node.
	TooManyAnnotations Kind = iota + 1
	// MissingPayload reports an annotation that requires a payload but has
	// none.
	MissingPayload
	// PayloadNotAString reports an annotation payload that is not a literal
	// string.
	PayloadNotAString
	// NameRequired reports a marker with no derivable display name.
	NameRequired
	// UnrecognizedPragma reports a pragma payload outside the recognized set.
	UnrecognizedPragma
)

func (k Kind) String() string {
	switch k {
	case TooManyAnnotations:
		return "too many annotations"
	case MissingPayload:
		return "annotation payload required"
	case PayloadNotAString:
		return "annotation payload must be a string literal"
	case NameRequired:
		return "a name is required"
	case UnrecognizedPragma:
		return "unrecognized pragma payload"
	}
	return fmt.Sprintf("diagnostic(%d)", int(k))
}

// Error is a fatal diagnostic carrying a source location.
type Error struct {
	Kind   Kind
	Loc    ast.Loc
	Detail string
}

func (e *Error) Error() string {
	pos := e.Loc.String()
	if pos != "" {
		pos += ": "
	}
	if e.Detail == "" {
		return pos + e.Kind.String()
	}
	return fmt.Sprintf("%s%s: %s", pos, e.Kind, e.Detail)
}

// Errorf builds a diagnostic with a formatted detail message.
func Errorf(kind Kind, loc ast.Loc, format string, args ...any) *Error {
	return &Error{Kind: kind, Loc: loc, Detail: fmt.Sprintf(format, args...)}
}

// New builds a diagnostic with no detail message.
func New(kind Kind, loc ast.Loc) *Error {
	return &Error{Kind: kind, Loc: loc}
}

// KindOf returns the diagnostic kind of err, or zero when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
