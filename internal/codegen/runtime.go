package codegen

import "github.com/probekit/go-landmark-instrumentation/internal/ast"

// Probe runtime module paths. The threaded variant carries the same three
// entry points but synchronizes its internal state.
const (
	RuntimeModulePath         = "landmark"
	ThreadedRuntimeModulePath = "landmark_threads"
)

// Runtime entry point names, shared by both variants.
const (
	EnterFunction    = "enter"
	ExitFunction     = "exit"
	RegisterFunction = "register"
)

// Runtime selects which probe library entry points synthesized calls
// reference. The generated tree depends on exactly these three symbols.
type Runtime struct {
	Module   string
	Enter    string
	Exit     string
	Register string
}

// DefaultRuntime returns the non-threaded probe runtime.
func DefaultRuntime() Runtime {
	return Runtime{
		Module:   RuntimeModulePath,
		Enter:    EnterFunction,
		Exit:     ExitFunction,
		Register: RegisterFunction,
	}
}

// ThreadedRuntime returns the thread-safe probe runtime.
func ThreadedRuntime() Runtime {
	r := DefaultRuntime()
	r.Module = ThreadedRuntimeModulePath
	return r
}

func (r Runtime) enterRef() *ast.Ident {
	return &ast.Ident{Name: r.Enter, Path: r.Module}
}

func (r Runtime) exitRef() *ast.Ident {
	return &ast.Ident{Name: r.Exit, Path: r.Module}
}

func (r Runtime) registerRef() *ast.Ident {
	return &ast.Ident{Name: r.Register, Path: r.Module}
}
