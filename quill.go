// Package quill loads and runs Quill programs. A Runtime owns an object
// space, the module that holds the program's functions, and the
// interpreter that executes them.
package quill

import (
	"context"
	"sort"

	"github.com/jerith/quill/ast"
	"github.com/jerith/quill/builtins"
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/object"
	"github.com/jerith/quill/vm"
)

// Runtime holds the state shared by the functions of one program. It is
// not safe for concurrent use.
type Runtime struct {
	space  *object.Space
	module *object.Module
	interp *vm.Interpreter
	cfg    *config
}

// New returns a runtime whose module holds the builtins and any globals
// supplied with WithGlobal.
func New(opts ...Option) *Runtime {
	cfg := newConfig(opts...)
	s := object.NewSpace()
	m := object.NewModule(cfg.moduleName)
	builtins.Register(s, m, cfg.output)
	names := make([]string, 0, len(cfg.globals))
	for name := range cfg.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m.Declare(name, cfg.globals[name])
	}
	return &Runtime{
		space:  s,
		module: m,
		interp: vm.New(s, cfg.vmOpts()...),
		cfg:    cfg,
	}
}

// Space returns the runtime's object space.
func (r *Runtime) Space() *object.Space {
	return r.space
}

// Module returns the module programs are loaded into.
func (r *Runtime) Module() *object.Module {
	return r.module
}

// Load compiles every function of program into the module. All function
// names are declared before any body compiles, so functions may refer to
// each other regardless of order. The source text is only used for error
// messages. A failed load leaves the module as it was.
func (r *Runtime) Load(program *ast.Program, source string) error {
	snap := r.module.Snapshot()
	if err := r.load(program, source); err != nil {
		r.module.Restore(snap)
		return err
	}
	r.cfg.logger.Debug().
		Str("module", r.module.Name()).
		Int("functions", len(program.Funcs)).
		Int("globals", r.module.GlobalCount()).
		Msg("module loaded")
	return nil
}

func (r *Runtime) load(program *ast.Program, source string) error {
	seen := map[string]bool{}
	for _, def := range program.Funcs {
		name := def.Name.Name
		if seen[name] {
			return errz.New(errz.ErrBuilder, "function %q is already defined", name).
				WithLocation(errz.SourceLocation{
					Filename: r.module.Name(),
					Line:     def.Pos(),
					Source:   errz.LineOf(source, def.Pos()),
				})
		}
		seen[name] = true
		r.module.Declare(name, r.space.None())
	}
	for _, def := range program.Funcs {
		unit, err := def.CompileUnit(r.module, source)
		if err != nil {
			return err
		}
		r.module.Declare(def.Name.Name, vm.NewFunction(r.interp, def.Name.Name, unit))
	}
	return r.module.Setup(r.space)
}

// Call calls the named global with positional arguments.
func (r *Runtime) Call(ctx context.Context, name string, args ...object.Object) (object.Object, error) {
	return r.CallNamed(ctx, name, args, nil)
}

// CallNamed calls the named global with positional and named arguments.
func (r *Runtime) CallNamed(ctx context.Context, name string, args []object.Object, named []object.NamedArg) (object.Object, error) {
	fn, ok := r.module.Lookup(name)
	if !ok {
		return nil, errz.UnknownGlobalName(name)
	}
	return r.space.Call(ctx, fn, args, named)
}

// Eval compiles a statement block as the body of an anonymous function and
// runs it. The block sees the module's globals, including any functions
// loaded so far.
func (r *Runtime) Eval(ctx context.Context, block *ast.Block, source string) (object.Object, error) {
	unit, err := ast.CompileBlock(block, r.module, source)
	if err != nil {
		return nil, err
	}
	return vm.NewFunction(r.interp, "<eval>", unit).Call(ctx, r.space, nil, nil)
}

// Run loads program into a fresh runtime and calls its main function. The
// result is converted to a native Go value; values without a Go equivalent
// are returned as their string representation.
func Run(ctx context.Context, program *ast.Program, source string, opts ...Option) (any, error) {
	r := New(opts...)
	if err := r.Load(program, source); err != nil {
		return nil, err
	}
	result, err := r.Call(ctx, "main")
	if err != nil {
		return nil, err
	}
	value := result.Interface()
	if value == nil && result != r.space.None() {
		return result.Inspect(), nil
	}
	return value, nil
}
