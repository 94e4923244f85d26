package vm

import (
	"context"
	"fmt"

	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/object"
	"github.com/jerith/quill/op"
)

var _ object.Callable = (*Function)(nil) // Ensure that *Function implements Callable

// Function is a user-defined function: a named bytecode unit plus the
// interpreter that runs it. Each call gets its own Frame, so a Function can
// be called recursively.
type Function struct {
	interp *Interpreter
	name   string
	unit   *bytecode.Unit
	params []object.Param
	ready  bool
}

// NewFunction returns a function running unit on interp.
func NewFunction(interp *Interpreter, name string, unit *bytecode.Unit) *Function {
	return &Function{interp: interp, name: name, unit: unit}
}

func (f *Function) Name() string {
	return f.name
}

func (f *Function) Unit() *bytecode.Unit {
	return f.unit
}

// Params returns the bound parameter list. It is nil before Setup.
func (f *Function) Params() []object.Param {
	return f.params
}

// Setup resolves the unit's constants and the parameter defaults. A default
// whose type contradicts the parameter's annotation is a TypeError. Only the
// first successful call has an effect.
func (f *Function) Setup(s *object.Space) error {
	if f.ready {
		return nil
	}
	f.unit.Setup(s)
	params := make([]object.Param, f.unit.ArgCount())
	for i := range params {
		arg := f.unit.ArgAt(i)
		params[i].Name = arg.Name
		if arg.Default == nil {
			continue
		}
		value := arg.Default.Wrap(s)
		if arg.Type != "" {
			if got := s.TypeOf(value).Name(); got != arg.Type {
				return s.TypeErrorf("%s() default for parameter %q must be %s, not %s",
					f.name, arg.Name, arg.Type, got)
			}
		}
		params[i].Default = value
	}
	f.params = params
	f.ready = true
	return nil
}

// Call binds the arguments into a fresh frame and runs the body.
func (f *Function) Call(ctx context.Context, s *object.Space, args []object.Object, named []object.NamedArg) (object.Object, error) {
	if err := f.Setup(s); err != nil {
		return nil, err
	}
	values, err := object.BindArgs(s, f.name, f.params, args, named)
	if err != nil {
		return nil, err
	}
	frame := NewFrame(f.name, f.unit)
	frame.PopulateArgs(values)
	return f.interp.call(ctx, f, frame, len(args)+len(named))
}

// Bind returns the function bound to receiver, which becomes its first
// argument.
func (f *Function) Bind(ctx context.Context, s *object.Space, receiver object.Object) (object.Object, error) {
	return object.NewBoundMethod(receiver, f), nil
}

func (f *Function) Type() object.Type {
	return object.FUNCTION
}

func (f *Function) Inspect() string {
	return fmt.Sprintf("<function %s>", f.name)
}

func (f *Function) String() string {
	return f.Inspect()
}

func (f *Function) Interface() interface{} {
	return nil
}

func (f *Function) GetAttr(name string) (object.Object, bool) {
	return nil, false
}

func (f *Function) SetAttr(s *object.Space, name string, value object.Object) error {
	return s.AttributeErrorf("'%s' object has no attribute '%s'", s.TypeOf(f).Name(), name)
}

func (f *Function) IsTruthy() bool {
	return true
}

func (f *Function) RunOperation(s *object.Space, opType op.BinaryOpType, right object.Object) (object.Object, error) {
	return s.NotImplemented(), nil
}
