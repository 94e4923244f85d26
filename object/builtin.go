package object

import (
	"context"
	"fmt"

	"github.com/jerith/quill/op"
)

var _ Callable = (*Builtin)(nil) // Ensure that *Builtin implements Callable

// BuiltinFunction holds the type of a built-in function.
type BuiltinFunction func(ctx context.Context, s *Space, args []Object) (Object, error)

// Builtin wraps a Go function and implements Object. A builtin either takes
// its raw argument list, or declares parameters and receives bound values.
type Builtin struct {
	// The function that this object wraps.
	fn BuiltinFunction

	// The name of the function.
	name string

	// Declared parameters. Nil means raw positional arguments.
	params []Param
}

// NewBuiltin returns a builtin receiving its raw positional arguments.
// Calling it with named arguments is an error.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}

// NewBuiltinWithParams returns a builtin whose arguments are bound against
// params, exactly as for user functions.
func NewBuiltinWithParams(name string, params []Param, fn BuiltinFunction) *Builtin {
	if params == nil {
		params = []Param{}
	}
	return &Builtin{fn: fn, name: name, params: params}
}

func (b *Builtin) Name() string {
	return b.name
}

// Params returns the declared parameters, or nil for a raw builtin.
func (b *Builtin) Params() []Param {
	return b.params
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.name)
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) Interface() interface{} {
	return b.fn
}

func (b *Builtin) GetAttr(name string) (Object, bool) {
	return nil, false
}

func (b *Builtin) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, b, name)
}

func (b *Builtin) IsTruthy() bool {
	return true
}

func (b *Builtin) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}

func (b *Builtin) Call(ctx context.Context, s *Space, args []Object, named []NamedArg) (Object, error) {
	if b.params == nil {
		if len(named) > 0 {
			return nil, s.ArgumentErrorf("%s() does not support keyword arguments", b.name)
		}
		return b.fn(ctx, s, args)
	}
	values, err := BindArgs(s, b.name, b.params, args, named)
	if err != nil {
		return nil, err
	}
	return b.fn(ctx, s, values)
}

// Bind returns a method bound to receiver.
func (b *Builtin) Bind(ctx context.Context, s *Space, receiver Object) (Object, error) {
	return NewBoundMethod(receiver, b), nil
}
