// Package object provides the Quill runtime values and the object space that
// every value operation goes through.
//
// Values are usually handled as the object.Object interface and type
// asserted to a concrete type when needed:
//
//	switch obj := obj.(type) {
//	case *object.Int:
//		// do something with obj.Value()
//	case *object.Str:
//		// do something with obj.Value()
//	}
//
// The None, True, False and NotImplemented values are owned by a Space and
// compared by identity. Never construct them directly.
package object

import (
	"context"

	"github.com/jerith/quill/op"
)

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL           Type = "bool"
	BUILTIN        Type = "builtin"
	EXCEPTION      Type = "exception"
	FUNCTION       Type = "function"
	INSTANCE       Type = "instance"
	INT            Type = "int"
	LIST           Type = "list"
	METHOD         Type = "method"
	MODULE         Type = "module"
	NONE           Type = "none"
	NOTIMPLEMENTED Type = "notimplemented"
	PROPERTY       Type = "property"
	STR            Type = "str"
	TYPE           Type = "type"
)

// Object is the interface that all Quill runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// GetAttr returns an attribute stored on this object itself. Class
	// members are resolved by the Space, not here.
	GetAttr(name string) (Object, bool)

	// SetAttr sets the attribute with the given name on this object.
	SetAttr(s *Space, name string, value Object) error

	// IsTruthy returns true if the object is considered "truthy".
	IsTruthy() bool

	// RunOperation runs a binary operation with this object as the left
	// operand. It returns the space's NotImplemented value when it does not
	// support the right operand.
	RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error)
}

// NamedArg is a keyword argument passed to a call.
type NamedArg struct {
	Name  string
	Value Object
}

// Callable is implemented by objects that can be invoked: user functions,
// builtins, bound methods and classes.
type Callable interface {
	Object

	// Call invokes the callable with positional and named arguments.
	Call(ctx context.Context, s *Space, args []Object, named []NamedArg) (Object, error)
}

// Binder is implemented by class members that transform when they are read
// through an instance. Functions bind into bound methods; properties call
// their getter.
type Binder interface {
	Bind(ctx context.Context, s *Space, receiver Object) (Object, error)
}

// Setuper is implemented by objects that must resolve state against a Space
// before first use.
type Setuper interface {
	Setup(s *Space) error
}

// Classed is implemented by objects that carry their own class.
type Classed interface {
	Class() *Class
}
