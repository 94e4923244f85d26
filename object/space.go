package object

import (
	"context"
	"fmt"

	"github.com/jerith/quill/op"
)

// Space is the single entry point for value operations. It owns the None,
// True, False and NotImplemented values and the builtin classes, and is
// passed explicitly to everything that creates or operates on values.
//
// A Space is not safe for concurrent use.
type Space struct {
	none           *NoneType
	trueValue      *Bool
	falseValue     *Bool
	notImplemented *NotImplementedType

	objectClass            *Class
	exceptionClass         *Class
	typeErrorClass         *Class
	argumentErrorClass     *Class
	attributeErrorClass    *Class
	zeroDivisionErrorClass *Class

	types map[Type]*Class

	// Nesting depth of the list comparison in progress
	compareDepth int
}

// maxCompareDepth bounds recursion when comparing lists that contain
// themselves through another list.
const maxCompareDepth = 256

// NewSpace returns a Space with its singletons and builtin classes.
func NewSpace() *Space {
	s := &Space{
		none:           &NoneType{},
		trueValue:      &Bool{value: true},
		falseValue:     &Bool{value: false},
		notImplemented: &NotImplementedType{},
	}
	s.objectClass = NewClass("object", nil).SetConstructor(newInstance)
	s.exceptionClass = NewClass("Exception", s.objectClass)
	defineExceptionClass(s, s.exceptionClass)
	s.typeErrorClass = NewClass("TypeError", s.exceptionClass)
	s.argumentErrorClass = NewClass("ArgumentError", s.exceptionClass)
	s.attributeErrorClass = NewClass("AttributeError", s.exceptionClass)
	s.zeroDivisionErrorClass = NewClass("ZeroDivisionError", s.exceptionClass)

	s.types = map[Type]*Class{}
	for _, t := range []struct {
		typ  Type
		name string
	}{
		{BOOL, "bool"},
		{BUILTIN, "builtin"},
		{FUNCTION, "function"},
		{INT, "int"},
		{LIST, "list"},
		{METHOD, "method"},
		{MODULE, "module"},
		{NONE, "NoneType"},
		{NOTIMPLEMENTED, "NotImplementedType"},
		{PROPERTY, "property"},
		{STR, "str"},
		{TYPE, "type"},
	} {
		s.types[t.typ] = NewClass(t.name, s.objectClass)
	}
	defineStrClass(s, s.types[STR])
	defineListClass(s, s.types[LIST])
	return s
}

// None returns the None singleton.
func (s *Space) None() Object {
	return s.none
}

// True returns the true singleton.
func (s *Space) True() Object {
	return s.trueValue
}

// False returns the false singleton.
func (s *Space) False() Object {
	return s.falseValue
}

// NotImplemented returns the sentinel binary operations return for
// unsupported operand types.
func (s *Space) NotImplemented() Object {
	return s.notImplemented
}

// ObjectClass returns the root class.
func (s *Space) ObjectClass() *Class {
	return s.objectClass
}

// ExceptionClass returns the base class of all builtin exceptions.
func (s *Space) ExceptionClass() *Class {
	return s.exceptionClass
}

// TypeErrorClass returns the class raised for type mismatches.
func (s *Space) TypeErrorClass() *Class {
	return s.typeErrorClass
}

// ArgumentErrorClass returns the class raised for argument binding errors.
func (s *Space) ArgumentErrorClass() *Class {
	return s.argumentErrorClass
}

// AttributeErrorClass returns the class raised for missing attributes.
func (s *Space) AttributeErrorClass() *Class {
	return s.attributeErrorClass
}

// ZeroDivisionErrorClass returns the class raised for division by zero.
func (s *Space) ZeroDivisionErrorClass() *Class {
	return s.zeroDivisionErrorClass
}

// BuiltinClasses returns the classes code can refer to by name.
func (s *Space) BuiltinClasses() []*Class {
	return []*Class{
		s.objectClass,
		s.exceptionClass,
		s.typeErrorClass,
		s.argumentErrorClass,
		s.attributeErrorClass,
		s.zeroDivisionErrorClass,
	}
}

// ClassOf returns the class of the builtin value type t.
func (s *Space) ClassOf(t Type) (*Class, bool) {
	cls, ok := s.types[t]
	return cls, ok
}

// TypeOf returns the class of obj.
func (s *Space) TypeOf(obj Object) *Class {
	if c, ok := obj.(Classed); ok {
		return c.Class()
	}
	if cls, ok := s.types[obj.Type()]; ok {
		return cls
	}
	return s.objectClass
}

// IsInstance returns true if obj's class is cls or derives from it.
func (s *Space) IsInstance(obj Object, cls *Class) bool {
	return s.TypeOf(obj).IsSubclass(cls)
}

// NewInt wraps an integer.
func (s *Space) NewInt(value int64) Object {
	return NewInt(value)
}

// NewBool returns the True or False singleton.
func (s *Space) NewBool(value bool) Object {
	if value {
		return s.trueValue
	}
	return s.falseValue
}

// NewStr wraps a string.
func (s *Space) NewStr(value string) Object {
	return NewStr(value)
}

// NewList wraps a slice of objects.
func (s *Space) NewList(items []Object) Object {
	return NewList(items)
}

// IntW unwraps an integer.
func (s *Space) IntW(obj Object) (int64, error) {
	if i, ok := obj.(*Int); ok {
		return i.value, nil
	}
	return 0, s.TypeErrorf("expected int, got %s", s.TypeOf(obj).Name())
}

// Utf8W unwraps a string.
func (s *Space) Utf8W(obj Object) (string, error) {
	if str, ok := obj.(*Str); ok {
		return str.value, nil
	}
	return "", s.TypeErrorf("expected str, got %s", s.TypeOf(obj).Name())
}

// ListW unwraps a list's items.
func (s *Space) ListW(obj Object) ([]Object, error) {
	if l, ok := obj.(*List); ok {
		return l.items, nil
	}
	return nil, s.TypeErrorf("expected list, got %s", s.TypeOf(obj).Name())
}

// IsTrue reports the truthiness of obj.
func (s *Space) IsTrue(obj Object) bool {
	return obj.IsTruthy()
}

// BinaryOp dispatches a binary operation to the left operand. If the left
// operand does not support the right one, equality falls back to identity
// and every other operation raises TypeError.
func (s *Space) BinaryOp(opType op.BinaryOpType, left, right Object) (Object, error) {
	result, err := left.RunOperation(s, opType, right)
	if err != nil {
		return nil, err
	}
	if result != Object(s.notImplemented) {
		return result, nil
	}
	if opType == op.OpEq {
		return s.NewBool(left == right), nil
	}
	return nil, s.TypeErrorf("unsupported operand type(s) for %s: '%s' and '%s'",
		opType, s.TypeOf(left).Name(), s.TypeOf(right).Name())
}

func (s *Space) Add(left, right Object) (Object, error) {
	return s.BinaryOp(op.OpAdd, left, right)
}

func (s *Space) Sub(left, right Object) (Object, error) {
	return s.BinaryOp(op.OpSub, left, right)
}

func (s *Space) Mul(left, right Object) (Object, error) {
	return s.BinaryOp(op.OpMul, left, right)
}

func (s *Space) TrueDiv(left, right Object) (Object, error) {
	return s.BinaryOp(op.OpTrueDiv, left, right)
}

func (s *Space) Lt(left, right Object) (Object, error) {
	return s.BinaryOp(op.OpLt, left, right)
}

func (s *Space) Eq(left, right Object) (Object, error) {
	return s.BinaryOp(op.OpEq, left, right)
}

// GetAttr reads an attribute: the object's own attributes first, then its
// class chain. Class members that implement Binder are bound to obj.
func (s *Space) GetAttr(ctx context.Context, obj Object, name string) (Object, error) {
	if value, ok := obj.GetAttr(name); ok {
		return value, nil
	}
	cls := s.TypeOf(obj)
	if value, ok := cls.Lookup(name); ok {
		if binder, ok := value.(Binder); ok {
			return binder.Bind(ctx, s, obj)
		}
		return value, nil
	}
	return nil, s.AttributeErrorf("'%s' object has no attribute '%s'", cls.Name(), name)
}

// SetAttr writes an attribute, through a class property when one exists.
func (s *Space) SetAttr(ctx context.Context, obj Object, name string, value Object) error {
	if member, ok := s.TypeOf(obj).Lookup(name); ok {
		if prop, ok := member.(*Property); ok {
			return prop.Set(ctx, s, obj, value)
		}
	}
	return obj.SetAttr(s, name, value)
}

// Call invokes fn.
func (s *Space) Call(ctx context.Context, fn Object, args []Object, named []NamedArg) (Object, error) {
	callable, ok := fn.(Callable)
	if !ok {
		return nil, s.TypeErrorf("'%s' object is not callable", s.TypeOf(fn).Name())
	}
	return callable.Call(ctx, s, args, named)
}

// AppErrorf returns an exception of class cls with a formatted message.
func (s *Space) AppErrorf(cls *Class, format string, args ...any) *Exception {
	return NewException(cls, fmt.Sprintf(format, args...))
}

// TypeErrorf returns a TypeError exception.
func (s *Space) TypeErrorf(format string, args ...any) *Exception {
	return s.AppErrorf(s.typeErrorClass, format, args...)
}

// ArgumentErrorf returns an ArgumentError exception.
func (s *Space) ArgumentErrorf(format string, args ...any) *Exception {
	return s.AppErrorf(s.argumentErrorClass, format, args...)
}

// AttributeErrorf returns an AttributeError exception.
func (s *Space) AttributeErrorf(format string, args ...any) *Exception {
	return s.AppErrorf(s.attributeErrorClass, format, args...)
}
