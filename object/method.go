package object

import (
	"context"
	"fmt"

	"github.com/jerith/quill/op"
)

// BoundMethod pairs a receiver with a callable. Calling it passes the
// receiver as the first positional argument.
type BoundMethod struct {
	receiver Object
	fn       Callable
}

// NewBoundMethod returns fn bound to receiver.
func NewBoundMethod(receiver Object, fn Callable) *BoundMethod {
	return &BoundMethod{receiver: receiver, fn: fn}
}

func (m *BoundMethod) Receiver() Object {
	return m.receiver
}

func (m *BoundMethod) Func() Callable {
	return m.fn
}

func (m *BoundMethod) Type() Type {
	return METHOD
}

func (m *BoundMethod) Inspect() string {
	return fmt.Sprintf("<bound method %s of %s>", m.fn.Inspect(), m.receiver.Inspect())
}

func (m *BoundMethod) Interface() interface{} {
	return nil
}

func (m *BoundMethod) GetAttr(name string) (Object, bool) {
	return nil, false
}

func (m *BoundMethod) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, m, name)
}

func (m *BoundMethod) IsTruthy() bool {
	return true
}

func (m *BoundMethod) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}

func (m *BoundMethod) Call(ctx context.Context, s *Space, args []Object, named []NamedArg) (Object, error) {
	full := make([]Object, 0, len(args)+1)
	full = append(full, m.receiver)
	full = append(full, args...)
	return m.fn.Call(ctx, s, full, named)
}

// PropertyGetter reads a property from self.
type PropertyGetter func(ctx context.Context, s *Space, self Object) (Object, error)

// PropertySetter writes a property on self.
type PropertySetter func(ctx context.Context, s *Space, self, value Object) error

// Property is a class member read through a getter when it is accessed on
// an instance, and written through an optional setter.
type Property struct {
	name   string
	getter PropertyGetter
	setter PropertySetter
}

// NewProperty returns a property. A nil setter makes it read-only.
func NewProperty(name string, getter PropertyGetter, setter PropertySetter) *Property {
	return &Property{name: name, getter: getter, setter: setter}
}

func (p *Property) Name() string {
	return p.name
}

// Bind calls the getter for receiver.
func (p *Property) Bind(ctx context.Context, s *Space, receiver Object) (Object, error) {
	return p.getter(ctx, s, receiver)
}

// Set calls the setter for receiver.
func (p *Property) Set(ctx context.Context, s *Space, receiver, value Object) error {
	if p.setter == nil {
		return s.AttributeErrorf("can't set attribute '%s'", p.name)
	}
	return p.setter(ctx, s, receiver, value)
}

func (p *Property) Type() Type {
	return PROPERTY
}

func (p *Property) Inspect() string {
	return fmt.Sprintf("<property %s>", p.name)
}

func (p *Property) Interface() interface{} {
	return nil
}

func (p *Property) GetAttr(name string) (Object, bool) {
	return nil, false
}

func (p *Property) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, p, name)
}

func (p *Property) IsTruthy() bool {
	return true
}

func (p *Property) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}
