package object

import (
	"context"
	"fmt"
	"sort"

	"github.com/jerith/quill/op"
)

// Constructor creates a new instance of cls when the class is called.
type Constructor func(ctx context.Context, s *Space, cls *Class, args []Object, named []NamedArg) (Object, error)

// Class is a type object. Classes form a single-inheritance chain and hold
// a dictionary of members shared by their instances.
type Class struct {
	name  string
	super *Class
	dict  map[string]Object
	ctor  Constructor
}

// NewClass returns a new class deriving from super, which may be nil.
func NewClass(name string, super *Class) *Class {
	return &Class{
		name:  name,
		super: super,
		dict:  map[string]Object{},
	}
}

// Name returns the class name.
func (c *Class) Name() string {
	return c.name
}

// Super returns the base class, or nil for a root class.
func (c *Class) Super() *Class {
	return c.super
}

// Define adds a member to the class dictionary.
func (c *Class) Define(name string, value Object) *Class {
	c.dict[name] = value
	return c
}

// SetConstructor sets the function that creates instances of this class
// and of subclasses that do not set their own.
func (c *Class) SetConstructor(fn Constructor) *Class {
	c.ctor = fn
	return c
}

// Lookup finds a member in this class or the nearest base class.
func (c *Class) Lookup(name string) (Object, bool) {
	for cls := c; cls != nil; cls = cls.super {
		if v, ok := cls.dict[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Members returns the names defined directly on this class, sorted.
func (c *Class) Members() []string {
	names := make([]string, 0, len(c.dict))
	for name := range c.dict {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSubclass returns true if c is other or derives from it.
func (c *Class) IsSubclass(other *Class) bool {
	for cls := c; cls != nil; cls = cls.super {
		if cls == other {
			return true
		}
	}
	return false
}

func (c *Class) Type() Type {
	return TYPE
}

func (c *Class) Inspect() string {
	return fmt.Sprintf("<class '%s'>", c.name)
}

func (c *Class) String() string {
	return c.Inspect()
}

func (c *Class) Interface() interface{} {
	return c.name
}

func (c *Class) GetAttr(name string) (Object, bool) {
	return c.Lookup(name)
}

func (c *Class) SetAttr(s *Space, name string, value Object) error {
	c.dict[name] = value
	return nil
}

func (c *Class) IsTruthy() bool {
	return true
}

func (c *Class) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}

func (c *Class) Call(ctx context.Context, s *Space, args []Object, named []NamedArg) (Object, error) {
	for cls := c; cls != nil; cls = cls.super {
		if cls.ctor != nil {
			return cls.ctor(ctx, s, c, args, named)
		}
	}
	return nil, s.TypeErrorf("cannot create '%s' instances", c.name)
}

// Instance is an object of a user-visible class with its own attributes.
type Instance struct {
	class *Class
	attrs map[string]Object
}

// NewInstance returns an instance of cls with no attributes.
func NewInstance(cls *Class) *Instance {
	return &Instance{class: cls, attrs: map[string]Object{}}
}

func (i *Instance) Class() *Class {
	return i.class
}

func (i *Instance) Type() Type {
	return INSTANCE
}

func (i *Instance) Inspect() string {
	return fmt.Sprintf("<%s instance>", i.class.name)
}

func (i *Instance) Interface() interface{} {
	result := make(map[string]interface{}, len(i.attrs))
	for k, v := range i.attrs {
		result[k] = v.Interface()
	}
	return result
}

func (i *Instance) GetAttr(name string) (Object, bool) {
	v, ok := i.attrs[name]
	return v, ok
}

func (i *Instance) SetAttr(s *Space, name string, value Object) error {
	i.attrs[name] = value
	return nil
}

func (i *Instance) IsTruthy() bool {
	return true
}

func (i *Instance) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}

func newInstance(ctx context.Context, s *Space, cls *Class, args []Object, named []NamedArg) (Object, error) {
	if len(args) > 0 || len(named) > 0 {
		return nil, s.ArgumentErrorf("%s() takes no arguments", cls.name)
	}
	return NewInstance(cls), nil
}
