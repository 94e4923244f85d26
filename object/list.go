package object

import (
	"context"
	"strings"

	"github.com/jerith/quill/op"
)

// List is a mutable sequence of objects.
type List struct {
	base
	items []Object
}

// NewList returns a new List holding the given items.
func NewList(items []Object) *List {
	return &List{items: items}
}

func (l *List) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, l, name)
}

func (l *List) Type() Type {
	return LIST
}

// Value returns the list's backing slice.
func (l *List) Value() []Object {
	return l.items
}

// Len returns the number of items in the list.
func (l *List) Len() int {
	return len(l.items)
}

// Append adds an item to the end of the list.
func (l *List) Append(obj Object) {
	l.items = append(l.items, obj)
}

// Inspect renders the list. A list met again inside itself is shown as
// "[...]".
func (l *List) Inspect() string {
	return l.inspect(map[*List]bool{})
}

func (l *List) inspect(active map[*List]bool) string {
	if active[l] {
		return "[...]"
	}
	active[l] = true
	defer delete(active, l)
	parts := make([]string, 0, len(l.items))
	for _, item := range l.items {
		if inner, ok := item.(*List); ok {
			parts = append(parts, inner.inspect(active))
			continue
		}
		parts = append(parts, item.Inspect())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) String() string {
	return l.Inspect()
}

// Interface converts the list to a []interface{}. A list met again inside
// itself converts to nil.
func (l *List) Interface() interface{} {
	return l.native(map[*List]bool{})
}

func (l *List) native(active map[*List]bool) interface{} {
	if active[l] {
		return nil
	}
	active[l] = true
	defer delete(active, l)
	result := make([]interface{}, 0, len(l.items))
	for _, item := range l.items {
		if inner, ok := item.(*List); ok {
			result = append(result, inner.native(active))
			continue
		}
		result = append(result, item.Interface())
	}
	return result
}

func (l *List) IsTruthy() bool {
	return len(l.items) > 0
}

func (l *List) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	other, ok := right.(*List)
	if !ok {
		return s.NotImplemented(), nil
	}
	switch opType {
	case op.OpAdd:
		items := make([]Object, 0, len(l.items)+len(other.items))
		items = append(items, l.items...)
		items = append(items, other.items...)
		return NewList(items), nil
	case op.OpEq:
		if l == other {
			return s.True(), nil
		}
		if len(l.items) != len(other.items) {
			return s.False(), nil
		}
		if s.compareDepth >= maxCompareDepth {
			return nil, s.TypeErrorf("list comparison nested deeper than %d levels", maxCompareDepth)
		}
		s.compareDepth++
		defer func() { s.compareDepth-- }()
		for i, item := range l.items {
			eq, err := s.Eq(item, other.items[i])
			if err != nil {
				return nil, err
			}
			if !eq.IsTruthy() {
				return s.False(), nil
			}
		}
		return s.True(), nil
	}
	return s.NotImplemented(), nil
}

func defineListClass(s *Space, cls *Class) {
	cls.Define("append", NewBuiltin("list.append", func(ctx context.Context, s *Space, args []Object) (Object, error) {
		if len(args) != 2 {
			return nil, s.ArgumentErrorf("list.append() takes exactly one argument (%d given)", len(args)-1)
		}
		list, ok := args[0].(*List)
		if !ok {
			return nil, s.TypeErrorf("list.append() requires a list receiver, got %s", s.TypeOf(args[0]).Name())
		}
		list.Append(args[1])
		return s.None(), nil
	}))
	cls.Define("length", NewProperty("length", func(ctx context.Context, s *Space, self Object) (Object, error) {
		items, err := s.ListW(self)
		if err != nil {
			return nil, err
		}
		return s.NewInt(int64(len(items))), nil
	}, nil))
}
