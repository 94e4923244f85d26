package object

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsSubclass(t *testing.T) {
	s := NewSpace()
	require.True(t, s.TypeErrorClass().IsSubclass(s.ExceptionClass()))
	require.True(t, s.TypeErrorClass().IsSubclass(s.ObjectClass()))
	require.True(t, s.TypeErrorClass().IsSubclass(s.TypeErrorClass()))
	require.False(t, s.ExceptionClass().IsSubclass(s.TypeErrorClass()))
	require.False(t, s.TypeErrorClass().IsSubclass(s.ArgumentErrorClass()))

	unrelated := NewClass("Unrelated", nil)
	require.False(t, unrelated.IsSubclass(s.ObjectClass()))
}

func TestExceptionConstructor(t *testing.T) {
	ctx := context.Background()
	s := NewSpace()
	custom := NewClass("CustomError", s.TypeErrorClass())

	obj, err := s.Call(ctx, custom, []Object{s.NewStr("boom")}, nil)
	require.Nil(t, err)
	exc, ok := obj.(*Exception)
	require.True(t, ok)
	require.Same(t, custom, s.TypeOf(exc))
	require.Equal(t, "CustomError: boom", exc.Error())

	message, err := s.GetAttr(ctx, exc, "message")
	require.Nil(t, err)
	require.Equal(t, "boom", message.Interface())

	obj, err = s.Call(ctx, s.ExceptionClass(), nil, []NamedArg{{"message", s.NewStr("named")}})
	require.Nil(t, err)
	require.Equal(t, "Exception: named", obj.(*Exception).Error())

	_, err = s.Call(ctx, s.ExceptionClass(), []Object{s.NewInt(1)}, nil)
	require.Equal(t, "TypeError: expected str, got int", err.Error())
}

func TestClassWithoutConstructor(t *testing.T) {
	s := NewSpace()
	cls, ok := s.ClassOf(INT)
	require.True(t, ok)
	_, err := s.Call(context.Background(), NewClass("Root", nil), nil, nil)
	require.Equal(t, "TypeError: cannot create 'Root' instances", err.Error())
	require.Equal(t, "<class 'int'>", cls.Inspect())
}

func TestBuiltinCalls(t *testing.T) {
	ctx := context.Background()
	s := NewSpace()
	raw := NewBuiltin("count", func(ctx context.Context, s *Space, args []Object) (Object, error) {
		return s.NewInt(int64(len(args))), nil
	})
	result, err := s.Call(ctx, raw, []Object{s.None(), s.None()}, nil)
	require.Nil(t, err)
	require.Equal(t, int64(2), result.Interface())

	_, err = s.Call(ctx, raw, nil, []NamedArg{{"x", s.None()}})
	require.Equal(t, "ArgumentError: count() does not support keyword arguments", err.Error())

	sub := NewBuiltinWithParams("sub", []Param{{Name: "a"}, {Name: "b", Default: NewInt(1)}},
		func(ctx context.Context, s *Space, args []Object) (Object, error) {
			return s.Sub(args[0], args[1])
		})
	result, err = s.Call(ctx, sub, nil, []NamedArg{{"b", NewInt(2)}, {"a", NewInt(10)}})
	require.Nil(t, err)
	require.Equal(t, int64(8), result.Interface())
	result, err = s.Call(ctx, sub, []Object{NewInt(10)}, nil)
	require.Nil(t, err)
	require.Equal(t, int64(9), result.Interface())
}

func TestBoundMethod(t *testing.T) {
	ctx := context.Background()
	s := NewSpace()
	join, err := s.GetAttr(ctx, s.NewStr("-"), "join")
	require.Nil(t, err)
	items := s.NewList([]Object{s.NewStr("a"), s.NewStr("b")})

	result, err := s.Call(ctx, join, []Object{items}, nil)
	require.Nil(t, err)
	require.Equal(t, "a-b", result.Interface())

	result, err = s.Call(ctx, join, nil, []NamedArg{{"items", items}})
	require.Nil(t, err)
	require.Equal(t, "a-b", result.Interface())

	// The receiver fills "self", so naming it again is a duplicate.
	_, err = s.Call(ctx, join, []Object{items}, []NamedArg{{"self", items}})
	require.Equal(t, "ArgumentError: str.join() got too many arguments (got 3, expected 2)", err.Error())
}

func TestListAppend(t *testing.T) {
	ctx := context.Background()
	s := NewSpace()
	list := NewList(nil)
	appendFn, err := s.GetAttr(ctx, list, "append")
	require.Nil(t, err)
	_, err = s.Call(ctx, appendFn, []Object{s.NewInt(1)}, nil)
	require.Nil(t, err)
	length, err := s.GetAttr(ctx, list, "length")
	require.Nil(t, err)
	require.Equal(t, int64(1), length.Interface())
}

func TestProperty(t *testing.T) {
	ctx := context.Background()
	s := NewSpace()
	cls := NewClass("Point", s.ObjectClass())
	cls.Define("double", NewProperty("double",
		func(ctx context.Context, s *Space, self Object) (Object, error) {
			x, err := s.GetAttr(ctx, self, "x")
			if err != nil {
				return nil, err
			}
			return s.Mul(x, NewInt(2))
		},
		func(ctx context.Context, s *Space, self, value Object) error {
			half, err := s.TrueDiv(value, NewInt(2))
			if err != nil {
				return err
			}
			return self.SetAttr(s, "x", half)
		}))

	obj, err := s.Call(ctx, cls, nil, nil)
	require.Nil(t, err)
	require.Nil(t, s.SetAttr(ctx, obj, "double", NewInt(8)))
	x, err := s.GetAttr(ctx, obj, "x")
	require.Nil(t, err)
	require.Equal(t, int64(4), x.Interface())
	double, err := s.GetAttr(ctx, obj, "double")
	require.Nil(t, err)
	require.Equal(t, int64(8), double.Interface())
}

func TestModule(t *testing.T) {
	s := NewSpace()
	m := NewModule("main")
	require.Equal(t, 0, m.Declare("a", s.None()))
	require.Equal(t, 1, m.Declare("b", s.None()))
	require.Equal(t, 0, m.Declare("a", s.True()))
	index, ok := m.Index("b")
	require.True(t, ok)
	require.Equal(t, 1, index)
	require.Same(t, s.True(), m.GlobalAt(0))
	require.Equal(t, []string{"a", "b"}, m.Names())
	_, ok = m.Lookup("c")
	require.False(t, ok)
}

type failingSetup struct {
	Instance
	err error
}

func (f *failingSetup) Setup(s *Space) error {
	return f.err
}

func TestModuleSetupCollectsErrors(t *testing.T) {
	s := NewSpace()
	m := NewModule("main")
	m.Declare("ok", &failingSetup{})
	m.Declare("bad1", &failingSetup{err: s.TypeErrorf("one")})
	m.Declare("bad2", &failingSetup{err: s.TypeErrorf("two")})
	err := m.Setup(s)
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad1: TypeError: one")
	require.Contains(t, err.Error(), "bad2: TypeError: two")
}
