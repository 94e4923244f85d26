package builtins

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jerith/quill/object"
)

func call(t *testing.T, s *object.Space, fn object.Object, args ...object.Object) (object.Object, error) {
	t.Helper()
	return s.Call(context.Background(), fn, args, nil)
}

func TestRegister(t *testing.T) {
	s := object.NewSpace()
	m := object.NewModule("test")
	Register(s, m, nil)
	require.Equal(t, []string{
		"object", "Exception", "TypeError", "ArgumentError", "AttributeError", "ZeroDivisionError",
		"len", "print", "str", "type",
	}, m.Names())
}

func TestEveryBuiltinIsDocumented(t *testing.T) {
	functions := Builtins(object.NewSpace(), nil)
	require.Len(t, Docs(), len(functions))
	for _, spec := range Docs() {
		require.Contains(t, functions, spec.Name)
		require.NotEmpty(t, spec.Doc)
	}
}

func TestPrint(t *testing.T) {
	s := object.NewSpace()
	var out bytes.Buffer
	fn := Builtins(s, &out)["print"]
	result, err := call(t, s, fn, s.NewStr("total:"), s.NewInt(55),
		s.NewList([]object.Object{s.NewStr("a"), s.None()}))
	require.Nil(t, err)
	require.Equal(t, s.None(), result)
	require.Equal(t, "total: 55 [\"a\", None]\n", out.String())

	_, err = call(t, s, fn)
	require.Nil(t, err)
	require.Equal(t, "total: 55 [\"a\", None]\n\n", out.String())
}

func TestPrintRejectsKeywords(t *testing.T) {
	s := object.NewSpace()
	fn := Builtins(s, &bytes.Buffer{})["print"]
	_, err := s.Call(context.Background(), fn, nil, []object.NamedArg{{Name: "sep", Value: s.NewStr(",")}})
	exc, ok := err.(*object.Exception)
	require.True(t, ok)
	require.Equal(t, "ArgumentError: print() does not support keyword arguments", exc.Error())
}

func TestLen(t *testing.T) {
	s := object.NewSpace()
	fn := Builtins(s, nil)["len"]
	tests := []struct {
		name     string
		input    object.Object
		expected int64
	}{
		{"list", s.NewList([]object.Object{s.NewInt(1), s.NewInt(2)}), 2},
		{"empty list", s.NewList(nil), 0},
		{"str", s.NewStr("hello"), 5},
		{"multibyte str", s.NewStr("héllo"), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := call(t, s, fn, tt.input)
			require.Nil(t, err)
			value, err := s.IntW(result)
			require.Nil(t, err)
			require.Equal(t, tt.expected, value)
		})
	}
}

func TestLenErrors(t *testing.T) {
	s := object.NewSpace()
	fn := Builtins(s, nil)["len"]

	_, err := call(t, s, fn, s.NewInt(3))
	require.EqualError(t, err, "TypeError: object of type 'int' has no len()")

	_, err = call(t, s, fn)
	require.EqualError(t, err, "ArgumentError: len() got too few arguments (got 0, expected 1, missing 1)")

	_, err = call(t, s, fn, s.NewStr("a"), s.NewStr("b"))
	require.EqualError(t, err, "ArgumentError: len() got too many arguments (got 2, expected 1)")
}

func TestStr(t *testing.T) {
	s := object.NewSpace()
	fn := Builtins(s, nil)["str"]
	tests := []struct {
		name     string
		args     []object.Object
		expected string
	}{
		{"no argument", nil, ""},
		{"str", []object.Object{s.NewStr("abc")}, "abc"},
		{"int", []object.Object{s.NewInt(-4)}, "-4"},
		{"bool", []object.Object{s.True()}, "true"},
		{"none", []object.Object{s.None()}, "None"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := call(t, s, fn, tt.args...)
			require.Nil(t, err)
			value, err := s.Utf8W(result)
			require.Nil(t, err)
			require.Equal(t, tt.expected, value)
		})
	}
}

func TestType(t *testing.T) {
	s := object.NewSpace()
	fn := Builtins(s, nil)["type"]

	result, err := call(t, s, fn, s.NewStr("abc"))
	require.Nil(t, err)
	require.Equal(t, "<class 'str'>", result.Inspect())

	result, err = call(t, s, fn, object.NewException(s.TypeErrorClass(), "x"))
	require.Nil(t, err)
	require.Same(t, s.TypeErrorClass(), result)
}
