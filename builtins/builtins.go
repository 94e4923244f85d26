// Package builtins defines the default set of module globals: the builtin
// classes and a handful of native functions.
package builtins

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/jerith/quill/object"
)

// Print returns a print function writing to out. Arguments are written
// separated by spaces and followed by a newline. Strings are written
// without quotes.
func Print(out io.Writer) object.BuiltinFunction {
	if out == nil {
		out = os.Stdout
	}
	return func(ctx context.Context, s *object.Space, args []object.Object) (object.Object, error) {
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			if str, ok := arg.(*object.Str); ok {
				parts = append(parts, str.Value())
			} else {
				parts = append(parts, arg.Inspect())
			}
		}
		if _, err := fmt.Fprintln(out, strings.Join(parts, " ")); err != nil {
			return nil, err
		}
		return s.None(), nil
	}
}

// Len returns the number of items in a list or characters in a string.
func Len(ctx context.Context, s *object.Space, args []object.Object) (object.Object, error) {
	switch arg := args[0].(type) {
	case *object.Str:
		return s.NewInt(int64(utf8.RuneCountInString(arg.Value()))), nil
	case *object.List:
		return s.NewInt(int64(arg.Len())), nil
	default:
		return nil, s.TypeErrorf("object of type '%s' has no len()", s.TypeOf(arg).Name())
	}
}

// Str converts a value to its string representation.
func Str(ctx context.Context, s *object.Space, args []object.Object) (object.Object, error) {
	if str, ok := args[0].(*object.Str); ok {
		return str, nil
	}
	return s.NewStr(args[0].Inspect()), nil
}

// Type returns the class of a value.
func Type(ctx context.Context, s *object.Space, args []object.Object) (object.Object, error) {
	return s.TypeOf(args[0]), nil
}

// Builtins returns the native functions by name. Output of print goes to
// out, or to standard output when out is nil.
func Builtins(s *object.Space, out io.Writer) map[string]object.Object {
	return map[string]object.Object{
		"len":   object.NewBuiltinWithParams("len", []object.Param{{Name: "obj"}}, Len),
		"print": object.NewBuiltin("print", Print(out)),
		"str":   object.NewBuiltinWithParams("str", []object.Param{{Name: "value", Default: s.NewStr("")}}, Str),
		"type":  object.NewBuiltinWithParams("type", []object.Param{{Name: "obj"}}, Type),
	}
}

// Register declares the builtin classes and functions in m. Functions are
// declared in the order Docs lists them, after the classes.
func Register(s *object.Space, m *object.Module, out io.Writer) {
	for _, cls := range s.BuiltinClasses() {
		m.Declare(cls.Name(), cls)
	}
	functions := Builtins(s, out)
	for _, spec := range Docs() {
		if fn, ok := functions[spec.Name]; ok {
			m.Declare(spec.Name, fn)
		}
	}
}
