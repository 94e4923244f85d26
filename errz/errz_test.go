package errz

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStructuredErrorMessage(t *testing.T) {
	err := UndeclaredVariable("x")
	require.Equal(t, `undeclared variable: "x" is not declared`, err.Error())

	err.WithLocation(SourceLocation{Filename: "main", Line: 4})
	require.Equal(t, `undeclared variable: "x" is not declared (main:4)`, err.Error())
	require.True(t, err.IsFatal())
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("compiling foo: %w", InvalidOpcode(99, 12))
	kind, ok := KindOf(wrapped)
	require.True(t, ok)
	require.Equal(t, ErrInvalidOpcode, kind)
	require.True(t, HasKind(wrapped, ErrInvalidOpcode))
	require.False(t, HasKind(wrapped, ErrBuilder))

	_, ok = KindOf(errors.New("plain"))
	require.False(t, ok)
}

func TestCompileTimeKinds(t *testing.T) {
	require.True(t, ErrUndeclaredVariable.IsCompileTime())
	require.True(t, ErrInvalidStackDepth.IsCompileTime())
	require.False(t, ErrUninitializedVariable.IsCompileTime())
	require.False(t, ErrInvalidOpcode.IsCompileTime())
	require.False(t, ErrStackFault.IsCompileTime())
	require.Equal(t, "stack fault", ErrStackFault.String())
}

func TestFriendlyErrorMessage(t *testing.T) {
	cause := errors.New("final depth 1")
	err := InvalidStackDepth(1, 0).
		WithCause(cause).
		WithLocation(SourceLocation{Filename: "m", Line: 2, Source: "return 1;"})
	err.AddFrame(StackFrame{Function: "main", Location: SourceLocation{Filename: "m", Line: 2}})

	msg := err.FriendlyErrorMessage()
	require.Contains(t, msg, "invalid stack depth: stack depth 1, resume depth 0 at end of code (m:2)")
	require.Contains(t, msg, " | return 1;")
	require.Contains(t, msg, "final depth 1")
	require.Contains(t, msg, "at main (m:2)")
	require.ErrorIs(t, err, cause)
}

func TestLineOf(t *testing.T) {
	src := "def main() {\n    return 1;\n}"
	require.Equal(t, "return 1;", LineOf(src, 2))
	require.Equal(t, "", LineOf(src, 0))
	require.Equal(t, "", LineOf(src, 9))
}
