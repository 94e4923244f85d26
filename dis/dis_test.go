package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/compiler"
	"github.com/jerith/quill/object"
	"github.com/jerith/quill/op"
)

// buildUnit assembles:
//
//	try { x = foo(42); } except TypeError { x = "kaboom"; }
//	return x;
func buildUnit(t *testing.T) *bytecode.Unit {
	t.Helper()
	s := object.NewSpace()
	m := object.NewModule("main")
	foo := m.Declare("foo", s.None())
	m.Declare("TypeError", s.TypeErrorClass())

	b, err := compiler.NewBuilder(m, nil, nil)
	require.Nil(t, err)
	x, err := b.RegisterVariable("x")
	require.Nil(t, err)
	block, err := b.RegisterExceptionSetup([]string{"TypeError"})
	require.Nil(t, err)
	b.Emit(1, op.PushResumeStack, block, 1)
	b.Emit(2, op.LoadGlobal, foo)
	b.Emit(2, op.LoadConstant, b.AddIntConstant(42))
	b.Emit(2, op.Call, 1)
	b.Emit(2, op.Store, x)
	b.Emit(3, op.PopResumeStack)
	b.Emit(3, op.JumpAbsolute, compiler.Placeholder)
	end := b.GetPatchPosition()
	b.PatchExceptionBlock(block, b.Position())
	b.Emit(4, op.LoadConstant, b.AddStrConstant("kaboom"))
	b.Emit(4, op.Store, x)
	b.PatchPosition(end, b.Position())
	b.Emit(5, op.LoadVariable, x)
	b.Emit(5, op.Return)
	unit, err := b.Build()
	require.Nil(t, err)
	return unit
}

func TestDisassemble(t *testing.T) {
	instructions, err := Disassemble(buildUnit(t))
	require.Nil(t, err)
	require.Len(t, instructions, 11)

	first := instructions[0]
	require.Equal(t, op.PushResumeStack, first.Opcode)
	require.Equal(t, []int{0, 1}, first.Operands)
	require.Equal(t, "TypeError -> 21", first.Info)

	call := instructions[3]
	require.Equal(t, 11, call.Offset)
	require.Equal(t, 2, call.Line)
	require.Equal(t, "CALL", call.Name)
	require.Equal(t, "", call.Info)
}

func TestPrint(t *testing.T) {
	oldNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = oldNoColor }()

	instructions, err := Disassemble(buildUnit(t))
	require.Nil(t, err)
	var buf bytes.Buffer
	require.Nil(t, Print(instructions, &buf))

	expected := strings.TrimSpace(`
+--------+------+-------------------+----------+-----------------+
| OFFSET | LINE |      OPCODE       | OPERANDS |      INFO       |
+--------+------+-------------------+----------+-----------------+
|      0 |    1 | PUSH_RESUME_STACK |      0 1 | TypeError -> 21 |
|      5 |    2 | LOAD_GLOBAL       |        0 | foo             |
|      8 |    2 | LOAD_CONSTANT     |        0 | 42              |
|     11 |    2 | CALL              |        1 |                 |
|     14 |    2 | STORE             |        0 | x               |
|     17 |    3 | POP_RESUME_STACK  |          |                 |
|     18 |    3 | JUMP_ABSOLUTE     |       27 |                 |
|     21 |    4 | LOAD_CONSTANT     |        1 | "kaboom"        |
|     24 |    4 | STORE             |        0 | x               |
|     27 |    5 | LOAD_VARIABLE     |        0 | x               |
|     30 |    5 | RETURN            |          |                 |
+--------+------+-------------------+----------+-----------------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestPrintEmpty(t *testing.T) {
	oldNoColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = oldNoColor }()

	var buf bytes.Buffer
	require.Nil(t, Print(nil, &buf))
	require.Equal(t, ""+
		"+--------+------+--------+----------+------+\n"+
		"| OFFSET | LINE | OPCODE | OPERANDS | INFO |\n"+
		"+--------+------+--------+----------+------+\n"+
		"+--------+------+--------+----------+------+\n", buf.String())
}

func TestDisassembleUnmarshaledUnit(t *testing.T) {
	unit := buildUnit(t)
	data, err := bytecode.Marshal(unit)
	require.Nil(t, err)
	restored, err := bytecode.Unmarshal(data, unit.Module())
	require.Nil(t, err)

	original, err := Disassemble(unit)
	require.Nil(t, err)
	roundTripped, err := Disassemble(restored)
	require.Nil(t, err)
	require.Equal(t, original, roundTripped)
}
