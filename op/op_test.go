package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetInfo(t *testing.T) {
	info := GetInfo(PushResumeStack)
	require.Equal(t, "PUSH_RESUME_STACK", info.Name)
	require.Equal(t, 2, info.OperandCount)
	require.Equal(t, PushResumeStack, info.Code)
	require.Equal(t, 5, info.Size())
}

func TestGetInfoAllOpcodes(t *testing.T) {
	tests := []struct {
		code     Code
		name     string
		operands int
		effect   int
	}{
		{LoadNone, "LOAD_NONE", 0, 1},
		{LoadTrue, "LOAD_TRUE", 0, 1},
		{LoadFalse, "LOAD_FALSE", 0, 1},
		{LoadConstant, "LOAD_CONSTANT", 1, 1},
		{LoadVariable, "LOAD_VARIABLE", 1, 1},
		{LoadGlobal, "LOAD_GLOBAL", 1, 1},
		{GetAttr, "GETATTR", 1, 0},
		{Store, "STORE", 1, -1},
		{SetAttr, "SETATTR", 1, -2},
		{Discard, "DISCARD", 0, -1},
		{Add, "ADD", 0, -1},
		{Sub, "SUB", 0, -1},
		{Mul, "MUL", 0, -1},
		{TrueDiv, "TRUEDIV", 0, -1},
		{Lt, "LT", 0, -1},
		{Eq, "EQ", 0, -1},
		{JumpAbsolute, "JUMP_ABSOLUTE", 1, 0},
		{JumpIfFalse, "JUMP_IF_FALSE", 1, -1},
		{JumpIfTrueNoPop, "JUMP_IF_TRUE_NOPOP", 1, 0},
		{JumpIfFalseNoPop, "JUMP_IF_FALSE_NOPOP", 1, 0},
		{Call, "CALL", 1, PopN},
		{Return, "RETURN", 0, -1},
		{BuildList, "BUILD_LIST", 1, PopNMinusOne},
		{PushResumeStack, "PUSH_RESUME_STACK", 2, 0},
		{PopResumeStack, "POP_RESUME_STACK", 0, 0},
		{Raise, "RAISE", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, ok := Lookup(tt.code)
			require.True(t, ok)
			require.Equal(t, tt.name, info.Name)
			require.Equal(t, tt.operands, info.OperandCount)
			require.Equal(t, tt.effect, info.StackEffect)
		})
	}
	require.Len(t, All(), len(tests))
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup(Invalid)
	require.False(t, ok)
	_, ok = Lookup(Code(200))
	require.False(t, ok)
}

func TestVariableEffects(t *testing.T) {
	// CALL 3 pops three arguments and the callable, pushes one result.
	require.Equal(t, -3, GetInfo(Call).Effect(3))
	// BUILD_LIST 3 pops three items, pushes one list.
	require.Equal(t, -2, GetInfo(BuildList).Effect(3))
	require.Equal(t, 1, GetInfo(BuildList).Effect(0))
	require.Equal(t, -1, GetInfo(Add).Effect(7))
}

func TestBinaryOpType(t *testing.T) {
	tests := []struct {
		op     BinaryOpType
		symbol string
		code   Code
	}{
		{OpAdd, "+", Add},
		{OpSub, "-", Sub},
		{OpMul, "*", Mul},
		{OpTrueDiv, "//", TrueDiv},
		{OpLt, "<", Lt},
		{OpEq, "==", Eq},
	}
	for _, tt := range tests {
		require.Equal(t, tt.symbol, tt.op.String())
		require.Equal(t, tt.code, tt.op.Code())
	}
	require.Equal(t, "", BinaryOpType(99).String())
	require.Equal(t, Invalid, BinaryOpType(99).Code())
}
