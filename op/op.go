// Package op defines the opcodes shared by the Quill compiler, the bytecode
// verifier and the interpreter.
package op

// Code is a one-byte opcode that indicates an operation to execute.
type Code uint8

const (
	Invalid Code = 0

	// Push constants
	LoadNone  Code = 1
	LoadTrue  Code = 2
	LoadFalse Code = 3

	// Load
	LoadConstant Code = 10
	LoadVariable Code = 11
	LoadGlobal   Code = 12
	GetAttr      Code = 13

	// Store
	Store   Code = 20
	SetAttr Code = 21
	Discard Code = 22

	// Operations
	Add     Code = 30
	Sub     Code = 31
	Mul     Code = 32
	TrueDiv Code = 33
	Lt      Code = 34
	Eq      Code = 35

	// Jump
	JumpAbsolute     Code = 40
	JumpIfFalse      Code = 41
	JumpIfTrueNoPop  Code = 42
	JumpIfFalseNoPop Code = 43

	// Execution
	Call   Code = 50
	Return Code = 51

	// Build
	BuildList Code = 60

	// Exception handling
	PushResumeStack Code = 70 // operand1=first exception block, operand2=block count
	PopResumeStack  Code = 71
	Raise           Code = 72
)

// Stack effect sentinels. An opcode whose StackEffect is one of these derives
// its net effect from its first operand n.
const (
	// PopN removes n values: CALL n pops n arguments and the callable, then
	// pushes the result.
	PopN = 255
	// PopNMinusOne removes n-1 values: BUILD_LIST n pops n items and pushes
	// the list.
	PopNMinusOne = 254
)

// MaxOperand is the largest value a 16-bit operand can hold.
const MaxOperand = 1<<16 - 1

// BinaryOpType describes a binary operation dispatched through the object
// space.
type BinaryOpType uint8

const (
	OpAdd     BinaryOpType = 1
	OpSub     BinaryOpType = 2
	OpMul     BinaryOpType = 3
	OpTrueDiv BinaryOpType = 4
	OpLt      BinaryOpType = 5
	OpEq      BinaryOpType = 6
)

// String returns the operator symbol, for example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpTrueDiv:
		return "//"
	case OpLt:
		return "<"
	case OpEq:
		return "=="
	default:
		return ""
	}
}

// Code returns the opcode that performs this operation.
func (bop BinaryOpType) Code() Code {
	switch bop {
	case OpAdd:
		return Add
	case OpSub:
		return Sub
	case OpMul:
		return Mul
	case OpTrueDiv:
		return TrueDiv
	case OpLt:
		return Lt
	case OpEq:
		return Eq
	default:
		return Invalid
	}
}

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
	StackEffect  int
}

// Size is the number of bytes one encoded instruction occupies.
func (i Info) Size() int {
	return 1 + 2*i.OperandCount
}

// Effect returns the net operand stack change for an instruction whose first
// operand is n.
func (i Info) Effect(n int) int {
	switch i.StackEffect {
	case PopN:
		return -n
	case PopNMinusOne:
		return -(n - 1)
	default:
		return i.StackEffect
	}
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op     Code
		name   string
		count  int
		effect int
	}
	ops := []opInfo{
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
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
			StackEffect:  o.effect,
		}
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes yield
// an Info with an empty Name.
func GetInfo(op Code) Info {
	return infos[op]
}

// Lookup returns information about the given opcode and whether it is known.
func Lookup(op Code) (Info, bool) {
	info := infos[op]
	return info, info.Name != ""
}

// All returns the information for every known opcode, in opcode order.
func All() []Info {
	var result []Info
	for _, info := range infos {
		if info.Name != "" {
			result = append(result, info)
		}
	}
	return result
}
