package bytecode

import (
	"fmt"

	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/op"
)

// Instruction is one decoded instruction.
type Instruction struct {
	Offset   int
	Info     op.Info
	Operands []int
}

// Code returns the instruction's opcode.
func (i Instruction) Code() op.Code {
	return i.Info.Code
}

// Operand returns the first operand, or 0 when there is none.
func (i Instruction) Operand() int {
	if len(i.Operands) == 0 {
		return 0
	}
	return i.Operands[0]
}

// InstructionIter decodes an instruction stream one instruction at a time.
type InstructionIter struct {
	code []byte
	pos  int
	err  error
}

// NewInstructionIter creates a new instruction iterator for code.
func NewInstructionIter(code []byte) *InstructionIter {
	return &InstructionIter{code: code}
}

// Next returns the next instruction. It returns false at the end of the
// stream or when the stream cannot be decoded; check Err to tell the two
// apart.
func (it *InstructionIter) Next() (Instruction, bool) {
	if it.err != nil || it.pos >= len(it.code) {
		return Instruction{}, false
	}
	offset := it.pos
	info, ok := op.Lookup(op.Code(it.code[offset]))
	if !ok {
		it.err = errz.InvalidOpcode(it.code[offset], offset)
		return Instruction{}, false
	}
	if offset+info.Size() > len(it.code) {
		it.err = fmt.Errorf("offset %d: %s is missing operand bytes", offset, info.Name)
		return Instruction{}, false
	}
	var operands []int
	if info.OperandCount > 0 {
		operands = make([]int, info.OperandCount)
		for j := range operands {
			operands[j] = ReadOperand(it.code, offset+1+2*j)
		}
	}
	it.pos += info.Size()
	return Instruction{Offset: offset, Info: info, Operands: operands}, true
}

// Err returns the decoding error that stopped iteration, if any.
func (it *InstructionIter) Err() error {
	return it.err
}

// All returns all remaining instructions.
func (it *InstructionIter) All() ([]Instruction, error) {
	var results []Instruction
	for {
		instr, ok := it.Next()
		if !ok {
			break
		}
		results = append(results, instr)
	}
	return results, it.err
}
