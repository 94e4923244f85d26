// Package dis renders bytecode units as annotated instruction tables.
package dis

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/internal/table"
	"github.com/jerith/quill/op"
)

var (
	opcodeColor = color.New(color.FgCyan)
	jumpColor   = color.New(color.FgYellow)
	infoColor   = color.New(color.Faint)
)

// Instruction is one decoded instruction with a human readable annotation
// of its operands.
type Instruction struct {
	Offset   int
	Line     int
	Name     string
	Opcode   op.Code
	Operands []int
	Info     string
}

// Disassemble decodes the unit's instruction stream and annotates each
// instruction with the constant, local or global it refers to.
func Disassemble(unit *bytecode.Unit) ([]Instruction, error) {
	decoded, err := bytecode.NewInstructionIter(unit.Instructions()).All()
	if err != nil {
		return nil, err
	}
	var globals []string
	if unit.Module() != nil {
		globals = unit.Module().Names()
	}
	instructions := make([]Instruction, 0, len(decoded))
	for _, instr := range decoded {
		instructions = append(instructions, Instruction{
			Offset:   instr.Offset,
			Line:     unit.LineAt(instr.Offset),
			Name:     instr.Info.Name,
			Opcode:   instr.Code(),
			Operands: instr.Operands,
			Info:     annotate(unit, globals, instr),
		})
	}
	return instructions, nil
}

func annotate(unit *bytecode.Unit, globals []string, instr bytecode.Instruction) string {
	arg := instr.Operand()
	switch instr.Code() {
	case op.LoadConstant, op.GetAttr, op.SetAttr:
		if arg < unit.ConstantCount() {
			return unit.RawConstantAt(arg).String()
		}
	case op.LoadVariable, op.Store:
		if arg < unit.LocalCount() {
			return unit.LocalNameAt(arg)
		}
	case op.LoadGlobal:
		if arg < len(globals) {
			return globals[arg]
		}
	case op.PushResumeStack:
		var parts []string
		for i := arg; i < arg+instr.Operands[1] && i < unit.ExceptionBlockCount(); i++ {
			block := unit.ExceptionBlockAt(i)
			parts = append(parts, fmt.Sprintf("%s -> %d", strings.Join(block.Names, "|"), block.Position))
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func isJump(code op.Code) bool {
	switch code {
	case op.JumpAbsolute, op.JumpIfFalse, op.JumpIfFalseNoPop, op.JumpIfTrueNoPop:
		return true
	}
	return false
}

// Print writes the instructions to writer as a table.
func Print(instructions []Instruction, writer io.Writer) error {
	t := table.NewTable(writer)
	t.WithHeader([]string{"OFFSET", "LINE", "OPCODE", "OPERANDS", "INFO"})
	t.WithHeaderAlignment([]table.Alignment{
		table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter, table.AlignCenter,
	})
	t.WithColumnAlignment([]table.Alignment{
		table.AlignRight, table.AlignRight, table.AlignLeft, table.AlignRight, table.AlignLeft,
	})
	for _, instr := range instructions {
		operands := make([]string, 0, len(instr.Operands))
		for _, operand := range instr.Operands {
			operands = append(operands, strconv.Itoa(operand))
		}
		name := opcodeColor.Sprint(instr.Name)
		if isJump(instr.Opcode) {
			name = jumpColor.Sprint(instr.Name)
		}
		info := instr.Info
		if info != "" {
			info = infoColor.Sprint(info)
		}
		t.Append([]string{
			strconv.Itoa(instr.Offset),
			strconv.Itoa(instr.Line),
			name,
			strings.Join(operands, " "),
			info,
		})
	}
	return t.Render()
}
