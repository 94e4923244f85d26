package bytecode

import (
	"fmt"
	"strings"
)

// Repr renders the instruction stream one instruction per line. With
// numbers set, each line starts with the instruction's offset.
func (u *Unit) Repr(numbers bool) string {
	var b strings.Builder
	iter := NewInstructionIter(u.code)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		if numbers {
			fmt.Fprintf(&b, "%3d", instr.Offset)
		}
		b.WriteString("  ")
		b.WriteString(instr.Info.Name)
		for _, operand := range instr.Operands {
			fmt.Fprintf(&b, " %d", operand)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// String returns a short description of the unit.
func (u *Unit) String() string {
	return fmt.Sprintf("<unit %s (%d bytes, stack %d, resume %d)>",
		u.name, len(u.code), u.stackDepth, u.resumeDepth)
}
