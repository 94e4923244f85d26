// Package bytecode provides the compiled form of Quill function bodies.
//
// A [Unit] holds one function's instruction stream, constant pool, local
// variable names, argument descriptors, exception block table and line
// table. Units are only created through [NewUnit], which verifies the
// instruction stream before the unit comes into existence:
//
//   - The operand stack and the resume stack are both empty when execution
//     reaches the end of the stream.
//   - Every operand refers to an existing constant, local, global, exception
//     block or instruction.
//
// The maximum depths observed during verification become the unit's stack
// capacities, so frames never grow their stacks while running.
//
// # Encoding
//
// Each instruction is one opcode byte followed by zero, one or two 16-bit
// big-endian operands. The line table holds one entry per byte of the
// stream; operand bytes carry a zero entry.
//
// # Lifecycle
//
// A unit is immutable apart from [Unit.Setup], which resolves the raw
// constants into runtime values exactly once before first execution.
//
// Example:
//
//	unit, err := compiler.CompileBytecode(body, source, module, args)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(unit.Repr(true))
package bytecode
