package compiler

import (
	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/object"
	"github.com/jerith/quill/op"
)

// Placeholder is written as a forward jump target until the real target is
// patched in.
const Placeholder = op.MaxOperand

// Builder assembles the instruction stream, constant pool, exception block
// table and line table of one function body.
type Builder struct {
	cfg    Config
	module *object.Module

	code      []byte
	lineTable []int

	constants []bytecode.Constant

	localNames []string
	locals     map[string]int
	args       []bytecode.Arg

	exceptionBlocks []bytecode.ExceptionBlock

	// Set on the first misuse of the builder
	failure error
}

// NewBuilder returns a builder for a function with the given parameters.
// Parameters are registered as the first locals, in order. Pass nil for cfg
// to use default settings.
func NewBuilder(module *object.Module, args []bytecode.Arg, cfg *Config) (*Builder, error) {
	b := &Builder{
		cfg:    cfg.withDefaults(module),
		module: module,
		locals: map[string]int{},
	}
	for _, arg := range args {
		if _, err := b.RegisterVariable(arg.Name); err != nil {
			return nil, err
		}
	}
	b.args = make([]bytecode.Arg, len(args))
	copy(b.args, args)
	return b, nil
}

// Module returns the module whose globals the code refers to.
func (b *Builder) Module() *object.Module {
	return b.module
}

// RegisterVariable declares a local and returns its slot.
func (b *Builder) RegisterVariable(name string) (int, error) {
	if _, found := b.locals[name]; found {
		return 0, errz.New(errz.ErrBuilder, "variable %q is already declared", name)
	}
	slot := len(b.localNames)
	if slot > op.MaxOperand {
		return 0, errz.New(errz.ErrBuilder, "too many local variables")
	}
	b.localNames = append(b.localNames, name)
	b.locals[name] = slot
	return slot, nil
}

// LookupLocal returns the slot of a declared local.
func (b *Builder) LookupLocal(name string) (int, bool) {
	slot, found := b.locals[name]
	return slot, found
}

// GetVariable resolves a name to a local slot, or failing that to a module
// global index.
func (b *Builder) GetVariable(name string) (isLocal bool, index int, err error) {
	if slot, found := b.locals[name]; found {
		return true, slot, nil
	}
	if b.module != nil {
		if index, found := b.module.Index(name); found {
			return false, index, nil
		}
	}
	return false, 0, errz.UndeclaredVariable(name)
}

// AddConstant appends a constant to the pool and returns its index.
func (b *Builder) AddConstant(c bytecode.Constant) int {
	if len(b.constants) > op.MaxOperand {
		b.fail(errz.New(errz.ErrBuilder, "number of constants exceeded limits"))
		return 0
	}
	b.constants = append(b.constants, c)
	return len(b.constants) - 1
}

// AddIntConstant appends an integer constant and returns its index.
func (b *Builder) AddIntConstant(value int64) int {
	return b.AddConstant(bytecode.IntConstant{Value: value})
}

// AddStrConstant appends a string constant and returns its index.
func (b *Builder) AddStrConstant(value string) int {
	return b.AddConstant(bytecode.StrConstant{Value: value})
}

// RegisterExceptionSetup declares an exception block catching the named
// module globals and returns its index. The handler position is patched
// later with PatchExceptionBlock.
func (b *Builder) RegisterExceptionSetup(names []string) (int, error) {
	block := bytecode.ExceptionBlock{
		Names:    make([]string, len(names)),
		Position: -1,
		VarIndex: -1,
	}
	copy(block.Names, names)
	for _, name := range names {
		var value object.Object
		var found bool
		if b.module != nil {
			value, found = b.module.Lookup(name)
		}
		if !found {
			return 0, errz.UnknownGlobalName(name)
		}
		block.Types = append(block.Types, value)
	}
	b.exceptionBlocks = append(b.exceptionBlocks, block)
	return len(b.exceptionBlocks) - 1, nil
}

// PatchExceptionBlock sets the offset where the block's handler starts.
func (b *Builder) PatchExceptionBlock(index, position int) {
	b.exceptionBlocks[index].Position = position
}

// BindExceptionVariable sets the local slot that receives the caught
// exception.
func (b *Builder) BindExceptionVariable(index, slot int) {
	b.exceptionBlocks[index].VarIndex = slot
}

// Emit appends an instruction and returns its offset. Every byte of the
// instruction is recorded in the line table; operand bytes get 0.
func (b *Builder) Emit(line int, opcode op.Code, operands ...int) int {
	pos := len(b.code)
	info, ok := op.Lookup(opcode)
	if !ok {
		b.fail(errz.New(errz.ErrBuilder, "unknown opcode %d", opcode))
		return pos
	}
	if len(operands) != info.OperandCount {
		b.fail(errz.New(errz.ErrBuilder, "%s takes %d operands, got %d",
			info.Name, info.OperandCount, len(operands)))
		return pos
	}
	for _, operand := range operands {
		if operand < 0 || operand > op.MaxOperand {
			b.fail(errz.New(errz.ErrBuilder, "%s operand %d does not fit in 16 bits", info.Name, operand))
			return pos
		}
	}
	b.code = append(b.code, byte(opcode))
	b.lineTable = append(b.lineTable, line)
	for _, operand := range operands {
		b.code = append(b.code, byte(operand>>8), byte(operand))
		b.lineTable = append(b.lineTable, 0, 0)
	}
	return pos
}

// Position returns the offset the next instruction will be emitted at.
func (b *Builder) Position() int {
	return len(b.code)
}

// GetPatchPosition returns the position of the last operand emitted, for a
// later PatchPosition call.
func (b *Builder) GetPatchPosition() int {
	return len(b.code) - 2
}

// PatchPosition overwrites the operand at pos with target.
func (b *Builder) PatchPosition(pos, target int) {
	if target < 0 || target > op.MaxOperand {
		b.fail(errz.New(errz.ErrBuilder, "jump target %d does not fit in 16 bits", target))
		return
	}
	if pos < 0 || pos+2 > len(b.code) {
		b.fail(errz.New(errz.ErrBuilder, "patch position %d out of range", pos))
		return
	}
	bytecode.PutOperand(b.code, pos, target)
}

// Locate attaches a source location to a structured error that has none.
func (b *Builder) Locate(err error, line int) error {
	if se, ok := err.(*errz.StructuredError); ok && se.Location.IsZero() {
		se.Location = errz.SourceLocation{
			Filename: b.cfg.Filename,
			Line:     line,
			Source:   errz.LineOf(b.cfg.Source, line),
		}
	}
	return err
}

// Build freezes the builder's state into a verified unit.
func (b *Builder) Build() (*bytecode.Unit, error) {
	if b.failure != nil {
		return nil, b.failure
	}
	return bytecode.NewUnit(bytecode.UnitParams{
		Name:            b.cfg.Name,
		Filename:        b.cfg.Filename,
		Source:          b.cfg.Source,
		Code:            b.code,
		LineTable:       b.lineTable,
		Constants:       b.constants,
		LocalNames:      b.localNames,
		Args:            b.args,
		ExceptionBlocks: b.exceptionBlocks,
		Module:          b.module,
	})
}

func (b *Builder) fail(err error) {
	if b.failure == nil {
		b.failure = err
	}
}
