package bytecode

import (
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/object"
)

// Unit is one compiled function body. It is created by NewUnit, which
// verifies it, and is immutable apart from the one-time Setup.
type Unit struct {
	id       string
	name     string
	filename string
	source   string

	code      []byte
	lineTable []int

	rawConstants []Constant
	constants    []object.Object
	ready        bool

	localNames      []string
	args            []Arg
	exceptionBlocks []ExceptionBlock
	module          *object.Module

	stackDepth  int
	resumeDepth int
}

// UnitParams contains parameters for creating a new Unit.
type UnitParams struct {
	ID              string
	Name            string
	Filename        string
	Source          string
	Code            []byte
	LineTable       []int
	Constants       []Constant
	LocalNames      []string
	Args            []Arg
	ExceptionBlocks []ExceptionBlock
	Module          *object.Module
}

// NewUnit creates a verified Unit from the given parameters. Input slices
// are copied. A unit whose stack depths do not balance, or whose operands
// refer to missing entries, is rejected.
func NewUnit(params UnitParams) (*Unit, error) {
	if len(params.LineTable) != len(params.Code) {
		return nil, errz.New(errz.ErrBuilder, "line table has %d entries for %d bytes of code",
			len(params.LineTable), len(params.Code))
	}
	id := params.ID
	if id == "" {
		id = uuid.Must(uuid.NewV4()).String()
	}
	u := &Unit{
		id:              id,
		name:            params.Name,
		filename:        params.Filename,
		source:          params.Source,
		code:            copyBytes(params.Code),
		lineTable:       copyInts(params.LineTable),
		rawConstants:    copyConstants(params.Constants),
		localNames:      copyStrings(params.LocalNames),
		args:            copyArgs(params.Args),
		exceptionBlocks: copyBlocks(params.ExceptionBlocks),
		module:          params.Module,
	}
	depth, resumeDepth, err := ComputeStackDepth(u.code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.name, err)
	}
	u.stackDepth = depth
	u.resumeDepth = resumeDepth
	if err := u.checkReferences(); err != nil {
		return nil, err
	}
	return u, nil
}

// Setup resolves the raw constants into runtime values. Only the first call
// has an effect.
func (u *Unit) Setup(s *object.Space) {
	if u.ready {
		return
	}
	u.constants = make([]object.Object, len(u.rawConstants))
	for i, c := range u.rawConstants {
		u.constants[i] = c.Wrap(s)
	}
	u.ready = true
}

// IsSetup returns true once Setup has run.
func (u *Unit) IsSetup() bool {
	return u.ready
}

// ID returns the unique identifier for this unit.
func (u *Unit) ID() string {
	return u.id
}

// Name returns the name of the function this unit implements.
func (u *Unit) Name() string {
	return u.name
}

// Filename returns the name of the file the unit was compiled from.
func (u *Unit) Filename() string {
	return u.filename
}

// Source returns the source code the unit was compiled from.
func (u *Unit) Source() string {
	return u.source
}

// Module returns the module whose globals the unit refers to.
func (u *Unit) Module() *object.Module {
	return u.module
}

// Instructions returns the instruction stream. The slice is shared and
// must not be modified.
func (u *Unit) Instructions() []byte {
	return u.code
}

// InstructionCount returns the length of the instruction stream in bytes.
func (u *Unit) InstructionCount() int {
	return len(u.code)
}

// ConstantCount returns the number of constants.
func (u *Unit) ConstantCount() int {
	return len(u.rawConstants)
}

// RawConstantAt returns the raw constant at index.
func (u *Unit) RawConstantAt(index int) Constant {
	return u.rawConstants[index]
}

// ConstantAt returns the resolved constant at index. Setup must have run.
func (u *Unit) ConstantAt(index int) object.Object {
	return u.constants[index]
}

// LocalCount returns the number of local variable slots.
func (u *Unit) LocalCount() int {
	return len(u.localNames)
}

// LocalNameAt returns the name of the local in slot index.
func (u *Unit) LocalNameAt(index int) string {
	return u.localNames[index]
}

// ArgCount returns the number of declared parameters.
func (u *Unit) ArgCount() int {
	return len(u.args)
}

// ArgAt returns the parameter at index.
func (u *Unit) ArgAt(index int) Arg {
	return u.args[index]
}

// ExceptionBlockCount returns the number of exception blocks.
func (u *Unit) ExceptionBlockCount() int {
	return len(u.exceptionBlocks)
}

// ExceptionBlockAt returns the exception block at index.
func (u *Unit) ExceptionBlockAt(index int) ExceptionBlock {
	return u.exceptionBlocks[index]
}

// StackDepth returns the verified maximum operand stack depth.
func (u *Unit) StackDepth() int {
	return u.stackDepth
}

// ResumeDepth returns the verified maximum resume stack depth.
func (u *Unit) ResumeDepth() int {
	return u.resumeDepth
}

// LineAt returns the source line of the instruction covering offset.
func (u *Unit) LineAt(offset int) int {
	if offset >= len(u.lineTable) {
		offset = len(u.lineTable) - 1
	}
	for i := offset; i >= 0; i-- {
		if line := u.lineTable[i]; line != 0 {
			return line
		}
	}
	return 0
}

// LocationAt returns the source location of the instruction covering offset.
func (u *Unit) LocationAt(offset int) errz.SourceLocation {
	line := u.LineAt(offset)
	return errz.SourceLocation{
		Filename: u.filename,
		Line:     line,
		Source:   errz.LineOf(u.source, line),
	}
}
