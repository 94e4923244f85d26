package bytecode

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/op"
)

// ComputeStackDepth walks the instruction stream without executing it,
// tracking operand stack depth and resume stack depth. Both must be zero at
// the end of the stream and never negative along the way. It returns the
// maximum depth reached by each.
func ComputeStackDepth(code []byte) (maxDepth, maxResumeDepth int, err error) {
	var problems *multierror.Error
	var depth, resumeDepth int
	var underflow, resumeUnderflow bool

	iter := NewInstructionIter(code)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		depth += instr.Info.Effect(instr.Operand())
		switch instr.Code() {
		case op.PushResumeStack:
			resumeDepth++
		case op.PopResumeStack:
			resumeDepth--
		}
		if depth < 0 && !underflow {
			underflow = true
			problems = multierror.Append(problems, fmt.Errorf(
				"offset %d: %s leaves stack depth %d", instr.Offset, instr.Info.Name, depth))
		}
		if resumeDepth < 0 && !resumeUnderflow {
			resumeUnderflow = true
			problems = multierror.Append(problems, fmt.Errorf(
				"offset %d: %s leaves resume depth %d", instr.Offset, instr.Info.Name, resumeDepth))
		}
		maxDepth = max(maxDepth, depth)
		maxResumeDepth = max(maxResumeDepth, resumeDepth)
	}
	if err := iter.Err(); err != nil {
		problems = multierror.Append(problems, err)
	}
	if depth != 0 {
		problems = multierror.Append(problems, fmt.Errorf("final stack depth %d", depth))
	}
	if resumeDepth != 0 {
		problems = multierror.Append(problems, fmt.Errorf("final resume depth %d", resumeDepth))
	}
	if problems != nil {
		return 0, 0, errz.InvalidStackDepth(depth, resumeDepth).WithCause(problems.ErrorOrNil())
	}
	return maxDepth, maxResumeDepth, nil
}

// checkReferences verifies that every operand names something that exists.
func (u *Unit) checkReferences() error {
	var problems *multierror.Error
	instrs, err := NewInstructionIter(u.code).All()
	if err != nil {
		return err
	}
	starts := make(map[int]bool, len(instrs))
	for _, instr := range instrs {
		starts[instr.Offset] = true
	}
	report := func(instr Instruction, format string, args ...any) {
		problems = multierror.Append(problems, fmt.Errorf("offset %d: %s: %s",
			instr.Offset, instr.Info.Name, fmt.Sprintf(format, args...)))
	}
	for _, instr := range instrs {
		arg := instr.Operand()
		switch instr.Code() {
		case op.LoadConstant:
			if arg >= len(u.rawConstants) {
				report(instr, "constant %d out of range", arg)
			}
		case op.GetAttr, op.SetAttr:
			if arg >= len(u.rawConstants) {
				report(instr, "constant %d out of range", arg)
			} else if u.rawConstants[arg].Kind() != StrKind {
				report(instr, "constant %d is not a string", arg)
			}
		case op.LoadVariable, op.Store:
			if arg >= len(u.localNames) {
				report(instr, "local %d out of range", arg)
			}
		case op.LoadGlobal:
			if u.module != nil && arg >= u.module.GlobalCount() {
				report(instr, "global %d out of range", arg)
			}
		case op.JumpAbsolute, op.JumpIfFalse, op.JumpIfTrueNoPop, op.JumpIfFalseNoPop:
			if !starts[arg] {
				report(instr, "target %d is not an instruction", arg)
			}
		case op.PushResumeStack:
			count := instr.Operands[1]
			if count == 0 || arg+count > len(u.exceptionBlocks) {
				report(instr, "exception blocks %d..%d out of range", arg, arg+count-1)
			}
		}
	}
	for i, block := range u.exceptionBlocks {
		if !starts[block.Position] {
			problems = multierror.Append(problems, fmt.Errorf(
				"exception block %d: handler %d is not an instruction", i, block.Position))
		}
		if block.VarIndex >= len(u.localNames) {
			problems = multierror.Append(problems, fmt.Errorf(
				"exception block %d: local %d out of range", i, block.VarIndex))
		}
	}
	if len(u.args) > len(u.localNames) {
		problems = multierror.Append(problems, fmt.Errorf(
			"%d arguments but only %d locals", len(u.args), len(u.localNames)))
	}
	if problems != nil {
		return errz.New(errz.ErrBuilder, "unit %q has invalid references", u.name).
			WithCause(problems.ErrorOrNil())
	}
	return nil
}
