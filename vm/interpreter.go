// Package vm provides the Interpreter that executes verified bytecode units,
// and the user Function type that wraps them.
package vm

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/object"
	"github.com/jerith/quill/op"
)

// DefaultMaxDepth is the default limit on nested user function calls.
const DefaultMaxDepth = 1024

// Interpreter runs bytecode units. Nested calls recurse on the Go stack, so
// the call depth is bounded. An Interpreter is not safe for concurrent use.
type Interpreter struct {
	space    *object.Space
	logger   zerolog.Logger
	maxDepth int
	depth    int
	observer Observer
}

// New returns an Interpreter that performs value operations through space.
func New(space *object.Space, options ...Option) *Interpreter {
	interp := &Interpreter{
		space:    space,
		logger:   zerolog.Nop(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range options {
		opt(interp)
	}
	return interp
}

// Space returns the object space the interpreter operates in.
func (interp *Interpreter) Space() *object.Space {
	return interp.space
}

// Depth returns the number of user function calls in progress.
func (interp *Interpreter) Depth() int {
	return interp.depth
}

// Interpret runs unit in frame from offset 0 until a RETURN instruction and
// returns the value it pops. The unit's constants are resolved first if that
// has not happened yet.
//
// Application errors come back as *object.Exception. Faults that handlers
// never see, such as an invalid opcode, come back as *errz.StructuredError.
func (interp *Interpreter) Interpret(ctx context.Context, unit *bytecode.Unit, frame *Frame) (object.Object, error) {
	unit.Setup(interp.space)
	frame.ip = 0
	return interp.execute(ctx, unit, frame, unit.Instructions())
}

// call runs a user function body in a fresh frame, tracking call depth.
func (interp *Interpreter) call(ctx context.Context, fn *Function, frame *Frame, argc int) (object.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if interp.depth >= interp.maxDepth {
		return nil, errz.New(errz.ErrRecursionLimit,
			"maximum call depth of %d exceeded calling %s()", interp.maxDepth, fn.name)
	}
	interp.depth++
	defer func() { interp.depth-- }()

	interp.logger.Debug().
		Str("function", fn.name).
		Str("unit", fn.unit.ID()).
		Int("depth", interp.depth).
		Msg("call")
	if interp.observer != nil {
		event := CallEvent{
			FunctionName: fn.name,
			UnitID:       fn.unit.ID(),
			ArgCount:     argc,
			FrameDepth:   interp.depth,
		}
		if !interp.observer.OnCall(event) {
			return nil, halted("call")
		}
	}

	result, err := interp.Interpret(ctx, fn.unit, frame)
	if err != nil {
		return nil, err
	}

	interp.logger.Debug().
		Str("function", fn.name).
		Int("depth", interp.depth).
		Str("result", result.Inspect()).
		Msg("return")
	if interp.observer != nil {
		event := ReturnEvent{
			FunctionName: fn.name,
			UnitID:       fn.unit.ID(),
			FrameDepth:   interp.depth,
		}
		if !interp.observer.OnReturn(event) {
			return nil, halted("return")
		}
	}
	return result, nil
}

// execute is the fetch-decode-execute loop. It takes the instruction stream
// separately from the unit so tests can drive it with unverified code.
func (interp *Interpreter) execute(ctx context.Context, unit *bytecode.Unit, frame *Frame, code []byte) (object.Object, error) {
	lastLine := -1
	for {
		offset := frame.ip
		if offset >= len(code) {
			return nil, interp.fault(unit, frame, offset,
				errz.New(errz.ErrInvalidOpcode, "execution ran past the end of the code at offset %d", offset))
		}
		opcode := op.Code(code[offset])
		info, ok := op.Lookup(opcode)
		if !ok {
			return nil, interp.fault(unit, frame, offset, errz.InvalidOpcode(code[offset], offset))
		}
		if offset+info.Size() > len(code) {
			return nil, interp.fault(unit, frame, offset,
				errz.New(errz.ErrInvalidOpcode, "%s at offset %d is missing operand bytes", info.Name, offset))
		}
		var arg0, arg1 int
		if info.OperandCount >= 1 {
			arg0 = bytecode.ReadOperand(code, offset+1)
		}
		if info.OperandCount >= 2 {
			arg1 = bytecode.ReadOperand(code, offset+3)
		}

		if err := checkCapacity(frame, opcode, info, arg0, offset); err != nil {
			return nil, interp.fault(unit, frame, offset, err)
		}

		if interp.observer != nil {
			if !interp.step(unit, frame, offset, info, &lastLine) {
				return nil, interp.fault(unit, frame, offset, halted("step"))
			}
		}

		if opcode == op.Return {
			return frame.pop(), nil
		}

		next, err := interp.dispatch(ctx, unit, frame, opcode, offset+info.Size(), arg0, arg1)
		if err != nil {
			next, err = interp.unwind(unit, frame, offset, err)
			if err != nil {
				return nil, err
			}
		}
		frame.ip = next
	}
}

// dispatch performs one instruction and returns the offset of the next one.
// Control transfers return their target instead of fallthrough.
func (interp *Interpreter) dispatch(
	ctx context.Context,
	unit *bytecode.Unit,
	frame *Frame,
	opcode op.Code,
	next int,
	arg0, arg1 int,
) (int, error) {
	s := interp.space
	switch opcode {
	case op.LoadNone:
		frame.push(s.None())
	case op.LoadTrue:
		frame.push(s.True())
	case op.LoadFalse:
		frame.push(s.False())
	case op.LoadConstant:
		frame.push(unit.ConstantAt(arg0))
	case op.LoadVariable:
		value := frame.locals[arg0]
		if value == nil {
			return 0, errz.UninitializedVariable(unit.LocalNameAt(arg0))
		}
		frame.push(value)
	case op.LoadGlobal:
		frame.push(frame.module.GlobalAt(arg0))
	case op.GetAttr:
		name, err := s.Utf8W(unit.ConstantAt(arg0))
		if err != nil {
			return 0, err
		}
		value, err := s.GetAttr(ctx, frame.pop(), name)
		if err != nil {
			return 0, err
		}
		frame.push(value)
	case op.Store:
		frame.locals[arg0] = frame.pop()
	case op.SetAttr:
		name, err := s.Utf8W(unit.ConstantAt(arg0))
		if err != nil {
			return 0, err
		}
		value := frame.pop()
		obj := frame.pop()
		if err := s.SetAttr(ctx, obj, name, value); err != nil {
			return 0, err
		}
	case op.Discard:
		frame.pop()
	case op.Add, op.Sub, op.Mul, op.TrueDiv, op.Lt, op.Eq:
		right := frame.pop()
		left := frame.pop()
		result, err := s.BinaryOp(binaryOps[opcode], left, right)
		if err != nil {
			return 0, err
		}
		frame.push(result)
	case op.JumpAbsolute:
		return arg0, nil
	case op.JumpIfFalse:
		if !s.IsTrue(frame.pop()) {
			return arg0, nil
		}
	case op.JumpIfTrueNoPop:
		if s.IsTrue(frame.peek()) {
			return arg0, nil
		}
	case op.JumpIfFalseNoPop:
		if !s.IsTrue(frame.peek()) {
			return arg0, nil
		}
	case op.Call:
		args := make([]object.Object, arg0)
		for i := arg0 - 1; i >= 0; i-- {
			args[i] = frame.pop()
		}
		fn := frame.pop()
		result, err := s.Call(ctx, fn, args, nil)
		if err != nil {
			return 0, err
		}
		frame.push(result)
	case op.BuildList:
		items := make([]object.Object, arg0)
		for i := arg0 - 1; i >= 0; i-- {
			items[i] = frame.pop()
		}
		frame.push(s.NewList(items))
	case op.PushResumeStack:
		frame.pushResume(resumeEntry{first: arg0, count: arg1, depth: frame.sp})
	case op.PopResumeStack:
		frame.popResume()
	case op.Raise:
		return 0, interp.raise(frame.pop())
	default:
		return 0, errz.New(errz.ErrInvalidOpcode, "%s is not executable", op.GetInfo(opcode).Name)
	}
	return next, nil
}

var binaryOps = map[op.Code]op.BinaryOpType{
	op.Add:     op.OpAdd,
	op.Sub:     op.OpSub,
	op.Mul:     op.OpMul,
	op.TrueDiv: op.OpTrueDiv,
	op.Lt:      op.OpLt,
	op.Eq:      op.OpEq,
}

// raise turns a raised value into the error to unwind with. Exception
// classes are instantiated without a message.
func (interp *Interpreter) raise(value object.Object) error {
	s := interp.space
	switch value := value.(type) {
	case *object.Exception:
		value.ResetTraceback()
		return value
	case *object.Class:
		if value.IsSubclass(s.ExceptionClass()) {
			return object.NewException(value, "")
		}
	}
	return s.TypeErrorf("can only raise exception instances, not %s", s.TypeOf(value).Name())
}

// checkCapacity guards the frame's fixed-size stacks. The verifier only
// proves stack balance along the code's straight-line order, so a backward
// jump can still drive a frame past its capacity.
func checkCapacity(frame *Frame, opcode op.Code, info op.Info, arg, offset int) error {
	var inputs int
	switch opcode {
	case op.GetAttr, op.JumpIfTrueNoPop, op.JumpIfFalseNoPop:
		inputs = 1
	case op.Add, op.Sub, op.Mul, op.TrueDiv, op.Lt, op.Eq:
		inputs = 2
	case op.Call:
		inputs = arg + 1
	case op.BuildList:
		inputs = arg
	default:
		inputs = max(-info.Effect(arg), 0)
	}
	if frame.sp < inputs {
		return errz.New(errz.ErrStackFault,
			"%s at offset %d needs %d operands, stack holds %d", info.Name, offset, inputs, frame.sp)
	}
	if frame.sp+info.Effect(arg) > len(frame.stack) {
		return errz.New(errz.ErrStackFault,
			"%s at offset %d overflows operand stack of depth %d", info.Name, offset, len(frame.stack))
	}
	switch opcode {
	case op.PushResumeStack:
		if frame.rp >= len(frame.resume) {
			return errz.New(errz.ErrStackFault,
				"%s at offset %d overflows resume stack of depth %d", info.Name, offset, len(frame.resume))
		}
	case op.PopResumeStack:
		if frame.rp == 0 {
			return errz.New(errz.ErrStackFault,
				"%s at offset %d with an empty resume stack", info.Name, offset)
		}
	}
	return nil
}

// unwind looks for a handler for err in the frame's active protected regions,
// innermost first. It returns the handler offset, or the error to propagate
// to the caller when no handler matches. Fatal errors are never handled.
func (interp *Interpreter) unwind(unit *bytecode.Unit, frame *Frame, offset int, err error) (int, error) {
	var exc *object.Exception
	if !errors.As(err, &exc) {
		return 0, interp.fault(unit, frame, offset, err)
	}
	for frame.rp > 0 {
		entry := frame.popResume()
		for i := entry.first; i < entry.first+entry.count; i++ {
			block := unit.ExceptionBlockAt(i)
			if !block.Match(interp.space, exc) {
				continue
			}
			frame.truncate(entry.depth)
			if block.VarIndex >= 0 {
				frame.locals[block.VarIndex] = exc
			}
			interp.logger.Debug().
				Str("function", frame.name).
				Str("exception", exc.Error()).
				Int("block", i).
				Int("handler", block.Position).
				Msg("exception handled")
			return block.Position, nil
		}
	}
	exc.AddFrame(errz.StackFrame{Function: frame.name, Location: unit.LocationAt(offset)})
	interp.logger.Debug().
		Str("function", frame.name).
		Str("exception", exc.Error()).
		Int("line", unit.LineAt(offset)).
		Msg("exception propagated")
	return 0, exc
}

// fault records where a non-catchable error passed through this frame.
func (interp *Interpreter) fault(unit *bytecode.Unit, frame *Frame, offset int, err error) error {
	var se *errz.StructuredError
	if errors.As(err, &se) {
		loc := unit.LocationAt(offset)
		if se.Location.IsZero() {
			se.Location = loc
		}
		se.AddFrame(errz.StackFrame{Function: frame.name, Location: loc})
	}
	return err
}

func (interp *Interpreter) step(unit *bytecode.Unit, frame *Frame, offset int, info op.Info, lastLine *int) bool {
	switch interp.observer.StepMode() {
	case StepNone:
		return true
	case StepOnLine:
		line := unit.LineAt(offset)
		if line == *lastLine {
			return true
		}
		*lastLine = line
	}
	return interp.observer.OnStep(StepEvent{
		Offset:     offset,
		Opcode:     info.Code,
		OpcodeName: info.Name,
		Location:   unit.LocationAt(offset),
		StackDepth: frame.sp,
		FrameDepth: interp.depth,
	})
}
