package vm

import (
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/op"
)

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every instruction.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: profilers that only need Call/Return events.
	StepNone

	// StepOnLine calls OnStep when the source line changes.
	// Use for: coverage tools, line-level debugging.
	StepOnLine
)

// Observer is an interface for observing interpreter execution events.
// Implementations can embed NoOpObserver to provide default no-op
// implementations for methods they don't need.
//
// Observer methods are called synchronously during execution.
type Observer interface {
	// StepMode returns when OnStep should be called.
	StepMode() StepMode

	// OnStep is called before an instruction executes.
	// Returns false to halt execution immediately.
	OnStep(event StepEvent) bool

	// OnCall is called when a user function is entered.
	// Returns false to halt execution immediately.
	OnCall(event CallEvent) bool

	// OnReturn is called when a user function returns a value.
	// Returns false to halt execution immediately.
	OnReturn(event ReturnEvent) bool
}

// StepEvent contains information about a single instruction step.
type StepEvent struct {
	// Offset of the instruction in the unit's code.
	Offset int

	// Opcode is the operation being executed.
	Opcode op.Code

	// OpcodeName is the human-readable name of the opcode.
	OpcodeName string

	// Location is the source location of the instruction.
	Location errz.SourceLocation

	// StackDepth is the current depth of the operand stack.
	StackDepth int

	// FrameDepth is the current call depth.
	FrameDepth int
}

// CallEvent contains information about a function call.
type CallEvent struct {
	FunctionName string
	UnitID       string
	ArgCount     int
	FrameDepth   int
}

// ReturnEvent contains information about a function return.
type ReturnEvent struct {
	FunctionName string
	UnitID       string
	FrameDepth   int
}

// NoOpObserver is an Observer implementation that does nothing.
type NoOpObserver struct{}

func (NoOpObserver) StepMode() StepMode        { return StepAll }
func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}

func halted(event string) error {
	return errz.New(errz.ErrHalted, "execution halted by observer on %s", event)
}
