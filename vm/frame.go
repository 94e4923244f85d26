package vm

import (
	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/object"
)

// Frame is the mutable state of one call: local slots, the operand stack and
// the resume stack. Both stacks are sized from the unit's verified depths and
// never grow. A frame belongs to the call that created it and is discarded
// when that call returns or raises.
type Frame struct {
	name   string
	unit   *bytecode.Unit
	module *object.Module
	ip     int

	// A nil slot has never been written
	locals []object.Object

	stack []object.Object
	sp    int

	resume []resumeEntry
	rp     int
}

// resumeEntry is one active protected region.
type resumeEntry struct {
	first int // index of the region's first exception block
	count int // number of exception blocks
	depth int // operand stack depth when the region was entered
}

// NewFrame returns a frame for running unit under the given function name.
func NewFrame(name string, unit *bytecode.Unit) *Frame {
	return &Frame{
		name:   name,
		unit:   unit,
		module: unit.Module(),
		locals: make([]object.Object, unit.LocalCount()),
		stack:  make([]object.Object, unit.StackDepth()),
		resume: make([]resumeEntry, unit.ResumeDepth()),
	}
}

// Name returns the name of the function the frame runs.
func (f *Frame) Name() string {
	return f.name
}

func (f *Frame) Unit() *bytecode.Unit {
	return f.unit
}

// Module returns the module whose globals the code reads.
func (f *Frame) Module() *object.Module {
	return f.module
}

// IP returns the offset of the instruction being executed.
func (f *Frame) IP() int {
	return f.ip
}

// Local returns the value in slot index, and false if it was never written.
func (f *Frame) Local(index int) (object.Object, bool) {
	value := f.locals[index]
	return value, value != nil
}

// SetLocal writes slot index.
func (f *Frame) SetLocal(index int, value object.Object) {
	f.locals[index] = value
}

// PopulateArgs writes bound argument values into slots 0..len(values)-1.
func (f *Frame) PopulateArgs(values []object.Object) {
	copy(f.locals, values)
}

// StackDepth returns the number of values on the operand stack.
func (f *Frame) StackDepth() int {
	return f.sp
}

// ResumeDepth returns the number of active protected regions.
func (f *Frame) ResumeDepth() int {
	return f.rp
}

func (f *Frame) push(obj object.Object) {
	f.stack[f.sp] = obj
	f.sp++
}

func (f *Frame) pop() object.Object {
	f.sp--
	obj := f.stack[f.sp]
	f.stack[f.sp] = nil
	return obj
}

func (f *Frame) peek() object.Object {
	return f.stack[f.sp-1]
}

// truncate drops values above depth.
func (f *Frame) truncate(depth int) {
	for f.sp > depth {
		f.pop()
	}
}

func (f *Frame) pushResume(entry resumeEntry) {
	f.resume[f.rp] = entry
	f.rp++
}

func (f *Frame) popResume() resumeEntry {
	f.rp--
	return f.resume[f.rp]
}
