// Package errz defines the structured errors reported by the Quill compiler
// and interpreter for faults that in-language exception handlers never see.
package errz

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrUndeclaredVariable indicates a name that is neither a local nor a
	// module global.
	ErrUndeclaredVariable ErrorKind = iota
	// ErrUnknownGlobalName indicates an exception type name missing from the
	// module globals.
	ErrUnknownGlobalName
	// ErrInvalidStackDepth indicates an instruction stream that failed stack
	// verification.
	ErrInvalidStackDepth
	// ErrBuilder indicates misuse of the bytecode builder.
	ErrBuilder
	// ErrUninitializedVariable indicates a read of a local that was never
	// written.
	ErrUninitializedVariable
	// ErrInvalidOpcode indicates an opcode byte outside the known table.
	ErrInvalidOpcode
	// ErrRecursionLimit indicates the call depth limit was exceeded.
	ErrRecursionLimit
	// ErrHalted indicates execution was stopped by an observer.
	ErrHalted
	// ErrStackFault indicates an instruction that would underflow or overflow
	// a frame's operand or resume stack.
	ErrStackFault
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrUndeclaredVariable:
		return "undeclared variable"
	case ErrUnknownGlobalName:
		return "unknown global name"
	case ErrInvalidStackDepth:
		return "invalid stack depth"
	case ErrBuilder:
		return "builder error"
	case ErrUninitializedVariable:
		return "uninitialized variable"
	case ErrInvalidOpcode:
		return "invalid opcode"
	case ErrRecursionLimit:
		return "recursion limit"
	case ErrHalted:
		return "halted"
	case ErrStackFault:
		return "stack fault"
	default:
		return "error"
	}
}

// IsCompileTime returns true for kinds that reject a unit before it runs.
func (k ErrorKind) IsCompileTime() bool {
	switch k {
	case ErrUndeclaredVariable, ErrUnknownGlobalName, ErrInvalidStackDepth, ErrBuilder:
		return true
	default:
		return false
	}
}

// StructuredError is a compile-time or fatal runtime error with an optional
// source location and call stack.
type StructuredError struct {
	Message  string
	Kind     ErrorKind
	Location SourceLocation
	Stack    []StackFrame
	Cause    error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Location.IsZero() {
		return fmt.Sprintf("%s: %s", e.Kind.String(), e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind.String(), e.Message, e.Location.String())
}

// Unwrap returns the underlying cause of the error.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// IsFatal returns true. Structured errors are never catchable by Quill code.
func (e *StructuredError) IsFatal() bool {
	return true
}

// FriendlyErrorMessage returns a human-friendly error message including the
// offending source line and the stack trace.
func (e *StructuredError) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	msg.WriteString(e.Error())
	msg.WriteString("\n")
	if e.Location.Source != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.Location.Source)
		msg.WriteString("\n")
	}
	if e.Cause != nil {
		for _, line := range strings.Split(strings.TrimSpace(e.Cause.Error()), "\n") {
			msg.WriteString("   ")
			msg.WriteString(line)
			msg.WriteString("\n")
		}
	}
	if len(e.Stack) > 0 {
		msg.WriteString("\n")
		msg.WriteString(FormatStackTrace(e.Stack))
	}
	return msg.String()
}

// AddFrame appends a frame to the error's stack as it unwinds.
func (e *StructuredError) AddFrame(frame StackFrame) {
	e.Stack = append(e.Stack, frame)
}

// WithCause wraps the error with a cause.
func (e *StructuredError) WithCause(cause error) *StructuredError {
	e.Cause = cause
	return e
}

// WithLocation sets the source location of the error.
func (e *StructuredError) WithLocation(loc SourceLocation) *StructuredError {
	e.Location = loc
	return e
}

// New creates a new StructuredError with a formatted message.
func New(kind ErrorKind, format string, args ...any) *StructuredError {
	return &StructuredError{
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	}
}

// KindOf returns the kind of the first StructuredError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}

// HasKind returns true if err's chain contains a StructuredError of kind.
func HasKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// UndeclaredVariable reports a name the compiler could not resolve.
func UndeclaredVariable(name string) *StructuredError {
	return New(ErrUndeclaredVariable, "%q is not declared", name)
}

// UnknownGlobalName reports an exception type name missing from the module.
func UnknownGlobalName(name string) *StructuredError {
	return New(ErrUnknownGlobalName, "%q is not a module global", name)
}

// InvalidStackDepth reports a failed stack verification.
func InvalidStackDepth(depth, resumeDepth int) *StructuredError {
	return New(ErrInvalidStackDepth, "stack depth %d, resume depth %d at end of code", depth, resumeDepth)
}

// UninitializedVariable reports a read of a local that was never written.
func UninitializedVariable(name string) *StructuredError {
	return New(ErrUninitializedVariable, "%q used before assignment", name)
}

// InvalidOpcode reports an opcode byte outside the known table.
func InvalidOpcode(opcode byte, offset int) *StructuredError {
	return New(ErrInvalidOpcode, "opcode %d at offset %d", opcode, offset)
}
