package object

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/op"
)

// Exception is an application-level error value. It is both a Quill object
// that code can raise and catch, and a Go error the interpreter unwinds
// with.
type Exception struct {
	class     *Class
	message   string
	attrs     map[string]Object
	traceback []errz.StackFrame
}

// NewException returns an exception of class cls with the given message.
func NewException(cls *Class, message string) *Exception {
	return &Exception{class: cls, message: message, attrs: map[string]Object{}}
}

func (e *Exception) Class() *Class {
	return e.class
}

// Message returns the exception message.
func (e *Exception) Message() string {
	return e.message
}

// Traceback returns the frames the exception has propagated through,
// innermost first.
func (e *Exception) Traceback() []errz.StackFrame {
	return e.traceback
}

// AddFrame records a frame the exception propagated out of.
func (e *Exception) AddFrame(frame errz.StackFrame) {
	e.traceback = append(e.traceback, frame)
}

// ResetTraceback forgets the frames recorded by an earlier propagation, so a
// re-raised exception reports only where it travelled since.
func (e *Exception) ResetTraceback() {
	e.traceback = nil
}

// Error implements the error interface.
func (e *Exception) Error() string {
	if e.message == "" {
		return e.class.name
	}
	return fmt.Sprintf("%s: %s", e.class.name, e.message)
}

// FriendlyErrorMessage returns the error with its traceback.
func (e *Exception) FriendlyErrorMessage() string {
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString("\n")
	if len(e.traceback) > 0 {
		b.WriteString(errz.FormatStackTrace(e.traceback))
	}
	return b.String()
}

func (e *Exception) Type() Type {
	return EXCEPTION
}

func (e *Exception) Inspect() string {
	return fmt.Sprintf("%s(%q)", e.class.name, e.message)
}

func (e *Exception) Interface() interface{} {
	return e.Error()
}

func (e *Exception) GetAttr(name string) (Object, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Exception) SetAttr(s *Space, name string, value Object) error {
	e.attrs[name] = value
	return nil
}

func (e *Exception) IsTruthy() bool {
	return true
}

func (e *Exception) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}

func newException(ctx context.Context, s *Space, cls *Class, args []Object, named []NamedArg) (Object, error) {
	params := []Param{{Name: "message", Default: s.NewStr("")}}
	values, err := BindArgs(s, cls.name, params, args, named)
	if err != nil {
		return nil, err
	}
	message, err := s.Utf8W(values[0])
	if err != nil {
		return nil, err
	}
	return NewException(cls, message), nil
}

func defineExceptionClass(s *Space, cls *Class) {
	cls.SetConstructor(newException)
	cls.Define("message", NewProperty("message", func(ctx context.Context, s *Space, self Object) (Object, error) {
		exc, ok := self.(*Exception)
		if !ok {
			return nil, s.TypeErrorf("message requires an exception, got %s", s.TypeOf(self).Name())
		}
		return s.NewStr(exc.message), nil
	}, nil))
}
