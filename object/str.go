package object

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerith/quill/op"
)

// Str wraps a UTF-8 string and implements Object.
type Str struct {
	base
	value string
}

// NewStr returns a new Str with the given value.
func NewStr(s string) *Str {
	return &Str{value: s}
}

func (s *Str) SetAttr(sp *Space, name string, value Object) error {
	return readOnly(sp, s, name)
}

func (s *Str) Type() Type {
	return STR
}

func (s *Str) Value() string {
	return s.value
}

func (s *Str) Inspect() string {
	return fmt.Sprintf("%q", s.value)
}

func (s *Str) String() string {
	return s.value
}

func (s *Str) Interface() interface{} {
	return s.value
}

func (s *Str) IsTruthy() bool {
	return s.value != ""
}

func (s *Str) RunOperation(sp *Space, opType op.BinaryOpType, right Object) (Object, error) {
	switch other := right.(type) {
	case *Str:
		switch opType {
		case op.OpAdd:
			return NewStr(s.value + other.value), nil
		case op.OpLt:
			return sp.NewBool(s.value < other.value), nil
		case op.OpEq:
			return sp.NewBool(s.value == other.value), nil
		}
	case *Int:
		if opType == op.OpMul {
			if other.value <= 0 {
				return NewStr(""), nil
			}
			return NewStr(strings.Repeat(s.value, int(other.value))), nil
		}
	}
	return sp.NotImplemented(), nil
}

func defineStrClass(s *Space, cls *Class) {
	cls.Define("upper", NewBuiltin("str.upper", func(ctx context.Context, s *Space, args []Object) (Object, error) {
		if len(args) != 1 {
			return nil, s.ArgumentErrorf("str.upper() takes no arguments (%d given)", len(args)-1)
		}
		value, err := s.Utf8W(args[0])
		if err != nil {
			return nil, err
		}
		return s.NewStr(strings.ToUpper(value)), nil
	}))
	cls.Define("join", NewBuiltinWithParams("str.join", []Param{{Name: "self"}, {Name: "items"}},
		func(ctx context.Context, s *Space, args []Object) (Object, error) {
			sep, err := s.Utf8W(args[0])
			if err != nil {
				return nil, err
			}
			items, err := s.ListW(args[1])
			if err != nil {
				return nil, err
			}
			parts := make([]string, 0, len(items))
			for _, item := range items {
				part, err := s.Utf8W(item)
				if err != nil {
					return nil, err
				}
				parts = append(parts, part)
			}
			return s.NewStr(strings.Join(parts, sep)), nil
		}))
	cls.Define("length", NewProperty("length", func(ctx context.Context, s *Space, self Object) (Object, error) {
		value, err := s.Utf8W(self)
		if err != nil {
			return nil, err
		}
		return s.NewInt(int64(len([]rune(value)))), nil
	}, nil))
}
