package object

import (
	"fmt"

	"github.com/jerith/quill/op"
)

// Int wraps int64 and implements Object.
type Int struct {
	base
	value int64
}

// NewInt returns a new Int with the given value.
func NewInt(value int64) *Int {
	return &Int{value: value}
}

func (i *Int) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, i, name)
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Inspect() string {
	return fmt.Sprintf("%d", i.value)
}

func (i *Int) String() string {
	return i.Inspect()
}

func (i *Int) Interface() interface{} {
	return i.value
}

func (i *Int) IsTruthy() bool {
	return i.value != 0
}

func (i *Int) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	other, ok := right.(*Int)
	if !ok {
		return s.NotImplemented(), nil
	}
	switch opType {
	case op.OpAdd:
		return NewInt(i.value + other.value), nil
	case op.OpSub:
		return NewInt(i.value - other.value), nil
	case op.OpMul:
		return NewInt(i.value * other.value), nil
	case op.OpTrueDiv:
		if other.value == 0 {
			return nil, s.AppErrorf(s.ZeroDivisionErrorClass(), "integer division by zero")
		}
		return NewInt(floorDiv(i.value, other.value)), nil
	case op.OpLt:
		return s.NewBool(i.value < other.value), nil
	case op.OpEq:
		return s.NewBool(i.value == other.value), nil
	}
	return s.NotImplemented(), nil
}

// floorDiv rounds toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
