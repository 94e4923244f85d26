package object

import "github.com/jerith/quill/op"

// Bool is a boolean value. Only the space's True and False exist.
type Bool struct {
	base
	value bool
}

func (b *Bool) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, b, name)
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

func (b *Bool) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	other, ok := right.(*Bool)
	if ok && opType == op.OpEq {
		return s.NewBool(b == other), nil
	}
	return s.NotImplemented(), nil
}
