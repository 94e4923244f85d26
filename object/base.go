package object

import "github.com/jerith/quill/op"

type base struct{}

func (b *base) GetAttr(name string) (Object, bool) {
	return nil, false
}

func (b *base) IsTruthy() bool {
	return true
}

func (b *base) RunOperation(s *Space, opType op.BinaryOpType, right Object) (Object, error) {
	return s.NotImplemented(), nil
}

// readOnly rejects attribute assignment for types without instance state.
func readOnly(s *Space, obj Object, name string) error {
	return s.AttributeErrorf("'%s' object has no attribute '%s'", s.TypeOf(obj).Name(), name)
}
