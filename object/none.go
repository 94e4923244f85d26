package object

// NoneType is the type of the space's None value.
type NoneType struct {
	base
}

func (n *NoneType) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, n, name)
}

func (n *NoneType) Type() Type {
	return NONE
}

func (n *NoneType) Inspect() string {
	return "None"
}

func (n *NoneType) String() string {
	return "None"
}

func (n *NoneType) Interface() interface{} {
	return nil
}

func (n *NoneType) IsTruthy() bool {
	return false
}

// NotImplementedType is the type of the sentinel a binary operation returns
// when it does not support its right operand.
type NotImplementedType struct {
	base
}

func (n *NotImplementedType) SetAttr(s *Space, name string, value Object) error {
	return readOnly(s, n, name)
}

func (n *NotImplementedType) Type() Type {
	return NOTIMPLEMENTED
}

func (n *NotImplementedType) Inspect() string {
	return "NotImplemented"
}

func (n *NotImplementedType) Interface() interface{} {
	return nil
}
