package bytecode

import (
	"fmt"

	"github.com/jerith/quill/object"
)

// ConstantKind tags the variants of Constant.
type ConstantKind string

const (
	IntKind ConstantKind = "int"
	StrKind ConstantKind = "str"
)

// Constant is a compile-time literal. Wrap converts it into a runtime value
// and is called once, when the unit is set up.
type Constant interface {
	Kind() ConstantKind
	Wrap(s *object.Space) object.Object
	String() string
}

// IntConstant is an integer literal.
type IntConstant struct {
	Value int64
}

func (c IntConstant) Kind() ConstantKind {
	return IntKind
}

func (c IntConstant) Wrap(s *object.Space) object.Object {
	return s.NewInt(c.Value)
}

func (c IntConstant) String() string {
	return fmt.Sprintf("%d", c.Value)
}

// StrConstant is a string literal. Attribute names are stored as string
// constants too.
type StrConstant struct {
	Value string
}

func (c StrConstant) Kind() ConstantKind {
	return StrKind
}

func (c StrConstant) Wrap(s *object.Space) object.Object {
	return s.NewStr(c.Value)
}

func (c StrConstant) String() string {
	return fmt.Sprintf("%q", c.Value)
}

// Arg describes one declared parameter of a function. Default is nil for a
// required parameter.
type Arg struct {
	Name    string
	Type    string
	Default Constant
}
