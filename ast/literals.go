package ast

import (
	"strconv"
	"strings"

	"github.com/jerith/quill/compiler"
	"github.com/jerith/quill/op"
)

// Int is an expression node that holds an integer literal.
type Int struct {
	ValuePos int   // line of the literal
	Value    int64 // the parsed value
}

func (x *Int) exprNode() {}

func (x *Int) Pos() int { return x.ValuePos }
func (x *Int) End() int { return x.ValuePos }

func (x *Int) String() string { return strconv.FormatInt(x.Value, 10) }

func (x *Int) Compile(b *compiler.Builder) error {
	b.Emit(x.ValuePos, op.LoadConstant, b.AddIntConstant(x.Value))
	return nil
}

// Str is an expression node that holds a string literal.
type Str struct {
	ValuePos int    // line of the literal
	Value    string // the unquoted value
}

func (x *Str) exprNode() {}

func (x *Str) Pos() int { return x.ValuePos }
func (x *Str) End() int { return x.ValuePos }

func (x *Str) String() string { return strconv.Quote(x.Value) }

func (x *Str) Compile(b *compiler.Builder) error {
	b.Emit(x.ValuePos, op.LoadConstant, b.AddStrConstant(x.Value))
	return nil
}

// Bool is an expression node that holds a boolean literal.
type Bool struct {
	ValuePos int  // line of "true" or "false"
	Value    bool // the boolean value
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() int { return x.ValuePos }
func (x *Bool) End() int { return x.ValuePos }

func (x *Bool) String() string { return strconv.FormatBool(x.Value) }

func (x *Bool) Compile(b *compiler.Builder) error {
	if x.Value {
		b.Emit(x.ValuePos, op.LoadTrue)
	} else {
		b.Emit(x.ValuePos, op.LoadFalse)
	}
	return nil
}

// None is an expression node that holds the none literal.
type None struct {
	NonePos int // line of "none" keyword
}

func (x *None) exprNode() {}

func (x *None) Pos() int { return x.NonePos }
func (x *None) End() int { return x.NonePos }

func (x *None) String() string { return "none" }

func (x *None) Compile(b *compiler.Builder) error {
	b.Emit(x.NonePos, op.LoadNone)
	return nil
}

// List is an expression node that builds a list from its items.
type List struct {
	Lbrack int    // line of "["
	Items  []Expr // the list items
	Rbrack int    // line of "]"
}

func (x *List) exprNode() {}

func (x *List) Pos() int { return x.Lbrack }
func (x *List) End() int { return x.Rbrack }

func (x *List) String() string {
	items := make([]string, 0, len(x.Items))
	for _, item := range x.Items {
		items = append(items, item.String())
	}
	return "[" + strings.Join(items, ", ") + "]"
}

func (x *List) Compile(b *compiler.Builder) error {
	for _, item := range x.Items {
		if err := item.Compile(b); err != nil {
			return err
		}
	}
	b.Emit(x.Rbrack, op.BuildList, len(x.Items))
	return nil
}
