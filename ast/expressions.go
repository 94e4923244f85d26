package ast

import (
	"strings"

	"github.com/jerith/quill/compiler"
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/op"
)

// Ident is an expression node that refers to a local or global variable.
type Ident struct {
	NamePos int    // line of the identifier
	Name    string // the identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() int { return x.NamePos }
func (x *Ident) End() int { return x.NamePos }

func (x *Ident) String() string { return x.Name }

func (x *Ident) Compile(b *compiler.Builder) error {
	isLocal, index, err := b.GetVariable(x.Name)
	if err != nil {
		return b.Locate(err, x.NamePos)
	}
	if isLocal {
		b.Emit(x.NamePos, op.LoadVariable, index)
	} else {
		b.Emit(x.NamePos, op.LoadGlobal, index)
	}
	return nil
}

var binaryOpcodes = map[string]op.Code{}

func init() {
	for t := op.OpAdd; t <= op.OpEq; t++ {
		binaryOpcodes[t.String()] = t.Code()
	}
}

// Infix is an expression node that applies a binary operator. The "and"
// and "or" operators short-circuit and yield one of their operands.
type Infix struct {
	X     Expr   // left operand
	OpPos int    // line of the operator
	Op    string // the operator
	Y     Expr   // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() int { return x.X.Pos() }
func (x *Infix) End() int { return x.Y.End() }

func (x *Infix) String() string {
	return "(" + x.X.String() + " " + x.Op + " " + x.Y.String() + ")"
}

func (x *Infix) Compile(b *compiler.Builder) error {
	switch x.Op {
	case "and", "or":
		return x.compileLogical(b)
	}
	code, ok := binaryOpcodes[x.Op]
	if !ok {
		return b.Locate(errz.New(errz.ErrBuilder, "unsupported operator %q", x.Op), x.OpPos)
	}
	if err := x.X.Compile(b); err != nil {
		return err
	}
	if err := x.Y.Compile(b); err != nil {
		return err
	}
	b.Emit(x.OpPos, code)
	return nil
}

// compileLogical keeps the left value on the stack and jumps past the right
// operand when it decides the result.
func (x *Infix) compileLogical(b *compiler.Builder) error {
	if err := x.X.Compile(b); err != nil {
		return err
	}
	jump := op.JumpIfFalseNoPop
	if x.Op == "or" {
		jump = op.JumpIfTrueNoPop
	}
	b.Emit(x.OpPos, jump, compiler.Placeholder)
	end := b.GetPatchPosition()
	b.Emit(x.OpPos, op.Discard)
	if err := x.Y.Compile(b); err != nil {
		return err
	}
	b.PatchPosition(end, b.Position())
	return nil
}

// Call is an expression node that calls a function with positional
// arguments.
type Call struct {
	Fun    Expr   // function expression
	Lparen int    // line of "("
	Args   []Expr // function arguments
	Rparen int    // line of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() int { return x.Fun.Pos() }
func (x *Call) End() int { return x.Rparen }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, arg := range x.Args {
		args = append(args, arg.String())
	}
	return x.Fun.String() + "(" + strings.Join(args, ", ") + ")"
}

func (x *Call) Compile(b *compiler.Builder) error {
	if err := x.Fun.Compile(b); err != nil {
		return err
	}
	for _, arg := range x.Args {
		if err := arg.Compile(b); err != nil {
			return err
		}
	}
	b.Emit(x.Rparen, op.Call, len(x.Args))
	return nil
}

// GetAttr is an expression node that reads an attribute.
type GetAttr struct {
	X      Expr   // object expression
	Period int    // line of "."
	Attr   *Ident // attribute name
}

func (x *GetAttr) exprNode() {}

func (x *GetAttr) Pos() int { return x.X.Pos() }
func (x *GetAttr) End() int { return x.Attr.End() }

func (x *GetAttr) String() string { return x.X.String() + "." + x.Attr.Name }

func (x *GetAttr) Compile(b *compiler.Builder) error {
	if err := x.X.Compile(b); err != nil {
		return err
	}
	b.Emit(x.Period, op.GetAttr, b.AddStrConstant(x.Attr.Name))
	return nil
}
