package ast

import (
	"bytes"
	"strings"

	"github.com/jerith/quill/compiler"
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/op"
)

// Block is a braced sequence of statements.
type Block struct {
	Lbrace int    // line of "{"
	Stmts  []Stmt // statements in the block
	Rbrace int    // line of "}"
}

func (s *Block) stmtNode() {}

func (s *Block) Pos() int { return s.Lbrace }
func (s *Block) End() int { return s.Rbrace }

func (s *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, stmt := range s.Stmts {
		out.WriteString("    ")
		out.WriteString(strings.ReplaceAll(stmt.String(), "\n", "\n    "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

func (s *Block) Compile(b *compiler.Builder) error {
	for _, stmt := range s.Stmts {
		if err := stmt.Compile(b); err != nil {
			return err
		}
	}
	return nil
}

// Var declares local variables. A declared local starts uninitialized.
type Var struct {
	Var   int      // line of "var" keyword
	Names []*Ident // declared names
}

func (s *Var) stmtNode() {}

func (s *Var) Pos() int { return s.Var }
func (s *Var) End() int { return s.Var }

func (s *Var) String() string {
	names := make([]string, 0, len(s.Names))
	for _, name := range s.Names {
		names = append(names, name.Name)
	}
	return "var " + strings.Join(names, ", ") + ";"
}

// Compile registers any name that was not already declared. Function bodies
// declare their locals up front, in which case this emits nothing.
func (s *Var) Compile(b *compiler.Builder) error {
	for _, name := range s.Names {
		if _, found := b.LookupLocal(name.Name); found {
			continue
		}
		if _, err := b.RegisterVariable(name.Name); err != nil {
			return b.Locate(err, name.NamePos)
		}
	}
	return nil
}

// Assign stores a value in a local variable.
type Assign struct {
	Name  *Ident
	Value Expr
}

func (s *Assign) stmtNode() {}

func (s *Assign) Pos() int { return s.Name.Pos() }
func (s *Assign) End() int { return s.Value.End() }

func (s *Assign) String() string { return s.Name.Name + " = " + s.Value.String() + ";" }

func (s *Assign) Compile(b *compiler.Builder) error {
	isLocal, slot, err := b.GetVariable(s.Name.Name)
	if err != nil {
		return b.Locate(err, s.Name.NamePos)
	}
	if !isLocal {
		return b.Locate(errz.New(errz.ErrBuilder, "cannot assign to global %q", s.Name.Name), s.Name.NamePos)
	}
	if err := s.Value.Compile(b); err != nil {
		return err
	}
	b.Emit(s.Name.NamePos, op.Store, slot)
	return nil
}

// SetAttr writes an attribute of an object.
type SetAttr struct {
	X     Expr   // object expression
	Attr  *Ident // attribute name
	Value Expr
}

func (s *SetAttr) stmtNode() {}

func (s *SetAttr) Pos() int { return s.X.Pos() }
func (s *SetAttr) End() int { return s.Value.End() }

func (s *SetAttr) String() string {
	return s.X.String() + "." + s.Attr.Name + " = " + s.Value.String() + ";"
}

func (s *SetAttr) Compile(b *compiler.Builder) error {
	if err := s.X.Compile(b); err != nil {
		return err
	}
	if err := s.Value.Compile(b); err != nil {
		return err
	}
	b.Emit(s.Attr.NamePos, op.SetAttr, b.AddStrConstant(s.Attr.Name))
	return nil
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() int { return s.X.Pos() }
func (s *ExprStmt) End() int { return s.X.End() }

func (s *ExprStmt) String() string { return s.X.String() + ";" }

func (s *ExprStmt) Compile(b *compiler.Builder) error {
	if err := s.X.Compile(b); err != nil {
		return err
	}
	b.Emit(s.X.End(), op.Discard)
	return nil
}

// Return ends the function with a value, none when Value is nil.
type Return struct {
	Return int // line of "return" keyword
	Value  Expr
}

func (s *Return) stmtNode() {}

func (s *Return) Pos() int { return s.Return }
func (s *Return) End() int {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Return
}

func (s *Return) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

func (s *Return) Compile(b *compiler.Builder) error {
	if s.Value == nil {
		b.Emit(s.Return, op.LoadNone)
	} else if err := s.Value.Compile(b); err != nil {
		return err
	}
	b.Emit(s.Return, op.Return)
	return nil
}

// If runs Consequence when Cond is truthy, else the optional Alternative.
type If struct {
	If          int // line of "if" keyword
	Cond        Expr
	Consequence *Block
	Alternative *Block
}

func (s *If) stmtNode() {}

func (s *If) Pos() int { return s.If }
func (s *If) End() int {
	if s.Alternative != nil {
		return s.Alternative.End()
	}
	return s.Consequence.End()
}

func (s *If) String() string {
	out := "if " + s.Cond.String() + " " + s.Consequence.String()
	if s.Alternative != nil {
		out += " else " + s.Alternative.String()
	}
	return out
}

func (s *If) Compile(b *compiler.Builder) error {
	if err := s.Cond.Compile(b); err != nil {
		return err
	}
	b.Emit(s.If, op.JumpIfFalse, compiler.Placeholder)
	skip := b.GetPatchPosition()
	if err := s.Consequence.Compile(b); err != nil {
		return err
	}
	if s.Alternative == nil {
		b.PatchPosition(skip, b.Position())
		return nil
	}
	b.Emit(s.Consequence.End(), op.JumpAbsolute, compiler.Placeholder)
	end := b.GetPatchPosition()
	b.PatchPosition(skip, b.Position())
	if err := s.Alternative.Compile(b); err != nil {
		return err
	}
	b.PatchPosition(end, b.Position())
	return nil
}

// While runs Body for as long as Cond is truthy.
type While struct {
	While int // line of "while" keyword
	Cond  Expr
	Body  *Block
}

func (s *While) stmtNode() {}

func (s *While) Pos() int { return s.While }
func (s *While) End() int { return s.Body.End() }

func (s *While) String() string { return "while " + s.Cond.String() + " " + s.Body.String() }

func (s *While) Compile(b *compiler.Builder) error {
	loop := b.Position()
	if err := s.Cond.Compile(b); err != nil {
		return err
	}
	b.Emit(s.While, op.JumpIfFalse, compiler.Placeholder)
	exit := b.GetPatchPosition()
	if err := s.Body.Compile(b); err != nil {
		return err
	}
	b.Emit(s.Body.End(), op.JumpAbsolute, loop)
	b.PatchPosition(exit, b.Position())
	return nil
}

// Try runs Body as a protected region. An exception raised in it is handled
// by the first Except clause whose types match.
type Try struct {
	Try      int // line of "try" keyword
	Body     *Block
	Handlers []*Except
}

func (s *Try) stmtNode() {}

func (s *Try) Pos() int { return s.Try }
func (s *Try) End() int {
	if len(s.Handlers) > 0 {
		return s.Handlers[len(s.Handlers)-1].End()
	}
	return s.Body.End()
}

func (s *Try) String() string {
	out := "try " + s.Body.String()
	for _, h := range s.Handlers {
		out += " " + h.String()
	}
	return out
}

func (s *Try) Compile(b *compiler.Builder) error {
	if len(s.Handlers) == 0 {
		return b.Locate(errz.New(errz.ErrBuilder, "try without except clause"), s.Try)
	}
	first := -1
	for _, h := range s.Handlers {
		index, err := b.RegisterExceptionSetup(h.typeNames())
		if err != nil {
			return b.Locate(err, h.Except)
		}
		if first < 0 {
			first = index
		}
	}
	b.Emit(s.Try, op.PushResumeStack, first, len(s.Handlers))
	if err := s.Body.Compile(b); err != nil {
		return err
	}
	b.Emit(s.Body.End(), op.PopResumeStack)
	b.Emit(s.Body.End(), op.JumpAbsolute, compiler.Placeholder)
	exits := []int{b.GetPatchPosition()}

	for i, h := range s.Handlers {
		b.PatchExceptionBlock(first+i, b.Position())
		if h.Name != nil {
			slot, found := b.LookupLocal(h.Name.Name)
			if !found {
				var err error
				if slot, err = b.RegisterVariable(h.Name.Name); err != nil {
					return b.Locate(err, h.Name.NamePos)
				}
			}
			b.BindExceptionVariable(first+i, slot)
		}
		if err := h.Body.Compile(b); err != nil {
			return err
		}
		if i < len(s.Handlers)-1 {
			b.Emit(h.Body.End(), op.JumpAbsolute, compiler.Placeholder)
			exits = append(exits, b.GetPatchPosition())
		}
	}
	for _, exit := range exits {
		b.PatchPosition(exit, b.Position())
	}
	return nil
}

// Except is one handler of a Try. With no Types it catches Exception. Name,
// when set, is the local that receives the exception.
type Except struct {
	Except int // line of "except" keyword
	Types  []*Ident
	Name   *Ident
	Body   *Block
}

func (s *Except) Pos() int { return s.Except }
func (s *Except) End() int { return s.Body.End() }

func (s *Except) String() string {
	out := "except"
	if len(s.Types) > 0 {
		out += " " + strings.Join(s.typeNames(), ", ")
	}
	if s.Name != nil {
		out += " as " + s.Name.Name
	}
	return out + " " + s.Body.String()
}

func (s *Except) typeNames() []string {
	if len(s.Types) == 0 {
		return []string{"Exception"}
	}
	names := make([]string, 0, len(s.Types))
	for _, t := range s.Types {
		names = append(names, t.Name)
	}
	return names
}

// Raise raises an exception instance or class.
type Raise struct {
	Raise int // line of "raise" keyword
	Value Expr
}

func (s *Raise) stmtNode() {}

func (s *Raise) Pos() int { return s.Raise }
func (s *Raise) End() int { return s.Value.End() }

func (s *Raise) String() string { return "raise " + s.Value.String() + ";" }

func (s *Raise) Compile(b *compiler.Builder) error {
	if err := s.Value.Compile(b); err != nil {
		return err
	}
	b.Emit(s.Raise, op.Raise)
	return nil
}
