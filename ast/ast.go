// Package ast defines the abstract syntax tree of Quill programs. Nodes carry
// the source lines they appear on, and statements and expressions compile
// themselves into a compiler.Builder. Parsing source text into a tree is not
// part of this package.
package ast

import (
	"fmt"
	"strings"

	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/compiler"
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/object"
)

// Node represents a portion of the syntax tree. All nodes have line
// information indicating where they appear in the source code.
type Node interface {
	// Pos returns the line of the first character belonging to the node.
	Pos() int

	// End returns the line of the last character belonging to the node.
	End() int

	// String returns a human friendly representation of the Node. This should
	// be similar to the original source code, but not necessarily identical.
	String() string
}

// Stmt represents a statement node. Statements cause side effects but
// do not evaluate to a value.
type Stmt interface {
	Node
	Compile(b *compiler.Builder) error
	stmtNode()
}

// Expr represents an expression node. Expressions leave exactly one value on
// the operand stack.
type Expr interface {
	Node
	Compile(b *compiler.Builder) error
	exprNode()
}

// Program is a sequence of top-level function definitions.
type Program struct {
	Funcs []*FunctionDef
}

func (p *Program) Pos() int {
	if len(p.Funcs) > 0 {
		return p.Funcs[0].Pos()
	}
	return 0
}

func (p *Program) End() int {
	if len(p.Funcs) > 0 {
		return p.Funcs[len(p.Funcs)-1].End()
	}
	return 0
}

func (p *Program) String() string {
	parts := make([]string, 0, len(p.Funcs))
	for _, fn := range p.Funcs {
		parts = append(parts, fn.String())
	}
	return strings.Join(parts, "\n")
}

// Param is one declared function parameter. Type and Default are optional;
// a default must be an integer or string literal.
type Param struct {
	Name    *Ident
	Type    *Ident
	Default Expr
}

func (p *Param) Pos() int { return p.Name.Pos() }
func (p *Param) End() int {
	if p.Default != nil {
		return p.Default.End()
	}
	return p.Name.End()
}

func (p *Param) String() string {
	s := p.Name.Name
	if p.Type != nil {
		s += " " + p.Type.Name
	}
	if p.Default != nil {
		s += "=" + p.Default.String()
	}
	return s
}

// FunctionDef is a named function declaration.
type FunctionDef struct {
	Def    int // line of "def" keyword
	Name   *Ident
	Params []*Param
	Body   *Block
}

func (d *FunctionDef) Pos() int { return d.Def }
func (d *FunctionDef) End() int { return d.Body.End() }

func (d *FunctionDef) String() string {
	params := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, p.String())
	}
	return fmt.Sprintf("def %s(%s) %s", d.Name.Name, strings.Join(params, ", "), d.Body.String())
}

// Args converts the parameter list into argument descriptors.
func (d *FunctionDef) Args() ([]bytecode.Arg, error) {
	args := make([]bytecode.Arg, 0, len(d.Params))
	for _, p := range d.Params {
		arg := bytecode.Arg{Name: p.Name.Name}
		if p.Type != nil {
			arg.Type = p.Type.Name
		}
		switch value := p.Default.(type) {
		case nil:
		case *Int:
			arg.Default = bytecode.IntConstant{Value: value.Value}
		case *Str:
			arg.Default = bytecode.StrConstant{Value: value.Value}
		default:
			return nil, errz.New(errz.ErrBuilder, "parameter %q has unsupported default value %s",
				p.Name.Name, value.String()).WithLocation(errz.SourceLocation{Line: p.Pos()})
		}
		args = append(args, arg)
	}
	return args, nil
}

// CompileUnit compiles the function body into a unit resolving globals in
// module. The source text is only used for error messages.
func (d *FunctionDef) CompileUnit(module *object.Module, source string) (*bytecode.Unit, error) {
	args, err := d.Args()
	if err != nil {
		if se, ok := err.(*errz.StructuredError); ok {
			se.Location.Filename = module.Name()
			se.Location.Source = errz.LineOf(source, se.Location.Line)
		}
		return nil, err
	}
	return compiler.CompileBytecode(body{d.Body}, module, args, &compiler.Config{
		Name:   d.Name.Name,
		Source: source,
	})
}

// CompileBlock compiles a statement block as the body of an anonymous
// function without parameters.
func CompileBlock(block *Block, module *object.Module, source string) (*bytecode.Unit, error) {
	return compiler.CompileBytecode(body{block}, module, nil, &compiler.Config{Source: source})
}

// body adapts a function body to compiler.Node. Variables are function
// scoped: every local the body declares gets its slot before any code is
// emitted.
type body struct {
	block *Block
}

func (f body) Compile(b *compiler.Builder) error {
	for _, name := range Declarations(f.block) {
		if _, found := b.LookupLocal(name); found {
			continue
		}
		if _, err := b.RegisterVariable(name); err != nil {
			return err
		}
	}
	return f.block.Compile(b)
}

func (f body) EndLine() int {
	return f.block.End()
}

// Declarations returns the names of the locals declared within node, by var
// statements and except clauses, in order of first appearance.
func Declarations(node Node) []string {
	var names []string
	seen := map[string]bool{}
	add := func(ident *Ident) {
		if ident != nil && !seen[ident.Name] {
			seen[ident.Name] = true
			names = append(names, ident.Name)
		}
	}
	Inspect(node, func(n Node) bool {
		switch n := n.(type) {
		case *Var:
			for _, name := range n.Names {
				add(name)
			}
		case *Except:
			add(n.Name)
		}
		return true
	})
	return names
}
