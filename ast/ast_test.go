package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jerith/quill/bytecode"
	"github.com/jerith/quill/errz"
	"github.com/jerith/quill/object"
	"github.com/jerith/quill/vm"
)

func ident(line int, name string) *Ident { return &Ident{NamePos: line, Name: name} }
func num(line int, value int64) *Int { return &Int{ValuePos: line, Value: value} }
func str(line int, value string) *Str { return &Str{ValuePos: line, Value: value} }

func infix(x Expr, op string, y Expr) *Infix {
	return &Infix{X: x, OpPos: x.Pos(), Op: op, Y: y}
}

func call(fn Expr, args ...Expr) *Call {
	return &Call{Fun: fn, Lparen: fn.Pos(), Args: args, Rparen: fn.Pos()}
}

func block(start, end int, stmts ...Stmt) *Block {
	return &Block{Lbrace: start, Stmts: stmts, Rbrace: end}
}

func ret(line int, value Expr) *Return { return &Return{Return: line, Value: value} }

type testEnv struct {
	s      *object.Space
	m      *object.Module
	interp *vm.Interpreter
}

func newEnv() *testEnv {
	s := object.NewSpace()
	m := object.NewModule("test")
	for _, cls := range s.BuiltinClasses() {
		m.Declare(cls.Name(), cls)
	}
	return &testEnv{s: s, m: m, interp: vm.New(s)}
}

func (e *testEnv) eval(t *testing.T, body *Block) (object.Object, error) {
	t.Helper()
	unit, err := CompileBlock(body, e.m, "")
	require.Nil(t, err)
	return vm.NewFunction(e.interp, "<eval>", unit).Call(context.Background(), e.s, nil, nil)
}

func requireInt(t *testing.T, s *object.Space, expected int64, obj object.Object) {
	t.Helper()
	value, err := s.IntW(obj)
	require.Nil(t, err)
	require.Equal(t, expected, value)
}

func TestWhileLoop(t *testing.T) {
	// var i, s; i = 0; s = 0; while i < 10 { i = i + 1; s = s + i; } return s;
	e := newEnv()
	body := block(1, 8,
		&Var{Var: 2, Names: []*Ident{ident(2, "i"), ident(2, "s")}},
		&Assign{Name: ident(3, "i"), Value: num(3, 0)},
		&Assign{Name: ident(4, "s"), Value: num(4, 0)},
		&While{While: 5, Cond: infix(ident(5, "i"), "<", num(5, 10)), Body: block(5, 6,
			&Assign{Name: ident(6, "i"), Value: infix(ident(6, "i"), "+", num(6, 1))},
			&Assign{Name: ident(6, "s"), Value: infix(ident(6, "s"), "+", ident(6, "i"))},
		)},
		ret(7, ident(7, "s")),
	)
	result, err := e.eval(t, body)
	require.Nil(t, err)
	requireInt(t, e.s, 55, result)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		expected int64
	}{
		{"13 // 2", infix(num(1, 13), "//", num(1, 2)), 6},
		{"2 * (2 + 2)", infix(num(1, 2), "*", infix(num(1, 2), "+", num(1, 2))), 8},
		{"2 + 2 * 2", infix(num(1, 2), "+", infix(num(1, 2), "*", num(1, 2))), 6},
		{"7 - 10", infix(num(1, 7), "-", num(1, 10)), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			result, err := e.eval(t, block(1, 1, ret(1, tt.expr)))
			require.Nil(t, err)
			requireInt(t, e.s, tt.expected, result)
		})
	}
}

func TestLogicalOperators(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{"0 or 1", infix(num(1, 0), "or", num(1, 1)), "1"},
		{"15 or x", infix(num(1, 15), "or", ident(1, "x")), "15"},
		{"1 and 2", infix(num(1, 1), "and", num(1, 2)), "2"},
		{"0 and x", infix(num(1, 0), "and", ident(1, "x")), "0"},
		{"1 and true", infix(num(1, 1), "and", &Bool{ValuePos: 1, Value: true}), "true"},
		{"2 * 2 and 2", infix(infix(num(1, 2), "*", num(1, 2)), "and", num(1, 2)), "2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			result, err := e.eval(t, block(1, 2,
				&Var{Var: 1, Names: []*Ident{ident(1, "x")}},
				ret(2, tt.expr),
			))
			require.Nil(t, err)
			require.Equal(t, tt.expected, result.Inspect())
		})
	}
}

func TestLogicalBytecode(t *testing.T) {
	e := newEnv()
	unit, err := CompileBlock(block(1, 2,
		&Var{Var: 1, Names: []*Ident{ident(1, "x")}},
		ret(2, infix(num(2, 0), "and", ident(2, "x"))),
	), e.m, "")
	require.Nil(t, err)
	require.Equal(t, ""+
		"  0  LOAD_CONSTANT 0\n"+
		"  3  JUMP_IF_FALSE_NOPOP 10\n"+
		"  6  DISCARD\n"+
		"  7  LOAD_VARIABLE 0\n"+
		" 10  RETURN\n"+
		" 11  LOAD_NONE\n"+
		" 12  RETURN\n", unit.Repr(true))
}

func TestUninitializedRead(t *testing.T) {
	e := newEnv()
	_, err := e.eval(t, block(1, 2,
		&Var{Var: 1, Names: []*Ident{ident(1, "x")}},
		ret(2, infix(num(2, 1), "and", ident(2, "x"))),
	))
	require.True(t, errz.HasKind(err, errz.ErrUninitializedVariable))
}

func TestIfElse(t *testing.T) {
	build := func(cond Expr) *Block {
		return block(1, 6,
			&If{
				If:          2,
				Cond:        cond,
				Consequence: block(2, 3, ret(3, str(3, "yes"))),
				Alternative: block(4, 5, ret(5, str(5, "no"))),
			},
		)
	}
	e := newEnv()
	result, err := e.eval(t, build(infix(num(2, 0), "<", num(2, 3))))
	require.Nil(t, err)
	require.Equal(t, "yes", result.Interface())

	result, err = e.eval(t, build(infix(num(2, 3), "<", num(2, 0))))
	require.Nil(t, err)
	require.Equal(t, "no", result.Interface())
}

func TestIfWithoutElseFallsThrough(t *testing.T) {
	e := newEnv()
	result, err := e.eval(t, block(1, 3,
		&If{If: 1, Cond: &Bool{ValuePos: 1}, Consequence: block(1, 2, ret(2, num(2, 3)))},
	))
	require.Nil(t, err)
	require.Equal(t, e.s.None(), result)
}

func TestTryExcept(t *testing.T) {
	// try { raise TypeError("bad"); }
	// except ZeroDivisionError { return "zero"; }
	// except TypeError as e { return e.message; }
	e := newEnv()
	body := block(1, 9,
		&Try{
			Try: 1,
			Body: block(1, 3,
				&Raise{Raise: 2, Value: call(ident(2, "TypeError"), str(2, "bad"))},
			),
			Handlers: []*Except{
				{
					Except: 4,
					Types:  []*Ident{ident(4, "ZeroDivisionError")},
					Body:   block(4, 5, ret(5, str(5, "zero"))),
				},
				{
					Except: 6,
					Types:  []*Ident{ident(6, "TypeError")},
					Name:   ident(6, "e"),
					Body: block(6, 7, ret(7, &GetAttr{
						X:      ident(7, "e"),
						Period: 7,
						Attr:   ident(7, "message"),
					})),
				},
			},
		},
		ret(8, str(8, "unreached")),
	)
	result, err := e.eval(t, body)
	require.Nil(t, err)
	require.Equal(t, "bad", result.Interface())
}

func TestBareExceptCatchesException(t *testing.T) {
	// var r; try { r = 1 // 0; } except { r = -1; } return r;
	e := newEnv()
	body := block(1, 5,
		&Var{Var: 1, Names: []*Ident{ident(1, "r")}},
		&Try{
			Try:  2,
			Body: block(2, 2, &Assign{Name: ident(2, "r"), Value: infix(num(2, 1), "//", num(2, 0))}),
			Handlers: []*Except{{
				Except: 3,
				Body:   block(3, 3, &Assign{Name: ident(3, "r"), Value: infix(num(3, 0), "-", num(3, 1))}),
			}},
		},
		ret(4, ident(4, "r")),
	)
	result, err := e.eval(t, body)
	require.Nil(t, err)
	requireInt(t, e.s, -1, result)
}

func TestTryWithoutException(t *testing.T) {
	e := newEnv()
	body := block(1, 5,
		&Var{Var: 1, Names: []*Ident{ident(1, "r")}},
		&Try{
			Try:  2,
			Body: block(2, 2, &Assign{Name: ident(2, "r"), Value: num(2, 1)}),
			Handlers: []*Except{
				{Except: 3, Body: block(3, 3, &Assign{Name: ident(3, "r"), Value: num(3, 2)})},
				{Except: 3, Body: block(3, 3, &Assign{Name: ident(3, "r"), Value: num(3, 3)})},
			},
		},
		ret(4, ident(4, "r")),
	)
	result, err := e.eval(t, body)
	require.Nil(t, err)
	requireInt(t, e.s, 1, result)
}

func TestListAndAttributes(t *testing.T) {
	// var o; o = object(); o.items = [1, 2]; return o.items;
	e := newEnv()
	body := block(1, 5,
		&Var{Var: 1, Names: []*Ident{ident(1, "o")}},
		&Assign{Name: ident(2, "o"), Value: call(ident(2, "object"))},
		&SetAttr{
			X:     ident(3, "o"),
			Attr:  ident(3, "items"),
			Value: &List{Lbrack: 3, Items: []Expr{num(3, 1), num(3, 2)}, Rbrack: 3},
		},
		ret(4, &GetAttr{X: ident(4, "o"), Period: 4, Attr: ident(4, "items")}),
	)
	result, err := e.eval(t, body)
	require.Nil(t, err)
	require.Equal(t, "[1, 2]", result.Inspect())
}

func TestExprStmtDiscards(t *testing.T) {
	e := newEnv()
	unit, err := CompileBlock(block(1, 1, &ExprStmt{X: num(1, 1)}), e.m, "")
	require.Nil(t, err)
	require.Equal(t, "  LOAD_CONSTANT 0\n  DISCARD\n  LOAD_NONE\n  RETURN\n", unit.Repr(false))
	require.Equal(t, 1, unit.StackDepth())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    *Block
		kind    errz.ErrorKind
		message string
	}{
		{
			"undeclared variable",
			block(1, 2, ret(2, ident(2, "y"))),
			errz.ErrUndeclaredVariable,
			`undeclared variable: "y" is not declared (test:2)`,
		},
		{
			"assign to global",
			block(1, 1, &Assign{Name: ident(1, "TypeError"), Value: num(1, 1)}),
			errz.ErrBuilder,
			`builder error: cannot assign to global "TypeError" (test:1)`,
		},
		{
			"unknown exception type",
			block(1, 3, &Try{Try: 1, Body: block(1, 1), Handlers: []*Except{{
				Except: 2, Types: []*Ident{ident(2, "Missing")}, Body: block(2, 3),
			}}}),
			errz.ErrUnknownGlobalName,
			`unknown global name: "Missing" is not a module global (test:2)`,
		},
		{
			"unsupported operator",
			block(1, 1, ret(1, infix(num(1, 1), "%", num(1, 2)))),
			errz.ErrBuilder,
			`builder error: unsupported operator "%" (test:1)`,
		},
		{
			"try without except",
			block(1, 1, &Try{Try: 1, Body: block(1, 1)}),
			errz.ErrBuilder,
			`builder error: try without except clause (test:1)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			_, err := CompileBlock(tt.body, e.m, "")
			require.True(t, errz.HasKind(err, tt.kind), "got %v", err)
			require.Equal(t, tt.message, err.Error())
		})
	}
}

func TestFunctionDefArgs(t *testing.T) {
	def := &FunctionDef{
		Def:  1,
		Name: ident(1, "f"),
		Params: []*Param{
			{Name: ident(1, "a"), Type: ident(1, "int")},
			{Name: ident(1, "b"), Default: num(1, 2)},
			{Name: ident(1, "c"), Default: str(1, "x")},
		},
		Body: block(1, 1),
	}
	args, err := def.Args()
	require.Nil(t, err)
	require.Equal(t, []bytecode.Arg{
		{Name: "a", Type: "int"},
		{Name: "b", Default: bytecode.IntConstant{Value: 2}},
		{Name: "c", Default: bytecode.StrConstant{Value: "x"}},
	}, args)
	require.Equal(t, "def f(a int, b=2, c=\"x\") {\n}", def.String())
}

func TestFunctionDefUnsupportedDefault(t *testing.T) {
	e := newEnv()
	def := &FunctionDef{
		Def:    1,
		Name:   ident(1, "f"),
		Params: []*Param{{Name: ident(2, "a"), Default: ident(2, "TypeError")}},
		Body:   block(2, 3),
	}
	_, err := def.CompileUnit(e.m, "def f(\n  a=TypeError) {\n}")
	require.True(t, errz.HasKind(err, errz.ErrBuilder))
	require.Equal(t, `builder error: parameter "a" has unsupported default value TypeError (test:2)`, err.Error())
	require.Equal(t, "a=TypeError) {", err.(*errz.StructuredError).Location.Source)
}

func TestFunctionDefCompileUnit(t *testing.T) {
	e := newEnv()
	def := &FunctionDef{
		Def:    1,
		Name:   ident(1, "add"),
		Params: []*Param{{Name: ident(1, "a")}, {Name: ident(1, "b"), Default: num(1, 10)}},
		Body: block(1, 3,
			&Var{Var: 2, Names: []*Ident{ident(2, "a"), ident(2, "t")}},
			&Assign{Name: ident(2, "t"), Value: infix(ident(2, "a"), "+", ident(2, "b"))},
			ret(2, ident(2, "t")),
		),
	}
	unit, err := def.CompileUnit(e.m, "")
	require.Nil(t, err)
	require.Equal(t, "add", unit.Name())
	require.Equal(t, 3, unit.LocalCount())
	require.Equal(t, "t", unit.LocalNameAt(2))

	fn := vm.NewFunction(e.interp, "add", unit)
	result, err := fn.Call(context.Background(), e.s, []object.Object{e.s.NewInt(5)}, nil)
	require.Nil(t, err)
	requireInt(t, e.s, 15, result)
}

func TestString(t *testing.T) {
	body := block(1, 4,
		&Var{Var: 1, Names: []*Ident{ident(1, "x"), ident(1, "y")}},
		&Assign{Name: ident(2, "x"), Value: call(&GetAttr{X: str(2, "a"), Period: 2, Attr: ident(2, "upper")})},
		&While{While: 3, Cond: infix(ident(3, "x"), "==", &None{NonePos: 3}), Body: block(3, 3,
			&ExprStmt{X: &List{Items: []Expr{num(3, 1), &Bool{Value: false}}}},
		)},
		&Return{Return: 4},
	)
	require.Equal(t, `{
    var x, y;
    x = "a".upper();
    while (x == none) {
        [1, false];
    }
    return;
}`, body.String())
}
