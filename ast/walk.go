package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses an AST in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the non-nil children of node.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	// Walk children based on node type
	switch n := node.(type) {
	case *Program:
		for _, fn := range n.Funcs {
			Walk(v, fn)
		}
	case *FunctionDef:
		Walk(v, n.Name)
		for _, param := range n.Params {
			Walk(v, param)
		}
		Walk(v, n.Body)
	case *Param:
		Walk(v, n.Name)
		if n.Type != nil {
			Walk(v, n.Type)
		}
		if n.Default != nil {
			Walk(v, n.Default)
		}

	// Statements
	case *Block:
		for _, stmt := range n.Stmts {
			Walk(v, stmt)
		}
	case *Var:
		for _, name := range n.Names {
			Walk(v, name)
		}
	case *Assign:
		Walk(v, n.Name)
		Walk(v, n.Value)
	case *SetAttr:
		Walk(v, n.X)
		Walk(v, n.Attr)
		Walk(v, n.Value)
	case *ExprStmt:
		Walk(v, n.X)
	case *Return:
		if n.Value != nil {
			Walk(v, n.Value)
		}
	case *If:
		Walk(v, n.Cond)
		Walk(v, n.Consequence)
		if n.Alternative != nil {
			Walk(v, n.Alternative)
		}
	case *While:
		Walk(v, n.Cond)
		Walk(v, n.Body)
	case *Try:
		Walk(v, n.Body)
		for _, h := range n.Handlers {
			Walk(v, h)
		}
	case *Except:
		for _, t := range n.Types {
			Walk(v, t)
		}
		if n.Name != nil {
			Walk(v, n.Name)
		}
		Walk(v, n.Body)
	case *Raise:
		Walk(v, n.Value)

	// Expressions
	case *Ident, *Int, *Str, *Bool, *None:
		// No children
	case *Infix:
		Walk(v, n.X)
		Walk(v, n.Y)
	case *Call:
		Walk(v, n.Fun)
		for _, arg := range n.Args {
			Walk(v, arg)
		}
	case *GetAttr:
		Walk(v, n.X)
		Walk(v, n.Attr)
	case *List:
		for _, item := range n.Items {
			Walk(v, item)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses an AST in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect invokes f recursively for each of the
// children of node.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}
