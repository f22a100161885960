// Package ast provides typed views over syntax nodes. A view is the same
// *syntax.Node under another name, obtained through a Cast function that
// checks the node's kind. Accessors read children by position and return nil
// for parts the parser could not produce. Calling an accessor on a view of
// the wrong kind panics.
package ast

import (
	"fmt"
	"slices"

	"newt/interpreter-go/pkg/syntax"
)

type (
	Program           syntax.Node
	ExprRoot          syntax.Node
	Stmt              syntax.Node
	Expr              syntax.Node
	StmtList          syntax.Node
	LetStmt           syntax.Node
	AssignStmt        syntax.Node
	IfStmt            syntax.Node
	WhileStmt         syntax.Node
	FnDecl            syntax.Node
	ParamList         syntax.Node
	ReturnStmt        syntax.Node
	ExprStmt          syntax.Node
	BinaryExpr        syntax.Node
	UnaryExpr         syntax.Node
	LiteralExpr       syntax.Node
	GroupingExpr      syntax.Node
	VariableExpr      syntax.Node
	FunctionCallExpr  syntax.Node
	ArgList           syntax.Node
	PropertyExpr      syntax.Node
	ObjectLiteralExpr syntax.Node
	ObjectField       syntax.Node
)

var (
	exprKinds = []syntax.Kind{
		syntax.BinaryExpr, syntax.UnaryExpr, syntax.LiteralExpr, syntax.GroupingExpr,
		syntax.VariableExpr, syntax.FunctionCallExpr, syntax.PropertyExpr,
		syntax.ObjectLiteralExpr, syntax.Error,
	}
	stmtKinds = []syntax.Kind{
		syntax.LetStmt, syntax.AssignStmt, syntax.IfStmt, syntax.WhileStmt, syntax.FnDecl,
		syntax.ReturnStmt, syntax.ExprStmt, syntax.StmtList, syntax.Error,
	}
)

func admits(n *syntax.Node, kinds ...syntax.Kind) bool {
	return n != nil && slices.Contains(kinds, n.Kind())
}

func expectKind(n *syntax.Node, kind syntax.Kind) *syntax.Node {
	if n.Kind() != kind {
		panic(fmt.Sprintf("ast: %s accessor used on %s node", kind, n.Kind()))
	}
	return n
}

// CastExpr admits every expression kind plus Error.
func CastExpr(n *syntax.Node) (*Expr, bool) {
	if !admits(n, exprKinds...) {
		return nil, false
	}
	return (*Expr)(n), true
}

// CastStmt admits every statement kind, statement lists and Error.
func CastStmt(n *syntax.Node) (*Stmt, bool) {
	if !admits(n, stmtKinds...) {
		return nil, false
	}
	return (*Stmt)(n), true
}

func CastProgram(n *syntax.Node) (*Program, bool) {
	if !admits(n, syntax.Program) {
		return nil, false
	}
	return (*Program)(n), true
}

func CastExprRoot(n *syntax.Node) (*ExprRoot, bool) {
	if !admits(n, syntax.ExprRoot) {
		return nil, false
	}
	return (*ExprRoot)(n), true
}

func CastStmtList(n *syntax.Node) (*StmtList, bool) {
	if !admits(n, syntax.StmtList) {
		return nil, false
	}
	return (*StmtList)(n), true
}

func CastLetStmt(n *syntax.Node) (*LetStmt, bool) {
	if !admits(n, syntax.LetStmt) {
		return nil, false
	}
	return (*LetStmt)(n), true
}

func CastAssignStmt(n *syntax.Node) (*AssignStmt, bool) {
	if !admits(n, syntax.AssignStmt) {
		return nil, false
	}
	return (*AssignStmt)(n), true
}

func CastIfStmt(n *syntax.Node) (*IfStmt, bool) {
	if !admits(n, syntax.IfStmt) {
		return nil, false
	}
	return (*IfStmt)(n), true
}

func CastWhileStmt(n *syntax.Node) (*WhileStmt, bool) {
	if !admits(n, syntax.WhileStmt) {
		return nil, false
	}
	return (*WhileStmt)(n), true
}

func CastFnDecl(n *syntax.Node) (*FnDecl, bool) {
	if !admits(n, syntax.FnDecl) {
		return nil, false
	}
	return (*FnDecl)(n), true
}

func CastReturnStmt(n *syntax.Node) (*ReturnStmt, bool) {
	if !admits(n, syntax.ReturnStmt) {
		return nil, false
	}
	return (*ReturnStmt)(n), true
}

func CastExprStmt(n *syntax.Node) (*ExprStmt, bool) {
	if !admits(n, syntax.ExprStmt) {
		return nil, false
	}
	return (*ExprStmt)(n), true
}

func CastBinaryExpr(n *syntax.Node) (*BinaryExpr, bool) {
	if !admits(n, syntax.BinaryExpr) {
		return nil, false
	}
	return (*BinaryExpr)(n), true
}

func CastUnaryExpr(n *syntax.Node) (*UnaryExpr, bool) {
	if !admits(n, syntax.UnaryExpr) {
		return nil, false
	}
	return (*UnaryExpr)(n), true
}

func CastLiteralExpr(n *syntax.Node) (*LiteralExpr, bool) {
	if !admits(n, syntax.LiteralExpr) {
		return nil, false
	}
	return (*LiteralExpr)(n), true
}

func CastGroupingExpr(n *syntax.Node) (*GroupingExpr, bool) {
	if !admits(n, syntax.GroupingExpr) {
		return nil, false
	}
	return (*GroupingExpr)(n), true
}

func CastVariableExpr(n *syntax.Node) (*VariableExpr, bool) {
	if !admits(n, syntax.VariableExpr) {
		return nil, false
	}
	return (*VariableExpr)(n), true
}

func CastFunctionCallExpr(n *syntax.Node) (*FunctionCallExpr, bool) {
	if !admits(n, syntax.FunctionCallExpr) {
		return nil, false
	}
	return (*FunctionCallExpr)(n), true
}

func CastPropertyExpr(n *syntax.Node) (*PropertyExpr, bool) {
	if !admits(n, syntax.PropertyExpr) {
		return nil, false
	}
	return (*PropertyExpr)(n), true
}

func CastObjectLiteralExpr(n *syntax.Node) (*ObjectLiteralExpr, bool) {
	if !admits(n, syntax.ObjectLiteralExpr) {
		return nil, false
	}
	return (*ObjectLiteralExpr)(n), true
}

func asExpr(n *syntax.Node) *Expr {
	e, _ := CastExpr(n)
	return e
}

func asStmts(nodes []*syntax.Node) []*Stmt {
	out := make([]*Stmt, 0, len(nodes))
	for _, n := range nodes {
		if s, ok := CastStmt(n); ok {
			out = append(out, s)
		}
	}
	return out
}
