package ast

import "newt/interpreter-go/pkg/syntax"

func (p *Program) Syntax() *syntax.Node { return (*syntax.Node)(p) }

// Statements returns the top-level statements in order.
func (p *Program) Statements() []*Stmt {
	return asStmts(expectKind(p.Syntax(), syntax.Program).ChildNodes())
}

func (r *ExprRoot) Syntax() *syntax.Node { return (*syntax.Node)(r) }

func (r *ExprRoot) Expr() *Expr {
	return asExpr(expectKind(r.Syntax(), syntax.ExprRoot).NthNode(0))
}

func (e *Expr) Syntax() *syntax.Node { return (*syntax.Node)(e) }
func (e *Expr) Kind() syntax.Kind    { return e.Syntax().Kind() }
func (e *Expr) Offset() int          { return e.Syntax().Offset() }

func (s *Stmt) Syntax() *syntax.Node { return (*syntax.Node)(s) }
func (s *Stmt) Kind() syntax.Kind    { return s.Syntax().Kind() }
func (s *Stmt) Offset() int          { return s.Syntax().Offset() }

func (l *StmtList) Syntax() *syntax.Node { return (*syntax.Node)(l) }

func (l *StmtList) Statements() []*Stmt {
	return asStmts(expectKind(l.Syntax(), syntax.StmtList).ChildNodes())
}

// LetStmt: let Name = Init ;
func (s *LetStmt) Syntax() *syntax.Node { return (*syntax.Node)(s) }

func (s *LetStmt) Name() *syntax.Token {
	return expectKind(s.Syntax(), syntax.LetStmt).FirstToken(syntax.Identifier)
}

func (s *LetStmt) Init() *Expr {
	return asExpr(nodeAfter(expectKind(s.Syntax(), syntax.LetStmt), syntax.Eq))
}

// nodeAfter returns the first node child following the first token of kind,
// or nil when the token is missing.
func nodeAfter(n *syntax.Node, kind syntax.Kind) *syntax.Node {
	seen := false
	for _, child := range n.Children() {
		switch c := child.(type) {
		case *syntax.Token:
			if c.Kind() == kind {
				seen = true
			}
		case *syntax.Node:
			if seen {
				return c
			}
		}
	}
	return nil
}

// AssignStmt: Name = Value ;
func (s *AssignStmt) Syntax() *syntax.Node { return (*syntax.Node)(s) }

func (s *AssignStmt) Name() *syntax.Token {
	return expectKind(s.Syntax(), syntax.AssignStmt).FirstToken(syntax.Identifier)
}

func (s *AssignStmt) Value() *Expr {
	return asExpr(nodeAfter(expectKind(s.Syntax(), syntax.AssignStmt), syntax.Eq))
}

// IfStmt: if Cond Then [else Else]. Else is a StmtList or a nested IfStmt.
func (s *IfStmt) Syntax() *syntax.Node { return (*syntax.Node)(s) }

func (s *IfStmt) Cond() *Expr {
	return asExpr(expectKind(s.Syntax(), syntax.IfStmt).NthNode(0))
}

func (s *IfStmt) Then() *StmtList {
	l, _ := CastStmtList(expectKind(s.Syntax(), syntax.IfStmt).NthNode(1))
	return l
}

func (s *IfStmt) Else() *Stmt {
	n := expectKind(s.Syntax(), syntax.IfStmt)
	st, _ := CastStmt(nodeAfter(n, syntax.ElseKw))
	return st
}

// WhileStmt: while Cond Body
func (s *WhileStmt) Syntax() *syntax.Node { return (*syntax.Node)(s) }

func (s *WhileStmt) Cond() *Expr {
	return asExpr(expectKind(s.Syntax(), syntax.WhileStmt).NthNode(0))
}

func (s *WhileStmt) Body() *StmtList {
	l, _ := CastStmtList(expectKind(s.Syntax(), syntax.WhileStmt).NthNode(1))
	return l
}

// FnDecl: fn Name Params Body
func (d *FnDecl) Syntax() *syntax.Node { return (*syntax.Node)(d) }

func (d *FnDecl) Name() *syntax.Token {
	return expectKind(d.Syntax(), syntax.FnDecl).FirstToken(syntax.Identifier)
}

func (d *FnDecl) Params() *ParamList {
	for _, n := range expectKind(d.Syntax(), syntax.FnDecl).ChildNodes() {
		if n.Kind() == syntax.ParamList {
			return (*ParamList)(n)
		}
	}
	return nil
}

func (d *FnDecl) Body() *StmtList {
	for _, n := range expectKind(d.Syntax(), syntax.FnDecl).ChildNodes() {
		if l, ok := CastStmtList(n); ok {
			return l
		}
	}
	return nil
}

func (l *ParamList) Syntax() *syntax.Node { return (*syntax.Node)(l) }

// Names returns parameter tokens in order; `_` parameters appear as
// Underscore tokens.
func (l *ParamList) Names() []*syntax.Token {
	var out []*syntax.Token
	for _, tok := range expectKind(l.Syntax(), syntax.ParamList).ChildTokens() {
		if tok.Kind() == syntax.Identifier || tok.Kind() == syntax.Underscore {
			out = append(out, tok)
		}
	}
	return out
}

func (l *ParamList) Arity() int { return len(l.Names()) }

// ReturnStmt: return [Value] ;
func (s *ReturnStmt) Syntax() *syntax.Node { return (*syntax.Node)(s) }

func (s *ReturnStmt) Value() *Expr {
	return asExpr(expectKind(s.Syntax(), syntax.ReturnStmt).NthNode(0))
}

// ExprStmt: Expr ;
func (s *ExprStmt) Syntax() *syntax.Node { return (*syntax.Node)(s) }

func (s *ExprStmt) Expr() *Expr {
	return asExpr(expectKind(s.Syntax(), syntax.ExprStmt).NthNode(0))
}

// BinaryExpr: Lhs Op Rhs
func (e *BinaryExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *BinaryExpr) Op() *syntax.Token {
	toks := expectKind(e.Syntax(), syntax.BinaryExpr).ChildTokens()
	if len(toks) == 0 {
		return nil
	}
	return toks[0]
}

func (e *BinaryExpr) Lhs() *Expr {
	return asExpr(expectKind(e.Syntax(), syntax.BinaryExpr).NthNode(0))
}

func (e *BinaryExpr) Rhs() *Expr {
	return asExpr(expectKind(e.Syntax(), syntax.BinaryExpr).NthNode(1))
}

// UnaryExpr: Op Operand
func (e *UnaryExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *UnaryExpr) Op() *syntax.Token {
	return expectKind(e.Syntax(), syntax.UnaryExpr).FirstToken(syntax.Minus, syntax.Bang)
}

func (e *UnaryExpr) Operand() *Expr {
	return asExpr(expectKind(e.Syntax(), syntax.UnaryExpr).NthNode(0))
}

func (e *LiteralExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *LiteralExpr) Token() *syntax.Token {
	toks := expectKind(e.Syntax(), syntax.LiteralExpr).ChildTokens()
	if len(toks) == 0 {
		return nil
	}
	return toks[0]
}

func (e *GroupingExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *GroupingExpr) Inner() *Expr {
	return asExpr(expectKind(e.Syntax(), syntax.GroupingExpr).NthNode(0))
}

func (e *VariableExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *VariableExpr) Name() *syntax.Token {
	return expectKind(e.Syntax(), syntax.VariableExpr).FirstToken(syntax.Identifier)
}

// FunctionCallExpr: Callee ArgList
func (e *FunctionCallExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *FunctionCallExpr) Callee() *Expr {
	return asExpr(expectKind(e.Syntax(), syntax.FunctionCallExpr).NthNode(0))
}

func (e *FunctionCallExpr) Args() *ArgList {
	n := expectKind(e.Syntax(), syntax.FunctionCallExpr).NthNode(1)
	if n == nil || n.Kind() != syntax.ArgList {
		return nil
	}
	return (*ArgList)(n)
}

func (l *ArgList) Syntax() *syntax.Node { return (*syntax.Node)(l) }

// Exprs returns the argument expressions in order.
func (l *ArgList) Exprs() []*Expr {
	var out []*Expr
	for _, n := range expectKind(l.Syntax(), syntax.ArgList).ChildNodes() {
		if e, ok := CastExpr(n); ok {
			out = append(out, e)
		}
	}
	return out
}

// PropertyExpr: Object . Name
func (e *PropertyExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *PropertyExpr) Object() *Expr {
	return asExpr(expectKind(e.Syntax(), syntax.PropertyExpr).NthNode(0))
}

func (e *PropertyExpr) Name() *syntax.Token {
	return expectKind(e.Syntax(), syntax.PropertyExpr).FirstToken(syntax.Identifier)
}

func (e *ObjectLiteralExpr) Syntax() *syntax.Node { return (*syntax.Node)(e) }

func (e *ObjectLiteralExpr) Fields() []*ObjectField {
	var out []*ObjectField
	for _, n := range expectKind(e.Syntax(), syntax.ObjectLiteralExpr).ChildNodes() {
		if n.Kind() == syntax.ObjectField {
			out = append(out, (*ObjectField)(n))
		}
	}
	return out
}

// ObjectField: Name : Value
func (f *ObjectField) Syntax() *syntax.Node { return (*syntax.Node)(f) }

func (f *ObjectField) Name() *syntax.Token {
	return expectKind(f.Syntax(), syntax.ObjectField).FirstToken(syntax.Identifier)
}

func (f *ObjectField) Value() *Expr {
	return asExpr(nodeAfter(expectKind(f.Syntax(), syntax.ObjectField), syntax.Colon))
}
