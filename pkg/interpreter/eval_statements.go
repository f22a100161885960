package interpreter

import (
	"newt/interpreter-go/pkg/ast"
	"newt/interpreter-go/pkg/runtime"
	"newt/interpreter-go/pkg/syntax"
)

func (i *Interpreter) visitStmt(stmt *ast.Stmt) (runtime.Value, *runtime.Error) {
	if i.halt != nil {
		return nil, i.halt
	}
	n := stmt.Syntax()
	switch stmt.Kind() {
	case syntax.Error:
		return nil, nil
	case syntax.LetStmt:
		return nil, i.visitLet((*ast.LetStmt)(n))
	case syntax.AssignStmt:
		return nil, i.visitAssign((*ast.AssignStmt)(n))
	case syntax.IfStmt:
		return nil, i.visitIf((*ast.IfStmt)(n))
	case syntax.WhileStmt:
		return nil, i.visitWhile((*ast.WhileStmt)(n))
	case syntax.FnDecl:
		return nil, i.visitFnDecl((*ast.FnDecl)(n))
	case syntax.ReturnStmt:
		return nil, i.visitReturn((*ast.ReturnStmt)(n))
	case syntax.StmtList:
		return nil, i.visitBlock((*ast.StmtList)(n))
	case syntax.ExprStmt:
		return i.visitExpr((*ast.ExprStmt)(n).Expr())
	default:
		return nil, i.malformed(stmt.Offset())
	}
}

// visitBlock runs a statement list in its own frame. The frame is popped on
// every exit path, returns and failures included.
func (i *Interpreter) visitBlock(block *ast.StmtList) *runtime.Error {
	i.scope.Push()
	defer i.scope.Pop()
	for _, stmt := range block.Statements() {
		if _, err := i.visitStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) visitLet(stmt *ast.LetStmt) *runtime.Error {
	name := stmt.Name()
	if name == nil {
		return i.malformed(stmt.Syntax().Offset())
	}
	value, err := i.visitExpr(stmt.Init())
	if err != nil {
		return err
	}
	if derr := i.scope.Declare(name.Text(), value); derr != nil {
		return i.fail(asRuntimeError(derr), name.Offset())
	}
	return nil
}

func (i *Interpreter) visitAssign(stmt *ast.AssignStmt) *runtime.Error {
	name := stmt.Name()
	if name == nil {
		return i.malformed(stmt.Syntax().Offset())
	}
	value, err := i.visitExpr(stmt.Value())
	if err != nil {
		return err
	}
	if aerr := i.scope.Assign(name.Text(), value); aerr != nil {
		rerr := asRuntimeError(aerr)
		rerr.Hint = suggest(name.Text(), i.scope.Names())
		return i.fail(rerr, name.Offset())
	}
	return nil
}

// condition evaluates expr and requires a Bool.
func (i *Interpreter) condition(expr *ast.Expr, construct string) (bool, *runtime.Error) {
	value, err := i.visitExpr(expr)
	if err != nil {
		return false, err
	}
	switch v := value.(type) {
	case runtime.BoolValue:
		return v.Val, nil
	case runtime.NullValue:
		return false, i.failf(expr.Offset(), runtime.NullValueEncountered, "%s condition is null", construct)
	default:
		return false, i.failf(expr.Offset(), runtime.TypeError, "%s condition must be bool, got %s", construct, value.Kind())
	}
}

func (i *Interpreter) visitIf(stmt *ast.IfStmt) *runtime.Error {
	ok, err := i.condition(stmt.Cond(), "if")
	if err != nil {
		return err
	}
	if ok {
		then := stmt.Then()
		if then == nil {
			return i.malformed(stmt.Syntax().Offset())
		}
		return i.visitBlock(then)
	}
	if alt := stmt.Else(); alt != nil {
		_, err := i.visitStmt(alt)
		return err
	}
	return nil
}

func (i *Interpreter) visitWhile(stmt *ast.WhileStmt) *runtime.Error {
	body := stmt.Body()
	if body == nil {
		return i.malformed(stmt.Syntax().Offset())
	}
	for {
		ok, err := i.condition(stmt.Cond(), "while")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := i.visitBlock(body); err != nil {
			return err
		}
	}
}

// visitFnDecl binds the function in the current frame. The closure shares
// the declaring frames, so the function can call itself and sees later
// assignments to captured variables.
func (i *Interpreter) visitFnDecl(decl *ast.FnDecl) *runtime.Error {
	name := decl.Name()
	if name == nil || decl.Params() == nil || decl.Body() == nil {
		return i.malformed(decl.Syntax().Offset())
	}
	fn := &runtime.FunctionValue{Declaration: decl, Closure: i.scope.Capture()}
	if err := i.scope.Declare(name.Text(), fn); err != nil {
		return i.fail(asRuntimeError(err), name.Offset())
	}
	return nil
}

func (i *Interpreter) visitReturn(stmt *ast.ReturnStmt) *runtime.Error {
	var value runtime.Value = runtime.Null
	if expr := stmt.Value(); expr != nil {
		v, err := i.visitExpr(expr)
		if err != nil {
			return err
		}
		value = v
	}
	return i.fail(runtime.Returned(value), stmt.Syntax().Offset())
}
