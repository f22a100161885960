package interpreter

import (
	"newt/interpreter-go/pkg/ast"
	"newt/interpreter-go/pkg/runtime"
	"newt/interpreter-go/pkg/syntax"
)

func (i *Interpreter) visitExpr(expr *ast.Expr) (runtime.Value, *runtime.Error) {
	if i.halt != nil {
		return nil, i.halt
	}
	if expr == nil {
		return nil, i.malformed(-1)
	}
	n := expr.Syntax()
	switch expr.Kind() {
	case syntax.LiteralExpr:
		return i.visitLiteral((*ast.LiteralExpr)(n))
	case syntax.BinaryExpr:
		return i.visitBinary((*ast.BinaryExpr)(n))
	case syntax.UnaryExpr:
		return i.visitUnary((*ast.UnaryExpr)(n))
	case syntax.GroupingExpr:
		return i.visitExpr((*ast.GroupingExpr)(n).Inner())
	case syntax.VariableExpr:
		return i.visitVariable((*ast.VariableExpr)(n))
	case syntax.FunctionCallExpr:
		return i.visitCall((*ast.FunctionCallExpr)(n))
	case syntax.PropertyExpr:
		return i.visitProperty((*ast.PropertyExpr)(n))
	case syntax.ObjectLiteralExpr:
		return i.visitObject((*ast.ObjectLiteralExpr)(n))
	default:
		return nil, i.malformed(expr.Offset())
	}
}

func (i *Interpreter) visitLiteral(lit *ast.LiteralExpr) (runtime.Value, *runtime.Error) {
	tok := lit.Token()
	if tok == nil {
		return nil, i.malformed(lit.Syntax().Offset())
	}
	text := tok.Text()
	switch tok.Kind() {
	case syntax.IntLiteral:
		v, err := ast.ParseInt(text)
		if err != nil {
			return nil, i.failf(tok.Offset(), runtime.TypeError, "invalid integer literal %s: %v", text, err)
		}
		return runtime.IntValue{Val: v}, nil
	case syntax.FloatLiteral:
		v, err := ast.ParseFloat(text)
		if err != nil {
			return nil, i.failf(tok.Offset(), runtime.TypeError, "invalid float literal %s: %v", text, err)
		}
		return runtime.FloatValue{Val: v}, nil
	case syntax.StringLiteral:
		v, err := ast.UnquoteString(text)
		if err != nil {
			return nil, i.failf(tok.Offset(), runtime.TypeError, "invalid string literal: %v", err)
		}
		return runtime.StringValue{Val: v}, nil
	case syntax.GlyphLiteral:
		v, err := ast.UnquoteGlyph(text)
		if err != nil {
			return nil, i.failf(tok.Offset(), runtime.TypeError, "invalid glyph literal %s: %v", text, err)
		}
		return runtime.GlyphValue{Val: v}, nil
	case syntax.TrueKw:
		return runtime.BoolValue{Val: true}, nil
	case syntax.FalseKw:
		return runtime.BoolValue{Val: false}, nil
	case syntax.NullKw:
		return runtime.Null, nil
	default:
		return nil, i.malformed(tok.Offset())
	}
}

func (i *Interpreter) visitBinary(expr *ast.BinaryExpr) (runtime.Value, *runtime.Error) {
	op := expr.Op()
	if op == nil {
		return nil, i.malformed(expr.Syntax().Offset())
	}
	left, err := i.visitExpr(expr.Lhs())
	if err != nil {
		return nil, err
	}
	if i.opts.ShortCircuit && (op.Kind() == syntax.AmpAmp || op.Kind() == syntax.PipePipe) {
		if b, ok := left.(runtime.BoolValue); ok && b.Val == (op.Kind() == syntax.PipePipe) {
			return b, nil
		}
	}
	right, err := i.visitExpr(expr.Rhs())
	if err != nil {
		return nil, err
	}
	value, rerr := applyBinary(op.Kind(), op.Text(), left, right)
	if rerr != nil {
		return nil, i.fail(rerr, op.Offset())
	}
	return value, nil
}

func (i *Interpreter) visitUnary(expr *ast.UnaryExpr) (runtime.Value, *runtime.Error) {
	op := expr.Op()
	if op == nil {
		return nil, i.malformed(expr.Syntax().Offset())
	}
	operand, err := i.visitExpr(expr.Operand())
	if err != nil {
		return nil, err
	}
	value, rerr := applyUnary(op.Kind(), op.Text(), operand)
	if rerr != nil {
		return nil, i.fail(rerr, op.Offset())
	}
	return value, nil
}

func (i *Interpreter) visitVariable(expr *ast.VariableExpr) (runtime.Value, *runtime.Error) {
	name := expr.Name()
	if name == nil {
		return nil, i.malformed(expr.Syntax().Offset())
	}
	if v, ok := i.scope.Resolve(name.Text()); ok {
		return v, nil
	}
	err := runtime.Errorf(runtime.UndefinedVariable, "'%s' is not defined", name.Text())
	err.Hint = suggest(name.Text(), i.scope.Names())
	return nil, i.fail(err, name.Offset())
}

func (i *Interpreter) visitProperty(expr *ast.PropertyExpr) (runtime.Value, *runtime.Error) {
	name := expr.Name()
	if name == nil {
		return nil, i.malformed(expr.Syntax().Offset())
	}
	target, err := i.visitExpr(expr.Object())
	if err != nil {
		return nil, err
	}
	switch obj := target.(type) {
	case *runtime.ObjectValue:
		if v, ok := obj.Fields[name.Text()]; ok {
			return v, nil
		}
		rerr := runtime.Errorf(runtime.TypeError, "object has no field '%s'", name.Text())
		rerr.Hint = suggest(name.Text(), obj.Keys())
		return nil, i.fail(rerr, name.Offset())
	case runtime.NullValue:
		return nil, i.failf(name.Offset(), runtime.NullValueEncountered, "field '%s' of null", name.Text())
	default:
		return nil, i.failf(name.Offset(), runtime.TypeError, "cannot access field '%s' of %s", name.Text(), target.Kind())
	}
}

func (i *Interpreter) visitObject(expr *ast.ObjectLiteralExpr) (runtime.Value, *runtime.Error) {
	obj := runtime.NewObject()
	for _, field := range expr.Fields() {
		name := field.Name()
		if name == nil {
			return nil, i.malformed(field.Syntax().Offset())
		}
		v, err := i.visitExpr(field.Value())
		if err != nil {
			return nil, err
		}
		if _, dup := obj.Fields[name.Text()]; dup {
			return nil, i.failf(name.Offset(), runtime.DuplicateDeclaration, "field '%s' is already declared in this object", name.Text())
		}
		obj.Fields[name.Text()] = v
	}
	return obj, nil
}
