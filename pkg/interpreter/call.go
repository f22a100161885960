package interpreter

import (
	"newt/interpreter-go/pkg/ast"
	"newt/interpreter-go/pkg/runtime"
	"newt/interpreter-go/pkg/syntax"
)

func (i *Interpreter) visitCall(expr *ast.FunctionCallExpr) (runtime.Value, *runtime.Error) {
	args := expr.Args()
	if args == nil {
		return nil, i.malformed(expr.Syntax().Offset())
	}
	callee, err := i.visitExpr(expr.Callee())
	if err != nil {
		return nil, err
	}
	offset := args.Syntax().Offset()
	fn, ok := callee.(runtime.Callable)
	if !ok {
		if callee.Kind() == runtime.KindNull {
			return nil, i.failf(offset, runtime.NullValueEncountered, "call of null")
		}
		return nil, i.failf(offset, runtime.TypeError, "%s is not callable", callee.Kind())
	}
	values := make([]runtime.Value, 0, len(args.Exprs()))
	for _, arg := range args.Exprs() {
		v, err := i.visitExpr(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if arity := fn.ParamCount(); arity >= 0 && arity != len(values) {
		return nil, i.failf(offset, runtime.TypeError, "%s expects %d argument(s), got %d", fn.CallableName(), arity, len(values))
	}
	if i.depth >= i.opts.MaxCallDepth {
		return nil, i.failf(offset, runtime.CallDepthExceeded, "call depth exceeded %d calling %s", i.opts.MaxCallDepth, fn.CallableName())
	}
	return i.call(fn, values, offset)
}

func (i *Interpreter) call(fn runtime.Callable, args []runtime.Value, offset int) (runtime.Value, *runtime.Error) {
	switch f := fn.(type) {
	case runtime.NativeFunctionValue:
		v, err := f.Impl(&runtime.NativeCallContext{Name: f.Name}, args)
		if err != nil {
			return nil, i.fail(asRuntimeError(err), offset)
		}
		if v == nil {
			v = runtime.Null
		}
		return v, nil
	case *runtime.FunctionValue:
		return i.callFunction(f, args)
	default:
		return nil, i.failf(offset, runtime.TypeError, "%s is not callable", fn.Kind())
	}
}

// callFunction runs fn's body in a frame of parameters pushed onto its
// closure. A return inside the body ends the call with its value; falling
// off the end yields null.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, *runtime.Error) {
	scope := fn.Closure.Capture()
	scope.Push()
	for idx, param := range fn.Declaration.Params().Names() {
		if param.Kind() == syntax.Underscore {
			continue
		}
		if err := scope.Declare(param.Text(), args[idx]); err != nil {
			return nil, i.fail(asRuntimeError(err), param.Offset())
		}
	}
	saved := i.scope
	i.scope = scope
	i.depth++
	defer func() {
		i.scope = saved
		i.depth--
	}()
	if err := i.visitBlock(fn.Declaration.Body()); err != nil {
		if err.Kind == runtime.ReturnedValue {
			return err.Value, nil
		}
		return nil, err
	}
	return runtime.Null, nil
}
