// Package interpreter evaluates Newt syntax trees by walking their typed AST
// views.
package interpreter

import (
	"errors"
	"io"
	"os"

	"newt/interpreter-go/pkg/ast"
	"newt/interpreter-go/pkg/runtime"
	"newt/interpreter-go/pkg/syntax"
)

// DefaultMaxCallDepth bounds nested calls when Options leaves it unset.
const DefaultMaxCallDepth = 1024

// Options tune an Interpreter.
type Options struct {
	// Stdout receives output from print. Defaults to os.Stdout.
	Stdout io.Writer
	// MaxCallDepth bounds nested function calls.
	MaxCallDepth int
	// ShortCircuit makes && and || skip their right operand when the left
	// one decides the result.
	ShortCircuit bool
}

// Interpreter drives evaluation of Newt programs. The root scope persists
// across Interpret calls, so a REPL can feed it one unit at a time.
type Interpreter struct {
	opts  Options
	root  *runtime.Scope
	scope *runtime.Scope
	depth int

	// halt is the first failure of the current Interpret call. Once set,
	// every visit returns it without doing any work.
	halt *runtime.Error
}

// New returns an interpreter whose root scope holds the builtins.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.MaxCallDepth <= 0 {
		opts.MaxCallDepth = DefaultMaxCallDepth
	}
	root := runtime.NewScope()
	i := &Interpreter{opts: opts, root: root, scope: root}
	i.registerBuiltins()
	return i
}

// Scope returns the interpreter's root scope.
func (i *Interpreter) Scope() *runtime.Scope {
	return i.root
}

// Interpret evaluates tree. For a program the result is the value of the
// final statement when it is an expression statement, and nil otherwise. For
// an expression tree it is the expression's value. Failures are returned as
// *runtime.Error.
func (i *Interpreter) Interpret(tree *syntax.Tree) (runtime.Value, error) {
	i.halt = nil
	i.scope = i.root
	i.depth = 0
	root := tree.Root()
	if prog, ok := ast.CastProgram(root); ok {
		return i.finish(i.visitProgram(prog))
	}
	if expr, ok := ast.CastExprRoot(root); ok {
		return i.finish(i.visitExpr(expr.Expr()))
	}
	return nil, runtime.Errorf(runtime.TypeError, "cannot interpret a %s tree", root.Kind())
}

func (i *Interpreter) finish(v runtime.Value, err *runtime.Error) (runtime.Value, error) {
	if err == nil {
		return v, nil
	}
	if err.Kind == runtime.ReturnedValue {
		return nil, &runtime.Error{Kind: runtime.TypeError, Message: "return outside function", Offset: err.Offset}
	}
	return nil, err
}

func (i *Interpreter) visitProgram(prog *ast.Program) (runtime.Value, *runtime.Error) {
	var last runtime.Value
	for _, stmt := range prog.Statements() {
		v, err := i.visitStmt(stmt)
		if err != nil {
			return nil, err
		}
		last = nil
		if stmt.Kind() == syntax.ExprStmt {
			last = v
		}
	}
	return last, nil
}

// fail records err as the halting error unless it only carries a return.
func (i *Interpreter) fail(err *runtime.Error, offset int) *runtime.Error {
	err.At(offset)
	if err.Kind != runtime.ReturnedValue && i.halt == nil {
		i.halt = err
	}
	return err
}

func (i *Interpreter) failf(offset int, kind runtime.ErrorKind, format string, args ...any) *runtime.Error {
	return i.fail(runtime.Errorf(kind, format, args...), offset)
}

func (i *Interpreter) malformed(offset int) *runtime.Error {
	return i.failf(offset, runtime.TypeError, "malformed syntax")
}

// asRuntimeError adapts errors returned by builtins.
func asRuntimeError(err error) *runtime.Error {
	var rerr *runtime.Error
	if errors.As(err, &rerr) {
		return rerr
	}
	return runtime.Errorf(runtime.TypeError, "%s", err.Error())
}
