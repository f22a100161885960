package interpreter

import (
	"bytes"
	"errors"
	"testing"

	"newt/interpreter-go/pkg/parser"
	"newt/interpreter-go/pkg/runtime"
)

type result struct {
	value  runtime.Value
	err    error
	stdout string
}

func evalWith(t *testing.T, opts Options, entry parser.EntryPoint, src string) result {
	t.Helper()
	tree, errs := parser.Parse(src, entry)
	if len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}
	var out bytes.Buffer
	opts.Stdout = &out
	interp := New(opts)
	v, err := interp.Interpret(tree)
	return result{value: v, err: err, stdout: out.String()}
}

func evalProgram(t *testing.T, src string) result {
	t.Helper()
	return evalWith(t, Options{}, parser.Program, src)
}

func evalExpr(t *testing.T, src string) result {
	t.Helper()
	return evalWith(t, Options{}, parser.Expression, src)
}

func expectValue(t *testing.T, r result, want runtime.Value) {
	t.Helper()
	if r.err != nil {
		t.Fatalf("unexpected error: %v", r.err)
	}
	if r.value != want {
		t.Fatalf("got %s, want %s", runtime.Inspect(r.value), runtime.Inspect(want))
	}
}

func expectKind(t *testing.T, r result, kind runtime.ErrorKind) *runtime.Error {
	t.Helper()
	var rerr *runtime.Error
	if !errors.As(r.err, &rerr) {
		t.Fatalf("expected %s, got value %v err %v", kind, r.value, r.err)
	}
	if rerr.Kind != kind {
		t.Fatalf("expected %s, got %v", kind, rerr)
	}
	return rerr
}
