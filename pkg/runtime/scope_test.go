package runtime

import (
	"errors"
	"slices"
	"testing"
)

func TestScopeShadowing(t *testing.T) {
	s := NewScope()
	if err := s.Declare("x", IntValue{Val: 1}); err != nil {
		t.Fatalf("declare: %v", err)
	}
	s.Push()
	if err := s.Declare("x", IntValue{Val: 2}); err != nil {
		t.Fatalf("shadowing declare: %v", err)
	}
	if v, _ := s.Resolve("x"); v != (IntValue{Val: 2}) {
		t.Fatalf("inner x = %v", v)
	}
	s.Pop()
	if v, _ := s.Resolve("x"); v != (IntValue{Val: 1}) {
		t.Fatalf("outer x after pop = %v", v)
	}
}

func TestScopeDuplicateDeclaration(t *testing.T) {
	s := NewScope()
	_ = s.Declare("x", Null)
	err := s.Declare("x", Null)
	if !errors.Is(err, ErrDuplicateDeclaration) {
		t.Fatalf("expected duplicate declaration, got %v", err)
	}
}

func TestScopeAssignTargetsInnermostBinding(t *testing.T) {
	s := NewScope()
	_ = s.Declare("x", IntValue{Val: 1})
	s.Push()
	if err := s.Assign("x", IntValue{Val: 5}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	s.Pop()
	if v, _ := s.Resolve("x"); v != (IntValue{Val: 5}) {
		t.Fatalf("assignment through inner frame lost: %v", v)
	}
	err := s.Assign("missing", Null)
	var rerr *Error
	if !errors.As(err, &rerr) || rerr.Kind != UndefinedVariable {
		t.Fatalf("expected undefined variable, got %v", err)
	}
}

func TestScopeResolveMissing(t *testing.T) {
	s := NewScope()
	s.Push()
	if _, ok := s.Resolve("nope"); ok {
		t.Fatalf("resolved an unbound name")
	}
}

func TestScopePopRootPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic popping the root frame")
		}
	}()
	NewScope().Pop()
}

func TestScopeCaptureSharesFrames(t *testing.T) {
	s := NewScope()
	_ = s.Declare("count", IntValue{Val: 0})
	captured := s.Capture()
	captured.Push()
	if s.Depth() != 1 || captured.Depth() != 2 {
		t.Fatalf("depths: %d %d", s.Depth(), captured.Depth())
	}
	if err := captured.Assign("count", IntValue{Val: 3}); err != nil {
		t.Fatalf("assign through capture: %v", err)
	}
	if v, _ := s.Resolve("count"); v != (IntValue{Val: 3}) {
		t.Fatalf("capture must share frames, got %v", v)
	}
	_ = s.Declare("later", BoolValue{Val: true})
	if _, ok := captured.Resolve("later"); !ok {
		t.Fatalf("capture must see later declarations in shared frames")
	}
}

func TestScopeNames(t *testing.T) {
	s := NewScope()
	_ = s.Declare("b", Null)
	s.Push()
	_ = s.Declare("a", Null)
	_ = s.Declare("b", Null)
	if got := s.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("names: %v", got)
	}
	s.Pop()
	if got := s.Names(); !slices.Equal(got, []string{"b"}) {
		t.Fatalf("names after pop: %v", got)
	}
}

func TestErrorUnwrapsToSentinel(t *testing.T) {
	err := Errorf(TypeError, "bad %s", "thing").At(7)
	if !errors.Is(err, ErrType) || errors.Is(err, ErrNullValue) {
		t.Fatalf("sentinel mismatch for %v", err)
	}
	if err.Offset != 7 || err.At(9).Offset != 7 {
		t.Fatalf("At must only set the first location")
	}
	if got := err.Error(); got != "type error: bad thing" {
		t.Fatalf("message %q", got)
	}
}

func TestInspectAndEqual(t *testing.T) {
	obj := NewObject()
	obj.Fields["b"] = StringValue{Val: "x"}
	obj.Fields["a"] = FloatValue{Val: 2}
	cases := map[string]Value{
		"3":                 IntValue{Val: 3},
		"2.0":               FloatValue{Val: 2},
		"0.5":               FloatValue{Val: 0.5},
		"'g'":               GlyphValue{Val: 'g'},
		`"hi"`:              StringValue{Val: "hi"},
		"null":              Null,
		`{a: 2.0, b: "x"}`:  obj,
		"<native fn print>": NativeFunctionValue{Name: "print"},
	}
	for want, v := range cases {
		if got := Inspect(v); got != want {
			t.Errorf("Inspect(%#v) = %q, want %q", v, got, want)
		}
	}
	if Format(StringValue{Val: "hi"}) != "hi" {
		t.Fatalf("Format must print strings bare")
	}
	if eq, ok := Equal(IntValue{Val: 1}, IntValue{Val: 1}); !eq || !ok {
		t.Fatalf("ints should be equal")
	}
	if _, ok := Equal(IntValue{Val: 1}, FloatValue{Val: 1}); ok {
		t.Fatalf("mixed kinds must not compare")
	}
	if eq, _ := Equal(obj, NewObject()); eq {
		t.Fatalf("objects compare by identity")
	}
}
