// Package runtime holds the value domain, scopes and runtime errors of the
// Newt interpreter.
package runtime

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"newt/interpreter-go/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindGlyph
	KindString
	KindBool
	KindNull
	KindFunction
	KindNativeFunction
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindGlyph:
		return "glyph"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type GlyphValue struct {
	Val rune
}

func (v GlyphValue) Kind() Kind { return KindGlyph }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

// Null is the single null value.
var Null Value = NullValue{}

//-----------------------------------------------------------------------------
// Callables
//-----------------------------------------------------------------------------

// Callable is implemented by user and native functions.
type Callable interface {
	Value
	CallableName() string
	ParamCount() int
}

// FunctionValue is a user function closed over the scope it was declared in.
type FunctionValue struct {
	Declaration *ast.FnDecl
	Closure     *Scope
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

func (v *FunctionValue) CallableName() string {
	if tok := v.Declaration.Name(); tok != nil {
		return tok.Text()
	}
	return "<anonymous>"
}

func (v *FunctionValue) ParamCount() int {
	if params := v.Declaration.Params(); params != nil {
		return params.Arity()
	}
	return 0
}

// NativeCallContext is passed to builtins.
type NativeCallContext struct {
	Name string
}

// NativeFunctionValue is a builtin implemented in Go. An Arity below zero
// accepts any number of arguments.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  func(ctx *NativeCallContext, args []Value) (Value, error)
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

func (v NativeFunctionValue) CallableName() string { return v.Name }

func (v NativeFunctionValue) ParamCount() int { return v.Arity }

//-----------------------------------------------------------------------------
// Objects
//-----------------------------------------------------------------------------

// ObjectValue is a mutable record shared by reference.
type ObjectValue struct {
	Fields map[string]Value
}

func NewObject() *ObjectValue {
	return &ObjectValue{Fields: make(map[string]Value)}
}

func (v *ObjectValue) Kind() Kind { return KindObject }

// Keys returns the field names in sorted order.
func (v *ObjectValue) Keys() []string {
	keys := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

//-----------------------------------------------------------------------------
// Formatting and equality
//-----------------------------------------------------------------------------

// Format renders v the way print shows it. Strings and glyphs appear bare.
func Format(v Value) string {
	switch val := v.(type) {
	case StringValue:
		return val.Val
	case GlyphValue:
		return string(val.Val)
	default:
		return Inspect(v)
	}
}

// Inspect renders v as it would be written in source.
func Inspect(v Value) string {
	switch val := v.(type) {
	case nil:
		return "<none>"
	case IntValue:
		return strconv.FormatInt(val.Val, 10)
	case FloatValue:
		s := strconv.FormatFloat(val.Val, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eIN") {
			s += ".0"
		}
		return s
	case GlyphValue:
		return strconv.QuoteRune(val.Val)
	case StringValue:
		return strconv.Quote(val.Val)
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case NullValue:
		return "null"
	case *FunctionValue:
		return "<fn " + val.CallableName() + ">"
	case NativeFunctionValue:
		return "<native fn " + val.Name + ">"
	case *ObjectValue:
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range val.Keys() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(Inspect(val.Fields[k]))
		}
		b.WriteByte('}')
		return b.String()
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// Equal compares two values of the same kind. It reports false for ok when
// the kinds differ. Functions and objects compare by identity.
func Equal(a, b Value) (equal bool, ok bool) {
	if a.Kind() != b.Kind() {
		return false, false
	}
	switch av := a.(type) {
	case *FunctionValue:
		return av == b.(*FunctionValue), true
	case NativeFunctionValue:
		return av.Name == b.(NativeFunctionValue).Name, true
	case *ObjectValue:
		return av == b.(*ObjectValue), true
	default:
		return a == b, true
	}
}
