package interpreter

import (
	"cmp"
	"strings"

	"newt/interpreter-go/pkg/runtime"
	"newt/interpreter-go/pkg/syntax"
)

func applyBinary(op syntax.Kind, text string, left, right runtime.Value) (runtime.Value, *runtime.Error) {
	if op == syntax.EqEq || op == syntax.BangEq {
		return applyEquality(op, left, right)
	}
	if left.Kind() == runtime.KindNull || right.Kind() == runtime.KindNull {
		return nil, runtime.Errorf(runtime.NullValueEncountered, "null operand to '%s'", text)
	}
	if left.Kind() != right.Kind() {
		return nil, runtime.Errorf(runtime.TypeError, "operator '%s' requires operands of the same type, got %s and %s", text, left.Kind(), right.Kind())
	}
	switch op {
	case syntax.Plus, syntax.Minus, syntax.Star, syntax.Slash:
		return arithmetic(op, text, left, right)
	case syntax.Gt, syntax.GtEq, syntax.Lt, syntax.LtEq:
		return compare(op, text, left, right)
	case syntax.AmpAmp, syntax.PipePipe:
		l, lok := left.(runtime.BoolValue)
		r, rok := right.(runtime.BoolValue)
		if !lok || !rok {
			return nil, runtime.Errorf(runtime.TypeError, "operator '%s' requires bool operands, got %s", text, left.Kind())
		}
		if op == syntax.AmpAmp {
			return runtime.BoolValue{Val: l.Val && r.Val}, nil
		}
		return runtime.BoolValue{Val: l.Val || r.Val}, nil
	default:
		return nil, runtime.Errorf(runtime.TypeError, "unsupported operator '%s'", text)
	}
}

// applyEquality compares like-typed values. Null may be compared with
// anything and is equal only to null.
func applyEquality(op syntax.Kind, left, right runtime.Value) (runtime.Value, *runtime.Error) {
	var equal bool
	if left.Kind() == runtime.KindNull || right.Kind() == runtime.KindNull {
		equal = left.Kind() == right.Kind()
	} else {
		eq, ok := runtime.Equal(left, right)
		if !ok {
			return nil, runtime.Errorf(runtime.TypeError, "cannot compare %s with %s", left.Kind(), right.Kind())
		}
		equal = eq
	}
	if op == syntax.BangEq {
		equal = !equal
	}
	return runtime.BoolValue{Val: equal}, nil
}

// arithmetic expects operands of one kind. Integer overflow wraps.
func arithmetic(op syntax.Kind, text string, left, right runtime.Value) (runtime.Value, *runtime.Error) {
	switch l := left.(type) {
	case runtime.IntValue:
		r := right.(runtime.IntValue)
		switch op {
		case syntax.Plus:
			return runtime.IntValue{Val: l.Val + r.Val}, nil
		case syntax.Minus:
			return runtime.IntValue{Val: l.Val - r.Val}, nil
		case syntax.Star:
			return runtime.IntValue{Val: l.Val * r.Val}, nil
		default:
			if r.Val == 0 {
				return nil, runtime.Errorf(runtime.DivisionByZero, "integer division by zero")
			}
			return runtime.IntValue{Val: l.Val / r.Val}, nil
		}
	case runtime.FloatValue:
		r := right.(runtime.FloatValue)
		switch op {
		case syntax.Plus:
			return runtime.FloatValue{Val: l.Val + r.Val}, nil
		case syntax.Minus:
			return runtime.FloatValue{Val: l.Val - r.Val}, nil
		case syntax.Star:
			return runtime.FloatValue{Val: l.Val * r.Val}, nil
		default:
			return runtime.FloatValue{Val: l.Val / r.Val}, nil
		}
	case runtime.StringValue:
		if op == syntax.Plus {
			return runtime.StringValue{Val: l.Val + right.(runtime.StringValue).Val}, nil
		}
	}
	return nil, runtime.Errorf(runtime.TypeError, "operator '%s' is not defined for %s", text, left.Kind())
}

func compare(op syntax.Kind, text string, left, right runtime.Value) (runtime.Value, *runtime.Error) {
	var c int
	switch l := left.(type) {
	case runtime.IntValue:
		c = cmp.Compare(l.Val, right.(runtime.IntValue).Val)
	case runtime.FloatValue:
		r := right.(runtime.FloatValue).Val
		// NaN compares false under every ordering.
		if l.Val != l.Val || r != r {
			return runtime.BoolValue{Val: false}, nil
		}
		c = cmp.Compare(l.Val, r)
	case runtime.GlyphValue:
		c = cmp.Compare(l.Val, right.(runtime.GlyphValue).Val)
	case runtime.StringValue:
		c = strings.Compare(l.Val, right.(runtime.StringValue).Val)
	default:
		return nil, runtime.Errorf(runtime.TypeError, "operator '%s' is not defined for %s", text, left.Kind())
	}
	var result bool
	switch op {
	case syntax.Gt:
		result = c > 0
	case syntax.GtEq:
		result = c >= 0
	case syntax.Lt:
		result = c < 0
	default:
		result = c <= 0
	}
	return runtime.BoolValue{Val: result}, nil
}

func applyUnary(op syntax.Kind, text string, operand runtime.Value) (runtime.Value, *runtime.Error) {
	switch v := operand.(type) {
	case runtime.NullValue:
		return nil, runtime.Errorf(runtime.NullValueEncountered, "null operand to '%s'", text)
	case runtime.BoolValue:
		if op == syntax.Bang {
			return runtime.BoolValue{Val: !v.Val}, nil
		}
	case runtime.IntValue:
		if op == syntax.Minus {
			return runtime.IntValue{Val: -v.Val}, nil
		}
	case runtime.FloatValue:
		if op == syntax.Minus {
			return runtime.FloatValue{Val: -v.Val}, nil
		}
	}
	return nil, runtime.Errorf(runtime.TypeError, "operator '%s' is not defined for %s", text, operand.Kind())
}
