package interpreter

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"newt/interpreter-go/pkg/runtime"
)

func (i *Interpreter) registerBuiltins() {
	builtins := []runtime.NativeFunctionValue{
		{
			Name:  "print",
			Arity: -1,
			Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				parts := make([]string, 0, len(args))
				for _, arg := range args {
					parts = append(parts, runtime.Format(arg))
				}
				fmt.Fprintln(i.opts.Stdout, strings.Join(parts, " "))
				return runtime.Null, nil
			},
		},
		{
			Name:  "str",
			Arity: 1,
			Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				return runtime.StringValue{Val: runtime.Format(args[0])}, nil
			},
		},
		{
			Name:  "len",
			Arity: 1,
			Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				switch v := args[0].(type) {
				case runtime.StringValue:
					return runtime.IntValue{Val: int64(utf8.RuneCountInString(v.Val))}, nil
				case *runtime.ObjectValue:
					return runtime.IntValue{Val: int64(len(v.Fields))}, nil
				case runtime.NullValue:
					return nil, runtime.Errorf(runtime.NullValueEncountered, "%s of null", ctx.Name)
				default:
					return nil, runtime.Errorf(runtime.TypeError, "%s is not defined for %s", ctx.Name, v.Kind())
				}
			},
		},
		{
			Name:  "type",
			Arity: 1,
			Impl: func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
				return runtime.StringValue{Val: args[0].Kind().String()}, nil
			},
		},
	}
	for _, fn := range builtins {
		if err := i.root.Declare(fn.Name, fn); err != nil {
			panic(err)
		}
	}
}

// suggest returns the candidate closest to name, or "" when nothing is close.
func suggest(name string, candidates []string) string {
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDist := "", 3
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
