package parser

import (
	"fmt"
	"slices"

	"newt/interpreter-go/pkg/lexer"
	"newt/interpreter-go/pkg/syntax"
)

type sinkFrame struct {
	kind     syntax.Kind
	boundary int
	start    int
}

// Build replays events over src and returns the root node. Token and Trivia
// events take their text from src in order. A Begin event with a forward
// parent reuses the boundary of the event it points at, so the node built
// there becomes its first child. Malformed logs are a grammar bug and panic.
func Build(src *lexer.Source, events []Event) *syntax.Node {
	var (
		working  []syntax.Element
		stack    []sinkFrame
		boundary = make([]int, len(events))
		startOf  = make([]int, len(events))
		tokenIdx int
		offset   int
	)
	for idx, ev := range events {
		switch ev.Kind {
		case EventBegin:
			if ev.Syntax == syntax.Tombstone {
				continue
			}
			b, s := len(working), offset
			if ev.ForwardParent > 0 {
				k := idx - ev.ForwardParent
				b, s = boundary[k], startOf[k]
			}
			boundary[idx], startOf[idx] = b, s
			stack = append(stack, sinkFrame{kind: ev.Syntax, boundary: b, start: s})
		case EventToken, EventTrivia:
			text := src.Lexeme(tokenIdx)
			working = append(working, syntax.NewToken(ev.Syntax, offset, text))
			offset += len(text)
			tokenIdx++
		case EventEnd:
			if len(stack) == 0 {
				panic(fmt.Sprintf("parser: unmatched End at event %d", idx))
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			children := slices.Clone(working[f.boundary:])
			working = working[:f.boundary]
			working = append(working, syntax.NewNode(f.kind, f.start, children))
		}
	}
	if len(stack) != 0 || len(working) != 1 {
		panic(fmt.Sprintf("parser: event log left %d open nodes and %d roots", len(stack), len(working)))
	}
	root, ok := working[0].(*syntax.Node)
	if !ok {
		panic("parser: event log root is a token")
	}
	return root
}
