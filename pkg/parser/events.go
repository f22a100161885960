package parser

import (
	"fmt"

	"newt/interpreter-go/pkg/syntax"
)

// EventKind distinguishes entries of the parse event log.
type EventKind uint8

const (
	EventBegin EventKind = iota
	EventEnd
	EventToken
	EventTrivia
)

func (k EventKind) String() string {
	switch k {
	case EventBegin:
		return "Begin"
	case EventEnd:
		return "End"
	case EventToken:
		return "Token"
	case EventTrivia:
		return "Trivia"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one entry of the flat log the grammar produces. A Begin event's
// Syntax starts out as Tombstone and is patched when the node is closed.
// ForwardParent, when non-zero, is the distance back to the Begin event of an
// already-closed node that this node wraps as its first child.
type Event struct {
	Kind          EventKind
	Syntax        syntax.Kind
	ForwardParent int
}

func (e Event) String() string {
	switch e.Kind {
	case EventBegin:
		if e.ForwardParent > 0 {
			return fmt.Sprintf("Begin(%s, -%d)", e.Syntax, e.ForwardParent)
		}
		return fmt.Sprintf("Begin(%s)", e.Syntax)
	case EventEnd:
		return "End"
	default:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Syntax)
	}
}

// Marker refers to an open Begin slot. Every marker must be closed with end
// or dropped with abandon.
type Marker struct {
	pos  int
	done bool
}

// CompletedMarker describes a closed node so a later production can wrap it.
type CompletedMarker struct {
	start int
	end   int
	kind  syntax.Kind
}

func (c CompletedMarker) Kind() syntax.Kind { return c.kind }

func (p *parser) begin() *Marker {
	p.events = append(p.events, Event{Kind: EventBegin, Syntax: syntax.Tombstone})
	p.open++
	return &Marker{pos: len(p.events) - 1}
}

func (p *parser) end(m *Marker, kind syntax.Kind) CompletedMarker {
	if m.done {
		panic(fmt.Sprintf("parser: marker at event %d closed twice", m.pos))
	}
	m.done = true
	p.open--
	p.events[m.pos].Syntax = kind
	p.events = append(p.events, Event{Kind: EventEnd})
	return CompletedMarker{start: m.pos, end: p.src.Offset(p.pos), kind: kind}
}

// abandon drops a marker that turned out not to wrap anything. A trailing
// slot is removed; an interior one stays behind as a Tombstone the sink skips.
func (p *parser) abandon(m *Marker) {
	if m.done {
		panic(fmt.Sprintf("parser: marker at event %d abandoned after close", m.pos))
	}
	m.done = true
	p.open--
	if m.pos == len(p.events)-1 {
		p.events = p.events[:m.pos]
	}
}

// precede declares that m, opened after cm was closed, logically starts where
// cm starts. The sink makes cm the first child of m's node.
func (p *parser) precede(cm CompletedMarker, m *Marker) {
	p.events[m.pos].ForwardParent = m.pos - cm.start
}
