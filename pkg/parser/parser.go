// Package parser turns a token source into an event log and materialises it
// as a lossless syntax tree. Parsing never fails: problems are recorded as
// ParseErrors and Error nodes in the tree.
package parser

import (
	"strings"

	"newt/interpreter-go/pkg/lexer"
	"newt/interpreter-go/pkg/syntax"
)

// EntryPoint selects the top-level production.
type EntryPoint int

const (
	// Program parses a sequence of statements.
	Program EntryPoint = iota
	// Expression parses a single expression, as used by the REPL.
	Expression
)

func (e EntryPoint) String() string {
	if e == Expression {
		return "expression"
	}
	return "program"
}

type parser struct {
	src    *lexer.Source
	pos    int
	events []Event
	errors []ParseError
	open   int

	// panicking suppresses further reports until the current statement ends.
	panicking bool
	// failed records that the current statement reported an error.
	failed bool
	// stalled is the index of a token an expect call refused without
	// consuming, or -1.
	stalled int
	last    syntax.Kind
	// noObject stops '{' from starting an expression, so it can open the
	// body after an if or while condition.
	noObject bool
}

func newParser(src *lexer.Source) *parser {
	return &parser{src: src, stalled: -1, last: syntax.Tombstone}
}

// Parse tokenizes text and parses it from entry.
func Parse(text string, entry EntryPoint) (*syntax.Tree, []ParseError) {
	return ParseSource(lexer.NewSource(text), entry)
}

// ParseSource parses an existing token source from entry.
func ParseSource(src *lexer.Source, entry EntryPoint) (*syntax.Tree, []ParseError) {
	events, errs := Events(src, entry)
	return syntax.NewTree(Build(src, events)), errs
}

// Events runs the grammar and returns the raw event log.
func Events(src *lexer.Source, entry EntryPoint) ([]Event, []ParseError) {
	p := newParser(src)
	switch entry {
	case Expression:
		p.expressionRoot()
	default:
		p.program()
	}
	if p.open != 0 {
		panic("parser: unresolved marker at end of parse")
	}
	return p.events, p.errors
}

func (p *parser) current() syntax.Kind {
	return p.src.Kind(p.pos)
}

func (p *parser) at(kind syntax.Kind) bool {
	return p.current() == kind
}

func (p *parser) atAny(kinds ...syntax.Kind) bool {
	cur := p.current()
	for _, k := range kinds {
		if cur == k {
			return true
		}
	}
	return false
}

// nth returns the kind of the n-th significant token ahead, skipping trivia.
func (p *parser) nth(n int) syntax.Kind {
	i := p.pos
	for {
		kind := p.src.Kind(i)
		if kind == syntax.EOF {
			return kind
		}
		if !kind.IsTrivia() {
			if n == 0 {
				return kind
			}
			n--
		}
		i++
	}
}

// token consumes the current token and any trivia that follows it.
func (p *parser) token() {
	p.bumpAs(p.current())
}

// bumpAs consumes the current token under a different kind.
func (p *parser) bumpAs(kind syntax.Kind) {
	if p.at(syntax.EOF) {
		return
	}
	p.events = append(p.events, Event{Kind: EventToken, Syntax: kind})
	p.last = kind
	p.pos++
	p.skipTrivia()
}

func (p *parser) skipTrivia() {
	for {
		kind := p.current()
		if !kind.IsTrivia() {
			return
		}
		if kind == syntax.Tombstone {
			p.invalidToken()
		}
		p.events = append(p.events, Event{Kind: EventTrivia, Syntax: kind})
		p.pos++
	}
}

func (p *parser) invalidToken() {
	lexeme := p.src.Lexeme(p.pos)
	msg := "unrecognized character"
	switch {
	case strings.HasPrefix(lexeme, `"`):
		msg = "unterminated string literal"
	case strings.HasPrefix(lexeme, `'`):
		msg = "unterminated glyph literal"
	case strings.HasPrefix(lexeme, "/*"):
		msg = "unterminated block comment"
	}
	p.errors = append(p.errors, ParseError{
		Kind:    InvalidToken,
		Message: msg + " " + quoteLexeme(lexeme),
		Actual:  syntax.Tombstone,
		Offset:  p.src.Offset(p.pos),
		Len:     p.src.Token(p.pos).Len,
	})
}

func quoteLexeme(s string) string {
	if len(s) > 16 {
		s = s[:16] + "..."
	}
	return "`" + s + "`"
}

// report records err unless the current statement already has one.
func (p *parser) report(err ParseError) {
	p.failed = true
	if p.panicking {
		return
	}
	p.panicking = true
	p.errors = append(p.errors, err)
}

// errorAtCurrent reports a problem located at the current token.
func (p *parser) errorAtCurrent(expected syntax.Kind, message string) {
	kind := UnexpectedToken
	if p.at(syntax.EOF) || expected == syntax.Tombstone {
		kind = MissingSyntax
	}
	p.report(ParseError{
		Kind:     kind,
		Message:  message,
		Expected: expected,
		Actual:   p.current(),
		Offset:   p.src.Offset(p.pos),
		Len:      p.src.Token(p.pos).Len,
	})
}

// recovery tokens are never swallowed by a failed expectation.
var recovery = map[syntax.Kind]bool{
	syntax.Semicolon: true,
	syntax.RBrace:    true,
	syntax.RParen:    true,
	syntax.LBrace:    true,
	syntax.EOF:       true,
	syntax.LetKw:     true,
	syntax.IfKw:      true,
	syntax.WhileKw:   true,
	syntax.FnKw:      true,
	syntax.ReturnKw:  true,
}

// expect consumes the current token if it is one of kinds. Otherwise it
// reports message and leaves an Error node. The first refusal at a position
// leaves the token in place so a later expectation can match it; a second
// refusal at the same position wraps it as a tombstone.
func (p *parser) expect(message string, kinds ...syntax.Kind) bool {
	if p.atAny(kinds...) {
		p.token()
		return true
	}
	p.errorAtCurrent(kinds[0], message)
	m := p.begin()
	if p.stalled == p.pos && !recovery[p.current()] {
		p.bumpAs(syntax.Tombstone)
	} else {
		p.stalled = p.pos
	}
	p.end(m, syntax.Error)
	return false
}

// errorToken wraps the current token in an Error node, guaranteeing progress.
func (p *parser) errorToken() {
	m := p.begin()
	p.bumpAs(syntax.Tombstone)
	p.end(m, syntax.Error)
}
