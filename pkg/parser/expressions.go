package parser

import (
	"fmt"

	"newt/interpreter-go/pkg/ast"
	"newt/interpreter-go/pkg/syntax"
)

// Precedence orders operators from tightest (1) to loosest. An operator
// participates in a climb only when its level does not exceed the threshold.
type Precedence int

const (
	precNone Precedence = iota
	precPrimary
	precMultiplicative
	precAdditive
	precRelational
	precLogicalAnd
	precLogicalOr

	precLowest = precLogicalOr
)

type (
	prefixFn  func(p *parser) CompletedMarker
	infixFn   func(p *parser, lhs CompletedMarker, prec Precedence) CompletedMarker
	postfixFn func(p *parser, lhs CompletedMarker) CompletedMarker
)

type rule struct {
	prec    Precedence
	prefix  prefixFn
	infix   infixFn
	postfix postfixFn
}

// rules is indexed by token kind. It is filled once by init and only read
// afterwards.
var rules [syntax.KindCount]rule

func init() {
	for _, kind := range []syntax.Kind{
		syntax.IntLiteral, syntax.FloatLiteral, syntax.StringLiteral, syntax.GlyphLiteral,
		syntax.TrueKw, syntax.FalseKw, syntax.NullKw,
	} {
		rules[kind].prefix = literal
	}
	rules[syntax.Identifier].prefix = variable
	rules[syntax.Minus].prefix = unary
	rules[syntax.Bang].prefix = unary
	rules[syntax.LBrace].prefix = objectLiteral

	rules[syntax.LParen] = rule{prec: precPrimary, prefix: grouping, postfix: call}
	rules[syntax.Dot] = rule{prec: precPrimary, postfix: property}

	binaryAt := func(prec Precedence, kinds ...syntax.Kind) {
		for _, kind := range kinds {
			rules[kind].prec = prec
			rules[kind].infix = binary
		}
	}
	binaryAt(precMultiplicative, syntax.Star, syntax.Slash)
	binaryAt(precAdditive, syntax.Plus, syntax.Minus)
	binaryAt(precRelational, syntax.EqEq, syntax.BangEq, syntax.Gt, syntax.GtEq, syntax.Lt, syntax.LtEq)
	binaryAt(precLogicalAnd, syntax.AmpAmp)
	binaryAt(precLogicalOr, syntax.PipePipe)
}

func (p *parser) expr() (CompletedMarker, bool) {
	return p.exprBP(precLowest)
}

// exprBP parses a prefix form and then folds in every operator whose level is
// at most threshold. Right operands are parsed one level tighter, which keeps
// equal-level chains left-associative.
func (p *parser) exprBP(threshold Precedence) (CompletedMarker, bool) {
	r := rules[p.current()]
	if r.prefix == nil || (p.noObject && p.at(syntax.LBrace)) {
		return p.missingExpr(), false
	}
	lhs := r.prefix(p)
	for {
		r = rules[p.current()]
		if r.prec == precNone || r.prec > threshold {
			break
		}
		switch {
		case r.postfix != nil:
			lhs = r.postfix(p, lhs)
		case r.infix != nil:
			lhs = r.infix(p, lhs, r.prec)
		default:
			return lhs, true
		}
	}
	return lhs, true
}

// condition parses an if or while condition. Object literals are allowed
// again inside parentheses.
func (p *parser) condition() {
	saved := p.noObject
	p.noObject = true
	p.expr()
	p.noObject = saved
}

// delimited runs parse between brackets, where '{' starts an expression.
func (p *parser) delimited(parse func()) {
	saved := p.noObject
	p.noObject = false
	parse()
	p.noObject = saved
}

func (p *parser) missingExpr() CompletedMarker {
	p.errorAtCurrent(syntax.Tombstone, "expected expression")
	m := p.begin()
	if !recovery[p.current()] {
		p.bumpAs(syntax.Tombstone)
	}
	return p.end(m, syntax.Error)
}

func literal(p *parser) CompletedMarker {
	m := p.begin()
	kind, text := p.current(), p.src.Lexeme(p.pos)
	if err := validateLiteral(kind, text); err != nil {
		p.errors = append(p.errors, ParseError{
			Kind:    InvalidLiteral,
			Message: err.Error(),
			Actual:  kind,
			Offset:  p.src.Offset(p.pos),
			Len:     len(text),
		})
	}
	p.token()
	return p.end(m, syntax.LiteralExpr)
}

func validateLiteral(kind syntax.Kind, text string) error {
	var err error
	switch kind {
	case syntax.IntLiteral:
		_, err = ast.ParseInt(text)
	case syntax.FloatLiteral:
		_, err = ast.ParseFloat(text)
	case syntax.StringLiteral:
		_, err = ast.UnquoteString(text)
	case syntax.GlyphLiteral:
		_, err = ast.UnquoteGlyph(text)
	}
	if err != nil {
		return fmt.Errorf("invalid %s %s: %w", kind.Describe(), text, err)
	}
	return nil
}

func variable(p *parser) CompletedMarker {
	m := p.begin()
	p.token()
	return p.end(m, syntax.VariableExpr)
}

// unary operands bind at primary level: -a*b is (-a)*b and -f(x) is -(f(x)).
func unary(p *parser) CompletedMarker {
	m := p.begin()
	p.token()
	p.exprBP(precPrimary)
	return p.end(m, syntax.UnaryExpr)
}

func grouping(p *parser) CompletedMarker {
	m := p.begin()
	p.token()
	p.delimited(func() { p.expr() })
	p.expect("expected ')' to close group", syntax.RParen)
	return p.end(m, syntax.GroupingExpr)
}

// objectLiteral parses `{ name: expr, ... }`. A trailing comma is allowed.
func objectLiteral(p *parser) CompletedMarker {
	m := p.begin()
	p.token()
	for !p.atAny(syntax.RBrace, syntax.EOF) {
		start := p.pos
		field := p.begin()
		p.expect("expected field name", syntax.Identifier)
		p.expect("expected ':' after field name", syntax.Colon)
		p.expr()
		p.end(field, syntax.ObjectField)
		if p.pos == start || !p.at(syntax.Comma) {
			break
		}
		p.token()
	}
	p.expect("expected '}' to close object literal", syntax.RBrace)
	return p.end(m, syntax.ObjectLiteralExpr)
}

func binary(p *parser, lhs CompletedMarker, prec Precedence) CompletedMarker {
	m := p.begin()
	p.precede(lhs, m)
	p.token()
	p.exprBP(prec - 1)
	return p.end(m, syntax.BinaryExpr)
}

func call(p *parser, lhs CompletedMarker) CompletedMarker {
	m := p.begin()
	p.precede(lhs, m)
	args := p.begin()
	p.token()
	p.delimited(func() {
		for !p.atAny(syntax.RParen, syntax.EOF) {
			start := p.pos
			p.expr()
			if p.pos == start || !p.at(syntax.Comma) {
				break
			}
			p.token()
		}
	})
	p.expect("expected ')' after arguments", syntax.RParen)
	p.end(args, syntax.ArgList)
	return p.end(m, syntax.FunctionCallExpr)
}

func property(p *parser, lhs CompletedMarker) CompletedMarker {
	m := p.begin()
	p.precede(lhs, m)
	p.token()
	p.expect("expected property name after '.'", syntax.Identifier)
	return p.end(m, syntax.PropertyExpr)
}
