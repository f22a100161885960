package parser

import "newt/interpreter-go/pkg/syntax"

func (p *parser) program() {
	m := p.begin()
	p.skipTrivia()
	p.statements(syntax.EOF)
	p.end(m, syntax.Program)
}

// expressionRoot parses one expression; anything after it is an error.
func (p *parser) expressionRoot() {
	m := p.begin()
	p.skipTrivia()
	p.expr()
	if !p.at(syntax.EOF) {
		p.errorAtCurrent(syntax.EOF, "expected end of input after expression")
		rest := p.begin()
		for !p.at(syntax.EOF) {
			p.bumpAs(syntax.Tombstone)
		}
		p.end(rest, syntax.Error)
	}
	p.end(m, syntax.ExprRoot)
}

// statements parses until terminator or end of input. Each statement starts
// with a clean error state; a statement that failed is followed by skipping
// to the next terminator.
func (p *parser) statements(terminator syntax.Kind) {
	savedPanicking, savedFailed := p.panicking, p.failed
	for !p.atAny(terminator, syntax.EOF) {
		start := p.pos
		p.panicking, p.failed = false, false
		p.statement()
		if p.failed || p.pos == start {
			p.recoverStatement(terminator, start)
		}
	}
	p.panicking, p.failed = savedPanicking, savedFailed
}

var statementStarts = []syntax.Kind{
	syntax.LetKw, syntax.IfKw, syntax.WhileKw, syntax.FnKw, syntax.ReturnKw,
}

func (p *parser) recoverStatement(terminator syntax.Kind, start int) {
	if p.pos == start {
		p.errorAtCurrent(syntax.Tombstone, "expected statement")
		p.errorToken()
		return
	}
	if p.last == syntax.Semicolon || p.last == syntax.RBrace {
		return
	}
	m := p.begin()
	skipFrom := p.pos
	for !p.atAny(syntax.Semicolon, terminator, syntax.EOF) && !p.atAny(statementStarts...) {
		p.bumpAs(syntax.Tombstone)
	}
	if p.at(syntax.Semicolon) {
		p.token()
	}
	if p.pos == skipFrom {
		p.abandon(m)
		return
	}
	p.end(m, syntax.Error)
}

func (p *parser) statement() {
	switch p.current() {
	case syntax.LetKw:
		p.letStmt()
	case syntax.IfKw:
		p.ifStmt()
	case syntax.WhileKw:
		p.whileStmt()
	case syntax.FnKw:
		p.fnDecl()
	case syntax.ReturnKw:
		p.returnStmt()
	case syntax.LBrace:
		p.stmtList()
	case syntax.Identifier:
		if p.nth(1) == syntax.Eq {
			p.assignStmt()
			return
		}
		p.exprStmt()
	default:
		p.exprStmt()
	}
}

func (p *parser) stmtList() {
	m := p.begin()
	p.token()
	p.statements(syntax.RBrace)
	p.expect("expected '}' to close block", syntax.RBrace)
	p.end(m, syntax.StmtList)
}

// block parses a statement list where one is required.
func (p *parser) block(message string) {
	if p.at(syntax.LBrace) {
		p.stmtList()
		return
	}
	p.expect(message, syntax.LBrace)
}

func (p *parser) letStmt() {
	m := p.begin()
	p.token()
	p.expect("expected variable name after 'let'", syntax.Identifier)
	p.expect("expected '=' after variable name", syntax.Eq)
	p.expr()
	p.expect("expected ';' after declaration", syntax.Semicolon)
	p.end(m, syntax.LetStmt)
}

func (p *parser) assignStmt() {
	m := p.begin()
	p.token()
	p.token()
	p.expr()
	p.expect("expected ';' after assignment", syntax.Semicolon)
	p.end(m, syntax.AssignStmt)
}

func (p *parser) ifStmt() {
	m := p.begin()
	p.token()
	p.condition()
	p.block("expected '{' after if condition")
	if p.at(syntax.ElseKw) {
		p.token()
		if p.at(syntax.IfKw) {
			p.ifStmt()
		} else {
			p.block("expected '{' or 'if' after 'else'")
		}
	}
	p.end(m, syntax.IfStmt)
}

func (p *parser) whileStmt() {
	m := p.begin()
	p.token()
	p.condition()
	p.block("expected '{' after while condition")
	p.end(m, syntax.WhileStmt)
}

func (p *parser) fnDecl() {
	m := p.begin()
	p.token()
	p.expect("expected function name after 'fn'", syntax.Identifier)
	p.paramList()
	p.block("expected '{' before function body")
	p.end(m, syntax.FnDecl)
}

func (p *parser) paramList() {
	m := p.begin()
	if !p.expect("expected '(' before parameters", syntax.LParen) {
		p.end(m, syntax.ParamList)
		return
	}
	for !p.atAny(syntax.RParen, syntax.LBrace, syntax.EOF) {
		start := p.pos
		p.expect("expected parameter name", syntax.Identifier, syntax.Underscore)
		if p.pos == start || !p.at(syntax.Comma) {
			break
		}
		p.token()
	}
	p.expect("expected ')' after parameters", syntax.RParen)
	p.end(m, syntax.ParamList)
}

func (p *parser) returnStmt() {
	m := p.begin()
	p.token()
	if !p.atAny(syntax.Semicolon, syntax.RBrace, syntax.EOF) {
		p.expr()
	}
	p.expect("expected ';' after return", syntax.Semicolon)
	p.end(m, syntax.ReturnStmt)
}

func (p *parser) exprStmt() {
	m := p.begin()
	p.expr()
	p.expect("expected ';' after expression", syntax.Semicolon)
	p.end(m, syntax.ExprStmt)
}
