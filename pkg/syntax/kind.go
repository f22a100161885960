package syntax

import "fmt"

// Kind identifies both token and node categories. Tokens and nodes share a
// single enumeration so a begin-node placeholder can start life as Tombstone
// and be patched with its real node kind later.
type Kind uint16

const (
	// Tombstone marks invalid input and unresolved begin-node slots.
	Tombstone Kind = iota
	EOF

	// Trivia.
	Whitespace
	CommentLine
	CommentBlock

	// Grouping punctuation.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket

	// Punctuation and operators.
	Comma
	Dot
	Colon
	Semicolon
	Eq
	EqEq
	BangEq
	Bang
	Plus
	Minus
	Star
	Slash
	Gt
	GtEq
	Lt
	LtEq
	Pipe
	PipePipe
	Amp
	AmpAmp
	Underscore

	// Literals and names.
	IntLiteral
	FloatLiteral
	StringLiteral
	GlyphLiteral
	Identifier

	// Keywords.
	LetKw
	IfKw
	ElseKw
	WhileKw
	FnKw
	ReturnKw
	TrueKw
	FalseKw
	NullKw

	// Nodes.
	Program
	ExprRoot
	Error
	StmtList
	LetStmt
	AssignStmt
	IfStmt
	WhileStmt
	FnDecl
	ParamList
	ReturnStmt
	ExprStmt
	BinaryExpr
	UnaryExpr
	LiteralExpr
	GroupingExpr
	VariableExpr
	FunctionCallExpr
	ArgList
	PropertyExpr
	ObjectLiteralExpr
	ObjectField

	kindCount
)

// KindCount is the number of defined kinds, useful for kind-indexed tables.
const KindCount = int(kindCount)

var kindNames = [...]string{
	Tombstone:         "Tombstone",
	EOF:               "EOF",
	Whitespace:        "Whitespace",
	CommentLine:       "CommentLine",
	CommentBlock:      "CommentBlock",
	LParen:            "LParen",
	RParen:            "RParen",
	LBrace:            "LBrace",
	RBrace:            "RBrace",
	LBracket:          "LBracket",
	RBracket:          "RBracket",
	Comma:             "Comma",
	Dot:               "Dot",
	Colon:             "Colon",
	Semicolon:         "Semicolon",
	Eq:                "Eq",
	EqEq:              "EqEq",
	BangEq:            "BangEq",
	Bang:              "Bang",
	Plus:              "Plus",
	Minus:             "Minus",
	Star:              "Star",
	Slash:             "Slash",
	Gt:                "Gt",
	GtEq:              "GtEq",
	Lt:                "Lt",
	LtEq:              "LtEq",
	Pipe:              "Pipe",
	PipePipe:          "PipePipe",
	Amp:               "Amp",
	AmpAmp:            "AmpAmp",
	Underscore:        "Underscore",
	IntLiteral:        "IntLiteral",
	FloatLiteral:      "FloatLiteral",
	StringLiteral:     "StringLiteral",
	GlyphLiteral:      "GlyphLiteral",
	Identifier:        "Identifier",
	LetKw:             "LetKw",
	IfKw:              "IfKw",
	ElseKw:            "ElseKw",
	WhileKw:           "WhileKw",
	FnKw:              "FnKw",
	ReturnKw:          "ReturnKw",
	TrueKw:            "TrueKw",
	FalseKw:           "FalseKw",
	NullKw:            "NullKw",
	Program:           "Program",
	ExprRoot:          "ExprRoot",
	Error:             "Error",
	StmtList:          "StmtList",
	LetStmt:           "LetStmt",
	AssignStmt:        "AssignStmt",
	IfStmt:            "IfStmt",
	WhileStmt:         "WhileStmt",
	FnDecl:            "FnDecl",
	ParamList:         "ParamList",
	ReturnStmt:        "ReturnStmt",
	ExprStmt:          "ExprStmt",
	BinaryExpr:        "BinaryExpr",
	UnaryExpr:         "UnaryExpr",
	LiteralExpr:       "LiteralExpr",
	GroupingExpr:      "GroupingExpr",
	VariableExpr:      "VariableExpr",
	FunctionCallExpr:  "FunctionCallExpr",
	ArgList:           "ArgList",
	PropertyExpr:      "PropertyExpr",
	ObjectLiteralExpr: "ObjectLiteralExpr",
	ObjectField:       "ObjectField",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsTrivia reports whether tokens of this kind are skipped by the grammar.
// Tombstones count as trivia so length accounting survives malformed input.
func (k Kind) IsTrivia() bool {
	switch k {
	case Whitespace, CommentLine, CommentBlock, Tombstone:
		return true
	}
	return false
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool {
	return k >= LetKw && k <= NullKw
}

// IsNode reports whether k names a tree node rather than a token.
func (k Kind) IsNode() bool {
	return k >= Program && k < kindCount
}

// IsLiteral reports whether k is a literal token, keyword literals included.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLiteral, FloatLiteral, StringLiteral, GlyphLiteral, TrueKw, FalseKw, NullKw:
		return true
	}
	return false
}

var kindDisplay = map[Kind]string{
	EOF:        "end of input",
	LParen:     "'('",
	RParen:     "')'",
	LBrace:     "'{'",
	RBrace:     "'}'",
	LBracket:   "'['",
	RBracket:   "']'",
	Comma:      "','",
	Dot:        "'.'",
	Colon:      "':'",
	Semicolon:  "';'",
	Eq:         "'='",
	EqEq:       "'=='",
	BangEq:     "'!='",
	Bang:       "'!'",
	Plus:       "'+'",
	Minus:      "'-'",
	Star:       "'*'",
	Slash:      "'/'",
	Gt:         "'>'",
	GtEq:       "'>='",
	Lt:         "'<'",
	LtEq:       "'<='",
	Pipe:       "'|'",
	PipePipe:   "'||'",
	Amp:        "'&'",
	AmpAmp:     "'&&'",
	Underscore: "'_'",
	Identifier: "identifier",
	LetKw:      "'let'",
	IfKw:       "'if'",
	ElseKw:     "'else'",
	WhileKw:    "'while'",
	FnKw:       "'fn'",
	ReturnKw:   "'return'",
	TrueKw:     "'true'",
	FalseKw:    "'false'",
	NullKw:     "'null'",
}

// Describe renders a kind the way diagnostics mention it ("')'", "identifier").
func (k Kind) Describe() string {
	if s, ok := kindDisplay[k]; ok {
		return s
	}
	switch k {
	case IntLiteral, FloatLiteral:
		return "number"
	case StringLiteral:
		return "string"
	case GlyphLiteral:
		return "glyph"
	case Tombstone:
		return "invalid input"
	}
	return k.String()
}
