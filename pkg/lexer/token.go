// Package lexer converts Newt source text into a gap-free token sequence.
//
// Every byte of the input belongs to exactly one token, trivia included, and
// the sequence always ends with a single zero-length EOF token. Tokens do not
// store offsets; a token's position is the sum of the lengths before it (see
// Source).
package lexer

import (
	"strings"

	"newt/interpreter-go/pkg/syntax"
)

// Token is a lexical unit: a kind plus the number of bytes it covers.
type Token struct {
	Kind syntax.Kind
	Len  int
}

var keywords = map[string]syntax.Kind{
	"let":    syntax.LetKw,
	"if":     syntax.IfKw,
	"else":   syntax.ElseKw,
	"while":  syntax.WhileKw,
	"fn":     syntax.FnKw,
	"return": syntax.ReturnKw,
	"true":   syntax.TrueKw,
	"false":  syntax.FalseKw,
	"null":   syntax.NullKw,
}

// LookupIdent classifies a scanned word. Keywords match case-insensitively;
// anything else is an Identifier.
func LookupIdent(word string) syntax.Kind {
	if kind, ok := keywords[strings.ToLower(word)]; ok {
		return kind
	}
	return syntax.Identifier
}
