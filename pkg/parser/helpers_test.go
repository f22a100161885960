package parser

import "newt/interpreter-go/pkg/lexer"

func sourceOf(text string) *lexer.Source {
	return lexer.NewSource(text)
}
