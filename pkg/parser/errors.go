package parser

import (
	"fmt"

	"newt/interpreter-go/pkg/syntax"
)

// ErrorKind classifies parse diagnostics. None of them stop the parse.
type ErrorKind int

const (
	UnexpectedToken ErrorKind = iota
	MissingSyntax
	InvalidToken
	InvalidLiteral
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "unexpected token"
	case MissingSyntax:
		return "missing syntax"
	case InvalidToken:
		return "invalid token"
	case InvalidLiteral:
		return "invalid literal"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError locates one problem by byte span.
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Expected syntax.Kind
	Actual   syntax.Kind
	Offset   int
	Len      int
}

func (e ParseError) Error() string {
	switch e.Kind {
	case UnexpectedToken, MissingSyntax:
		return fmt.Sprintf("%s, found %s", e.Message, e.Actual.Describe())
	default:
		return e.Message
	}
}
