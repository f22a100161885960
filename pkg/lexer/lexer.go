package lexer

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"newt/interpreter-go/pkg/syntax"
)

// Lexer scans one source string. Create one with New; it is not safe to copy
// after first use.
type Lexer struct {
	input string
	pos   int
	done  bool
}

// New creates a lexer positioned at the start of input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Next returns the next token. After the EOF token has been returned, Next
// reports false.
func (l *Lexer) Next() (Token, bool) {
	if l.done {
		return Token{}, false
	}
	if l.pos >= len(l.input) {
		l.done = true
		return Token{Kind: syntax.EOF}, true
	}
	kind, n := l.scan(l.input[l.pos:])
	l.pos += n
	return Token{Kind: kind, Len: n}, true
}

// Tokens lazily yields the tokens of input. Each iteration restarts from the
// beginning.
func Tokens(input string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		l := New(input)
		for {
			tok, ok := l.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize returns the complete token sequence for input, EOF included.
func Tokenize(input string) []Token {
	tokens := make([]Token, 0, len(input)/2+1)
	for tok := range Tokens(input) {
		tokens = append(tokens, tok)
	}
	return tokens
}

type scanner func(s string) (syntax.Kind, int)

// literalScanners are tried in order; the first one that consumes input wins.
var literalScanners = []scanner{
	scanNumber,
	scanString,
	scanGlyph,
	scanWord,
}

// scan classifies the token at the start of s, which is never empty, and
// returns its kind and byte length. The result always consumes at least one
// byte.
func (l *Lexer) scan(s string) (syntax.Kind, int) {
	if n := whitespaceLen(s); n > 0 {
		return syntax.Whitespace, n
	}
	for _, scan := range literalScanners {
		if kind, n := scan(s); n > 0 {
			return kind, n
		}
	}
	if kind, n := scanPair(s); n > 0 {
		return kind, n
	}
	if kind, ok := singles[s[0]]; ok {
		return kind, 1
	}
	_, n := utf8.DecodeRuneInString(s)
	return syntax.Tombstone, n
}

func whitespaceLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsSpace(r) {
			break
		}
		n += size
	}
	return n
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func digitsLen(s string) int {
	n := 0
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	return n
}

// scanNumber matches digits with an optional single fractional part. A dot
// not followed by a digit is left for the next token.
func scanNumber(s string) (syntax.Kind, int) {
	n := digitsLen(s)
	if n == 0 {
		return syntax.Tombstone, 0
	}
	if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
		n++
		n += digitsLen(s[n:])
		return syntax.FloatLiteral, n
	}
	return syntax.IntLiteral, n
}

// scanQuoted matches a literal delimited by quote. A backslash escapes the
// following byte. Unterminated input becomes a tombstone covering everything
// consumed.
func scanQuoted(s string, quote byte, kind syntax.Kind) (syntax.Kind, int) {
	if s[0] != quote {
		return syntax.Tombstone, 0
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return kind, i + 1
		}
	}
	return syntax.Tombstone, len(s)
}

func scanString(s string) (syntax.Kind, int) {
	return scanQuoted(s, '"', syntax.StringLiteral)
}

func scanGlyph(s string) (syntax.Kind, int) {
	return scanQuoted(s, '\'', syntax.GlyphLiteral)
}

func isWordStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isWordContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanWord matches identifiers and keywords. A lone underscore is its own kind.
func scanWord(s string) (syntax.Kind, int) {
	r, size := utf8.DecodeRuneInString(s)
	if !isWordStart(r) {
		return syntax.Tombstone, 0
	}
	n := size
	for n < len(s) {
		r, size = utf8.DecodeRuneInString(s[n:])
		if !isWordContinue(r) {
			break
		}
		n += size
	}
	word := s[:n]
	if word == "_" {
		return syntax.Underscore, 1
	}
	return LookupIdent(word), n
}

var pairs = map[string]syntax.Kind{
	"==": syntax.EqEq,
	"!=": syntax.BangEq,
	">=": syntax.GtEq,
	"<=": syntax.LtEq,
	"&&": syntax.AmpAmp,
	"||": syntax.PipePipe,
}

// scanPair matches two-character operators and comments.
func scanPair(s string) (syntax.Kind, int) {
	if len(s) < 2 {
		return syntax.Tombstone, 0
	}
	head := s[:2]
	switch head {
	case "//":
		if end := strings.IndexByte(s, '\n'); end >= 0 {
			return syntax.CommentLine, end
		}
		return syntax.CommentLine, len(s)
	case "/*":
		if end := strings.Index(s[2:], "*/"); end >= 0 {
			return syntax.CommentBlock, end + 4
		}
		return syntax.Tombstone, len(s)
	}
	if kind, ok := pairs[head]; ok {
		return kind, 2
	}
	return syntax.Tombstone, 0
}

var singles = map[byte]syntax.Kind{
	'(': syntax.LParen,
	')': syntax.RParen,
	'{': syntax.LBrace,
	'}': syntax.RBrace,
	'[': syntax.LBracket,
	']': syntax.RBracket,
	',': syntax.Comma,
	'.': syntax.Dot,
	':': syntax.Colon,
	';': syntax.Semicolon,
	'=': syntax.Eq,
	'+': syntax.Plus,
	'-': syntax.Minus,
	'*': syntax.Star,
	'/': syntax.Slash,
	'>': syntax.Gt,
	'<': syntax.Lt,
	'|': syntax.Pipe,
	'&': syntax.Amp,
	'!': syntax.Bang,
}
