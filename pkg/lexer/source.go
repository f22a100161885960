package lexer

import "newt/interpreter-go/pkg/syntax"

// Source is a random-access view over a token sequence and the text it was
// scanned from. Indexes past the end behave like EOF.
type Source struct {
	text    string
	tokens  []Token
	offsets []int
}

// NewSource tokenizes text and precomputes each token's absolute offset.
func NewSource(text string) *Source {
	return FromTokens(text, Tokenize(text))
}

// FromTokens wraps an existing token sequence for text.
func FromTokens(text string, tokens []Token) *Source {
	offsets := make([]int, len(tokens))
	pos := 0
	for i, tok := range tokens {
		offsets[i] = pos
		pos += tok.Len
	}
	return &Source{text: text, tokens: tokens, offsets: offsets}
}

// Len returns the number of tokens, EOF included.
func (s *Source) Len() int { return len(s.tokens) }

// Text returns the full source text.
func (s *Source) Text() string { return s.text }

// Token returns the token at i, or a zero-length EOF past the end.
func (s *Source) Token(i int) Token {
	if i < 0 || i >= len(s.tokens) {
		return Token{Kind: syntax.EOF}
	}
	return s.tokens[i]
}

// Kind returns the kind of the token at i.
func (s *Source) Kind(i int) syntax.Kind {
	return s.Token(i).Kind
}

// Token2 returns the tokens at i and i+1, or false when either is out of range.
func (s *Source) Token2(i int) ([2]Token, bool) {
	if i < 0 || i+1 >= len(s.tokens) {
		return [2]Token{}, false
	}
	return [2]Token{s.tokens[i], s.tokens[i+1]}, true
}

// Token3 returns the tokens at i, i+1 and i+2, or false when any is out of range.
func (s *Source) Token3(i int) ([3]Token, bool) {
	if i < 0 || i+2 >= len(s.tokens) {
		return [3]Token{}, false
	}
	return [3]Token{s.tokens[i], s.tokens[i+1], s.tokens[i+2]}, true
}

// Offset returns the absolute byte offset of the token at i. Past the end it
// returns the length of the text.
func (s *Source) Offset(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(s.offsets) {
		return len(s.text)
	}
	return s.offsets[i]
}

// Lexeme returns the source text covered by the token at i.
func (s *Source) Lexeme(i int) string {
	if i < 0 || i >= len(s.tokens) {
		return ""
	}
	start := s.offsets[i]
	return s.text[start : start+s.tokens[i].Len]
}
