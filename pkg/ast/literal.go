package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	errUnquoted  = errors.New("missing delimiters")
	errGlyphSize = errors.New("glyph must hold exactly one character")
)

// ParseInt decodes a decimal integer literal.
func ParseInt(text string) (int64, error) {
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return v, nil
}

// ParseFloat decodes a float literal.
func ParseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			return 0, numErr.Err
		}
		return 0, err
	}
	return v, nil
}

// UnquoteString strips the double quotes from a string literal and resolves
// its escapes.
func UnquoteString(text string) (string, error) {
	if len(text) < 2 || text[0] != '"' || text[len(text)-1] != '"' {
		return "", errUnquoted
	}
	return unescape(text[1 : len(text)-1])
}

// UnquoteGlyph decodes a single-quoted glyph literal.
func UnquoteGlyph(text string) (rune, error) {
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return 0, errUnquoted
	}
	body, err := unescape(text[1 : len(text)-1])
	if err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(body) != 1 {
		return 0, errGlyphSize
	}
	r, _ := utf8.DecodeRuneInString(body)
	return r, nil
}

var escapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
	'\\': '\\',
	'"':  '"',
	'\'': '\'',
}

func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", errors.New("dangling escape")
		}
		out, ok := escapes[s[i]]
		if !ok {
			return "", fmt.Errorf("unknown escape \\%c", s[i])
		}
		b.WriteByte(out)
	}
	return b.String(), nil
}
