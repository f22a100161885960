package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position converts a byte offset into a 1-based line and column. Columns
// count characters, not bytes. Offsets outside text are clamped.
func Position(text string, offset int) (line, col int) {
	offset = max(0, min(offset, len(text)))
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	col = utf8.RuneCountInString(before[lineStart:]) + 1
	return line, col
}

// Snippet renders one diagnostic with its source line, the line before and
// after it, and a caret underline of the span. Spans crossing a newline are
// underlined up to the end of their first line.
func Snippet(header, name, text string, offset, length int, msg string) string {
	line, col := Position(text, offset)
	lines := strings.Split(text, "\n")
	lineText := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineText)

	start := max(0, min(offset, len(text)))
	end := min(start+max(length, 0), len(text))
	if nl := strings.IndexByte(text[start:end], '\n'); nl >= 0 {
		end = start + nl
	}
	width := max(1, utf8.RuneCountInString(text[start:end]))
	fmt.Fprintf(&b, "     | %s%s\n", strings.Repeat(" ", col-1), strings.Repeat("^", width))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// Render formats every error against the source it came from, in order.
func Render(errs []ParseError, name, text string) string {
	var b strings.Builder
	for i, err := range errs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(Snippet("PARSE ERROR", name, text, err.Offset, err.Len, err.Error()))
	}
	return b.String()
}
