package syntax

import (
	"fmt"
	"strings"
)

// Element is either a *Node or a *Token.
type Element interface {
	Kind() Kind
	Len() int
	Offset() int
	element()
}

// Node is an interior tree element. Nodes are immutable once built and own
// their children exclusively.
type Node struct {
	kind     Kind
	offset   int
	length   int
	children []Element
}

// Token is a leaf carrying the exact source text it covers.
type Token struct {
	kind   Kind
	offset int
	text   string
}

// NewNode builds a node from already-built children. The node's length is the
// sum of its children's lengths.
func NewNode(kind Kind, offset int, children []Element) *Node {
	length := 0
	for _, child := range children {
		length += child.Len()
	}
	return &Node{kind: kind, offset: offset, length: length, children: children}
}

// NewToken builds a leaf token.
func NewToken(kind Kind, offset int, text string) *Token {
	return &Token{kind: kind, offset: offset, text: text}
}

func (n *Node) Kind() Kind          { return n.kind }
func (n *Node) Len() int            { return n.length }
func (n *Node) Offset() int         { return n.offset }
func (n *Node) End() int            { return n.offset + n.length }
func (n *Node) Children() []Element { return n.children }
func (*Node) element()              {}

func (t *Token) Kind() Kind   { return t.kind }
func (t *Token) Len() int     { return len(t.text) }
func (t *Token) Offset() int  { return t.offset }
func (t *Token) End() int     { return t.offset + len(t.text) }
func (t *Token) Text() string { return t.text }
func (*Token) element()       {}

// IsTrivia reports whether the element is a trivia token.
func IsTrivia(el Element) bool {
	tok, ok := el.(*Token)
	return ok && tok.kind.IsTrivia()
}

// NonTrivia returns the children with trivia tokens filtered out.
func (n *Node) NonTrivia() []Element {
	out := make([]Element, 0, len(n.children))
	for _, child := range n.children {
		if !IsTrivia(child) {
			out = append(out, child)
		}
	}
	return out
}

// ChildNodes returns the node children in order.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for _, child := range n.children {
		if node, ok := child.(*Node); ok {
			out = append(out, node)
		}
	}
	return out
}

// ChildTokens returns the non-trivia token children in order.
func (n *Node) ChildTokens() []*Token {
	var out []*Token
	for _, child := range n.children {
		if tok, ok := child.(*Token); ok && !tok.kind.IsTrivia() {
			out = append(out, tok)
		}
	}
	return out
}

// NthNode returns the i-th node child, or nil when there are fewer.
func (n *Node) NthNode(i int) *Node {
	for _, child := range n.children {
		if node, ok := child.(*Node); ok {
			if i == 0 {
				return node
			}
			i--
		}
	}
	return nil
}

// FirstToken returns the first non-trivia token child of one of the given
// kinds, or nil.
func (n *Node) FirstToken(kinds ...Kind) *Token {
	for _, child := range n.children {
		tok, ok := child.(*Token)
		if !ok || tok.kind.IsTrivia() {
			continue
		}
		for _, k := range kinds {
			if tok.kind == k {
				return tok
			}
		}
	}
	return nil
}

// Text reconstructs the source covered by the node, trivia included.
func (n *Node) Text() string {
	var b strings.Builder
	n.writeText(&b)
	return b.String()
}

func (n *Node) writeText(b *strings.Builder) {
	for _, child := range n.children {
		switch c := child.(type) {
		case *Token:
			b.WriteString(c.text)
		case *Node:
			c.writeText(b)
		}
	}
}

// Walk visits every element depth-first in source order. Returning false from
// visit skips the element's children.
func Walk(el Element, visit func(el Element, depth int) bool) {
	walk(el, 0, visit)
}

func walk(el Element, depth int, visit func(Element, int) bool) {
	if !visit(el, depth) {
		return
	}
	if node, ok := el.(*Node); ok {
		for _, child := range node.children {
			walk(child, depth+1, visit)
		}
	}
}

// Tree is a lossless syntax tree for one compilation unit.
type Tree struct {
	root *Node
}

// NewTree wraps a materialised root node.
func NewTree(root *Node) *Tree {
	return &Tree{root: root}
}

func (t *Tree) Root() *Node { return t.root }

// Text reproduces the original source exactly.
func (t *Tree) Text() string {
	if t == nil || t.root == nil {
		return ""
	}
	return t.root.Text()
}

// HasErrors reports whether any Error node is present.
func (t *Tree) HasErrors() bool {
	found := false
	Walk(t.root, func(el Element, _ int) bool {
		if el.Kind() == Error {
			found = true
		}
		return !found
	})
	return found
}

// Display renders one `[start..end) Kind` line per element, tokens followed by
// their quoted text, children indented two spaces under their parent.
func (t *Tree) Display() string {
	var b strings.Builder
	Walk(t.root, func(el Element, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth))
		fmt.Fprintf(&b, "[%d..%d) %s", el.Offset(), el.Offset()+el.Len(), el.Kind())
		if tok, ok := el.(*Token); ok {
			fmt.Fprintf(&b, " '%s'", EscapeLexeme(tok.text))
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

var lexemeEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"'", `\'`,
)

// EscapeLexeme makes token text printable on one line inside single quotes.
func EscapeLexeme(s string) string {
	return lexemeEscaper.Replace(s)
}
