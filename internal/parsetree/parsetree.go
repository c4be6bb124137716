// Package parsetree defines the generic, untyped parse tree the parser
// produces. It stands in for the external grammar-generator output the
// original toolchain consumed: a single Node shape labelled by a string
// Kind, with positional children and optional leaf text, that the AST
// builder then interprets into the semantic tree.
package parsetree

import (
	"strings"

	"github.com/novac-lang/novac/internal/position"
)

// Node is one production or token match in the parse tree. Leaf nodes
// (Kind == "Ident", "IntLit", ...) carry Text/IntVal/etc and no children;
// interior nodes carry an ordered Children slice and no leaf payload.
type Node struct {
	Kind     string
	Span     position.Span
	Children []*Node

	// Leaf payload, populated only for token-level nodes.
	Text     string
	IntVal   int64
	FloatVal float64
	CharVal  byte
}

// New creates an interior node with the given children.
func New(kind string, span position.Span, children ...*Node) *Node {
	return &Node{Kind: kind, Span: span, Children: children}
}

// Leaf creates a token-level node carrying text.
func Leaf(kind, text string, span position.Span) *Node {
	return &Node{Kind: kind, Span: span, Text: text}
}

// Child returns the i'th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Find returns the first direct child with the given Kind, or nil.
func (n *Node) Find(kind string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// FindAll returns every direct child with the given Kind.
func (n *Node) FindAll(kind string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Dump renders an indented outline of the tree, useful for debugging a
// builder pass without attaching a full pretty-printer.
func (n *Node) Dump() string {
	var b strings.Builder
	n.dump(&b, 0)
	return b.String()
}

func (n *Node) dump(b *strings.Builder, depth int) {
	if n == nil {
		return
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind)
	if n.Text != "" {
		b.WriteString(" ")
		b.WriteString(n.Text)
	}
	b.WriteString("\n")
	for _, c := range n.Children {
		c.dump(b, depth+1)
	}
}
