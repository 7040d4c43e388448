// Package tree models constituency parse trees and searches over them.
package tree

import "strings"

// Common Penn Treebank labels used by the extraction and question engines
const (
	LabelRoot     = "ROOT"
	LabelClause   = "S"
	LabelQuestion = "SBARQ"
	LabelInverted = "SQ"
	LabelNP       = "NP"
	LabelVP       = "VP"
	LabelPP       = "PP"
	LabelWHNP     = "WHNP"
	LabelWHADVP   = "WHADVP"
	LabelDT       = "DT"
	LabelPRP      = "PRP"
	LabelPOS      = "POS"
	LabelIN       = "IN"
	LabelTO       = "TO"
	LabelVB       = "VB"
	LabelVBN      = "VBN"
	LabelPunct    = "."
)

// Node is a constituent of a parse tree. A leaf carries a Word and has
// neither a Label nor Children.
type Node struct {
	Label    string
	Word     string
	Children []*Node
}

// New creates an internal node
func New(label string, children ...*Node) *Node {
	return &Node{Label: label, Children: children}
}

// Leaf creates a leaf token
func Leaf(word string) *Node {
	return &Node{Word: word}
}

// IsLeaf reports whether n is a token rather than a constituent
func (n *Node) IsLeaf() bool {
	return n.Label == "" && len(n.Children) == 0
}

// Leaves returns the tokens under n in order
func (n *Node) Leaves() []string {
	var words []string
	var walk func(*Node)
	walk = func(n *Node) {
		if n.IsLeaf() {
			words = append(words, n.Word)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	return words
}

// Text returns the detokenized surface text of n
func (n *Node) Text() string {
	return Detokenize(n.Leaves())
}

// Subtrees returns the non-leaf children of n
func (n *Node) Subtrees() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if !c.IsLeaf() {
			out = append(out, c)
		}
	}
	return out
}

// Copy returns a deep copy of n
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{Label: n.Label, Word: n.Word}
	if len(n.Children) > 0 {
		cp.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			cp.Children[i] = c.Copy()
		}
	}
	return cp
}

// Unwrap descends through single-child wrappers (ROOT, unary chains) and
// returns the first node with more than one child. It returns nil when the
// chain ends in a leaf.
func (n *Node) Unwrap() *Node {
	cur := n
	for len(cur.Children) == 1 {
		cur = cur.Children[0]
		if cur.IsLeaf() {
			return nil
		}
	}
	return cur
}

// String renders n in bracketed Treebank notation
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n.IsLeaf() {
		b.WriteString(n.Word)
		return
	}
	b.WriteByte('(')
	b.WriteString(n.Label)
	for _, c := range n.Children {
		b.WriteByte(' ')
		c.write(b)
	}
	b.WriteByte(')')
}
