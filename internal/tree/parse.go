package tree

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrEmptyTree is returned when the input holds no bracketed tree
var ErrEmptyTree = errors.New("empty parse tree")

// Parse reads a bracketed Penn Treebank tree such as
// "(ROOT (S (NP (NNP Mario)) (VP (VBZ jumps)) (. .)))".
// An unlabeled outermost bracket is labeled ROOT.
func Parse(s string) (*Node, error) {
	p := &parser{tokens: tokenize(s)}
	if len(p.tokens) == 0 {
		return nil, ErrEmptyTree
	}

	n, err := p.node()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("unexpected %q after tree at token %d", p.tokens[p.pos], p.pos)
	}
	return n, nil
}

// MustParse is Parse for trees known to be well formed
func MustParse(s string) *Node {
	n, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return n
}

type parser struct {
	tokens []string
	pos    int
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

func (p *parser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *parser) node() (*Node, error) {
	tok, ok := p.next()
	if !ok || tok != "(" {
		return nil, fmt.Errorf("expected '(' at token %d, got %q", p.pos-1, tok)
	}

	label := LabelRoot
	if p.peek() != "(" {
		label, _ = p.next()
		if label == ")" {
			return nil, fmt.Errorf("empty bracket at token %d", p.pos-1)
		}
	}

	n := &Node{Label: label}
	for {
		switch p.peek() {
		case "":
			return nil, fmt.Errorf("unterminated %s node", label)
		case ")":
			p.pos++
			return n, nil
		case "(":
			child, err := p.node()
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		default:
			word, _ := p.next()
			n.Children = append(n.Children, Leaf(word))
		}
	}
}

func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '(' || r == ')':
			flush()
			tokens = append(tokens, string(r))
		case unicode.IsSpace(r):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}
