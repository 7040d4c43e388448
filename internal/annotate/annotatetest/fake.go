// Package annotatetest provides an in-memory Annotator for tests.
package annotatetest

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/tree"
)

// Lemmas covers the inflected verbs and nouns used throughout the tests
var Lemmas = map[string]string{
	"is": "be", "was": "be", "are": "be", "were": "be", "'s": "be",
	"does": "do", "did": "do", "do": "do",
	"released": "release", "rated": "rate",
	"follows": "follow", "saves": "save", "features": "feature",
	"likes": "like", "like": "like", "rescues": "rescue", "forgot": "forget",
	"has": "have", "travels": "travel", "loves": "love", "plays": "play",
	"franchises": "franchise", "stories": "story", "ratings": "rating",
	"games": "game", "tell": "tell", "told": "tell", "gave": "give",
}

// Fake annotates text from a table of bracketed parses, one per sentence
type Fake struct {
	Parses   map[string][]string
	Mentions map[string][]annotate.Mention
	Errors   map[string]error
	Calls    int
}

// New returns an empty fake
func New() *Fake {
	return &Fake{
		Parses:   make(map[string][]string),
		Mentions: make(map[string][]annotate.Mention),
		Errors:   make(map[string]error),
	}
}

// Add registers the sentence parses for text and returns the fake for chaining
func (f *Fake) Add(text string, parses ...string) *Fake {
	f.Parses[text] = parses
	return f
}

// Annotate implements annotate.Annotator
func (f *Fake) Annotate(_ context.Context, text string) ([]annotate.Sentence, error) {
	f.Calls++
	if err, ok := f.Errors[text]; ok {
		return nil, err
	}
	parses, ok := f.Parses[text]
	if !ok {
		return nil, fmt.Errorf("annotatetest: no parse registered for %q", text)
	}
	if len(parses) == 0 {
		return nil, annotate.ErrNoSentences
	}

	sents := make([]annotate.Sentence, 0, len(parses))
	for _, parse := range parses {
		root, err := tree.Parse(parse)
		if err != nil {
			return nil, err
		}
		sents = append(sents, annotate.Sentence{
			Tree:     root,
			Tokens:   Tokens(root),
			Mentions: f.Mentions[text],
		})
	}
	return sents, nil
}

// Tokens derives tokens from a tree's preterminals, lemmatizing with Lemmas
func Tokens(root *tree.Node) []annotate.Token {
	var toks []annotate.Token
	var walk func(*tree.Node)
	walk = func(n *tree.Node) {
		if len(n.Children) == 1 && n.Children[0].IsLeaf() {
			word := n.Children[0].Word
			lemma, ok := Lemmas[strings.ToLower(word)]
			if !ok {
				lemma = strings.ToLower(word)
			}
			toks = append(toks, annotate.Token{
				Index: len(toks) + 1,
				Word:  word,
				Lemma: lemma,
				POS:   n.Label,
			})
			return
		}
		for _, c := range n.Children {
			if !c.IsLeaf() {
				walk(c)
			}
		}
	}
	walk(root)
	return toks
}

// Sentence builds an annotated sentence straight from a parse
func Sentence(parse string) annotate.Sentence {
	root := tree.MustParse(parse)
	return annotate.Sentence{Tree: root, Tokens: Tokens(root)}
}
