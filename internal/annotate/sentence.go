// Package annotate talks to a CoreNLP-compatible annotation server and
// exposes its output as parse trees, tokens and entity mentions.
package annotate

import (
	"context"
	"slices"
	"strings"

	"github.com/ppiankov/gamelore/internal/tree"
)

// Annotator turns raw text into annotated sentences
type Annotator interface {
	Annotate(ctx context.Context, text string) ([]Sentence, error)
}

// Token is a single annotated word
type Token struct {
	Index int    `json:"index"`
	Word  string `json:"word"`
	Lemma string `json:"lemma"`
	POS   string `json:"pos"`
	NER   string `json:"ner,omitempty"`
}

// Mention is a recognized named entity
type Mention struct {
	Text string `json:"text"`
	NER  string `json:"ner"`
}

// Sentence is the annotation of one sentence
type Sentence struct {
	Tree     *tree.Node
	Tokens   []Token
	Mentions []Mention
}

// NameCategories are the entity categories used to resolve game names.
// Game titles are usually tagged as people or places.
var NameCategories = []string{"PERSON", "LOCATION", "CITY", "COUNTRY", "STATE_OR_PROVINCE"}

// Lemma returns the lemma of word tagged as tag. The exact word and tag
// pair is preferred, then any token with the same word. Without a match
// the word itself is returned.
func (s Sentence) Lemma(word, tag string) string {
	var fallback string
	for _, tok := range s.Tokens {
		if tok.Word != word || tok.Lemma == "" {
			continue
		}
		if tok.POS == tag {
			return tok.Lemma
		}
		if fallback == "" {
			fallback = tok.Lemma
		}
	}
	if fallback != "" {
		return fallback
	}
	return word
}

// NodeLemma is Lemma for a preterminal node, lowercased
func (s Sentence) NodeLemma(n *tree.Node) string {
	if n == nil {
		return ""
	}
	return strings.ToLower(s.Lemma(n.Text(), n.Label))
}

// MentionsOf returns mentions whose category is one of categories
func (s Sentence) MentionsOf(categories ...string) []Mention {
	var out []Mention
	for _, m := range s.Mentions {
		if slices.Contains(categories, m.NER) {
			out = append(out, m)
		}
	}
	return out
}

// Text returns the sentence's surface text
func (s Sentence) Text() string {
	if s.Tree == nil {
		return ""
	}
	return s.Tree.Text()
}
