package interpret

import (
	"context"
	"strings"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
	"github.com/ppiankov/gamelore/internal/tree"
)

// whWord returns the lowercased question word of a wh-phrase
func whWord(wh *tree.Node) string {
	if n := tree.FindFirst(wh, whTags, true); n != nil {
		return strings.ToLower(n.Text())
	}
	if leaves := wh.Leaves(); len(leaves) > 0 {
		return strings.ToLower(leaves[0])
	}
	return ""
}

// candidates lists the names a target phrase may refer to, most specific
// first: the whole phrase, the owner of a possessive, and the phrase
// without a trailing prepositional modifier together with that modifier's
// object.
func candidates(target *tree.Node) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(target.Text())

	if owner := beforePossessive(target); len(owner) > 0 {
		add(tree.Detokenize(owner))
	}

	if n := len(target.Children); n > 1 && target.Children[n-1].Label == tree.LabelPP {
		head := tree.New(target.Label, target.Children[:n-1]...)
		add(head.Text())
		if obj := tree.FindFirst(target.Children[n-1], tree.Labels(tree.LabelNP), false); obj != nil {
			add(obj.Text())
		}
	}

	return out
}

// beforePossessive returns the words preceding the first possessive marker
func beforePossessive(n *tree.Node) []string {
	var words []string
	found := false
	var walk func(*tree.Node)
	walk = func(n *tree.Node) {
		if found {
			return
		}
		if n.Label == tree.LabelPOS {
			found = true
			return
		}
		if n.IsLeaf() {
			words = append(words, n.Word)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(n)
	if !found {
		return nil
	}
	return words
}

// resolveGames finds the catalog games target refers to. Each candidate
// name is tried in turn, then the sentence's named entities.
func resolveGames(ctx context.Context, q store.Querier, sent annotate.Sentence, target *tree.Node) ([]model.Game, error) {
	names := candidates(target)
	for _, m := range sent.MentionsOf(annotate.NameCategories...) {
		names = append(names, m.Text)
	}

	for _, name := range names {
		games, err := q.FindGames(ctx, name)
		if err != nil {
			return nil, err
		}
		if len(games) > 0 {
			return games, nil
		}
	}
	return nil, nil
}

// hasParticiple reports whether clause contains a past participle with lemma
func hasParticiple(sent annotate.Sentence, clause *tree.Node, lemma string) bool {
	vbn := tree.Labels(tree.LabelVBN)
	for n := 1; ; n++ {
		node := tree.Find(clause, vbn, n, true)
		if node == nil {
			return false
		}
		if sent.NodeLemma(node) == lemma {
			return true
		}
	}
}

// lastPreterminal returns the tag node of the last word under n
func lastPreterminal(n *tree.Node) *tree.Node {
	var last *tree.Node
	var walk func(*tree.Node)
	walk = func(n *tree.Node) {
		if len(n.Children) == 1 && n.Children[0].IsLeaf() {
			last = n
			return
		}
		for _, c := range n.Children {
			if !c.IsLeaf() {
				walk(c)
			}
		}
	}
	walk(n)
	return last
}

// headNoun returns the last noun under np, or its last word when it has none
func headNoun(np *tree.Node) *tree.Node {
	var head *tree.Node
	var walk func(*tree.Node)
	walk = func(n *tree.Node) {
		for _, c := range n.Subtrees() {
			if tree.NounTag.Match(c.Label) {
				head = c
			}
			walk(c)
		}
	}
	walk(np)
	if head == nil {
		return lastPreterminal(np)
	}
	return head
}
