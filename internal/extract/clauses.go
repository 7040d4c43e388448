// Package extract turns parse trees into subject-relation-object facts.
package extract

import (
	"iter"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/tree"
)

// Context carries discourse state across the clauses of one walk
type Context struct {
	// Referent is the most recent subject noun phrase; "it" and first person
	// pronouns resolve to it
	Referent *tree.Node
	// Recent is the most recent noun phrase, subject or object; he, she and
	// they resolve to it
	Recent *tree.Node
	// Origin is what "game" and "video game" resolve to
	Origin *tree.Node
	Logger *zap.Logger
}

// NewContext starts a walk where pronouns and "game" refer to placeholder
func NewContext(placeholder string) *Context {
	origin := tree.New(tree.LabelNP, tree.Leaf(placeholder))
	return &Context{
		Referent: origin,
		Recent:   origin,
		Origin:   origin,
		Logger:   zap.NewNop(),
	}
}

// Clause is one candidate fact found in a tree
type Clause struct {
	Subject   string
	Predicate string
	Object    string
	Extra     string

	PredicateNode *tree.Node
	// Node is the constituent that contained the subject and verb phrase
	Node *tree.Node
}

// WalkClauses lazily yields the clauses of root
func WalkClauses(root *tree.Node, ctx *Context) iter.Seq[Clause] {
	return func(yield func(Clause) bool) {
		if root == nil {
			return
		}
		if ctx == nil {
			ctx = NewContext("")
		}
		if ctx.Logger == nil {
			ctx.Logger = zap.NewNop()
		}
		walk(root, ctx, yield)
	}
}

func walk(n *tree.Node, ctx *Context, yield func(Clause) bool) bool {
	var np, vp *tree.Node

	for _, child := range n.Subtrees() {
		switch child.Label {
		case tree.LabelClause:
			if !walk(child, ctx, yield) {
				return false
			}
			np, vp = nil, nil

		case tree.LabelNP:
			phrase := ctx.substitute(stripDeterminer(child.Copy()))
			if np != nil {
				phrase = tree.New(tree.LabelNP, np, phrase)
			}
			np = phrase
			ctx.Referent = np
			ctx.Recent = np
			vp = nil

		case tree.LabelVP:
			if np == nil {
				continue
			}
			if vp != nil {
				ctx.Logger.Debug("adjacent verb phrases", zap.String("tree", n.String()))
			}
			vp = child

			pred, obj, extra, ok := splitVerbPhrase(child)
			if !ok {
				continue
			}
			for _, subject := range subjects(np) {
				c := Clause{
					Subject:       subject,
					Predicate:     pred.Text(),
					Object:        obj,
					Extra:         extra,
					PredicateNode: pred,
					Node:          n,
				}
				if !yield(c) {
					return false
				}
			}
			np = nil
			if extra == "" {
				if objNP := tree.FindFirst(child, tree.Labels(tree.LabelNP), false); objNP != nil {
					ctx.Recent = ctx.substitute(objNP.Copy())
				}
			}

		default:
			if !walk(child, ctx, yield) {
				return false
			}
		}
	}
	return true
}

// stripDeterminer drops the first direct DT child of np
func stripDeterminer(np *tree.Node) *tree.Node {
	for i, c := range np.Children {
		if c.Label == tree.LabelDT {
			np.Children = append(np.Children[:i], np.Children[i+1:]...)
			break
		}
	}
	return np
}

// substitute replaces pronouns with the referent and "game" with the origin.
// n must already be a private copy; the context's nodes are copied in.
func (ctx *Context) substitute(n *tree.Node) *tree.Node {
	for i, c := range n.Children {
		if c.IsLeaf() {
			continue
		}
		switch {
		case c.Label == tree.LabelPRP && personalPronouns[strings.ToLower(c.Text())]:
			if ctx.Recent != nil {
				n.Children[i] = ctx.Recent.Copy()
			}
		case c.Label == tree.LabelPRP:
			if ctx.Referent != nil {
				n.Children[i] = ctx.Referent.Copy()
			}
		case isGameWord(c.Text()):
			if ctx.Origin != nil {
				n.Children[i] = ctx.Origin.Copy()
			}
		default:
			ctx.substitute(c)
		}
	}
	return n
}

var personalPronouns = map[string]bool{
	"he": true, "she": true, "they": true,
	"him": true, "her": true, "them": true,
}

func isGameWord(s string) bool {
	return s == "game" || s == "video game"
}

// splitVerbPhrase finds the predicate verb and the object of vp. A
// prepositional object has its leading preposition moved into extra.
func splitVerbPhrase(vp *tree.Node) (pred *tree.Node, object, extra string, ok bool) {
	var obj *tree.Node
	for _, c := range vp.Subtrees() {
		switch {
		case tree.VerbTag.Match(c.Label):
			if pred == nil {
				pred = c
			}
		case c.Label == tree.LabelNP && obj == nil:
			obj = c
		case c.Label == tree.LabelPP && obj == nil:
			obj = c.Copy()
			for i, pc := range obj.Children {
				if pc.Label == tree.LabelIN || pc.Label == tree.LabelTO {
					extra = pc.Text()
					obj.Children = append(obj.Children[:i], obj.Children[i+1:]...)
					break
				}
			}
		}
		if pred != nil && obj != nil {
			break
		}
	}
	if pred == nil || obj == nil {
		return nil, "", "", false
	}

	object = obj.Text()
	if object == "" {
		return nil, "", "", false
	}
	return pred, object, extra, true
}

// subjects returns the distinct readings of a subject phrase: the phrase
// itself and every noun phrase nested in it without crossing another noun
// phrase or a verb phrase.
func subjects(np *tree.Node) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(n *tree.Node) {
		s := n.Text()
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	add(np)
	var collect func(*tree.Node)
	collect = func(n *tree.Node) {
		for _, c := range n.Subtrees() {
			switch c.Label {
			case tree.LabelNP:
				add(c)
			case tree.LabelVP:
			default:
				collect(c)
			}
		}
	}
	collect(np)
	return out
}
