package tree

import (
	"slices"
	"strings"
)

// Matcher selects nodes by label. It is either a fixed label set or a
// predicate over the label.
type Matcher struct {
	labels []string
	pred   func(string) bool
}

// Labels matches any of the given labels exactly
func Labels(labels ...string) Matcher {
	return Matcher{labels: labels}
}

// LabelFunc matches labels accepted by pred
func LabelFunc(pred func(string) bool) Matcher {
	return Matcher{pred: pred}
}

// VerbTag matches any verb part-of-speech tag (VB, VBD, VBZ, ...)
var VerbTag = LabelFunc(func(label string) bool {
	return strings.HasPrefix(label, "VB")
})

// NounTag matches any noun part-of-speech tag (NN, NNS, NNP, NNPS)
var NounTag = LabelFunc(func(label string) bool {
	return strings.HasPrefix(label, "NN")
})

// Match reports whether label is accepted
func (m Matcher) Match(label string) bool {
	if m.pred != nil {
		return m.pred(label)
	}
	return slices.Contains(m.labels, label)
}

// Find returns the occurrence-th node (1-based) among n's descendants whose
// label satisfies m. Nodes are visited level by level starting with n's
// immediate children, left to right; the match count carries over between
// levels. Without expand only the first level is searched. Leaves are never
// matched and are not expanded.
func Find(n *Node, m Matcher, occurrence int, expand bool) *Node {
	if n == nil {
		return nil
	}
	if occurrence < 1 {
		occurrence = 1
	}

	count := 0
	queue := [][]*Node{n.Subtrees()}
	for len(queue) > 0 {
		level := queue[0]
		queue = queue[1:]

		for _, node := range level {
			if m.Match(node.Label) {
				count++
				if count >= occurrence {
					return node
				}
			}
		}

		if !expand {
			break
		}

		var next []*Node
		for _, node := range level {
			next = append(next, node.Subtrees()...)
		}
		if len(next) > 0 {
			queue = append(queue, next)
		}
	}

	return nil
}

// FindFirst is Find for the first match
func FindFirst(n *Node, m Matcher, expand bool) *Node {
	return Find(n, m, 1, expand)
}
