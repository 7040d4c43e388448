package interpret

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/answer"
	"github.com/ppiankov/gamelore/internal/extract"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
	"github.com/ppiankov/gamelore/internal/tree"
)

const (
	msgNoFacts       = "I don't know any facts yet."
	msgRemembered    = "Got it, I'll remember that."
	msgNothingToKeep = "I couldn't pick out any facts from that."
	msgOnlyAboutYou  = `I only remember facts about you. Try starting with "I".`
	msgNotAQuestion  = "That doesn't look like a question... we currently only support questions"
)

var (
	tellVerbs  = map[string]bool{"tell": true, "give": true, "show": true}
	factNouns  = map[string]bool{"something": true, "fact": true, "anything": true, "trivia": true}
	listeners  = map[string]bool{"me": true, "us": true}
	firstParty = map[string]bool{"i": true, "we": true}
)

func (i *Interpreter) statement(ctx context.Context, q store.Querier, sent annotate.Sentence, clause *tree.Node) (Reply, error) {
	scope := tree.FindFirst(clause, tree.Labels(tree.LabelVP), false)
	if scope == nil {
		scope = clause
	}

	var verb string
	if vb := tree.FindFirst(scope, tree.VerbTag, false); vb != nil {
		verb = sent.NodeLemma(vb)
	}
	first := tree.Find(scope, tree.Labels(tree.LabelNP), 1, false)
	second := tree.Find(scope, tree.Labels(tree.LabelNP), 2, false)
	subject := tree.FindFirst(clause, tree.Labels(tree.LabelNP), false)

	i.logger.Debug("statement",
		zap.String("verb", verb),
		zap.Bool("has_subject", subject != nil))

	switch {
	case isFactRequest(sent, verb, first, second):
		return randomFact(ctx, q)

	case verb == "forget" && (isFirstPerson(subject) || (subject == nil && first != nil && lowerText(first) == "me")):
		return i.forget(ctx, q)

	case isFirstPerson(subject):
		return i.remember(ctx, q, sent)

	case subject != nil:
		return text(msgOnlyAboutYou), nil
	}
	return text(msgNotAQuestion), nil
}

// isFactRequest matches commands like "Tell me something" or "Give us a fact"
func isFactRequest(sent annotate.Sentence, verb string, to, what *tree.Node) bool {
	if !tellVerbs[verb] || to == nil || !listeners[lowerText(to)] {
		return false
	}
	return what == nil || factNouns[sent.NodeLemma(headNoun(what))]
}

func randomFact(ctx context.Context, q store.Querier) (Reply, error) {
	fact, err := q.RandomRelation(ctx)
	if err != nil {
		return Reply{}, err
	}
	if fact == nil {
		return text(msgNoFacts), nil
	}

	lines := []string{fmt.Sprintf("Did you know: %s?", answer.Fact(fact.Subject, fact.Relation, fact.Extra, fact.Object))}
	if fact.GameID != model.RealityID {
		game, err := q.GameByID(ctx, fact.GameID)
		if err != nil {
			return Reply{}, err
		}
		if game != nil {
			lines = append(lines, "Related to game: "+answer.Title(game.Name))
		}
	}
	return text(lines...), nil
}

func (i *Interpreter) forget(ctx context.Context, q store.Querier) (Reply, error) {
	who := i.identity()
	n, err := q.DeleteRelationsBySubject(ctx, who)
	if err != nil {
		return Reply{}, err
	}
	i.logger.Info("forgot facts", zap.String("subject", who), zap.Int("count", n))
	return handled(fmt.Sprintf("Okay, I forgot everything I knew about %s.", who)), nil
}

// remember stores the facts of a first-person statement. Objects naming a
// catalog game are linked to it.
func (i *Interpreter) remember(ctx context.Context, q store.Querier, sent annotate.Sentence) (Reply, error) {
	who := strings.ToLower(i.identity())

	var rels []model.Relation
	for _, r := range extract.Facts(sent, who) {
		if r.Subject != who {
			continue
		}
		r.GameID = model.RealityID
		games, err := q.FindGames(ctx, r.Object)
		if err != nil {
			return Reply{}, err
		}
		if len(games) > 0 {
			r.Object = strings.ToLower(games[0].Name)
			r.GameID = games[0].ID
		}
		rels = append(rels, r)
	}

	rels = extract.Dedupe(rels)
	if len(rels) == 0 {
		return text(msgNothingToKeep), nil
	}

	n, err := q.InsertRelations(ctx, rels)
	if err != nil {
		return Reply{}, err
	}
	i.logger.Info("remembered facts", zap.String("subject", who), zap.Int("new", n))
	return handled(msgRemembered), nil
}

func isFirstPerson(np *tree.Node) bool {
	return np != nil && firstParty[lowerText(np)]
}

func lowerText(n *tree.Node) string {
	return strings.ToLower(n.Text())
}
