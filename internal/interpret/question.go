package interpret

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/answer"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
	"github.com/ppiankov/gamelore/internal/tree"
)

const (
	msgNotQuestionMark = "Are you sure that's a question? Questions usually end with question marks, don't they?"
	msgNoQuestionWord  = "No question word found"
	msgNoQuery         = "Couldn't find a query in your question"
	msgIncomplete      = "Your question doesn't appear to be complete"
	msgNoTarget        = "Couldn't find what you're asking about"
	msgDontKnow        = "I don't know much about that."
)

var supportedWords = map[string]bool{
	"what": true, "which": true, "who": true, "how": true, "when": true,
}

var whTags = tree.Labels("WDT", "WP", "WP$", "WRB")

// query is what a question asks, taken apart
type query struct {
	word      string // wh-word, lowercased
	object    string // lemma of the noun in the wh-phrase ("franchise")
	clause    *tree.Node
	predicate string // lemma of the main verb
	target    *tree.Node
	phrase    string // surface text of target
}

func (i *Interpreter) question(ctx context.Context, q store.Querier, sent annotate.Sentence, root *tree.Node) (Reply, error) {
	punct := tree.FindFirst(root, tree.Labels(tree.LabelPunct), false)
	if punct == nil || punct.Text() != "?" {
		return text(msgNotQuestionMark), nil
	}

	wh := tree.FindFirst(root, tree.Labels(tree.LabelWHNP, tree.LabelWHADVP), false)
	if wh == nil {
		return text(msgNoQuestionWord), nil
	}

	qu := query{word: whWord(wh)}
	if noun := tree.FindFirst(wh, tree.NounTag, true); noun != nil {
		qu.object = sent.NodeLemma(noun)
	}
	if !supportedWords[qu.word] {
		return text(fmt.Sprintf("\"%s\" is not supported", qu.word)), nil
	}

	qu.clause = tree.FindFirst(root, tree.Labels(tree.LabelInverted), false)
	if qu.clause == nil {
		return text(msgNoQuery), nil
	}

	// skip do-support to reach the main verb
	for n := 1; ; n++ {
		vb := tree.Find(qu.clause, tree.VerbTag, n, true)
		if vb == nil {
			return text(msgIncomplete), nil
		}
		if lemma := sent.NodeLemma(vb); lemma != "do" {
			qu.predicate = lemma
			break
		}
	}

	qu.target = tree.FindFirst(qu.clause, tree.Labels(tree.LabelNP), false)
	if qu.target == nil {
		return text(msgNoTarget), nil
	}
	qu.phrase = qu.target.Text()

	if qu.object == "" && tree.FindFirst(qu.target, tree.Labels(tree.LabelPOS), true) != nil {
		qu.object = sent.NodeLemma(lastPreterminal(qu.target))
	}

	i.logger.Debug("question",
		zap.String("word", qu.word),
		zap.String("object", qu.object),
		zap.String("predicate", qu.predicate),
		zap.String("target", qu.phrase))

	games, err := resolveGames(ctx, q, sent, qu.target)
	if err != nil {
		return Reply{}, err
	}
	if len(games) > 0 {
		if err := q.SetMetadata(ctx, model.SessionLastGame, games[0].ID); err != nil {
			return Reply{}, err
		}
	}

	var lines []string
	switch qu.word {
	case "when":
		lines, err = i.whenAnswer(sent, qu, games)
	case "how":
		lines, err = i.howAnswer(ctx, q, sent, qu, games)
	default:
		lines, err = i.whatAnswer(ctx, q, qu, games)
	}
	if err != nil {
		return Reply{}, err
	}

	if len(lines) == 0 {
		return text(msgDontKnow), nil
	}
	return text(lines...), nil
}

func notFound(phrase string) string {
	return "I couldn't find any game called " + phrase
}

func (i *Interpreter) whenAnswer(sent annotate.Sentence, qu query, games []model.Game) ([]string, error) {
	if !hasParticiple(sent, qu.clause, "release") {
		return nil, nil
	}
	if len(games) == 0 {
		return []string{notFound(qu.phrase)}, nil
	}

	var lines []string
	for _, g := range games {
		title := answer.Title(g.Name)
		if g.ReleaseDate != nil {
			lines = append(lines, fmt.Sprintf("%s was released on %s", title, answer.Date(*g.ReleaseDate)))
		} else {
			lines = append(lines, fmt.Sprintf("I don't know when %s was released", title))
		}
	}
	return lines, nil
}

func (i *Interpreter) howAnswer(ctx context.Context, q store.Querier, sent annotate.Sentence, qu query, games []model.Game) ([]string, error) {
	if len(games) == 0 {
		return []string{notFound(qu.phrase)}, nil
	}
	game := games[0]

	if asksRating(sent, qu) {
		return []string{ratingLine(game)}, nil
	}

	rels, err := q.FindRelations(ctx, store.RelationFilter{Subject: "there", Relation: "be", GameID: game.ID})
	if err != nil {
		return nil, err
	}
	return renderRelations(rels), nil
}

func asksRating(sent annotate.Sentence, qu query) bool {
	if hasParticiple(sent, qu.clause, "rate") {
		return true
	}
	if qu.predicate != "be" {
		return false
	}
	second := tree.Find(qu.clause, tree.Labels(tree.LabelNP), 2, true)
	return second != nil && sent.NodeLemma(headNoun(second)) == "rating"
}

func (i *Interpreter) whatAnswer(ctx context.Context, q store.Querier, qu query, games []model.Game) ([]string, error) {
	if len(games) > 0 {
		lines, err := objectAnswer(ctx, q, qu.object, games[0])
		if err != nil || len(lines) > 0 {
			return lines, err
		}
	}

	rels, err := q.FindRelations(ctx, store.RelationFilter{SubjectContains: qu.phrase, Relation: qu.predicate})
	if err != nil {
		return nil, err
	}
	return renderRelations(rels), nil
}

// objectAnswer answers questions about a field of the game, such as
// "What is Minecraft's story?"
func objectAnswer(ctx context.Context, q store.Querier, object string, game model.Game) ([]string, error) {
	switch object {
	case "franchise":
		fs, err := q.FranchisesOf(ctx, game.ID)
		if err != nil || len(fs) == 0 {
			return nil, err
		}
		names := make([]string, len(fs))
		for n, f := range fs {
			names[n] = answer.Title(f.Name)
		}
		noun := "franchise"
		if len(fs) > 1 {
			noun = "franchises"
		}
		return []string{fmt.Sprintf("%s is part of the %s %s", answer.Title(game.Name), answer.JoinList(names), noun)}, nil
	case "story":
		if game.Story != "" {
			return []string{game.Story}, nil
		}
	case "description", "summary":
		if game.Summary != "" {
			return []string{game.Summary}, nil
		}
	case "rating":
		return []string{ratingLine(game)}, nil
	case "game":
		// listing the games of a franchise is not supported
	}
	return nil, nil
}

func ratingLine(g model.Game) string {
	title := answer.Title(g.Name)
	if !g.HasRating() {
		return fmt.Sprintf("I don't know how %s is rated", title)
	}
	return fmt.Sprintf("%s is rated %s out of 100", title, strconv.FormatFloat(g.Rating, 'f', -1, 64))
}

func renderRelations(rels []model.Relation) []string {
	lines := make([]string, 0, len(rels))
	for _, r := range rels {
		lines = append(lines, answer.Fact(r.Subject, r.Relation, r.Extra, r.Object))
	}
	return lines
}
