package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/model"
)

// Facts extracts relations from one annotated sentence. Pronouns and
// mentions of "game" resolve to placeholder. GameID is left empty for the
// caller to fill in.
func Facts(sent annotate.Sentence, placeholder string) []model.Relation {
	if sent.Tree == nil {
		return nil
	}

	var rels []model.Relation
	for c := range WalkClauses(sent.Tree, NewContext(placeholder)) {
		rels = append(rels, model.Relation{
			Subject:        strings.ToLower(c.Subject),
			Relation:       sent.NodeLemma(c.PredicateNode),
			Object:         strings.ToLower(c.Object),
			Extra:          c.Extra,
			OriginalPhrase: c.Node.Text(),
		})
	}
	return rels
}

// FactExtractor annotates free text and extracts its relations
type FactExtractor struct {
	annotator annotate.Annotator
	logger    *zap.Logger
}

// NewFactExtractor creates an extractor backed by a
func NewFactExtractor(a annotate.Annotator, logger *zap.Logger) *FactExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FactExtractor{annotator: a, logger: logger}
}

// Extract annotates text and returns the relations of every sentence
func (e *FactExtractor) Extract(ctx context.Context, text, placeholder string) ([]model.Relation, error) {
	sents, err := e.annotator.Annotate(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	var rels []model.Relation
	for _, s := range sents {
		found := Facts(s, placeholder)
		e.logger.Debug("extracted relations",
			zap.String("sentence", s.Text()),
			zap.Int("count", len(found)))
		rels = append(rels, found...)
	}
	return rels, nil
}

// Dedupe removes relations with a repeated key, keeping the first
func Dedupe(rels []model.Relation) []model.Relation {
	seen := make(map[model.RelationKey]bool)
	var unique []model.Relation

	for _, r := range rels {
		key := r.Key()
		if !seen[key] {
			seen[key] = true
			unique = append(unique, r)
		}
	}

	return unique
}

// ReplaceSubject renames subjects that refer to the placeholder ("it"
// included) to canonical. The input is not modified.
func ReplaceSubject(rels []model.Relation, placeholder, canonical string) []model.Relation {
	placeholder = strings.ToLower(placeholder)
	canonical = strings.ToLower(canonical)

	out := make([]model.Relation, len(rels))
	for i, r := range rels {
		if r.Subject == placeholder || r.Subject == "it" {
			r.Subject = canonical
		}
		out[i] = r
	}
	return out
}
