// Package ingest extracts relations from the summaries and stories of
// catalog games and stores them.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/extract"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
	"github.com/ppiankov/gamelore/internal/worker"
)

// ErrGameNotFound is reported for requested ids missing from the catalog
var ErrGameNotFound = errors.New("game not found")

// Ingester turns catalog text into stored relations
type Ingester struct {
	annotator    annotate.Annotator
	store        *store.Store
	batch        *worker.BatchProcessor
	logger       *zap.Logger
	longSentence int
}

// New creates an ingester
func New(a annotate.Annotator, st *store.Store, cfg model.IngestConfig, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		annotator:    a,
		store:        st,
		batch:        worker.NewBatchProcessor(logger),
		logger:       logger,
		longSentence: cfg.LongSentence,
	}
}

// GameResult reports the ingestion of one game
type GameResult struct {
	GameID    string
	Name      string
	Sentences int // sentences sent for annotation
	Failed    int // sentences the annotator rejected
	Extracted int // distinct relations found
	Inserted  int // relations not already stored
	Error     error
}

// GetError returns the error that stopped the game's ingestion
func (r *GameResult) GetError() error {
	return r.Error
}

// Summary totals a run
type Summary struct {
	Games     int
	Errors    int
	Sentences int
	Failed    int
	Inserted  int
}

type gameJob struct {
	ingester *Ingester
	game     *model.Game
	id       string
}

func (j *gameJob) Execute(ctx context.Context) worker.Result {
	if j.game == nil {
		return &GameResult{GameID: j.id, Error: fmt.Errorf("%s: %w", j.id, ErrGameNotFound)}
	}
	return j.ingester.Game(ctx, *j.game)
}

// Run ingests the games with the given ids, or every game when ids is empty
func (in *Ingester) Run(ctx context.Context, ids []string) ([]*GameResult, Summary, error) {
	var jobs []worker.Job
	if len(ids) == 0 {
		games, err := in.store.ListGames(ctx)
		if err != nil {
			return nil, Summary{}, err
		}
		for i := range games {
			jobs = append(jobs, &gameJob{ingester: in, game: &games[i], id: games[i].ID})
		}
	} else {
		for _, id := range ids {
			g, err := in.store.GameByID(ctx, id)
			if err != nil {
				return nil, Summary{}, err
			}
			jobs = append(jobs, &gameJob{ingester: in, game: g, id: id})
		}
	}

	results, err := in.batch.Process(ctx, jobs)

	var sum Summary
	out := make([]*GameResult, len(results))
	for i, r := range results {
		gr := r.(*GameResult)
		out[i] = gr
		sum.Games++
		sum.Sentences += gr.Sentences
		sum.Failed += gr.Failed
		sum.Inserted += gr.Inserted
		if gr.Error != nil {
			sum.Errors++
		}
	}
	return out, sum, err
}

// Game ingests one game's summary and story. Sentences the annotator fails
// on are logged and skipped. The game's relations are stored in one
// transaction, so re-ingesting a game adds nothing new.
func (in *Ingester) Game(ctx context.Context, g model.Game) *GameResult {
	res := &GameResult{GameID: g.ID, Name: g.Name}
	log := in.logger.With(zap.String("game", g.ID))

	var rels []model.Relation
	for _, field := range []string{g.Summary, g.Story} {
		text, err := extract.VisibleText(field)
		if err != nil {
			res.Error = fmt.Errorf("read text: %w", err)
			return res
		}

		for _, s := range extract.SplitSentences(text, in.longSentence) {
			res.Sentences++
			sents, err := in.annotator.Annotate(ctx, s)
			if err != nil {
				if ctx.Err() != nil {
					res.Error = ctx.Err()
					return res
				}
				res.Failed++
				log.Warn("skipping sentence", zap.String("sentence", s), zap.Error(err))
				continue
			}
			for _, sent := range sents {
				rels = append(rels, extract.Facts(sent, g.Name)...)
			}
		}
	}

	rels = extract.ReplaceSubject(rels, g.Name, g.Name)
	for i := range rels {
		rels[i].GameID = g.ID
	}
	rels = extract.Dedupe(rels)
	res.Extracted = len(rels)

	n, err := in.save(ctx, rels)
	res.Inserted = n
	res.Error = err
	log.Info("ingested game",
		zap.Int("sentences", res.Sentences),
		zap.Int("failed", res.Failed),
		zap.Int("relations", res.Extracted),
		zap.Int("new", n))
	return res
}

func (in *Ingester) save(ctx context.Context, rels []model.Relation) (n int, err error) {
	if len(rels) == 0 {
		return 0, nil
	}

	tx, err := in.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	n, err = tx.InsertRelations(ctx, rels)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
