// Package interpret answers questions and records statements by walking
// the parse tree of a single sentence.
package interpret

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/annotate"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
	"github.com/ppiankov/gamelore/internal/tree"
)

// ReplyKind classifies the outcome of an utterance
type ReplyKind int

const (
	// ReplyText carries lines to show the user
	ReplyText ReplyKind = iota
	// ReplyHandled means the utterance changed what is remembered; Lines confirm it
	ReplyHandled
	// ReplyExit asks the session to end
	ReplyExit
	// ReplyInvalid means the input could not be interpreted at all
	ReplyInvalid
)

// Reply is the interpreter's answer to one utterance
type Reply struct {
	Kind  ReplyKind
	Lines []string
}

func text(lines ...string) Reply {
	return Reply{Kind: ReplyText, Lines: lines}
}

func handled(lines ...string) Reply {
	return Reply{Kind: ReplyHandled, Lines: lines}
}

// Transactor opens store transactions
type Transactor interface {
	Begin(ctx context.Context) (*store.Tx, error)
}

// Interpreter routes sentences to the question or statement path
type Interpreter struct {
	annotator annotate.Annotator
	store     Transactor
	logger    *zap.Logger

	// Identity is whom first-person statements are about
	Identity string
}

// New creates an interpreter
func New(a annotate.Annotator, st Transactor, logger *zap.Logger) *Interpreter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpreter{
		annotator: a,
		store:     st,
		logger:    logger,
		Identity:  model.SessionUser,
	}
}

var exitWords = map[string]bool{"quit": true, "exit": true, "q": true}

// IsExit reports whether line asks to end the session
func IsExit(line string) bool {
	return exitWords[strings.Trim(strings.ToLower(strings.TrimSpace(line)), ".!")]
}

// Process interprets one line of user input. The annotator splits the line
// into sentences and each gets its own reply, in order. Only annotation and
// store failures are returned as errors, together with the replies of the
// sentences handled before the failure.
func (i *Interpreter) Process(ctx context.Context, input string) ([]Reply, error) {
	if IsExit(input) {
		return []Reply{{Kind: ReplyExit}}, nil
	}
	if strings.TrimSpace(input) == "" {
		return []Reply{{Kind: ReplyInvalid}}, nil
	}

	sents, err := i.annotator.Annotate(ctx, input)
	if errors.Is(err, annotate.ErrNoSentences) {
		return []Reply{{Kind: ReplyInvalid}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("annotate: %w", err)
	}

	replies := make([]Reply, 0, len(sents))
	for _, sent := range sents {
		reply, err := i.Answer(ctx, sent)
		if err != nil {
			return replies, err
		}
		replies = append(replies, reply)
	}
	return replies, nil
}

// Answer interprets one annotated sentence. Store changes made while
// handling it are committed together, or not at all when an error is
// returned.
func (i *Interpreter) Answer(ctx context.Context, sent annotate.Sentence) (reply Reply, err error) {
	if IsExit(sent.Text()) {
		return Reply{Kind: ReplyExit}, nil
	}

	tx, err := i.store.Begin(ctx)
	if err != nil {
		return Reply{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	reply, err = i.interpret(ctx, tx, sent)
	if err != nil {
		return Reply{}, err
	}
	if err = tx.Commit(); err != nil {
		return Reply{}, fmt.Errorf("commit: %w", err)
	}
	return reply, nil
}

func (i *Interpreter) interpret(ctx context.Context, q store.Querier, sent annotate.Sentence) (Reply, error) {
	if sent.Tree == nil {
		return Reply{Kind: ReplyInvalid}, nil
	}
	root := sent.Tree.Unwrap()
	if root == nil {
		return Reply{Kind: ReplyInvalid}, nil
	}

	i.logger.Debug("interpreting", zap.String("label", root.Label), zap.String("tree", root.String()))

	if root.Label != tree.LabelQuestion {
		return i.statement(ctx, q, sent, root)
	}
	return i.question(ctx, q, sent, root)
}

func (i *Interpreter) identity() string {
	if i.Identity == "" {
		return model.SessionUser
	}
	return i.Identity
}
