// Package session runs the interactive question-and-answer loop.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ppiankov/gamelore/internal/interpret"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
)

const (
	msgInvalid = "Invalid input; please try again."
	msgAskName = "What's your name?"
	msgBye     = "Goodbye!"
)

// Session is one conversation with a user
type Session struct {
	interp      *interpret.Interpreter
	meta        store.Querier
	logger      *zap.Logger
	defaultUser string

	// ID identifies the conversation in stored metadata
	ID string
}

// New creates a session. defaultUser is used when the user gives no name.
func New(interp *interpret.Interpreter, meta store.Querier, defaultUser string, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultUser == "" {
		defaultUser = model.SessionUser
	}
	return &Session{
		interp:      interp,
		meta:        meta,
		logger:      logger,
		defaultUser: defaultUser,
		ID:          uuid.NewString(),
	}
}

// Run reads lines from in until the user quits or in is exhausted. Each
// sentence of a line is answered separately. Annotation and store failures
// end the loop with an error.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	lines := bufio.NewScanner(in)
	say := func(format string, a ...any) {
		_, _ = fmt.Fprintf(out, format+"\n", a...)
	}

	if err := s.meta.SetMetadata(ctx, model.SessionID, s.ID); err != nil {
		return err
	}

	user, ok, err := s.meta.GetMetadata(ctx, model.SessionUser)
	if err != nil {
		return err
	}
	if !ok {
		if user, err = s.login(ctx, lines, out); err != nil {
			return err
		}
	}
	s.interp.Identity = user
	say("Hi %s! Ask me about video games. Type \"quit\" to quit.", user)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		_, _ = fmt.Fprint(out, "> ")
		if !lines.Scan() {
			return lines.Err()
		}
		line := strings.TrimSpace(lines.Text())
		if line == "" {
			continue
		}

		if interpret.IsExit(line) {
			say(msgBye)
			return nil
		}

		if strings.EqualFold(strings.Trim(line, ".!"), "logout") {
			if user, err = s.logout(ctx, lines, out); err != nil {
				return err
			}
			s.interp.Identity = user
			say("Hi %s!", user)
			continue
		}

		replies, err := s.interp.Process(ctx, line)
		for _, reply := range replies {
			switch reply.Kind {
			case interpret.ReplyExit:
				say(msgBye)
				return nil
			case interpret.ReplyInvalid:
				say(msgInvalid)
			default:
				for _, l := range reply.Lines {
					say("%s", l)
				}
			}
		}
		if err != nil {
			return fmt.Errorf("process %q: %w", line, err)
		}
	}
}

// login asks for the user's name and remembers it
func (s *Session) login(ctx context.Context, lines *bufio.Scanner, out io.Writer) (string, error) {
	_, _ = fmt.Fprintln(out, msgAskName)
	_, _ = fmt.Fprint(out, "> ")

	name := s.defaultUser
	if lines.Scan() {
		if n := strings.TrimSpace(lines.Text()); n != "" {
			name = n
		}
	} else if err := lines.Err(); err != nil {
		return "", err
	}

	if err := s.meta.SetMetadata(ctx, model.SessionUser, name); err != nil {
		return "", err
	}
	s.logger.Info("user logged in", zap.String("user", name), zap.String("session", s.ID))
	return name, nil
}

// logout forgets the current user and the game under discussion
func (s *Session) logout(ctx context.Context, lines *bufio.Scanner, out io.Writer) (string, error) {
	for _, key := range []string{model.SessionUser, model.SessionLastGame} {
		if err := s.meta.DeleteMetadata(ctx, key); err != nil {
			return "", err
		}
	}
	return s.login(ctx, lines, out)
}
