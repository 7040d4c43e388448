package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/gamelore/internal/annotate/annotatetest"
	"github.com/ppiankov/gamelore/internal/interpret"
	"github.com/ppiankov/gamelore/internal/model"
	"github.com/ppiankov/gamelore/internal/store"
)

func setup(t *testing.T) (*Session, *store.Store, *annotatetest.Fake) {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	fake := annotatetest.New().
		Add("I like pizza. Tell me something.",
			"(ROOT (S (NP (PRP I)) (VP (VBP like) (NP (NN pizza))) (. .)))",
			"(ROOT (S (VP (VB Tell) (NP (PRP me)) (NP (NN something))) (. .)))").
		Add("When was Super Mario Bros. released?",
			"(ROOT (SBARQ (WHADVP (WRB When)) (SQ (VBD was) (NP (NNP Super) (NNP Mario) (NNP Bros.)) (VP (VBN released))) (. ?)))").
		Add("hello", "(ROOT (NP (NN hello)))")

	interp := interpret.New(fake, st, nil)
	return New(interp, st, "user", nil), st, fake
}

func run(t *testing.T, s *Session, input string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, s.Run(context.Background(), strings.NewReader(input), &out))
	return out.String()
}

func TestRun_Conversation(t *testing.T) {
	s, st, _ := setup(t)

	out := run(t, s, "Alice\nI like pizza. Tell me something.\nhello\nquit\n")

	assert.Contains(t, out, "What's your name?")
	assert.Contains(t, out, "Hi Alice!")
	assert.Contains(t, out, "Got it, I'll remember that.")
	assert.Contains(t, out, "Did you know: Alice likes pizza?")
	assert.Contains(t, out, "Invalid input; please try again.")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"), "output: %q", out)

	ctx := context.Background()
	user, _, err := st.GetMetadata(ctx, model.SessionUser)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user)

	id, _, err := st.GetMetadata(ctx, model.SessionID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, id)
}

func TestRun_TitleWithPeriod(t *testing.T) {
	s, st, fake := setup(t)
	released := time.Date(1985, 9, 13, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.ImportCatalog(context.Background(), model.Catalog{
		Games: []model.Game{{ID: "smb", Name: "super mario bros.", ReleaseDate: &released, Rating: -1}},
	}))

	out := run(t, s, "Eve\nWhen was Super Mario Bros. released?\nquit\n")

	assert.Contains(t, out, "Super Mario Bros. was released on 1985-09-13")
	assert.NotContains(t, out, "Are you sure that's a question?")
	assert.Equal(t, 1, fake.Calls)
}

func TestRun_RemembersUser(t *testing.T) {
	s, st, _ := setup(t)
	require.NoError(t, st.SetMetadata(context.Background(), model.SessionUser, "Bob"))

	out := run(t, s, "exit.\n")
	assert.NotContains(t, out, "What's your name?")
	assert.Contains(t, out, "Hi Bob!")
}

func TestRun_Logout(t *testing.T) {
	s, st, _ := setup(t)
	ctx := context.Background()
	require.NoError(t, st.SetMetadata(ctx, model.SessionUser, "Bob"))
	require.NoError(t, st.SetMetadata(ctx, model.SessionLastGame, "mc"))

	out := run(t, s, "logout\n\nq\n")
	assert.Contains(t, out, "What's your name?")
	assert.Contains(t, out, "Hi user!")

	user, _, err := st.GetMetadata(ctx, model.SessionUser)
	require.NoError(t, err)
	assert.Equal(t, "user", user)

	_, ok, err := st.GetMetadata(ctx, model.SessionLastGame)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRun_EndOfInput(t *testing.T) {
	s, _, fake := setup(t)
	out := run(t, s, "Carol\n\n")
	assert.Contains(t, out, "Hi Carol!")
	assert.Equal(t, 0, fake.Calls)
}

func TestRun_AnnotationFailureStopsLoop(t *testing.T) {
	s, _, fake := setup(t)
	fake.Errors["Is it on?"] = errors.New("connection refused")

	var out bytes.Buffer
	err := s.Run(context.Background(), strings.NewReader("Dave\nIs it on?\nquit\n"), &out)
	assert.Error(t, err)
}
