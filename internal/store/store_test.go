package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/gamelore/internal/model"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seedCatalog(t *testing.T, st *Store) {
	t.Helper()
	err := st.ImportCatalog(context.Background(), model.Catalog{
		Games: []model.Game{
			{ID: "mc", Name: "Minecraft", ReleaseDate: date(2011, time.November, 18), Rating: 86.5},
			{ID: "mcd", Name: "Minecraft Dungeons", Rating: -1},
			{ID: "smb", Name: "Super Mario Bros.", Rating: -1},
			{ID: "pct", Name: "100% Orange Juice", Rating: -1},
		},
		Franchises: []model.Franchise{
			{ID: "f1", Name: "Minecraft", GameIDs: []string{"mc", "mcd"}},
			{ID: "f2", Name: "Mojang", GameIDs: []string{"mc"}},
		},
	})
	require.NoError(t, err)
}

func TestOpen_CreatesTables(t *testing.T) {
	st := openTest(t)

	for _, table := range []string{"games", "franchises", "in_franchise", "relations", "metadata"} {
		var name string
		err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
	}
}

func TestOpen_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.sqlite")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.SetMetadata(context.Background(), "user", "alice"))
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	got, ok, err := st.GetMetadata(context.Background(), "user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "alice", got)
}

func TestFindGames_ExactBeforeSubstring(t *testing.T) {
	st := openTest(t)
	seedCatalog(t, st)
	ctx := context.Background()

	games, err := st.FindGames(ctx, "minecraft")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "mc", games[0].ID)

	games, err = st.FindGames(ctx, "mario")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "smb", games[0].ID)

	games, err = st.FindGames(ctx, "zzyzx")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestFindGames_EscapesWildcards(t *testing.T) {
	st := openTest(t)
	seedCatalog(t, st)

	games, err := st.FindGames(context.Background(), "0%")
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "pct", games[0].ID)

	games, err = st.FindGames(context.Background(), "_")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestGameByID(t *testing.T) {
	st := openTest(t)
	seedCatalog(t, st)
	ctx := context.Background()

	g, err := st.GameByID(ctx, "mc")
	require.NoError(t, err)
	require.NotNil(t, g)
	require.NotNil(t, g.ReleaseDate)
	assert.Equal(t, "2011-11-18", g.ReleaseDate.Format("2006-01-02"))
	assert.InDelta(t, 86.5, g.Rating, 0.001)
	assert.True(t, g.HasRating())

	g, err = st.GameByID(ctx, "mcd")
	require.NoError(t, err)
	assert.Nil(t, g.ReleaseDate)
	assert.False(t, g.HasRating())

	g, err = st.GameByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, g)
}

func TestUpsertGame_Replaces(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	require.NoError(t, st.UpsertGame(ctx, model.Game{ID: "g", Name: "Old", Rating: -1}))
	require.NoError(t, st.UpsertGame(ctx, model.Game{ID: "g", Name: "New", Rating: 70}))

	games, err := st.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "New", games[0].Name)
}

func TestFranchisesOf(t *testing.T) {
	st := openTest(t)
	seedCatalog(t, st)

	fs, err := st.FranchisesOf(context.Background(), "mc")
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.Equal(t, "Minecraft", fs[0].Name)
	assert.Equal(t, "Mojang", fs[1].Name)
}

func TestInsertRelations_Idempotent(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()
	rels := []model.Relation{
		{Subject: "steve", Relation: "mine", Object: "diamonds", OriginalPhrase: "Steve mines diamonds.", GameID: "mc"},
		{Subject: "alice", Relation: "like", Object: "pizza", OriginalPhrase: "I like pizza."},
	}

	n, err := st.InsertRelations(ctx, rels)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = st.InsertRelations(ctx, rels)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := st.CountRelations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	got, err := st.FindRelations(ctx, RelationFilter{Subject: "ALICE"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.RealityID, got[0].GameID)
	assert.Nil(t, got[0].FranchiseID)
}

func TestFindRelations_Filters(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()
	franchise := "f1"
	_, err := st.InsertRelations(ctx, []model.Relation{
		{Subject: "the plot", Relation: "follow", Object: "steve", GameID: "mc", FranchiseID: &franchise},
		{Subject: "plot_twist", Relation: "follow", Object: "nobody", GameID: "mc"},
		{Subject: "the plot", Relation: "feature", Object: "creepers", GameID: "mc"},
		{Subject: "mario", Relation: "follow", Object: "peach", GameID: "smb"},
	})
	require.NoError(t, err)

	got, err := st.FindRelations(ctx, RelationFilter{SubjectContains: "plot", Relation: "follow"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "steve", got[0].Object)
	require.NotNil(t, got[0].FranchiseID)
	assert.Equal(t, "f1", *got[0].FranchiseID)

	got, err = st.FindRelations(ctx, RelationFilter{SubjectContains: "plot_"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "nobody", got[0].Object)

	got, err = st.FindRelations(ctx, RelationFilter{GameID: "smb"})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = st.FindRelations(ctx, RelationFilter{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRandomRelation(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	r, err := st.RandomRelation(ctx)
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = st.InsertRelations(ctx, []model.Relation{{Subject: "a", Relation: "b", Object: "c"}})
	require.NoError(t, err)

	r, err = st.RandomRelation(ctx)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "a", r.Subject)
}

func TestDeleteRelationsBySubject(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()
	_, err := st.InsertRelations(ctx, []model.Relation{
		{Subject: "alice", Relation: "like", Object: "pizza"},
		{Subject: "alice", Relation: "play", Object: "minecraft"},
		{Subject: "bob", Relation: "like", Object: "tea"},
	})
	require.NoError(t, err)

	n, err := st.DeleteRelationsBySubject(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := st.CountRelations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetadata(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	_, ok, err := st.GetMetadata(ctx, "last_game")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, st.SetMetadata(ctx, "last_game", "mc"))
	require.NoError(t, st.SetMetadata(ctx, "last_game", "smb"))

	v, ok, err := st.GetMetadata(ctx, "last_game")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "smb", v)

	require.NoError(t, st.DeleteMetadata(ctx, "last_game"))
	require.NoError(t, st.DeleteMetadata(ctx, "last_game"))
	_, ok, err = st.GetMetadata(ctx, "last_game")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	tx, err := st.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertRelations(ctx, []model.Relation{{Subject: "a", Relation: "b", Object: "c"}})
	require.NoError(t, err)
	require.NoError(t, tx.SetMetadata(ctx, "k", "v"))
	require.NoError(t, tx.Rollback())

	count, err := st.CountRelations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	_, ok, err := st.GetMetadata(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTx_CommitKeepsWrites(t *testing.T) {
	st := openTest(t)
	ctx := context.Background()

	tx, err := st.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.InsertRelations(ctx, []model.Relation{{Subject: "a", Relation: "b", Object: "c"}})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())

	count, err := st.CountRelations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_a\\b`, escapeLike(`100% _a\b`))
}
