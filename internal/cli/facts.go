package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gamelore/internal/answer"
	"github.com/ppiankov/gamelore/internal/store"
)

var (
	factsSubject  string
	factsRelation string
	factsGame     string
	factsLimit    int
)

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "List stored facts",
	Args:  cobra.NoArgs,
	RunE:  runFacts,
}

func init() {
	rootCmd.AddCommand(factsCmd)

	factsCmd.Flags().StringVar(&factsSubject, "subject", "", "only facts whose subject contains this text")
	factsCmd.Flags().StringVar(&factsRelation, "relation", "", "only facts with this relation (verb lemma)")
	factsCmd.Flags().StringVar(&factsGame, "game", "", "only facts about this game id (0 for facts about users)")
	factsCmd.Flags().IntVar(&factsLimit, "limit", 50, "maximum number of facts (0 for all)")
}

func runFacts(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := context.Background()
	rels, err := a.store.FindRelations(ctx, store.RelationFilter{
		SubjectContains: factsSubject,
		Relation:        factsRelation,
		GameID:          factsGame,
		Limit:           factsLimit,
	})
	if err != nil {
		return err
	}

	total, err := a.store.CountRelations(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range rels {
		fmt.Fprintf(out, "[%s] %s\n", r.GameID, answer.Fact(r.Subject, r.Relation, r.Extra, r.Object))
	}
	fmt.Fprintf(out, "\n%d shown, %d stored\n", len(rels), total)
	return nil
}
