package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gamelore/internal/ingest"
	"github.com/ppiankov/gamelore/internal/worker"
)

var (
	ingestGames []string
	ingestFile  string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Extract facts from game summaries and stories",
	Long: `Ingest annotates the summary and story of catalog games and stores the
subject-relation-object facts found in them. Running it again is harmless:
facts already stored are skipped.

Example:
  gamelore ingest
  gamelore ingest --game mc --game smb
  gamelore ingest --file games.txt`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringSliceVar(&ingestGames, "game", nil, "game id to ingest (repeatable; default all)")
	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "file with one game id per line")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := interruptContext()
	defer cancel()

	ids := ingestGames
	if ingestFile != "" {
		fromFile, err := worker.ReadLinesFromFile(ingestFile)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	in := ingest.New(a.annotator, a.store, cfg.Ingest, logger)
	results, sum, err := in.Run(ctx, ids)

	out := cmd.OutOrStdout()
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", r.GameID, r.Error)
			continue
		}
		fmt.Fprintf(out, "✓ %s (%s): %d sentences, %d skipped, %d new facts\n",
			r.GameID, r.Name, r.Sentences, r.Failed, r.Inserted)
	}
	fmt.Fprintf(out, "\n%d games, %d errors, %d sentences (%d skipped), %d new facts\n",
		sum.Games, sum.Errors, sum.Sentences, sum.Failed, sum.Inserted)

	return err
}
