package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/gamelore/internal/answer"
	"github.com/ppiankov/gamelore/internal/model"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the game catalog",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import games and franchises from YAML",
	Long: `Import loads games and franchises into the store. Existing entries with the
same id are replaced.

Example file:
  games:
    - id: mc
      name: minecraft
      release_date: 2011-11-18
      rating: 86.5
      summary: The game features creepers.
  franchises:
    - name: minecraft
      games: [mc]`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogImport,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog games",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd)
	catalogCmd.AddCommand(catalogListCmd)
}

// readCatalog parses a catalog file. Games without a rating get -1
// (unknown) and franchises without an id get a generated one.
func readCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var c model.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return model.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	// a missing rating must read as unknown, not zero
	var ratings struct {
		Games []struct {
			Rating *float64 `yaml:"rating"`
		} `yaml:"games"`
	}
	if err := yaml.Unmarshal(data, &ratings); err != nil {
		return model.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	for i := range c.Games {
		g := &c.Games[i]
		if g.ID == "" || g.Name == "" {
			return model.Catalog{}, fmt.Errorf("game %d: id and name are required", i+1)
		}
		if ratings.Games[i].Rating == nil {
			g.Rating = -1
		}
	}
	for i := range c.Franchises {
		if c.Franchises[i].ID == "" {
			c.Franchises[i].ID = uuid.NewString()
		}
	}
	return c, nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	c, err := readCatalog(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := a.store.ImportCatalog(context.Background(), c); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d games and %d franchises\n", len(c.Games), len(c.Franchises))
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	games, err := a.store.ListGames(context.Background())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, g := range games {
		released := "unknown"
		if g.ReleaseDate != nil {
			released = answer.Date(*g.ReleaseDate)
		}
		fmt.Fprintf(out, "%-12s %-40s %s\n", g.ID, answer.Title(g.Name), released)
	}
	return nil
}
