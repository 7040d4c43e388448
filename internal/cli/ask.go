package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gamelore/internal/interpret"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question",
	Long: `Ask answers one question (or records one statement) and exits.

Example:
  gamelore ask "When was Minecraft released?"
  gamelore ask "What franchise does Minecraft belong to?"
  gamelore ask "I like Minecraft."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx, cancel := interruptContext()
	defer cancel()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	interp := interpret.New(a.annotator, a.store, logger)
	if interp.Identity, err = a.identity(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	replies, err := interp.Process(ctx, strings.Join(args, " "))
	for _, reply := range replies {
		switch reply.Kind {
		case interpret.ReplyExit:
			return nil
		case interpret.ReplyInvalid:
			fmt.Fprintln(out, "Invalid input; please try again.")
		default:
			for _, line := range reply.Lines {
				fmt.Fprintln(out, line)
			}
		}
	}
	return err
}
