package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ppiankov/gamelore/internal/interpret"
	"github.com/ppiankov/gamelore/internal/session"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Chat reads questions and statements line by line until you type "quit".

Type "logout" to switch users. Facts you state in the first person ("I like
Minecraft.") are remembered for the current user.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, cancel := interruptContext()
	defer cancel()

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	interp := interpret.New(a.annotator, a.store, logger)
	s := session.New(interp, a.store, cfg.Session.DefaultUser, logger)

	err = s.Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
