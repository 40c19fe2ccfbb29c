package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdllm/internal/app"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/ui"
)

// NewClearCommand creates the top-level clear command
func NewClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the conversation context history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearContext(cmd, container)
		},
	}
}

// NewContextCommand creates the context command with show/clear subcommands
func NewContextCommand(container *app.Container) *cobra.Command {
	contextCmd := &cobra.Command{
		Use:   "context",
		Short: "Inspect the conversation context",
	}

	contextCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show stored context messages, oldest first",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showContext(cmd, cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Clear the conversation context history",
			RunE: func(cmd *cobra.Command, args []string) error {
				return clearContext(cmd, container)
			},
		},
	)

	return contextCmd
}

func clearContext(cmd *cobra.Command, container *app.Container) error {
	if err := container.ContextStore.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("error clearing context: %w", err)
	}
	ui.NewRenderer(cmd.OutOrStdout()).Success(MsgContextCleared)
	return nil
}

func showContext(cmd *cobra.Command, out io.Writer, container *app.Container) error {
	entries := container.ContextStore.All(cmd.Context())
	if len(entries) == 0 {
		fmt.Fprintln(out, MsgContextEmpty)
		return nil
	}
	limit := container.ConfigLoader.MaxContextMessages(cmd.Context())
	fmt.Fprintf(out, "%d messages (window %d) in %s\n", len(entries), limit, container.ContextStore.Path())
	for _, entry := range entries {
		fmt.Fprintf(out, "[%s] %s\n", entry.Role, entry.Content)
	}
	return nil
}
