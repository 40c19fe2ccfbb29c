package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdllm/internal/app"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/ui"
)

// NewChatCommand creates the interactive session command
func NewChatCommand(container *app.Container) *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session for a specific tool",
		Long: `Start an interactive session for one tool (e.g. bash, kubectl, docker).

Each line is translated into a command for the tool and executed.
Commands flagged as dangerous ask for confirmation first.
Type 'exit' or 'quit' to end the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatSession(cmd, container, tool)
		},
	}

	cmd.Flags().StringVarP(&tool, "tool", "t", "", "Tool for the session (e.g. bash, kubectl)")
	_ = cmd.MarkFlagRequired("tool")
	return cmd
}

// runChatSession validates the tool and provider, then runs the turn loop
func runChatSession(cmd *cobra.Command, container *app.Container, tool string) error {
	console := ui.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
	renderer := ui.NewRenderer(cmd.OutOrStdout())

	orchestrator, err := container.NewSession(cmd.Context(), app.SessionRequest{
		Tool:     tool,
		Prompter: console,
		Observer: renderer,
	})
	if err != nil {
		return fmt.Errorf("cannot start %s session: %w", tool, err)
	}

	renderer.Banner(tool)
	if err := orchestrator.Run(cmd.Context(), console); err != nil {
		return err
	}
	renderer.Goodbye()
	return nil
}
