package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdllm/internal/app"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/helpers"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/ui"
)

// NewToolsCommand creates the tools command with list/add/del subcommands
func NewToolsCommand(container *app.Container) *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage available tools",
	}

	toolsCmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all available tools",
			RunE: func(cmd *cobra.Command, args []string) error {
				return listTools(cmd, container)
			},
		},
		&cobra.Command{
			Use:   "add <tool>",
			Short: "Add a tool to the available tools list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return changeTools(cmd, container, args[0], true)
			},
		},
		&cobra.Command{
			Use:   "del <tool>",
			Short: "Remove a tool from the available tools list",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return changeTools(cmd, container, args[0], false)
			},
		},
	)

	return toolsCmd
}

func listTools(cmd *cobra.Command, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(cfg.Tools) == 0 {
		fmt.Fprintln(out, MsgNoToolsConfigured)
		return nil
	}
	fmt.Fprintln(out, "Available tools:")
	for _, tool := range cfg.Tools {
		fmt.Fprintf(out, "  - %s\n", tool)
	}
	return nil
}

func changeTools(cmd *cobra.Command, container *app.Container, tool string, add bool) error {
	cfg, err := container.ConfigProvider.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	renderer := ui.NewRenderer(cmd.OutOrStdout())

	if add {
		if !cfg.AddTool(tool) {
			renderer.Warning(fmt.Sprintf("Tool '%s' already exists or could not be added.", tool))
			return nil
		}
	} else if !cfg.RemoveTool(tool) {
		renderer.Warning(fmt.Sprintf("Tool '%s' does not exist or could not be removed.", tool))
		return nil
	}

	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}
	if add {
		renderer.Success(fmt.Sprintf("Tool '%s' added successfully.", tool))
	} else {
		renderer.Success(fmt.Sprintf("Tool '%s' removed successfully.", tool))
	}
	return nil
}
