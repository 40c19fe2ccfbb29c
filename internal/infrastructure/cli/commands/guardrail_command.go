package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/cmdllm/internal/app"
	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/helpers"
	"github.com/doeshing/cmdllm/internal/infrastructure/security"
)

// NewGuardrailCommand creates the guardrail command
func NewGuardrailCommand(container *app.Container) *cobra.Command {
	guardrailCmd := &cobra.Command{
		Use:   "guardrail",
		Short: "Manage the dangerous command guardrail",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default rules file for editing",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeGuardrailRules(cmd.Context(), cmd.OutOrStdout(), container, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing rules file")

	guardrailCmd.AddCommand(
		&cobra.Command{
			Use:   "enable",
			Short: "Enable the guardrail",
			RunE: func(cmd *cobra.Command, args []string) error {
				return setGuardrailState(cmd.Context(), cmd.OutOrStdout(), container, true)
			},
		},
		&cobra.Command{
			Use:   "disable",
			Short: "Disable the guardrail (only the model's danger flag is used)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return setGuardrailState(cmd.Context(), cmd.OutOrStdout(), container, false)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show guardrail status",
			RunE: func(cmd *cobra.Command, args []string) error {
				return showGuardrailStatus(cmd.Context(), cmd.OutOrStdout(), container)
			},
		},
		&cobra.Command{
			Use:   "check <command>",
			Short: "Evaluate a command against the rules without running it",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return checkCommand(cmd.OutOrStdout(), container, strings.Join(args, " "))
			},
		},
		initCmd,
	)

	return guardrailCmd
}

// setGuardrailState enables or disables the guardrail
func setGuardrailState(ctx context.Context, out io.Writer, container *app.Container, enabled bool) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Security.Enabled = enabled
	if enabled && cfg.Security.RulesFile == "" {
		cfg.Security.RulesFile = security.ResolvePath("")
	}

	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Guardrail %s.\n", enabledLabel(enabled))
	return nil
}

// showGuardrailStatus displays the current guardrail status
func showGuardrailStatus(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Fprintf(out, "Guardrail is currently %s.\n", enabledLabel(cfg.Security.Enabled))
	if container.Guardrail != nil {
		fmt.Fprintf(out, "Rules: %d from %s\n", container.Guardrail.RuleCount(), container.Guardrail.Source())
	}
	return nil
}

// checkCommand prints the verdict for command
func checkCommand(out io.Writer, container *app.Container, command string) error {
	guardrail := container.Guardrail
	if guardrail == nil {
		var err error
		if guardrail, err = security.NewDefaultGuardrail(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Guardrail disabled; checking against the default rules.")
	}

	risk, err := guardrail.Evaluate(command)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Level: %s\nAction: %s\n", risk.Level, risk.Action)
	for _, reason := range risk.Reasons {
		fmt.Fprintf(out, " - %s\n", reason)
	}
	if risk.Level == domain.RiskSafe {
		fmt.Fprintln(out, "No rule matched.")
	}
	return nil
}

// writeGuardrailRules copies the embedded rules to the configured path
func writeGuardrailRules(ctx context.Context, out io.Writer, container *app.Container, force bool) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	path := security.ResolvePath(cfg.Security.RulesFile)
	written, err := security.WriteDefaults(path, force)
	if err != nil {
		return fmt.Errorf("failed to write rules to %s: %w", path, err)
	}
	if !written {
		fmt.Fprintf(out, "Rules file already exists at %s (use --force to overwrite).\n", path)
		return nil
	}
	fmt.Fprintf(out, "Default rules written to %s\n", path)
	return nil
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "disabled"
}
