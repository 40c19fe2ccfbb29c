// Package cli wires the cobra command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/doeshing/cmdllm/internal/app"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/commands"
)

// EnvPrefix namespaces environment overrides (CMDLLM_DEBUG, CMDLLM_CONFIG).
const EnvPrefix = "CMDLLM"

const (
	keyDebug  = "debug"
	keyConfig = "config"
)

// Options holds CLI-level configuration.
type Options struct {
	// Build replaces app.BuildContainer, mainly for tests.
	Build func(ctx context.Context, opts app.Options) (*app.Container, error)
}

// NewRootCmd wires the cobra root command. The container is built once the
// flags are parsed, before any subcommand runs.
func NewRootCmd(opts Options) *cobra.Command {
	build := opts.Build
	if build == nil {
		build = app.BuildContainer
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Subcommands hold this pointer; it is filled in PersistentPreRunE.
	container := &app.Container{}

	root := &cobra.Command{
		Use:   "cmdllm",
		Short: "Interact with command-line tools using natural language",
		Long: `cmdllm translates natural language into commands for a chosen
command-line tool, runs them after confirming dangerous ones, and keeps a
short conversation context between turns.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[commands.AnnotationNoContainer] == "true" {
				return nil
			}
			built, err := build(cmd.Context(), app.Options{
				Verbose:    v.GetBool(keyDebug),
				ConfigPath: v.GetString(keyConfig),
			})
			if err != nil {
				return err
			}
			*container = *built
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return container.Close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool(keyDebug, false, "Enable verbose logging (env CMDLLM_DEBUG)")
	root.PersistentFlags().String(keyConfig, "", "Config file path (env CMDLLM_CONFIG, default ~/.cmdllm/config.yaml)")
	_ = v.BindPFlag(keyDebug, root.PersistentFlags().Lookup(keyDebug))
	_ = v.BindPFlag(keyConfig, root.PersistentFlags().Lookup(keyConfig))

	root.AddCommand(
		commands.NewChatCommand(container),
		commands.NewClearCommand(container),
		commands.NewContextCommand(container),
		commands.NewConfigCommand(container),
		commands.NewToolsCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewGuardrailCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	return root
}
