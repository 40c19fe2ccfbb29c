package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/cmdllm/internal/app"
	configapp "github.com/doeshing/cmdllm/internal/application/config"
	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/helpers"
	"github.com/doeshing/cmdllm/internal/infrastructure/cli/ui"
	configinfra "github.com/doeshing/cmdllm/internal/infrastructure/config"
)

const (
	envKeyEditor  = "EDITOR"
	defaultEditor = "vi"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage LLM configuration",
	}

	configCmd.AddCommand(
		newConfigGetCommand(container),
		newConfigSetCommand(container),
		newConfigListCommand(container),
		newConfigShowCommand(container),
		newConfigInitCommand(container),
		newConfigSetupCommand(container),
		newConfigPathCommand(container),
		newConfigEditCommand(container),
		newConfigValidateCommand(container),
		newConfigDiffCommand(container),
		newSetContextMessagesCommand(container),
		newGetContextMessagesCommand(container),
	)

	return configCmd
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get the value of a configuration item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), container, args[0])
		},
	}
}

// newConfigSetCommand creates the 'config set' subcommand
func newConfigSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set the value of a configuration item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigurationValue(cmd.Context(), cmd.OutOrStdout(), container, args[0], strings.Join(args[1:], " "))
		},
	}
}

// newConfigListCommand creates the 'config list' subcommand
func newConfigListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration items",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			return listConfiguration(cmd.OutOrStdout(), cfg, nil)
		},
	}
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show full configuration as YAML (API keys masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			data, err := yaml.Marshal(maskConfig(cfg))
			if err != nil {
				return fmt.Errorf("failed to marshal configuration: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

// newConfigInitCommand creates the 'config init' subcommand
func newConfigInitCommand(container *app.Container) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Reset the configuration file to default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigurationToDefaults(cmd, container, assumeYes)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Reset without asking")
	return cmd
}

// newConfigSetupCommand creates the 'config setup' subcommand
func newConfigSetupCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive setup for LLM provider configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProviderSetup(cmd, container)
		},
	}
}

// newConfigPathCommand creates the 'config path' subcommand
func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := helpers.GetConfigLoader(container)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
			return nil
		},
	}
}

// newConfigEditCommand creates the 'config edit' subcommand
func newConfigEditCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigurationInEditor(container)
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if err := configapp.Validate(cfg); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff versus default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// newSetContextMessagesCommand creates the 'config set-context-messages' subcommand
func newSetContextMessagesCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set-context-messages <count>",
		Short: "Set the maximum number of messages to keep in context (minimum 1)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid message count %q: %w", args[0], err)
			}
			if count < 1 {
				return errors.New(ErrContextCountTooSmall)
			}
			cfg, err := container.ConfigProvider.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.SetMaxContextMessages(count); err != nil {
				return err
			}
			if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
				return err
			}
			ui.NewRenderer(cmd.OutOrStdout()).Success(fmt.Sprintf("Maximum context messages set to %d", count))
			return nil
		},
	}
}

// newGetContextMessagesCommand creates the 'config get-context-messages' subcommand
func newGetContextMessagesCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "get-context-messages",
		Short: "Get the maximum number of messages kept in context",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := helpers.GetConfigLoader(container)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Maximum context messages: %d\n", loader.MaxContextMessages(cmd.Context()))
			return nil
		},
	}
}

// getConfigurationValue prints a scalar, or a section as YAML
func getConfigurationValue(ctx context.Context, out io.Writer, container *app.Container, key string) error {
	if helpers.IsToolsKey(key) {
		fmt.Fprintln(out, MsgUseToolsCommands)
		return nil
	}

	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	value, err := configinfra.Lookup(cfg, key)
	if err != nil {
		if errors.Is(err, configinfra.ErrKeyNotFound) {
			fmt.Fprintf(out, "Configuration item not found: %s\n", key)
			return nil
		}
		return err
	}

	if section, ok := value.(map[string]interface{}); ok {
		data, err := yaml.Marshal(section)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		fmt.Fprint(out, string(data))
		return nil
	}
	fmt.Fprintln(out, fmt.Sprint(value))
	return nil
}

// setConfigurationValue updates one dotted key, validates and saves
func setConfigurationValue(ctx context.Context, out io.Writer, container *app.Container, key, raw string) error {
	if helpers.IsToolsKey(key) {
		fmt.Fprintln(out, MsgUseToolsCommands)
		return nil
	}

	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	value := configinfra.ParseValue(raw)
	updated, err := configinfra.Assign(cfg, key, value)
	if err != nil {
		return fmt.Errorf("failed to set configuration item %s: %w", key, err)
	}

	if err := helpers.SaveConfigWithValidation(container, updated); err != nil {
		return err
	}

	ui.NewRenderer(out).Success(fmt.Sprintf("Set %s = %s", key, helpers.DisplayValue(key, fmt.Sprint(value))))
	return nil
}

// listConfiguration prints flattened keys aligned, skipping tools. A non-nil
// only restricts the output to those keys.
func listConfiguration(out io.Writer, cfg domain.Config, only []string) error {
	items, err := configinfra.Flatten(cfg)
	if err != nil {
		return err
	}
	wanted := map[string]bool{}
	for _, key := range only {
		wanted[key] = true
	}

	var shown []configinfra.KeyValue
	width := 0
	for _, item := range items {
		if helpers.IsToolsKey(item.Key) || (only != nil && !wanted[item.Key]) {
			continue
		}
		shown = append(shown, item)
		if len(item.Key) > width {
			width = len(item.Key)
		}
	}

	if len(shown) == 0 {
		fmt.Fprintln(out, "Configuration is empty")
		return nil
	}
	for _, item := range shown {
		fmt.Fprintf(out, "%-*s: %s\n", width+2, item.Key, helpers.DisplayValue(item.Key, item.Value))
	}
	return nil
}

// resetConfigurationToDefaults backs up and rewrites the configuration file
func resetConfigurationToDefaults(cmd *cobra.Command, container *app.Container, assumeYes bool) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if !assumeYes {
		console := ui.NewConsole(cmd.InOrStdin(), out)
		if !console.AskYesNo("This will reset all configuration to default values. Continue?", false) {
			fmt.Fprintln(out, MsgOperationCancelled)
			return nil
		}
	}

	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
	}

	defaults, err := loader.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}
	container.Config = defaults

	ui.NewRenderer(out).Success("Default configuration initialized")
	return listConfiguration(out, defaults, nil)
}

// runProviderSetup walks through the provider settings interactively
func runProviderSetup(cmd *cobra.Command, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	out := cmd.OutOrStdout()
	console := ui.NewConsole(cmd.InOrStdin(), out)

	provider, err := console.AskChoice("Please select LLM provider",
		[]string{domain.ProviderOpenAICompatible, domain.ProviderAzure}, cfg.Provider())
	if err != nil {
		return err
	}
	cfg.LLMProvider = provider

	var keys []string
	switch provider {
	case domain.ProviderOpenAICompatible:
		settings := &cfg.OpenAICompatible
		settings.BaseURL = console.Ask("Please enter OpenAI-compatible API Base URL", valueOr(settings.BaseURL, domain.DefaultOpenAIBaseURL))
		if key := console.AskSecret("Please enter OpenAI-compatible API Key", !domain.IsPlaceholder(settings.APIKey)); key != "" {
			settings.APIKey = key
		}
		settings.Model = console.Ask("Please enter model name", valueOr(settings.Model, domain.DefaultOpenAIModel))
		keys = []string{"llm_provider", "openai_compatible.api_key", "openai_compatible.base_url", "openai_compatible.model"}
	case domain.ProviderAzure:
		settings := &cfg.Azure
		settings.Endpoint = console.Ask("Please enter Azure OpenAI Endpoint URL", valueOr(settings.Endpoint, domain.PlaceholderEndpoint))
		if key := console.AskSecret("Please enter Azure OpenAI API Key", !domain.IsPlaceholder(settings.APIKey)); key != "" {
			settings.APIKey = key
		}
		settings.Deployment = console.Ask("Please enter Azure OpenAI deployment name", valueOr(settings.Deployment, domain.PlaceholderDeployment))
		settings.APIVersion = console.Ask("Please enter Azure OpenAI API Version", valueOr(settings.APIVersion, domain.DefaultAzureAPIVersion))
		keys = []string{"llm_provider", "azure.api_key", "azure.endpoint", "azure.deployment", "azure.api_version"}
	}

	if err := helpers.SaveConfigWithValidation(container, cfg); err != nil {
		return err
	}

	ui.NewRenderer(out).Success("LLM configuration updated!")
	fmt.Fprintln(out, "\nCurrent LLM configuration:")
	return listConfiguration(out, cfg, keys)
}

// editConfigurationInEditor opens the configuration file in the user's editor
func editConfigurationInEditor(container *app.Container) error {
	loader, err := helpers.GetConfigLoader(container)
	if err != nil {
		return err
	}

	editorCommand := defaultEditor
	if editor := os.Getenv(envKeyEditor); editor != "" {
		editorCommand = editor
	}
	cmd := exec.Command(editorCommand, loader.Path())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCommand, err)
	}
	return nil
}

// showConfigurationDiff shows the difference between current and default configuration
func showConfigurationDiff(ctx context.Context, out io.Writer, container *app.Container) error {
	currentConfig, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	defaultConfig, err := configinfra.DefaultConfig()
	if err != nil {
		return err
	}

	diff := cmp.Diff(maskConfig(defaultConfig), maskConfig(currentConfig))
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

func maskConfig(cfg domain.Config) domain.Config {
	cfg.OpenAICompatible.APIKey = helpers.MaskSecret(cfg.OpenAICompatible.APIKey)
	cfg.Azure.APIKey = helpers.MaskSecret(cfg.Azure.APIKey)
	return cfg
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
