package domain

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

// Tool identifiers that run the command as typed, without a tool prefix.
const (
	ToolBash        = "bash"
	ToolPassthrough = "shell"
)

// ErrToolNotConfigured is returned when a session names a tool missing from the tools list.
var ErrToolNotConfigured = errors.New("tool is not available")

// IsPassthroughTool reports whether commands for tool are executed without prefixing.
func IsPassthroughTool(tool string) bool {
	return tool == ToolBash || tool == ToolPassthrough
}

// ToolList returns the configured tools, falling back to bash.
func (c *Config) ToolList() []string {
	if len(c.Tools) == 0 {
		return []string{ToolBash}
	}
	return c.Tools
}

// HasTool checks if a tool is in the configured tools list.
func (c *Config) HasTool(name string) bool {
	return slices.Contains(c.ToolList(), name)
}

// RequireTool returns ErrToolNotConfigured when name is not an available tool.
func (c *Config) RequireTool(name string) error {
	if !c.HasTool(name) {
		return fmt.Errorf("tool %s: %w", name, ErrToolNotConfigured)
	}
	return nil
}

// AddTool appends a tool. Returns false if the name is empty or already present.
func (c *Config) AddTool(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || c.HasTool(name) {
		return false
	}
	c.Tools = append(slices.Clone(c.ToolList()), name)
	return true
}

// RemoveTool deletes a tool. Returns false if it was not configured.
func (c *Config) RemoveTool(name string) bool {
	tools := c.ToolList()
	idx := slices.Index(tools, name)
	if idx < 0 {
		return false
	}
	c.Tools = slices.Delete(slices.Clone(tools), idx, idx+1)
	return true
}

// MaxContextMessages returns the context window size in messages.
func (c *Config) MaxContextMessages() int {
	if c.Context.MaxMessages <= 0 {
		return DefaultMaxContextMessages
	}
	return c.Context.MaxMessages
}

// SetMaxContextMessages updates the context window size.
func (c *Config) SetMaxContextMessages(count int) error {
	if count < 1 {
		return fmt.Errorf("message count must be at least 1, got %d", count)
	}
	c.Context.MaxMessages = count
	return nil
}

// Provider returns the normalized llm_provider value.
func (c *Config) Provider() string {
	if c.LLMProvider == "" {
		return ProviderOpenAICompatible
	}
	return strings.ToLower(c.LLMProvider)
}

// ProviderCredentials resolves the connection record for the selected provider.
// API keys fall back to the configured environment variable when the file holds a placeholder.
func (c *Config) ProviderCredentials() (ProviderCredentials, error) {
	switch c.Provider() {
	case ProviderOpenAICompatible:
		settings := c.OpenAICompatible
		creds := ProviderCredentials{
			Provider:    ProviderOpenAICompatible,
			APIKey:      resolveSecret(settings.APIKey, settings.APIKeyEnv, "OPENAI_API_KEY"),
			BaseURL:     settings.BaseURL,
			Model:       valueOrDefault(settings.Model, DefaultOpenAIModel),
			Temperature: settings.Temperature,
		}
		if creds.Temperature == 0 {
			creds.Temperature = DefaultTemperature
		}
		if IsPlaceholder(creds.APIKey) {
			return creds, fmt.Errorf("%w: API key not found, set it using: cmdllm config set openai_compatible.api_key YOUR_API_KEY", ErrMissingCredentials)
		}
		return creds, nil
	case ProviderAzure:
		settings := c.Azure
		creds := ProviderCredentials{
			Provider:    ProviderAzure,
			APIKey:      resolveSecret(settings.APIKey, settings.APIKeyEnv, "AZURE_OPENAI_API_KEY"),
			Endpoint:    settings.Endpoint,
			Deployment:  settings.Deployment,
			APIVersion:  valueOrDefault(settings.APIVersion, DefaultAzureAPIVersion),
			Temperature: DefaultTemperature,
		}
		var errs []error
		if IsPlaceholder(creds.APIKey) {
			errs = append(errs, fmt.Errorf("%w: Azure API key not found, set it using: cmdllm config set azure.api_key YOUR_AZURE_API_KEY", ErrMissingCredentials))
		}
		if IsPlaceholder(creds.Endpoint) {
			errs = append(errs, fmt.Errorf("%w: Azure endpoint not configured, set it using: cmdllm config set azure.endpoint YOUR_ENDPOINT", ErrMissingCredentials))
		}
		if IsPlaceholder(creds.Deployment) {
			errs = append(errs, fmt.Errorf("%w: Azure deployment name not configured, set it using: cmdllm config set azure.deployment YOUR_DEPLOYMENT_NAME", ErrMissingCredentials))
		}
		return creds, errors.Join(errs...)
	default:
		return ProviderCredentials{}, fmt.Errorf("%w: %s", ErrUnknownProvider, c.LLMProvider)
	}
}

// IsSecurityEnabled checks if guardrails are enabled.
func (c *Config) IsSecurityEnabled() bool {
	return c.Security.Enabled
}

// IsHistoryEnabled checks if turns are written to the audit log.
func (c *Config) IsHistoryEnabled() bool {
	return c.History.Enabled
}

// GetHistoryRetentionDays returns the number of days to retain history, 0 meaning forever.
func (c *Config) GetHistoryRetentionDays() int {
	if c.History.RetentionDays < 0 {
		return 0
	}
	return c.History.RetentionDays
}

// PromptLanguage returns the language the translator should answer in.
func (c *Config) PromptLanguage() string {
	return valueOrDefault(strings.TrimSpace(c.Prompt.Language), DefaultPromptLanguage)
}

func resolveSecret(value, envVar, fallbackEnv string) string {
	if !IsPlaceholder(value) {
		return value
	}
	for _, name := range []string{envVar, fallbackEnv} {
		if name == "" {
			continue
		}
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return value
}

func valueOrDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
