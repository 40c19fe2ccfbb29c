// Package config validates configuration before it is saved or used.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/doeshing/cmdllm/internal/domain"
)

// Validate ensures config structure is consistent. All problems are reported
// together.
func Validate(cfg domain.Config) error {
	return errors.Join(
		validateTools(cfg.Tools),
		validateProvider(cfg),
		validateContext(cfg.Context),
		validateSecurity(cfg.Security),
		validateHistory(cfg.History),
	)
}

func validateTools(tools []string) error {
	if len(tools) == 0 {
		return errors.New("at least one tool must be configured")
	}
	for i, tool := range tools {
		if strings.TrimSpace(tool) == "" || strings.ContainsAny(tool, " \t") {
			return fmt.Errorf("tools[%d] must be a single word, got %q", i, tool)
		}
		if slices.Index(tools, tool) != i {
			return fmt.Errorf("tool %s listed twice", tool)
		}
	}
	return nil
}

func validateProvider(cfg domain.Config) error {
	switch cfg.Provider() {
	case domain.ProviderOpenAICompatible:
		if t := cfg.OpenAICompatible.Temperature; t < 0 || t > 2 {
			return fmt.Errorf("openai_compatible.temperature must be between 0 and 2, got %v", t)
		}
		return nil
	case domain.ProviderAzure:
		return nil
	default:
		return fmt.Errorf("llm_provider must be %s|%s, got %s: %w",
			domain.ProviderOpenAICompatible, domain.ProviderAzure, cfg.LLMProvider, domain.ErrUnknownProvider)
	}
}

func validateContext(ctx domain.ContextSettings) error {
	if ctx.MaxMessages < 1 {
		return fmt.Errorf("context.max_messages must be at least 1, got %d", ctx.MaxMessages)
	}
	return nil
}

func validateSecurity(sec domain.SecuritySettings) error {
	if sec.Enabled && sec.RulesFile == "" {
		return fmt.Errorf("security.rules_file must be set when security is enabled")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if history.RetentionDays < 0 {
		return fmt.Errorf("history.retention_days must be >= 0")
	}
	return nil
}
