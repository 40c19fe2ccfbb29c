package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/cmdllm/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		Tools:       []string{"bash", "kubectl"},
		LLMProvider: domain.ProviderOpenAICompatible,
		Context:     domain.ContextSettings{MaxMessages: 20},
		Security:    domain.SecuritySettings{Enabled: true, RulesFile: "~/.cmdllm/guardrail.yaml"},
		History:     domain.HistorySettings{Enabled: true, RetentionDays: 30},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "azure provider", mutate: func(c *domain.Config) { c.LLMProvider = domain.ProviderAzure }},
		{name: "no tools", mutate: func(c *domain.Config) { c.Tools = nil }, wantErr: "at least one tool"},
		{name: "tool with space", mutate: func(c *domain.Config) { c.Tools = []string{"kubectl get"} }, wantErr: "single word"},
		{name: "duplicate tool", mutate: func(c *domain.Config) { c.Tools = []string{"bash", "bash"} }, wantErr: "listed twice"},
		{name: "unknown provider", mutate: func(c *domain.Config) { c.LLMProvider = "bedrock" }, wantErr: "llm_provider"},
		{name: "temperature out of range", mutate: func(c *domain.Config) { c.OpenAICompatible.Temperature = 3 }, wantErr: "temperature"},
		{name: "zero context", mutate: func(c *domain.Config) { c.Context.MaxMessages = 0 }, wantErr: "context.max_messages"},
		{name: "rules file missing", mutate: func(c *domain.Config) { c.Security.RulesFile = "" }, wantErr: "rules_file"},
		{name: "rules file optional when disabled", mutate: func(c *domain.Config) { c.Security = domain.SecuritySettings{} }},
		{name: "negative retention", mutate: func(c *domain.Config) { c.History.RetentionDays = -1 }, wantErr: "retention_days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Tools = nil
	cfg.Context.MaxMessages = 0

	err := Validate(cfg)
	assert.ErrorContains(t, err, "at least one tool")
	assert.ErrorContains(t, err, "context.max_messages")
}

func TestValidate_UnknownProviderWrapsSentinel(t *testing.T) {
	cfg := validConfig()
	cfg.LLMProvider = "bedrock"
	assert.ErrorIs(t, Validate(cfg), domain.ErrUnknownProvider)
}
