package doctor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/cmdllm/internal/domain"
)

type staticConfig struct {
	cfg domain.Config
	err error
}

func (s staticConfig) Load(context.Context) (domain.Config, error) { return s.cfg, s.err }

type staticEnvironment struct {
	snapshot domain.EnvironmentSnapshot
}

func (s staticEnvironment) Collect(context.Context, []string) (domain.EnvironmentSnapshot, error) {
	return s.snapshot, nil
}

type staticSecurity struct {
	risk domain.RiskAssessment
}

func (s staticSecurity) Evaluate(string) (domain.RiskAssessment, error) { return s.risk, nil }

type emptyHistory struct {
	err error
}

func (h emptyHistory) Save(context.Context, domain.HistoryRecord) error { return nil }

func (h emptyHistory) Records(context.Context, int, string) ([]domain.HistoryRecord, error) {
	return nil, h.err
}

func (h emptyHistory) Clear(context.Context) error { return nil }

func (h emptyHistory) PruneOlderThan(context.Context, int) (int64, error) { return 0, nil }

func (h emptyHistory) Close() error { return nil }

func healthyConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Tools:               []string{"bash", "kubectl"},
		LLMProvider:         domain.ProviderOpenAICompatible,
		OpenAICompatible:    domain.OpenAICompatibleSettings{APIKey: "sk-live", Model: "gpt-4o-mini"},
		Context:             domain.ContextSettings{MaxMessages: 20},
		Security:            domain.SecuritySettings{Enabled: true, RulesFile: "rules.yaml"},
		History:             domain.HistorySettings{Enabled: true},
	}
}

func statuses(report domain.HealthReport) map[string]domain.HealthStatus {
	out := map[string]domain.HealthStatus{}
	for _, check := range report.Checks {
		out[check.Name] = check.Status
	}
	return out
}

func TestService_Healthy(t *testing.T) {
	svc := &Service{
		ConfigProvider: staticConfig{cfg: healthyConfig()},
		Environment:    staticEnvironment{snapshot: domain.EnvironmentSnapshot{AvailableTools: []string{"bash", "kubectl"}}},
		Security:       staticSecurity{risk: domain.RiskAssessment{Level: domain.RiskCritical, Action: domain.ActionBlock}},
		History:        emptyHistory{},
		ContextPath:    filepath.Join(t.TempDir(), "context.json"),
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, report.HasErrors())
	for name, status := range statuses(report) {
		assert.Equal(t, domain.HealthOK, status, name)
	}
}

func TestService_ReportsProblems(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := healthyConfig()
	cfg.OpenAICompatible.APIKey = domain.PlaceholderAPIKey
	cfg.OpenAICompatible.APIKeyEnv = ""
	contextPath := filepath.Join(t.TempDir(), "context.json")
	require.NoError(t, os.WriteFile(contextPath, []byte("garbage"), 0o644))

	svc := &Service{
		ConfigProvider: staticConfig{cfg: cfg},
		Environment:    staticEnvironment{snapshot: domain.EnvironmentSnapshot{MissingTools: []string{"kubectl"}}},
		Security:       staticSecurity{risk: domain.SafeAssessment()},
		History:        emptyHistory{err: errors.New("database locked")},
		ContextPath:    contextPath,
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, report.HasErrors())

	got := statuses(report)
	assert.Equal(t, domain.HealthError, got["Provider credentials"])
	assert.Equal(t, domain.HealthWarn, got["Tools"])
	assert.Equal(t, domain.HealthWarn, got["Context log"])
	assert.Equal(t, domain.HealthWarn, got["Guardrail"])
	assert.Equal(t, domain.HealthError, got["History"])
}

func TestService_ConfigLoadFailure(t *testing.T) {
	svc := &Service{ConfigProvider: staticConfig{err: errors.New("permission denied")}}

	report, err := svc.Run(context.Background())
	assert.Error(t, err)
	require.Len(t, report.Checks, 1)
	assert.Equal(t, domain.HealthError, report.Checks[0].Status)
}

func TestService_DisabledFeaturesWarn(t *testing.T) {
	cfg := healthyConfig()
	cfg.Security.Enabled = false
	cfg.History.Enabled = false
	svc := &Service{
		ConfigProvider: staticConfig{cfg: cfg},
		Environment:    staticEnvironment{},
		ContextPath:    filepath.Join(t.TempDir(), "context.json"),
	}

	report, err := svc.Run(context.Background())
	require.NoError(t, err)
	got := statuses(report)
	assert.Equal(t, domain.HealthWarn, got["Guardrail"])
	assert.Equal(t, domain.HealthWarn, got["History"])
	assert.False(t, report.HasErrors())
}
