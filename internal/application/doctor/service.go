package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	configapp "github.com/doeshing/cmdllm/internal/application/config"
	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Environment    ports.EnvironmentCollector
	Security       ports.SecurityService
	History        ports.HistoryRepository
	ContextPath    string
}

// Run executes checks and returns a report. The error is only set when the
// configuration itself cannot be loaded.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	if err := configapp.Validate(cfg); err != nil {
		checks = append(checks, fail("Config validation", flatten(err)))
	} else {
		checks = append(checks, ok("Config validation", "passed"))
	}

	checks = append(checks, credentialsCheck(cfg))
	checks = append(checks, s.toolsCheck(ctx, cfg))
	checks = append(checks, s.contextCheck())
	checks = append(checks, s.guardrailCheck(cfg))
	checks = append(checks, s.historyCheck(ctx, cfg))

	return domain.HealthReport{Checks: checks}, nil
}

func credentialsCheck(cfg domain.Config) domain.HealthCheck {
	creds, err := cfg.ProviderCredentials()
	if err != nil {
		return fail("Provider credentials", flatten(err))
	}
	return ok("Provider credentials", fmt.Sprintf("%s, model %s", creds.Provider, creds.ModelName()))
}

func (s *Service) toolsCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Environment == nil {
		return warn("Tools", "environment collector not initialized")
	}
	snapshot, err := s.Environment.Collect(ctx, cfg.ToolList())
	if err != nil {
		return warn("Tools", err.Error())
	}
	if len(snapshot.MissingTools) > 0 {
		return warn("Tools", fmt.Sprintf("not on PATH: %s", strings.Join(snapshot.MissingTools, ", ")))
	}
	return ok("Tools", fmt.Sprintf("available: %s", strings.Join(snapshot.AvailableTools, ", ")))
}

func (s *Service) contextCheck() domain.HealthCheck {
	if s.ContextPath == "" {
		return warn("Context log", "path not configured")
	}
	data, err := os.ReadFile(s.ContextPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ok("Context log", "empty (no file yet)")
		}
		return warn("Context log", err.Error())
	}
	var entries []domain.ContextEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return warn("Context log", fmt.Sprintf("corrupt, will be treated as empty: %v", err))
	}
	return ok("Context log", fmt.Sprintf("%d messages in %s", len(entries), s.ContextPath))
}

func (s *Service) guardrailCheck(cfg domain.Config) domain.HealthCheck {
	if !cfg.IsSecurityEnabled() {
		return warn("Guardrail", "disabled, only the model's danger flag is used")
	}
	if s.Security == nil {
		return fail("Guardrail", "enabled but rules failed to load")
	}
	risk, err := s.Security.Evaluate("rm -rf /")
	if err != nil {
		return fail("Guardrail", err.Error())
	}
	if risk.Level == domain.RiskSafe {
		return warn("Guardrail", "rules loaded but none match rm -rf /")
	}
	return ok("Guardrail", "rules loaded")
}

func (s *Service) historyCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if !cfg.IsHistoryEnabled() {
		return warn("History", "disabled")
	}
	if s.History == nil {
		return fail("History", "enabled but store unavailable")
	}
	if _, err := s.History.Records(ctx, 1, ""); err != nil {
		return fail("History", err.Error())
	}
	return ok("History", "store readable")
}

func flatten(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", "; ")
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
