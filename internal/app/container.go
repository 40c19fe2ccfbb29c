package app

import (
	"context"
	"fmt"

	"github.com/doeshing/cmdllm/internal/application/doctor"
	"github.com/doeshing/cmdllm/internal/application/gate"
	"github.com/doeshing/cmdllm/internal/application/session"
	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/infrastructure/ai"
	"github.com/doeshing/cmdllm/internal/infrastructure/config"
	"github.com/doeshing/cmdllm/internal/infrastructure/contextstore"
	"github.com/doeshing/cmdllm/internal/infrastructure/environment"
	"github.com/doeshing/cmdllm/internal/infrastructure/history"
	"github.com/doeshing/cmdllm/internal/infrastructure/runner"
	"github.com/doeshing/cmdllm/internal/infrastructure/security"
	"github.com/doeshing/cmdllm/internal/pkg/logger"
	"github.com/doeshing/cmdllm/internal/ports"
)

// Options controls how the container is built.
type Options struct {
	Verbose    bool
	ConfigPath string
	// Logger replaces the zerolog logger selected by Verbose.
	Logger ports.Logger
	// Translators replaces the go-openai factory.
	Translators ports.TranslatorFactory
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigProvider ports.ConfigProvider
	ConfigLoader   *config.FileLoader
	Logger         ports.Logger
	Environment    ports.EnvironmentCollector
	Translators    ports.TranslatorFactory
	ContextStore   *contextstore.FileStore
	Security       ports.SecurityService
	Guardrail      *security.Guardrail
	HistoryStore   history.Store
	DoctorService  *doctor.Service
}

// SessionRequest carries the per-session terminal adapters.
type SessionRequest struct {
	Tool     string
	Prompter ports.ConfirmationPrompter
	Observer ports.TurnObserver
}

// BuildContainer constructs the dependency graph.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	log := opts.Logger
	if log == nil {
		log = logger.New(opts.Verbose)
	}

	cfgLoader := config.NewFileLoader(opts.ConfigPath, log)
	cfg, err := cfgLoader.Load(ctx)
	if err != nil {
		return nil, err
	}

	translators := opts.Translators
	if translators == nil {
		translators = ai.NewFactory()
	}

	container := &Container{
		Config:         cfg,
		ConfigProvider: cfgLoader,
		ConfigLoader:   cfgLoader,
		Logger:         log,
		Environment:    environment.NewCollector(),
		Translators:    translators,
		ContextStore:   contextstore.NewFileStore(cfg.Context.File, cfgLoader, log),
	}

	if cfg.IsSecurityEnabled() {
		guardrail, err := security.NewGuardrail(cfg.Security.RulesFile)
		if err != nil {
			log.Warn("guardrail rules unreadable, using embedded defaults", map[string]interface{}{
				"rules_file": cfg.Security.RulesFile,
				"error":      err.Error(),
			})
			guardrail, err = security.NewDefaultGuardrail()
			if err != nil {
				return nil, err
			}
		}
		container.Guardrail = guardrail
		container.Security = guardrail
	}

	if cfg.IsHistoryEnabled() {
		store := history.Open(cfg.History.Path, log)
		if days := cfg.GetHistoryRetentionDays(); days > 0 {
			removed, err := store.PruneOlderThan(ctx, days)
			if err != nil {
				log.Warn("history prune failed", map[string]interface{}{"error": err.Error()})
			} else if removed > 0 {
				log.Debug("history pruned", map[string]interface{}{"removed": removed, "days": days})
			}
		}
		container.HistoryStore = store
	}

	container.DoctorService = &doctor.Service{
		ConfigProvider: cfgLoader,
		Environment:    container.Environment,
		Security:       container.Security,
		ContextPath:    container.ContextStore.Path(),
	}
	if container.HistoryStore != nil {
		container.DoctorService.History = container.HistoryStore
	}

	return container, nil
}

// NewSession validates the tool and credentials and builds the turn
// orchestrator for one chat session.
func (c *Container) NewSession(ctx context.Context, req SessionRequest) (*session.Orchestrator, error) {
	cfg := c.Config
	if err := cfg.RequireTool(req.Tool); err != nil {
		return nil, err
	}
	creds, err := cfg.ProviderCredentials()
	if err != nil {
		return nil, err
	}
	translator, err := c.Translators.ForCredentials(creds)
	if err != nil {
		return nil, fmt.Errorf("create translator: %w", err)
	}

	snapshot, err := c.Environment.Collect(ctx, cfg.ToolList())
	if err != nil {
		c.Logger.Warn("environment snapshot failed", map[string]interface{}{"error": err.Error()})
	}

	opts := session.Options{
		Tool:           req.Tool,
		Translator:     translator,
		Context:        c.ContextStore,
		Gate:           gate.New(runner.New(req.Tool, c.Logger), c.Logger),
		Prompter:       req.Prompter,
		Security:       c.Security,
		Observer:       req.Observer,
		Environment:    snapshot,
		Language:       cfg.PromptLanguage(),
		SystemTemplate: cfg.Prompt.SystemTemplate,
		Logger:         c.Logger,
	}
	if c.HistoryStore != nil {
		opts.History = c.HistoryStore
	}
	return session.New(opts)
}

// Close releases the history store.
func (c *Container) Close() error {
	if c.HistoryStore == nil {
		return nil
	}
	return c.HistoryStore.Close()
}
