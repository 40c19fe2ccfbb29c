// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The turn orchestrator, the execution gate and the
// classifier depend only on these abstractions; the LLM client, the process
// runner, the context file and the terminal are adapters.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Translator, ContextStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/cmdllm/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.cmdllm/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ContextLimiter reports the current context window size. It is consulted on
// every read so a changed setting applies to the next turn.
type ContextLimiter interface {
	MaxContextMessages(context.Context) int
}

// EnvironmentCollector gathers host details used to render the system prompt.
type EnvironmentCollector interface {
	Collect(ctx context.Context, tools []string) (domain.EnvironmentSnapshot, error)
}

// TranslatorFactory builds a translator for the resolved provider credentials.
type TranslatorFactory interface {
	ForCredentials(domain.ProviderCredentials) (Translator, error)
}

// Translator sends an ordered message list to a chat completion endpoint and
// returns the raw text of the first choice.
type Translator interface {
	Name() string
	Model() string
	Translate(ctx context.Context, messages []domain.ContextEntry) (string, error)
}

// CommandRunner executes a command for the session tool. Failures are
// reported inside the returned text, never as an error.
type CommandRunner interface {
	// Resolve returns the command line Run would execute for command.
	Resolve(command string) string
	Run(ctx context.Context, command string) string
}

// ContextStore persists the rolling conversation window.
type ContextStore interface {
	// Append adds entries and trims the log to the current limit.
	Append(ctx context.Context, entries ...domain.ContextEntry) error
	// Recent returns the most recent entries within the limit. The flag is
	// false when nothing is stored.
	Recent(ctx context.Context) ([]domain.ContextEntry, bool)
	// All returns every stored entry without applying the limit.
	All(ctx context.Context) []domain.ContextEntry
	Clear(ctx context.Context) error
}

// HistoryRepository persists processed turns for auditing and search.
type HistoryRepository interface {
	Save(ctx context.Context, record domain.HistoryRecord) error
	Records(ctx context.Context, limit int, search string) ([]domain.HistoryRecord, error)
	Clear(ctx context.Context) error
	PruneOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SecurityService evaluates commands against guardrail rules.
type SecurityService interface {
	Evaluate(command string) (domain.RiskAssessment, error)
}

// ConfirmationPrompter asks the user to approve a dangerous command.
type ConfirmationPrompter interface {
	Confirm(domain.ConfirmationRequest) (bool, error)
}

// InputReader reads one line of user input. It returns io.EOF when the input
// stream is closed.
type InputReader interface {
	ReadLine(prompt string) (string, error)
}

// TurnObserver receives presentation events while a turn is processed.
type TurnObserver interface {
	TranslationStarted()
	TranslationFinished()
	CommandProposed(domain.ClassifiedResponse, domain.RiskAssessment)
	TurnCompleted(domain.TurnResult)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
