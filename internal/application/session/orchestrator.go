// Package session runs the interactive turn loop: read a query, translate it,
// classify the reply, pass commands through the gate and fold the outcome back
// into the context window.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/cmdllm/internal/application/classify"
	"github.com/doeshing/cmdllm/internal/application/gate"
	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// Options carries the orchestrator's collaborators. Security, History and
// Observer are optional.
type Options struct {
	Tool           string
	Translator     ports.Translator
	Context        ports.ContextStore
	Gate           *gate.Gate
	Prompter       ports.ConfirmationPrompter
	Security       ports.SecurityService
	History        ports.HistoryRepository
	Observer       ports.TurnObserver
	Environment    domain.EnvironmentSnapshot
	Language       string
	SystemTemplate string
	SessionID      string
	Logger         ports.Logger
	Now            func() time.Time
}

// Orchestrator processes one turn at a time for a single tool.
type Orchestrator struct {
	opts         Options
	systemPrompt string
}

// New validates opts and renders the system prompt once for the session.
func New(opts Options) (*Orchestrator, error) {
	if opts.Tool == "" || opts.Translator == nil || opts.Context == nil || opts.Gate == nil || opts.Logger == nil {
		return nil, errors.New("session.Orchestrator dependencies not satisfied")
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	prompt, err := RenderSystemPrompt(opts.SystemTemplate, opts.Tool, opts.Language, opts.Environment)
	if err != nil {
		return nil, err
	}
	return &Orchestrator{opts: opts, systemPrompt: prompt}, nil
}

// SessionID identifies this session in the turn history.
func (o *Orchestrator) SessionID() string {
	return o.opts.SessionID
}

// SystemPrompt returns the rendered system prompt.
func (o *Orchestrator) SystemPrompt() string {
	return o.systemPrompt
}

// IsExit reports whether input ends the session.
func IsExit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// Run reads queries until an exit word, end of input or context cancellation.
// Errors inside a turn are displayed and never end the loop.
func (o *Orchestrator) Run(ctx context.Context, input ports.InputReader) error {
	prompt := o.opts.Tool + "> "
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := input.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}
		if IsExit(line) {
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		o.ProcessTurn(ctx, line)
	}
}

// ProcessTurn handles one query end to end and always returns a result with
// display text.
func (o *Orchestrator) ProcessTurn(ctx context.Context, query string) domain.TurnResult {
	query = strings.TrimSpace(query)
	result := domain.TurnResult{Query: query, Risk: domain.SafeAssessment()}

	history, _ := o.opts.Context.Recent(ctx)
	messages := BuildMessages(o.systemPrompt, history, query)

	o.opts.Logger.Info("calling translator", map[string]interface{}{
		"provider": o.opts.Translator.Name(),
		"model":    o.opts.Translator.Model(),
		"messages": len(messages),
	})
	o.opts.Observer.TranslationStarted()
	raw, err := o.opts.Translator.Translate(ctx, messages)
	o.opts.Observer.TranslationFinished()
	if err != nil {
		o.opts.Logger.Error("translation failed", err, nil)
		result.Err = err
		result.Display = fmt.Sprintf("Error processing query with LLM: %v", err)
		result.Response = domain.NewAnswer(result.Display)
		o.recordHistory(ctx, result)
		o.opts.Observer.TurnCompleted(result)
		return result
	}

	result.Response = classify.Classify(raw)
	if result.Response.Degraded {
		o.opts.Logger.Warn("unrecognized translator response", map[string]interface{}{"raw": raw})
	}

	if result.Response.IsCommand() {
		o.handleCommand(ctx, &result)
	} else {
		result.Display = result.Response.Text
		result.Turn = domain.Turn{Query: query, CommandLogged: domain.NoCommand, ResultLogged: result.Display}
	}

	if err := o.opts.Context.Append(ctx, result.Turn.Entries()...); err != nil {
		o.opts.Logger.Warn("context append failed", map[string]interface{}{"error": err.Error()})
	} else {
		result.Recorded = true
	}
	o.recordHistory(ctx, result)
	o.opts.Observer.TurnCompleted(result)
	return result
}

func (o *Orchestrator) handleCommand(ctx context.Context, result *domain.TurnResult) {
	command := result.Response.Text
	risk := o.assess(o.opts.Gate.CommandLine(command))
	result.Risk = risk
	if risk.RequiresConfirmation() || risk.Blocks() {
		result.Response.Dangerous = true
	}
	o.opts.Observer.CommandProposed(result.Response, risk)

	if risk.Blocks() {
		result.State = domain.GateBlocked
		result.Display = "Command blocked by guardrail: " + strings.Join(risk.Reasons, "; ")
		o.opts.Logger.Warn("command blocked", map[string]interface{}{"command": command, "rules": risk.MatchedRules})
	} else {
		gateResult := o.opts.Gate.Process(ctx, gate.Proposal{
			Command:   command,
			Dangerous: result.Response.Dangerous,
			Explicit:  risk.RequiresExplicitConfirmation(),
			Reasons:   risk.Reasons,
		}, o.opts.Prompter)
		result.State = gateResult.State
		result.Display = gateResult.Output
	}
	result.Turn = domain.Turn{Query: result.Query, CommandLogged: command, ResultLogged: result.Display}
}

func (o *Orchestrator) assess(command string) domain.RiskAssessment {
	if o.opts.Security == nil {
		return domain.SafeAssessment()
	}
	risk, err := o.opts.Security.Evaluate(command)
	if err != nil {
		o.opts.Logger.Warn("guardrail evaluation failed", map[string]interface{}{"error": err.Error()})
		return domain.SafeAssessment()
	}
	return risk
}

func (o *Orchestrator) recordHistory(ctx context.Context, result domain.TurnResult) {
	if o.opts.History == nil {
		return
	}
	record := domain.HistoryRecord{
		Timestamp: o.opts.Now().UTC(),
		SessionID: o.opts.SessionID,
		Tool:      o.opts.Tool,
		Query:     result.Query,
		Command:   domain.NoCommand,
		Dangerous: result.Response.Dangerous,
		State:     result.State,
		Result:    result.Display,
		Model:     o.opts.Translator.Model(),
		RiskLevel: result.Risk.Level,
	}
	if result.Response.IsCommand() {
		record.Command = result.Response.Text
	}
	if err := o.opts.History.Save(ctx, record); err != nil {
		o.opts.Logger.Warn("history save failed", map[string]interface{}{"error": err.Error()})
	}
}

type nopObserver struct{}

func (nopObserver) TranslationStarted()                                              {}
func (nopObserver) TranslationFinished()                                             {}
func (nopObserver) CommandProposed(domain.ClassifiedResponse, domain.RiskAssessment) {}
func (nopObserver) TurnCompleted(domain.TurnResult)                                  {}
