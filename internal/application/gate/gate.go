// Package gate implements the confirmation state machine that sits between a
// proposed command and its execution.
//
//	proposed -> executed
//	proposed -> awaiting_confirmation -> executed | cancelled
//
// Only the executed transition launches a process.
package gate

import (
	"context"
	"fmt"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// Proposal is a command on its way through the gate.
type Proposal struct {
	Command   string
	Dangerous bool
	// Explicit asks the prompter for a typed confirmation.
	Explicit bool
	Reasons  []string
}

// Gate runs safe commands immediately and holds dangerous ones for approval.
type Gate struct {
	runner ports.CommandRunner
	logger ports.Logger
}

// New creates a Gate.
func New(runner ports.CommandRunner, logger ports.Logger) *Gate {
	return &Gate{runner: runner, logger: logger}
}

// ConfirmationPrompt is the text shown before a dangerous command runs.
func ConfirmationPrompt(command string) string {
	return fmt.Sprintf("This is a potentially dangerous operation!\nCommand to execute: %s", command)
}

// CommandLine returns the command line the runner would execute for command.
func (g *Gate) CommandLine(command string) string {
	return g.runner.Resolve(command)
}

// Propose executes a safe command or returns a confirmation request for a
// dangerous one without running it.
func (g *Gate) Propose(ctx context.Context, command string, dangerous bool) domain.ExecutionOutcome {
	if dangerous {
		g.transition(command, domain.GateProposed, domain.GateAwaitingConfirmation)
		return domain.ExecutionOutcome{
			State:                domain.GateAwaitingConfirmation,
			Output:               ConfirmationPrompt(command),
			RequiresConfirmation: true,
		}
	}
	g.transition(command, domain.GateProposed, domain.GateExecuted)
	return domain.ExecutionOutcome{State: domain.GateExecuted, Output: g.run(ctx, command)}
}

// Resolve finishes a command that was awaiting confirmation.
func (g *Gate) Resolve(ctx context.Context, command string, approved bool) domain.GateResult {
	if !approved {
		g.transition(command, domain.GateAwaitingConfirmation, domain.GateCancelled)
		return domain.GateResult{State: domain.GateCancelled, Command: command, Output: domain.CancellationNotice}
	}
	g.transition(command, domain.GateAwaitingConfirmation, domain.GateExecuted)
	return domain.GateResult{State: domain.GateExecuted, Command: command, Output: g.run(ctx, command)}
}

// Process drives a proposal to a terminal state, asking prompter when the
// command is dangerous. A prompter failure or a missing prompter counts as a no.
func (g *Gate) Process(ctx context.Context, p Proposal, prompter ports.ConfirmationPrompter) domain.GateResult {
	outcome := g.Propose(ctx, p.Command, p.Dangerous)
	if !outcome.RequiresConfirmation {
		return domain.GateResult{State: outcome.State, Command: p.Command, Output: outcome.Output}
	}

	approved := false
	if prompter != nil {
		ok, err := prompter.Confirm(domain.ConfirmationRequest{
			Command:  p.Command,
			Prompt:   outcome.Output,
			Explicit: p.Explicit,
			Reasons:  p.Reasons,
		})
		if err != nil {
			g.logger.Warn("confirmation failed", map[string]interface{}{"error": err.Error()})
		}
		approved = ok && err == nil
	}
	return g.Resolve(ctx, p.Command, approved)
}

func (g *Gate) transition(command string, from, to domain.GateState) {
	g.logger.Debug("gate transition", map[string]interface{}{
		"command": command,
		"from":    string(from),
		"to":      string(to),
	})
}

func (g *Gate) run(ctx context.Context, command string) string {
	g.logger.Debug("executing command", map[string]interface{}{"command": command})
	return g.runner.Run(ctx, command)
}
