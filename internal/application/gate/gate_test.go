package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/pkg/logger"
)

type recordingRunner struct {
	calls  []string
	output string
	prefix string
}

func (r *recordingRunner) Resolve(command string) string {
	return r.prefix + command
}

func (r *recordingRunner) Run(_ context.Context, command string) string {
	r.calls = append(r.calls, command)
	return r.output
}

type stubPrompter struct {
	answer   bool
	err      error
	requests []domain.ConfirmationRequest
}

func (p *stubPrompter) Confirm(req domain.ConfirmationRequest) (bool, error) {
	p.requests = append(p.requests, req)
	return p.answer, p.err
}

func newGate(runner *recordingRunner) *Gate {
	return New(runner, logger.New(false))
}

func TestGate_SafeCommandRunsImmediately(t *testing.T) {
	runner := &recordingRunner{output: "file.txt"}
	prompter := &stubPrompter{}

	result := newGate(runner).Process(context.Background(), Proposal{Command: "ls"}, prompter)

	assert.Equal(t, domain.GateExecuted, result.State)
	assert.Equal(t, "file.txt", result.Output)
	assert.Equal(t, []string{"ls"}, runner.calls)
	assert.Empty(t, prompter.requests)
}

func TestGate_ProposeDangerousDoesNotRun(t *testing.T) {
	runner := &recordingRunner{}

	outcome := newGate(runner).Propose(context.Background(), "rm -rf /tmp/x", true)

	assert.True(t, outcome.RequiresConfirmation)
	assert.Equal(t, domain.GateAwaitingConfirmation, outcome.State)
	assert.Contains(t, outcome.Output, "rm -rf /tmp/x")
	assert.Empty(t, runner.calls)
}

func TestGate_ProposeSafeExecutes(t *testing.T) {
	runner := &recordingRunner{output: "done"}

	outcome := newGate(runner).Propose(context.Background(), "ls", false)

	assert.False(t, outcome.RequiresConfirmation)
	assert.Equal(t, domain.GateExecuted, outcome.State)
	assert.Equal(t, "done", outcome.Output)
	assert.Equal(t, []string{"ls"}, runner.calls)
}

func TestGate_CommandLineUsesRunner(t *testing.T) {
	runner := &recordingRunner{prefix: "kubectl "}

	assert.Equal(t, "kubectl get pods", newGate(runner).CommandLine("get pods"))
	assert.Empty(t, runner.calls)
}

func TestGate_DangerousDeclined(t *testing.T) {
	runner := &recordingRunner{}
	prompter := &stubPrompter{answer: false}

	result := newGate(runner).Process(context.Background(), Proposal{Command: "rm -rf /tmp/x", Dangerous: true}, prompter)

	assert.Equal(t, domain.GateCancelled, result.State)
	assert.Equal(t, domain.CancellationNotice, result.Output)
	assert.Empty(t, runner.calls)
	require.Len(t, prompter.requests, 1)
	assert.Equal(t, ConfirmationPrompt("rm -rf /tmp/x"), prompter.requests[0].Prompt)
}

func TestGate_DangerousApproved(t *testing.T) {
	runner := &recordingRunner{output: "removed"}
	prompter := &stubPrompter{answer: true}

	result := newGate(runner).Process(context.Background(), Proposal{Command: "rm -rf /tmp/x", Dangerous: true}, prompter)

	assert.Equal(t, domain.GateExecuted, result.State)
	assert.Equal(t, "removed", result.Output)
	assert.Equal(t, []string{"rm -rf /tmp/x"}, runner.calls)
}

func TestGate_PrompterErrorCancels(t *testing.T) {
	runner := &recordingRunner{}
	prompter := &stubPrompter{answer: true, err: errors.New("stdin closed")}

	result := newGate(runner).Process(context.Background(), Proposal{Command: "reboot", Dangerous: true}, prompter)

	assert.Equal(t, domain.GateCancelled, result.State)
	assert.Empty(t, runner.calls)
}

func TestGate_NilPrompterCancels(t *testing.T) {
	runner := &recordingRunner{}

	result := newGate(runner).Process(context.Background(), Proposal{Command: "reboot", Dangerous: true}, nil)

	assert.Equal(t, domain.GateCancelled, result.State)
	assert.Empty(t, runner.calls)
}

func TestGate_ExplicitProposalForwardedToPrompter(t *testing.T) {
	runner := &recordingRunner{}
	prompter := &stubPrompter{answer: true}

	newGate(runner).Process(context.Background(), Proposal{
		Command:   "mkfs.ext4 /dev/sdb",
		Dangerous: true,
		Explicit:  true,
		Reasons:   []string{"formats a filesystem"},
	}, prompter)

	require.Len(t, prompter.requests, 1)
	assert.True(t, prompter.requests[0].Explicit)
	assert.Equal(t, []string{"formats a filesystem"}, prompter.requests[0].Reasons)
}

func TestGate_ResolveRunsExactlyOnce(t *testing.T) {
	runner := &recordingRunner{output: "ok"}
	g := newGate(runner)

	outcome := g.Propose(context.Background(), "kubectl delete pod web", true)
	require.True(t, outcome.RequiresConfirmation)

	result := g.Resolve(context.Background(), "kubectl delete pod web", true)
	assert.Equal(t, domain.GateExecuted, result.State)
	assert.Equal(t, []string{"kubectl delete pod web"}, runner.calls)
}
