// Package runner executes translated commands as child processes.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// Runner invokes commands for a single tool. The command text is split with
// shell quoting rules but never handed to a shell, so pipes, redirects and
// globs reach the program as literal arguments.
type Runner struct {
	tool   string
	logger ports.Logger
}

// New builds a runner for tool.
func New(tool string, logger ports.Logger) *Runner {
	return &Runner{tool: tool, logger: logger}
}

// Resolve returns the command line that will actually run, adding the tool
// name when the translator omitted it.
func (r *Runner) Resolve(command string) string {
	if domain.IsPassthroughTool(r.tool) || strings.HasPrefix(command, r.tool+" ") {
		return command
	}
	return r.tool + " " + command
}

// Argv tokenizes the resolved command line. A leading # is an ordinary
// character, not a comment.
func (r *Runner) Argv(command string) ([]string, error) {
	return shellquote.Split(r.Resolve(command))
}

// Run executes command and returns stdout followed by stderr. A non-zero exit
// status is not a failure; launch failures are returned as diagnostic text.
func (r *Runner) Run(ctx context.Context, command string) string {
	argv, err := r.Argv(command)
	if err != nil {
		return fmt.Sprintf("Error executing command: %v", err)
	}
	if len(argv) == 0 {
		return "Error executing command: empty command"
	}

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	err = c.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
		if exitErr != nil {
			r.logger.Debug("command exited non-zero", map[string]interface{}{
				"argv0":     argv[0],
				"exit_code": exitErr.ExitCode(),
			})
		}
		return combine(stdout.String(), stderr.String())
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		r.logger.Warn("executable not found", map[string]interface{}{"argv0": argv[0]})
		return NotFoundMessage(argv[0])
	default:
		r.logger.Error("command launch failed", err, map[string]interface{}{"argv0": argv[0]})
		return fmt.Sprintf("Error executing command: %v", err)
	}
}

// NotFoundMessage is the diagnostic returned when name is not on PATH.
func NotFoundMessage(name string) string {
	return fmt.Sprintf("Error: '%s' command not found. Please ensure %s is installed and in your PATH.", name, name)
}

func combine(stdout, stderr string) string {
	if stderr == "" {
		return stdout
	}
	if stdout == "" {
		return stderr
	}
	return stdout + "\n" + stderr
}

var _ ports.CommandRunner = (*Runner)(nil)
