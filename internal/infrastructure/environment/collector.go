// Package environment snapshots the host a session runs on.
package environment

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// Collector implements ports.EnvironmentCollector with PATH probing.
type Collector struct {
	lookPath func(string) (string, error)
	getwd    func() (string, error)
}

// NewCollector builds a collector backed by the real host.
func NewCollector() *Collector {
	return &Collector{lookPath: exec.LookPath, getwd: os.Getwd}
}

// Collect gathers the working directory, shell, OS, user and which of tools
// resolve on PATH. The generic shell passthrough is always available.
func (c *Collector) Collect(_ context.Context, tools []string) (domain.EnvironmentSnapshot, error) {
	wd, _ := c.getwd()
	snapshot := domain.EnvironmentSnapshot{
		WorkingDir: wd,
		Shell:      detectShell(),
		OS:         runtime.GOOS,
		User:       detectUser(),
	}
	for _, tool := range tools {
		if tool == domain.ToolPassthrough {
			snapshot.AvailableTools = append(snapshot.AvailableTools, tool)
			continue
		}
		if _, err := c.lookPath(tool); err == nil {
			snapshot.AvailableTools = append(snapshot.AvailableTools, tool)
		} else {
			snapshot.MissingTools = append(snapshot.MissingTools, tool)
		}
	}
	sort.Strings(snapshot.AvailableTools)
	sort.Strings(snapshot.MissingTools)
	return snapshot, nil
}

func detectShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return filepath.Base(shell)
	}
	if runtime.GOOS == "windows" {
		return "cmd"
	}
	return "unknown"
}

func detectUser() string {
	for _, key := range []string{"USER", "USERNAME", "LOGNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

var _ ports.EnvironmentCollector = (*Collector)(nil)
