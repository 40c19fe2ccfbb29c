package ui

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/cmdllm/internal/domain"
)

func TestConsole_ReadLine(t *testing.T) {
	var out bytes.Buffer
	console := NewConsole(strings.NewReader("list files\r\nlast"), &out)

	line, err := console.ReadLine("bash> ")
	require.NoError(t, err)
	assert.Equal(t, "list files", line)
	assert.Contains(t, out.String(), "bash> ")

	line, err = console.ReadLine("bash> ")
	require.NoError(t, err)
	assert.Equal(t, "last", line, "unterminated final line is returned")

	_, err = console.ReadLine("bash> ")
	assert.True(t, errors.Is(err, io.EOF))
}

func TestConsole_Confirm(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		explicit bool
		want     bool
	}{
		{name: "y approves", input: "y\n", want: true},
		{name: "yes approves", input: "YES\n", want: true},
		{name: "empty declines", input: "\n", want: false},
		{name: "end of input declines", input: "", want: false},
		{name: "explicit needs yes", input: "y\n", explicit: true, want: false},
		{name: "explicit yes approves", input: "yes\n", explicit: true, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			console := NewConsole(strings.NewReader(tt.input), &out)
			got, err := console.Confirm(domain.ConfirmationRequest{
				Command:  "rm -rf build",
				Prompt:   "This is a potentially dangerous operation!\nCommand to execute: rm -rf build",
				Explicit: tt.explicit,
				Reasons:  []string{"recursive delete"},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Command to execute: rm -rf build")
			assert.Contains(t, out.String(), " - recursive delete")
			if tt.want {
				assert.Contains(t, out.String(), "Executing confirmed command...")
			}
		})
	}
}

func TestConsole_SharedReader(t *testing.T) {
	console := NewConsole(strings.NewReader("delete tmp\ny\nnext\n"), io.Discard)

	line, err := console.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "delete tmp", line)

	ok, err := console.Confirm(domain.ConfirmationRequest{Command: "rm -r tmp"})
	require.NoError(t, err)
	assert.True(t, ok)

	line, err = console.ReadLine("")
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}

func TestConsole_AskHelpers(t *testing.T) {
	console := NewConsole(strings.NewReader("\nkubectl\nbogus\nazure\n"), io.Discard)

	assert.Equal(t, "bash", console.Ask("Tool", "bash"))
	assert.Equal(t, "kubectl", console.Ask("Tool", "bash"))

	choice, err := console.AskChoice("Provider", []string{"openai_compatible", "azure"}, "openai_compatible")
	require.NoError(t, err)
	assert.Equal(t, "azure", choice)

	assert.Equal(t, "sk-secret", NewConsole(strings.NewReader("sk-secret\n"), io.Discard).AskSecret("API key", false))
}
