// Package ui holds the terminal adapters of the chat session: line input,
// confirmation prompts, turn rendering and the progress spinner.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Separator ends every rendered turn.
const Separator = "-----------------------------------------------------"

type theme struct {
	prompt  lipgloss.Style
	safe    lipgloss.Style
	danger  lipgloss.Style
	warning lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	heading lipgloss.Style
}

func newTheme(out io.Writer) theme {
	r := lipgloss.NewRenderer(out)
	return theme{
		prompt:  r.NewStyle().Foreground(lipgloss.Color("6")),
		safe:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		danger:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("3")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		heading: r.NewStyle().Bold(true),
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w interface{}) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
