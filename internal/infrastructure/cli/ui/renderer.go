package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// ProcessingLabel is shown while the translator is working.
const ProcessingLabel = "Processing your query..."

// Renderer prints turn events. It implements ports.TurnObserver.
type Renderer struct {
	out     io.Writer
	theme   theme
	spinner *Spinner
}

// NewRenderer builds a renderer; a spinner is used only when out is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	r := &Renderer{out: out, theme: newTheme(out)}
	if IsTerminal(out) {
		r.spinner = NewSpinner(out, r.theme.warning.Render(ProcessingLabel))
	}
	return r
}

// Banner announces the session.
func (r *Renderer) Banner(tool string) {
	fmt.Fprintf(r.out, "Starting interactive %s session. Type 'exit' or 'quit' to end.\n", tool)
	fmt.Fprintln(r.out, Separator)
}

// Goodbye closes the session.
func (r *Renderer) Goodbye() {
	fmt.Fprintln(r.out, "Exiting chat session.")
}

func (r *Renderer) TranslationStarted() {
	if r.spinner != nil {
		r.spinner.Start()
		return
	}
	fmt.Fprintln(r.out, r.theme.warning.Render(ProcessingLabel))
}

func (r *Renderer) TranslationFinished() {
	if r.spinner != nil {
		r.spinner.Stop()
	}
}

func (r *Renderer) CommandProposed(resp domain.ClassifiedResponse, risk domain.RiskAssessment) {
	fmt.Fprintln(r.out, "\nSuggested command:")
	style := r.theme.safe
	if resp.Dangerous {
		style = r.theme.danger
	}
	fmt.Fprintln(r.out, style.Render("  "+resp.Text))
	if resp.Dangerous {
		fmt.Fprintln(r.out, r.theme.warning.Render("  (Potentially dangerous operation!)"))
	}
	if risk.Level != domain.RiskSafe && risk.Level != "" {
		fmt.Fprintln(r.out, r.theme.warning.Render(fmt.Sprintf("  Guardrail: %s risk, %s", strings.ToUpper(string(risk.Level)), risk.Action)))
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) TurnCompleted(result domain.TurnResult) {
	switch {
	case result.Failed():
		fmt.Fprintln(r.out, r.theme.failure.Render(result.Display))
	case result.State == domain.GateBlocked:
		fmt.Fprintln(r.out, r.theme.failure.Render(result.Display))
	case result.Response.IsCommand():
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.theme.heading.Render("Execution result:"))
		fmt.Fprintln(r.out, result.Display)
	default:
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, r.theme.heading.Render("Answer:"))
		fmt.Fprintln(r.out, result.Display)
	}
	fmt.Fprintln(r.out, "\n"+Separator)
}

// Success prints a green status line.
func (r *Renderer) Success(msg string) {
	fmt.Fprintln(r.out, r.theme.success.Render(msg))
}

// Warning prints a yellow status line.
func (r *Renderer) Warning(msg string) {
	fmt.Fprintln(r.out, r.theme.warning.Render(msg))
}

// Failure prints a red status line.
func (r *Renderer) Failure(msg string) {
	fmt.Fprintln(r.out, r.theme.failure.Render(msg))
}

var _ ports.TurnObserver = (*Renderer)(nil)
