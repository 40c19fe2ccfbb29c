package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// ExplicitConfirmation must be typed verbatim to approve an explicit_confirm command.
const ExplicitConfirmation = "yes"

// Console reads user input and asks for confirmations. Line input and
// confirmations share one buffered reader so piped input is not lost.
type Console struct {
	in    *bufio.Reader
	rawIn io.Reader
	out   io.Writer
	theme theme
}

// NewConsole builds a console over in and out; nil values select stdio.
func NewConsole(in io.Reader, out io.Writer) *Console {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		in:    bufio.NewReader(in),
		rawIn: in,
		out:   out,
		theme: newTheme(out),
	}
}

// ReadLine implements ports.InputReader.
func (c *Console) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(c.out, c.theme.prompt.Render(prompt))
	}
	return c.readLine()
}

// Confirm implements ports.ConfirmationPrompter. Explicit requests need the
// word "yes"; others accept y or yes. End of input declines.
func (c *Console) Confirm(req domain.ConfirmationRequest) (bool, error) {
	if req.Prompt != "" {
		for _, line := range strings.Split(req.Prompt, "\n") {
			fmt.Fprintln(c.out, c.theme.warning.Render(line))
		}
	}
	for _, reason := range req.Reasons {
		fmt.Fprintf(c.out, " - %s\n", reason)
	}

	var approved bool
	if req.Explicit {
		fmt.Fprint(c.out, c.theme.heading.Render("Type 'yes' to confirm (or anything else to cancel): "))
		line, err := c.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		approved = strings.TrimSpace(line) == ExplicitConfirmation
	} else {
		approved = c.AskYesNo(c.theme.heading.Render("Are you sure you want to proceed?"), false)
	}

	if approved {
		fmt.Fprintln(c.out, c.theme.warning.Render("Executing confirmed command..."))
	}
	return approved, nil
}

// Ask prints a prompt with a default and returns the trimmed answer, or the
// default when the answer is empty.
func (c *Console) Ask(prompt, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(c.out, "%s [%s]: ", prompt, defaultValue)
	} else {
		fmt.Fprintf(c.out, "%s: ", prompt)
	}
	line, _ := c.readLine()
	if line = strings.TrimSpace(line); line == "" {
		return defaultValue
	}
	return line
}

// AskChoice repeats the question until the answer is one of choices.
func (c *Console) AskChoice(prompt string, choices []string, defaultValue string) (string, error) {
	label := fmt.Sprintf("%s (%s)", prompt, strings.Join(choices, "/"))
	for {
		answer := c.Ask(label, defaultValue)
		for _, choice := range choices {
			if answer == choice {
				return answer, nil
			}
		}
		if _, err := c.in.Peek(1); err != nil {
			return "", fmt.Errorf("no valid choice among %s", strings.Join(choices, ", "))
		}
		fmt.Fprintf(c.out, "Error: %q is not one of %s.\n", answer, strings.Join(choices, ", "))
	}
}

// AskYesNo asks a y/n question; an empty answer selects defaultValue.
func (c *Console) AskYesNo(prompt string, defaultValue bool) bool {
	label := "y/N"
	if defaultValue {
		label = "Y/n"
	}
	fmt.Fprintf(c.out, "%s [%s]: ", prompt, label)
	line, _ := c.readLine()
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return defaultValue
	case "y", "yes":
		return true
	default:
		return false
	}
}

// AskSecret reads a value without echo when the input is a terminal. Keys
// shown in the prompt default are never echoed back.
func (c *Console) AskSecret(prompt string, hasDefault bool) string {
	if hasDefault {
		fmt.Fprintf(c.out, "%s [keep current]: ", prompt)
	} else {
		fmt.Fprintf(c.out, "%s: ", prompt)
	}
	if f, ok := c.rawIn.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}
	line, _ := c.readLine()
	return strings.TrimSpace(line)
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var (
	_ ports.InputReader          = (*Console)(nil)
	_ ports.ConfirmationPrompter = (*Console)(nil)
)
