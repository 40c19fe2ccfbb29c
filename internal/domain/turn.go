package domain

import "strings"

// Message roles exchanged with the translator.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// NoCommand is logged in place of a command when a turn proposed none.
const NoCommand = "N/A"

// ContextEntry is one message of the rolling conversation window.
type ContextEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Turn is one user/assistant exchange, folded into the context log when it completes.
type Turn struct {
	Query         string
	CommandLogged string
	ResultLogged  string
}

// Entries converts the turn into its user and assistant context entries.
func (t Turn) Entries() []ContextEntry {
	var assistant strings.Builder
	if t.CommandLogged != "" && t.CommandLogged != NoCommand {
		assistant.WriteString(t.CommandLogged)
		assistant.WriteString("\n\n")
	}
	assistant.WriteString(t.ResultLogged)

	return []ContextEntry{
		{Role: RoleUser, Content: t.Query},
		{Role: RoleAssistant, Content: strings.TrimSpace(assistant.String())},
	}
}

// TurnResult is what the core hands back to the presentation layer for one query.
type TurnResult struct {
	Query    string
	Response ClassifiedResponse
	Risk     RiskAssessment
	// State is empty for answers and translation failures.
	State   GateState
	Display string
	Turn    Turn
	// Recorded reports whether the turn reached the context log.
	Recorded bool
	Err      error
}

// Failed reports whether the translation step failed.
func (r TurnResult) Failed() bool {
	return r.Err != nil
}
