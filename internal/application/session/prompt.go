package session

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/doeshing/cmdllm/internal/domain"
)

// DefaultSystemTemplate asks the translator for the COMMAND:/DANGEROUS: or
// ANSWER: response shape understood by the classifier.
const DefaultSystemTemplate = `You are a {{.Tool}} expert. Analyze the user's query and respond appropriately:

1. If the user is asking for a {{.Tool}} command or operation:
- Convert the query into the appropriate {{.Tool}} command.
- If the command is potentially dangerous (e.g., removes data, deletes resources, modifies system files), set DANGEROUS to true.
- Format your response exactly as:
COMMAND: <the {{.Tool}} command>
DANGEROUS: <true/false>

2. If the user is asking a general question about {{.Tool}}:
- Provide a clear and concise answer.
- Format your response exactly as:
ANSWER: <your detailed explanation>

IMPORTANT: Only provide the command or the answer, following the exact format. Do not add extra explanations unless asked.
{{- if .OS}}
The command will run on {{.OS}}{{if .Shell}} (user shell {{.Shell}}){{end}}{{if .WorkingDir}} in {{.WorkingDir}}{{end}}.
{{- end}}
Respond in {{.Language}}.`

type promptData struct {
	Tool       string
	Language   string
	OS         string
	Shell      string
	WorkingDir string
	User       string
	Tools      string
}

// RenderSystemPrompt expands tmpl (or the default template when empty).
func RenderSystemPrompt(tmpl, tool, language string, env domain.EnvironmentSnapshot) (string, error) {
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DefaultSystemTemplate
	}
	if language == "" {
		language = domain.DefaultPromptLanguage
	}
	parsed, err := template.New("system").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse system template: %w", err)
	}
	data := promptData{
		Tool:       tool,
		Language:   language,
		OS:         env.OS,
		Shell:      env.Shell,
		WorkingDir: env.WorkingDir,
		User:       env.User,
		Tools:      strings.Join(env.AvailableTools, ", "),
	}
	var buf bytes.Buffer
	if err := parsed.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render system template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// BuildMessages assembles the translation request: system prompt, the recent
// context window when present, then the new query.
func BuildMessages(systemPrompt string, history []domain.ContextEntry, query string) []domain.ContextEntry {
	messages := make([]domain.ContextEntry, 0, len(history)+2)
	messages = append(messages, domain.ContextEntry{Role: domain.RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, domain.ContextEntry{Role: domain.RoleUser, Content: query})
	return messages
}
