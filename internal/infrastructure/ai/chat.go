package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

// ErrEmptyCompletion is returned when the endpoint answers without choices.
var ErrEmptyCompletion = errors.New("completion returned no choices")

type chatTranslator struct {
	name        string
	model       string
	temperature float32
	client      *openai.Client
}

func newChatTranslator(name string, creds domain.ProviderCredentials, client *openai.Client) *chatTranslator {
	return &chatTranslator{
		name:        name,
		model:       creds.ModelName(),
		temperature: creds.Temperature,
		client:      client,
	}
}

func (t *chatTranslator) Name() string {
	return t.name
}

func (t *chatTranslator) Model() string {
	return t.model
}

// Translate sends messages in order and returns the trimmed text of the first choice.
func (t *chatTranslator) Translate(ctx context.Context, messages []domain.ContextEntry) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       t.model,
		Messages:    toChatMessages(messages),
		Temperature: t.temperature,
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", t.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", t.name, ErrEmptyCompletion)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func toChatMessages(entries []domain.ContextEntry) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(entries))
	for _, entry := range entries {
		out = append(out, openai.ChatCompletionMessage{
			Role:    chatRole(entry.Role),
			Content: entry.Content,
		})
	}
	return out
}

func chatRole(role string) string {
	switch role {
	case domain.RoleSystem:
		return openai.ChatMessageRoleSystem
	case domain.RoleAssistant:
		return openai.ChatMessageRoleAssistant
	default:
		return openai.ChatMessageRoleUser
	}
}

var _ ports.Translator = (*chatTranslator)(nil)
