// Package ai adapts OpenAI-compatible chat completion endpoints to the
// Translator port.
package ai

import (
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/ports"
)

type Factory struct {
	httpClient *http.Client
}

// NewFactory builds translators whose requests block until the endpoint
// answers or the caller's context is cancelled.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{},
	}
}

// NewFactoryWithClient uses client for every translator it builds.
func NewFactoryWithClient(client *http.Client) *Factory {
	return &Factory{httpClient: client}
}

// ForCredentials builds a translator for the resolved provider.
func (f *Factory) ForCredentials(creds domain.ProviderCredentials) (ports.Translator, error) {
	if creds.APIKey == "" {
		return nil, fmt.Errorf("%w: api key", domain.ErrMissingCredentials)
	}

	switch creds.Provider {
	case domain.ProviderOpenAICompatible:
		cfg := openai.DefaultConfig(creds.APIKey)
		if creds.BaseURL != "" {
			cfg.BaseURL = strings.TrimRight(creds.BaseURL, "/")
		}
		cfg.HTTPClient = f.httpClient
		return newChatTranslator(domain.ProviderOpenAICompatible, creds, openai.NewClientWithConfig(cfg)), nil
	case domain.ProviderAzure:
		if creds.Endpoint == "" || creds.Deployment == "" {
			return nil, fmt.Errorf("%w: azure endpoint and deployment", domain.ErrMissingCredentials)
		}
		cfg := openai.DefaultAzureConfig(creds.APIKey, creds.Endpoint)
		if creds.APIVersion != "" {
			cfg.APIVersion = creds.APIVersion
		}
		deployment := creds.Deployment
		cfg.AzureModelMapperFunc = func(string) string {
			return deployment
		}
		cfg.HTTPClient = f.httpClient
		return newChatTranslator(domain.ProviderAzure, creds, openai.NewClientWithConfig(cfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, creds.Provider)
	}
}

var _ ports.TranslatorFactory = (*Factory)(nil)
