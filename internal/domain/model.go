// Package domain defines core business entities and value objects for cmdllm.
//
// This file contains translator provider definitions. The domain layer is
// independent of infrastructure concerns and represents pure business logic
// and data structures.
package domain

import "errors"

// Provider identifiers accepted in llm_provider.
const (
	ProviderOpenAICompatible = "openai_compatible"
	ProviderAzure            = "azure"
)

// Placeholder values written by the default configuration. They count as unset.
const (
	PlaceholderAPIKey      = "your_api_key_here"
	PlaceholderAzureAPIKey = "your_azure_api_key_here"
	PlaceholderEndpoint    = "https://your-resource-name.openai.azure.com"
	PlaceholderDeployment  = "your-deployment-name"
)

// Default provider values.
const (
	DefaultOpenAIBaseURL   = "https://api.deepseek.com/v1"
	DefaultOpenAIModel     = "deepseek-chat"
	DefaultAzureAPIVersion = "2023-05-15"
	DefaultTemperature     = 0.1
)

var (
	// ErrUnknownProvider is returned when llm_provider names no supported backend.
	ErrUnknownProvider = errors.New("unknown llm provider")
	// ErrMissingCredentials is returned when the selected provider lacks a key, endpoint or deployment.
	ErrMissingCredentials = errors.New("missing provider credentials")
)

// ProviderCredentials is the resolved, provider-specific connection record.
// Fields that do not apply to the selected provider stay empty.
type ProviderCredentials struct {
	Provider    string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Endpoint    string
	Deployment  string
	APIVersion  string
}

// ModelName returns the identifier sent to the API (deployment name for Azure).
func (c ProviderCredentials) ModelName() string {
	if c.Provider == ProviderAzure {
		return c.Deployment
	}
	return c.Model
}

// IsPlaceholder reports whether value is empty or one of the bootstrap placeholders.
func IsPlaceholder(value string) bool {
	switch value {
	case "", PlaceholderAPIKey, PlaceholderAzureAPIKey, PlaceholderEndpoint, PlaceholderDeployment:
		return true
	}
	return false
}
