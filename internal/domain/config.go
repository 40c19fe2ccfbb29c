package domain

// Config mirrors ~/.cmdllm/config.yaml.
type Config struct {
	ConfigFormatVersion string                   `yaml:"config_format_version" json:"config_format_version"`
	Tools               []string                 `yaml:"tools" json:"tools"`
	LLMProvider         string                   `yaml:"llm_provider" json:"llm_provider"`
	OpenAICompatible    OpenAICompatibleSettings `yaml:"openai_compatible" json:"openai_compatible"`
	Azure               AzureSettings            `yaml:"azure" json:"azure"`
	Context             ContextSettings          `yaml:"context" json:"context"`
	Prompt              PromptSettings           `yaml:"prompt" json:"prompt"`
	Security            SecuritySettings         `yaml:"security" json:"security"`
	History             HistorySettings          `yaml:"history" json:"history"`
}

// OpenAICompatibleSettings configures any endpoint speaking the chat completions API.
type OpenAICompatibleSettings struct {
	BaseURL     string  `yaml:"base_url" json:"base_url"`
	APIKey      string  `yaml:"api_key" json:"api_key"`
	APIKeyEnv   string  `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty"`
	Model       string  `yaml:"model" json:"model"`
	Temperature float32 `yaml:"temperature,omitempty" json:"temperature,omitempty"`
}

// AzureSettings configures an Azure OpenAI deployment.
type AzureSettings struct {
	Endpoint   string `yaml:"endpoint" json:"endpoint"`
	APIKey     string `yaml:"api_key" json:"api_key"`
	APIKeyEnv  string `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty"`
	Deployment string `yaml:"deployment" json:"deployment"`
	APIVersion string `yaml:"api_version" json:"api_version"`
}

// ContextSettings bounds the rolling conversation window.
type ContextSettings struct {
	MaxMessages int    `yaml:"max_messages" json:"max_messages"`
	File        string `yaml:"file,omitempty" json:"file,omitempty"`
}

// PromptSettings shapes the system prompt sent to the translator.
type PromptSettings struct {
	Language       string `yaml:"language,omitempty" json:"language,omitempty"`
	SystemTemplate string `yaml:"system_template,omitempty" json:"system_template,omitempty"`
}

// SecuritySettings defines guardrail behavior.
type SecuritySettings struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	RulesFile string `yaml:"rules_file" json:"rules_file"`
}

// HistorySettings controls the turn audit log.
type HistorySettings struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	Path          string `yaml:"path,omitempty" json:"path,omitempty"`
	RetentionDays int    `yaml:"retention_days" json:"retention_days"`
}
