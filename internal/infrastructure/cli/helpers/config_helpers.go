package helpers

import (
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/cmdllm/internal/app"
	configapp "github.com/doeshing/cmdllm/internal/application/config"
	"github.com/doeshing/cmdllm/internal/domain"
	configinfra "github.com/doeshing/cmdllm/internal/infrastructure/config"
)

// GetConfigLoader extracts the config loader from container with error handling
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// SaveConfigWithValidation validates and saves configuration with automatic backup
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) error {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return err
	}

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if _, err := os.Stat(loader.Path()); err == nil {
		if _, err := loader.Backup(); err != nil {
			return fmt.Errorf("failed to create configuration backup: %w", err)
		}
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	container.Config = cfg
	return nil
}

// IsToolsKey reports whether key addresses the tools list, which is managed
// by the tools commands only.
func IsToolsKey(key string) bool {
	return strings.HasPrefix(strings.TrimSpace(key), "tools")
}

// IsSecretKey reports whether key holds an API key.
func IsSecretKey(key string) bool {
	return strings.Contains(key, "api_key") && !strings.HasSuffix(key, "api_key_env")
}

// MaskSecret hides all but the first and last four characters of a key.
// Placeholders and empty values are shown as-is.
func MaskSecret(value string) string {
	if domain.IsPlaceholder(value) {
		return value
	}
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
}

// DisplayValue masks value when key holds a secret.
func DisplayValue(key, value string) string {
	if IsSecretKey(key) {
		return MaskSecret(value)
	}
	return value
}
