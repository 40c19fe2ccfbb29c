// Package config reads and writes ~/.cmdllm/config.yaml.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	rootassets "github.com/doeshing/cmdllm/assets"
	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/pkg/filesystem"
	"github.com/doeshing/cmdllm/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "CMDLLM_CONFIG"

// DefaultFileName is the config file name under ~/.cmdllm.
const DefaultFileName = "config.yaml"

// FileLoader loads YAML configuration from ~/.cmdllm/config.yaml (overridable via CMDLLM_CONFIG).
type FileLoader struct {
	overridePath string
	logger       ports.Logger
}

// NewFileLoader builds a new loader. An empty path falls back to the
// environment override and then the default location.
func NewFileLoader(path string, logger ports.Logger) *FileLoader {
	return &FileLoader{overridePath: path, logger: logger}
}

// Path returns the resolved config file path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandHome(custom)
	}
	return filesystem.AppPath(DefaultFileName)
}

// Load implements ports.ConfigProvider. A missing file is created from the
// embedded defaults; keys absent from an existing file keep their defaults.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, exists, err := l.read()
	if err != nil || exists {
		return cfg, err
	}
	path := l.Path()
	if err := l.writeRaw(path, rootassets.DefaultConfigYAML); err != nil {
		return domain.Config{}, err
	}
	l.logger.Info("created default config", map[string]interface{}{"path": path})
	return cfg, nil
}

// read parses the file over the defaults without touching the disk. exists
// is false when there is no file and cfg holds the defaults.
func (l *FileLoader) read() (cfg domain.Config, exists bool, err error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.Config{}, false, fmt.Errorf("read config: %w", err)
	}
	exists = err == nil

	cfg, err = DefaultConfig()
	if err != nil {
		return domain.Config{}, false, err
	}
	if !exists {
		return cfg, false, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, true, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, true, nil
}

// MaxContextMessages implements ports.ContextLimiter by re-reading the file,
// so a changed limit applies to the next turn of a running session. A missing
// file yields the default without recreating it.
func (l *FileLoader) MaxContextMessages(context.Context) int {
	cfg, _, err := l.read()
	if err != nil {
		l.logger.Warn("config unreadable, using default context size", map[string]interface{}{"error": err.Error()})
		return domain.DefaultMaxContextMessages
	}
	return cfg.MaxContextMessages()
}

// Save writes cfg to disk with owner-only permissions.
func (l *FileLoader) Save(cfg domain.Config) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return l.writeRaw(l.Path(), buf.Bytes())
}

// Reset overwrites the config file with the embedded defaults.
func (l *FileLoader) Reset() (domain.Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return domain.Config{}, err
	}
	return cfg, l.writeRaw(l.Path(), rootassets.DefaultConfigYAML)
}

// Backup copies the current file next to itself with a timestamp suffix.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	backup := fmt.Sprintf("%s.%s.bak", path, time.Now().Format("20060102-150405"))
	if err := os.WriteFile(backup, data, domain.SecureFilePermissions); err != nil {
		return "", err
	}
	return backup, nil
}

// DefaultConfig parses the embedded default configuration.
func DefaultConfig() (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(rootassets.DefaultConfigYAML, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse default config: %w", err)
	}
	return cfg, nil
}

func (l *FileLoader) writeRaw(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

var (
	_ ports.ConfigProvider = (*FileLoader)(nil)
	_ ports.ContextLimiter = (*FileLoader)(nil)
)
