package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/pkg/logger"
)

func newLoader(t *testing.T) *FileLoader {
	t.Helper()
	return NewFileLoader(filepath.Join(t.TempDir(), "cmdllm", "config.yaml"), logger.New(false))
}

func TestFileLoader_CreatesDefaults(t *testing.T) {
	loader := newLoader(t)

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"bash"}, cfg.Tools)
	assert.Equal(t, domain.ProviderOpenAICompatible, cfg.Provider())
	assert.Equal(t, domain.DefaultOpenAIModel, cfg.OpenAICompatible.Model)
	assert.Equal(t, 20, cfg.MaxContextMessages())
	assert.True(t, cfg.IsSecurityEnabled())

	info, err := os.Stat(loader.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(domain.SecureFilePermissions), info.Mode().Perm())
}

func TestFileLoader_PartialFileKeepsDefaults(t *testing.T) {
	loader := newLoader(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(loader.Path()), 0o755))
	require.NoError(t, os.WriteFile(loader.Path(), []byte("tools: [bash, kubectl]\ncontext:\n  max_messages: 6\n"), 0o600))

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"bash", "kubectl"}, cfg.Tools)
	assert.Equal(t, 6, cfg.MaxContextMessages())
	assert.Equal(t, domain.DefaultAzureAPIVersion, cfg.Azure.APIVersion)
	assert.Equal(t, 6, loader.MaxContextMessages(context.Background()))
}

func TestFileLoader_InvalidYAML(t *testing.T) {
	loader := newLoader(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(loader.Path()), 0o755))
	require.NoError(t, os.WriteFile(loader.Path(), []byte("tools: [unclosed"), 0o600))

	_, err := loader.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, domain.DefaultMaxContextMessages, loader.MaxContextMessages(context.Background()))
}

func TestFileLoader_SaveRoundTrip(t *testing.T) {
	ctx := context.Background()
	loader := newLoader(t)
	cfg, err := loader.Load(ctx)
	require.NoError(t, err)

	cfg.AddTool("docker")
	cfg.LLMProvider = domain.ProviderAzure
	require.NoError(t, cfg.SetMaxContextMessages(8))
	require.NoError(t, loader.Save(cfg))

	reloaded, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestFileLoader_BackupAndReset(t *testing.T) {
	ctx := context.Background()
	loader := newLoader(t)
	cfg, err := loader.Load(ctx)
	require.NoError(t, err)
	cfg.AddTool("kubectl")
	require.NoError(t, loader.Save(cfg))

	backup, err := loader.Backup()
	require.NoError(t, err)
	data, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kubectl")

	reset, err := loader.Reset()
	require.NoError(t, err)
	assert.Equal(t, []string{"bash"}, reset.Tools)
	reloaded, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.False(t, reloaded.HasTool("kubectl"))
}

func TestFileLoader_PathFromEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv(EnvConfigPath, path)

	assert.Equal(t, path, NewFileLoader("", logger.New(false)).Path())
	assert.Equal(t, "/explicit.yaml", NewFileLoader("/explicit.yaml", logger.New(false)).Path())
}

func TestFileLoader_MaxContextMessagesDoesNotWrite(t *testing.T) {
	loader := newLoader(t)

	assert.Equal(t, domain.DefaultMaxContextMessages, loader.MaxContextMessages(context.Background()))
	_, err := os.Stat(loader.Path())
	assert.True(t, os.IsNotExist(err), "reading the limit must not create the config file")

	cfg, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, cfg.SetMaxContextMessages(6))
	require.NoError(t, loader.Save(cfg))
	assert.Equal(t, 6, loader.MaxContextMessages(context.Background()))

	require.NoError(t, os.Remove(loader.Path()))
	assert.Equal(t, domain.DefaultMaxContextMessages, loader.MaxContextMessages(context.Background()))
	_, err = os.Stat(loader.Path())
	assert.True(t, os.IsNotExist(err))
}
