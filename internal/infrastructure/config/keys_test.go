package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	value, err := Lookup(cfg, "azure.api_version")
	require.NoError(t, err)
	assert.Equal(t, "2023-05-15", value)

	value, err = Lookup(cfg, "context.max_messages")
	require.NoError(t, err)
	assert.Equal(t, 20, value)

	section, err := Lookup(cfg, "history")
	require.NoError(t, err)
	assert.IsType(t, map[string]interface{}{}, section)

	_, err = Lookup(cfg, "azure.nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
	_, err = Lookup(cfg, "llm_provider.deeper")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestAssign(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	updated, err := Assign(cfg, "openai_compatible.model", "gpt-4o-mini")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", updated.OpenAICompatible.Model)
	assert.Equal(t, "deepseek-chat", cfg.OpenAICompatible.Model, "input is not mutated")

	updated, err = Assign(updated, "context.max_messages", ParseValue("5"))
	require.NoError(t, err)
	assert.Equal(t, 5, updated.MaxContextMessages())

	updated, err = Assign(updated, "security.enabled", ParseValue("false"))
	require.NoError(t, err)
	assert.False(t, updated.IsSecurityEnabled())

	_, err = Assign(updated, "context.max_messages", ParseValue("many"))
	assert.Error(t, err)

	_, err = Assign(updated, "unknown.key", "x")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFlatten(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	items, err := Flatten(cfg)
	require.NoError(t, err)

	values := map[string]string{}
	keys := make([]string, 0, len(items))
	for _, item := range items {
		values[item.Key] = item.Value
		keys = append(keys, item.Key)
	}
	assert.IsNonDecreasing(t, keys)
	assert.Equal(t, "bash", values["tools"])
	assert.Equal(t, "openai_compatible", values["llm_provider"])
	assert.Equal(t, "20", values["context.max_messages"])
	assert.Equal(t, "true", values["security.enabled"])
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, 12, ParseValue("12"))
	assert.Equal(t, 0.3, ParseValue("0.3"))
	assert.Equal(t, "2023-05-15", ParseValue("2023-05-15"))
	assert.Equal(t, "https://api.openai.com/v1", ParseValue("https://api.openai.com/v1"))
	assert.Equal(t, "a: b", ParseValue("a: b"))
}
