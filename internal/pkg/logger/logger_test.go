package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLogger_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.DebugLevel)

	log.Error("translate failed", errors.New("boom"), map[string]interface{}{"tool": "kubectl"})

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "error", event["level"])
	assert.Equal(t, "translate failed", event["message"])
	assert.Equal(t, "boom", event["error"])
	assert.Equal(t, "kubectl", event["tool"])
}

func TestZeroLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, zerolog.WarnLevel)

	log.Debug("hidden", nil)
	log.Info("hidden", nil)
	assert.Empty(t, buf.String())

	log.Warn("shown", nil)
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_QuietDiscardsEverything(t *testing.T) {
	log := New(false)
	assert.NotPanics(t, func() {
		log.Info("nothing", map[string]interface{}{"k": "v"})
	})
}
