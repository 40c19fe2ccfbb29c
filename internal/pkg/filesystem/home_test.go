package filesystem

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	assert.Equal(t, "/home/tester", ExpandHome("~"))
	assert.Equal(t, filepath.Join("/home/tester", ".cmdllm", "context.json"), ExpandHome("~/.cmdllm/context.json"))
	assert.Equal(t, "/var/lib/x", ExpandHome("/var/lib/x"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}

func TestAppPath(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	assert.Equal(t, filepath.Join("/home/tester", ".cmdllm", "config.yaml"), AppPath("config.yaml"))
}
