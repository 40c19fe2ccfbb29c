package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doeshing/cmdllm/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.ClassifiedResponse
	}{
		{
			name: "safe command",
			raw:  "COMMAND: ls -la\nDANGEROUS: false",
			want: domain.NewCommand("ls -la", false),
		},
		{
			name: "dangerous flag is case insensitive",
			raw:  "COMMAND: rm -rf /tmp/x\nDANGEROUS:  TRUE ",
			want: domain.NewCommand("rm -rf /tmp/x", true),
		},
		{
			name: "missing dangerous line defaults to safe",
			raw:  "COMMAND: kubectl get pods",
			want: domain.NewCommand("kubectl get pods", false),
		},
		{
			name: "dangerous before command",
			raw:  "DANGEROUS: true\nCOMMAND: docker system prune -a",
			want: domain.NewCommand("docker system prune -a", true),
		},
		{
			name: "first command wins",
			raw:  "COMMAND: ls\nCOMMAND: rm -rf /\nDANGEROUS: false",
			want: domain.NewCommand("ls", false),
		},
		{
			name: "crlf line endings and indentation",
			raw:  "  COMMAND: df -h\r\n  DANGEROUS: false\r\n",
			want: domain.NewCommand("df -h", false),
		},
		{
			name: "answer",
			raw:  "ANSWER: ls lists directory contents.",
			want: domain.NewAnswer("ls lists directory contents."),
		},
		{
			name: "command preferred over answer",
			raw:  "ANSWER: use ls\nCOMMAND: ls",
			want: domain.NewCommand("ls", false),
		},
		{
			name: "empty command falls back to answer",
			raw:  "COMMAND:   \nANSWER: nothing to run",
			want: domain.NewAnswer("nothing to run"),
		},
		{
			name: "markers are case sensitive",
			raw:  "command: ls",
			want: domain.ClassifiedResponse{Kind: domain.ResponseAnswer, Text: FallbackPrefix + "command: ls", Degraded: true},
		},
		{
			name: "no markers",
			raw:  "I am not sure",
			want: domain.ClassifiedResponse{Kind: domain.ResponseAnswer, Text: FallbackPrefix + "I am not sure", Degraded: true},
		},
		{
			name: "empty payloads",
			raw:  "COMMAND:\nANSWER:",
			want: domain.ClassifiedResponse{Kind: domain.ResponseAnswer, Text: FallbackPrefix + "COMMAND:\nANSWER:", Degraded: true},
		},
		{
			name: "empty input",
			raw:  "",
			want: domain.ClassifiedResponse{Kind: domain.ResponseAnswer, Text: FallbackPrefix, Degraded: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.raw))
		})
	}
}

func TestClassify_FallbackKeepsRawTextVerbatim(t *testing.T) {
	raw := "Sure! Here is\n  some\ttext  "
	got := Classify(raw)
	assert.False(t, got.IsCommand())
	assert.True(t, got.Degraded)
	assert.Contains(t, got.Text, raw)
}
