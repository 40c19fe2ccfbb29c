package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/cmdllm/internal/domain"
)

func newDefault(t *testing.T) *Guardrail {
	t.Helper()
	guardrail, err := NewGuardrail(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	return guardrail
}

func TestGuardrailBlocksCriticalCommands(t *testing.T) {
	guardrail := newDefault(t)

	for _, command := range []string{"rm -rf /", "rm -rf /*", "dd if=/dev/zero of=/dev/sda", ":(){ :|:& };:"} {
		result, err := guardrail.Evaluate(command)
		if err != nil {
			t.Fatalf("Evaluate error: %v", err)
		}
		if result.Action != domain.ActionBlock || result.Level != domain.RiskCritical {
			t.Fatalf("%q: expected critical block, got %+v", command, result)
		}
	}
}

func TestGuardrailAllowsSafeCommand(t *testing.T) {
	guardrail := newDefault(t)

	for _, command := range []string{"ls -la", "rm -rf /tmp/x", "kubectl get pods", "git push origin main"} {
		result, err := guardrail.Evaluate(command)
		if err != nil {
			t.Fatalf("Evaluate error: %v", err)
		}
		if result.Level != domain.RiskSafe || result.Action != domain.ActionAllow {
			t.Fatalf("%q: expected safe, got %+v", command, result)
		}
	}
}

func TestGuardrailRequiresExplicitConfirmation(t *testing.T) {
	guardrail := newDefault(t)

	result, err := guardrail.Evaluate("kubectl delete namespace prod")
	if err != nil {
		t.Fatalf("Evaluate error: %v", err)
	}
	if !result.RequiresExplicitConfirmation() {
		t.Fatalf("expected explicit confirmation, got %+v", result)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "Deleting a Kubernetes namespace" {
		t.Fatalf("unexpected reasons: %v", result.Reasons)
	}
}

func TestGuardrailCustomRulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: 'terraform\s+destroy'
      level: high
      message: Destroys infrastructure
    - pattern: 'terraform\s+destroy\s+-auto-approve'
      level: high
      message: Skips terraform approval
      action: block
`
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	guardrail, err := NewGuardrail(path)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	if guardrail.Source() != path || guardrail.RuleCount() != 2 {
		t.Fatalf("unexpected source %s with %d rules", guardrail.Source(), guardrail.RuleCount())
	}

	result, _ := guardrail.Evaluate("terraform destroy")
	if result.Action != domain.ActionConfirm {
		t.Fatalf("missing action should default to confirm, got %+v", result)
	}

	result, _ = guardrail.Evaluate("terraform destroy -auto-approve")
	if result.Action != domain.ActionBlock || len(result.Reasons) != 2 {
		t.Fatalf("expected block with two reasons, got %+v", result)
	}
}

func TestGuardrailStricterActionWinsOverLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := `rules:
  danger_patterns:
    - pattern: 'helm\s+uninstall'
      level: medium
      message: Removes a release
      action: block
    - pattern: 'helm\s+uninstall\s+\S+'
      level: high
      message: Removes a named release
      action: confirm
`
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	guardrail, err := NewGuardrail(path)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}

	result, _ := guardrail.Evaluate("helm uninstall web")
	if result.Action != domain.ActionBlock {
		t.Fatalf("block must not be downgraded by a higher-level confirm rule, got %+v", result)
	}
	if result.Level != domain.RiskHigh || len(result.Reasons) != 2 {
		t.Fatalf("expected high level with two reasons, got %+v", result)
	}
}

func TestGuardrailInvalidPattern(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	rules := "rules:\n  danger_patterns:\n    - pattern: '(['\n      level: high\n"
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := NewGuardrail(path); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestWriteDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "guardrail.yaml")

	written, err := WriteDefaults(path, false)
	if err != nil || !written {
		t.Fatalf("WriteDefaults = %v, %v", written, err)
	}
	written, err = WriteDefaults(path, false)
	if err != nil || written {
		t.Fatalf("second WriteDefaults should keep existing file, got %v, %v", written, err)
	}

	guardrail, err := NewGuardrail(path)
	if err != nil {
		t.Fatalf("NewGuardrail error: %v", err)
	}
	embedded, err := NewDefaultGuardrail()
	if err != nil {
		t.Fatalf("NewDefaultGuardrail error: %v", err)
	}
	if guardrail.RuleCount() != embedded.RuleCount() {
		t.Fatalf("rule count mismatch: %d vs %d", guardrail.RuleCount(), embedded.RuleCount())
	}
}
