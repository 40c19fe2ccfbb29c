package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	rootassets "github.com/doeshing/cmdllm/assets"
	"github.com/doeshing/cmdllm/internal/domain"
	"github.com/doeshing/cmdllm/internal/pkg/filesystem"
	"github.com/doeshing/cmdllm/internal/ports"
)

// DefaultRulesFileName is the rules file under ~/.cmdllm.
const DefaultRulesFileName = "guardrail.yaml"

// Guardrail implements the SecurityService port with a regex deny-list.
type Guardrail struct {
	patterns []compiledPattern
	source   string
}

type compiledPattern struct {
	re   *regexp.Regexp
	rule DangerPattern
}

// DangerPattern describes a regex-based guardrail rule.
type DangerPattern struct {
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Message string `yaml:"message"`
	Action  string `yaml:"action"`
}

// RulesFile is the YAML schema root.
type RulesFile struct {
	Rules struct {
		DangerPatterns []DangerPattern `yaml:"danger_patterns"`
	} `yaml:"rules"`
}

// NewGuardrail loads rules from path, falling back to the embedded defaults
// when the file does not exist or lists no patterns.
func NewGuardrail(path string) (*Guardrail, error) {
	rules, source, err := loadRules(ResolvePath(path))
	if err != nil {
		return nil, err
	}
	return compile(rules, source)
}

// NewDefaultGuardrail builds a guardrail from the embedded rules only.
func NewDefaultGuardrail() (*Guardrail, error) {
	rules, err := parseRules(rootassets.DefaultGuardrailYAML)
	if err != nil {
		return nil, err
	}
	return compile(rules, "embedded")
}

// ResolvePath expands path, defaulting to ~/.cmdllm/guardrail.yaml.
func ResolvePath(path string) string {
	if path == "" {
		return filesystem.AppPath(DefaultRulesFileName)
	}
	return filesystem.ExpandHome(path)
}

// WriteDefaults writes the embedded rules to path unless a file already exists
// there and force is false. It reports whether the file was written.
func WriteDefaults(path string, force bool) (bool, error) {
	path = ResolvePath(path)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return false, nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, rootassets.DefaultGuardrailYAML, domain.DataFilePermissions); err != nil {
		return false, err
	}
	return true, nil
}

// Source names where the active rules came from (a path or "embedded").
func (g *Guardrail) Source() string {
	return g.source
}

// RuleCount returns the number of compiled rules.
func (g *Guardrail) RuleCount() int {
	return len(g.patterns)
}

// Evaluate implements ports.SecurityService. The strictest matching action
// wins regardless of level, and the level is the most severe among matches.
// Every match contributes a reason.
func (g *Guardrail) Evaluate(command string) (domain.RiskAssessment, error) {
	if g == nil {
		return domain.RiskAssessment{}, errors.New("guardrail nil")
	}
	assessment := domain.SafeAssessment()
	for _, pattern := range g.patterns {
		if !pattern.re.MatchString(command) {
			continue
		}
		ruleLevel := parseRiskLevel(pattern.rule.Level)
		action := parseAction(pattern.rule.Action, ruleLevel)
		if actionWeight(action) > actionWeight(assessment.Action) {
			assessment.Action = action
		}
		if moreSevere(ruleLevel, assessment.Level) {
			assessment.Level = ruleLevel
		}
		assessment.Reasons = append(assessment.Reasons, pattern.rule.Message)
		assessment.MatchedRules = append(assessment.MatchedRules, pattern.rule.Pattern)
	}
	return assessment, nil
}

func compile(rules RulesFile, source string) (*Guardrail, error) {
	compiled := make([]compiledPattern, 0, len(rules.Rules.DangerPatterns))
	for _, pattern := range rules.Rules.DangerPatterns {
		re, err := regexp.Compile(pattern.Pattern)
		if err != nil {
			return nil, fmt.Errorf("guardrail pattern %q: %w", pattern.Pattern, err)
		}
		compiled = append(compiled, compiledPattern{re: re, rule: pattern})
	}
	return &Guardrail{patterns: compiled, source: source}, nil
}

func loadRules(path string) (RulesFile, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			rules, err := parseRules(rootassets.DefaultGuardrailYAML)
			return rules, "embedded", err
		}
		return RulesFile{}, "", err
	}
	rules, err := parseRules(data)
	if err != nil {
		return RulesFile{}, "", fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rules.Rules.DangerPatterns) == 0 {
		rules, err = parseRules(rootassets.DefaultGuardrailYAML)
		return rules, "embedded", err
	}
	return rules, path, nil
}

func parseRules(data []byte) (RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	return rules, nil
}

func parseRiskLevel(value string) domain.RiskLevel {
	switch strings.ToLower(value) {
	case "low":
		return domain.RiskLow
	case "medium":
		return domain.RiskMedium
	case "high":
		return domain.RiskHigh
	case "critical":
		return domain.RiskCritical
	default:
		return domain.RiskSafe
	}
}

// parseAction never returns allow for a matched rule with a non-safe level.
func parseAction(value string, level domain.RiskLevel) domain.GuardrailAction {
	switch strings.ToLower(value) {
	case "confirm", "simple_confirm":
		return domain.ActionConfirm
	case "explicit_confirm":
		return domain.ActionExplicitConfirm
	case "block":
		return domain.ActionBlock
	default:
		if level == domain.RiskSafe {
			return domain.ActionAllow
		}
		return domain.ActionConfirm
	}
}

func actionWeight(action domain.GuardrailAction) int {
	switch action {
	case domain.ActionConfirm:
		return 1
	case domain.ActionExplicitConfirm:
		return 2
	case domain.ActionBlock:
		return 3
	default:
		return 0
	}
}

func moreSevere(next domain.RiskLevel, current domain.RiskLevel) bool {
	order := map[domain.RiskLevel]int{
		domain.RiskSafe:     0,
		domain.RiskLow:      1,
		domain.RiskMedium:   2,
		domain.RiskHigh:     3,
		domain.RiskCritical: 4,
	}
	return order[next] > order[current]
}

var _ ports.SecurityService = (*Guardrail)(nil)
