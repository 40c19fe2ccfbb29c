package domain

// RiskLevel enumerates guardrail outcomes.
type RiskLevel string

const (
	RiskSafe     RiskLevel = "safe"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// GuardrailAction describes how the gate should react to a matched rule.
type GuardrailAction string

const (
	ActionAllow           GuardrailAction = "allow"
	ActionConfirm         GuardrailAction = "confirm"
	ActionExplicitConfirm GuardrailAction = "explicit_confirm"
	ActionBlock           GuardrailAction = "block"
)

// RiskAssessment aggregates security evaluation data.
type RiskAssessment struct {
	Level        RiskLevel
	Action       GuardrailAction
	Reasons      []string
	MatchedRules []string
}

// SafeAssessment is the verdict when no rule matched or guardrails are off.
func SafeAssessment() RiskAssessment {
	return RiskAssessment{Level: RiskSafe, Action: ActionAllow}
}

// Blocks reports whether the command must not run at all.
func (r RiskAssessment) Blocks() bool {
	return r.Action == ActionBlock
}

// RequiresConfirmation reports whether a matched rule asks for user approval.
func (r RiskAssessment) RequiresConfirmation() bool {
	return r.Action == ActionConfirm || r.Action == ActionExplicitConfirm
}

// RequiresExplicitConfirmation reports whether approval must be typed out in full.
func (r RiskAssessment) RequiresExplicitConfirmation() bool {
	return r.Action == ActionExplicitConfirm
}
