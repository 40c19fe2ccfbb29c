package domain

// GateState is a step of the execution gate state machine.
type GateState string

const (
	GateProposed             GateState = "proposed"
	GateAwaitingConfirmation GateState = "awaiting_confirmation"
	GateExecuted             GateState = "executed"
	GateCancelled            GateState = "cancelled"
	GateBlocked              GateState = "blocked"
)

// CancellationNotice is shown and logged when a dangerous command is declined.
const CancellationNotice = "Operation cancelled by user."

// ExecutionOutcome is the result of a single execution attempt. When
// RequiresConfirmation is set, Output holds the confirmation prompt, not command output.
type ExecutionOutcome struct {
	State                GateState
	Output               string
	RequiresConfirmation bool
}

// GateResult is the terminal state of a proposed command.
type GateResult struct {
	State   GateState
	Command string
	Output  string
}

// ConfirmationRequest describes what the user is asked to approve.
type ConfirmationRequest struct {
	Command string
	Prompt  string
	// Explicit requires typing "yes" instead of a y/N answer.
	Explicit bool
	Reasons  []string
}
