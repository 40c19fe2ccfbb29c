package domain

import "time"

// HistoryRecord is one processed turn in the audit log.
type HistoryRecord struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Tool      string    `json:"tool"`
	Query     string    `json:"query"`
	Command   string    `json:"command"`
	Dangerous bool      `json:"dangerous"`
	State     GateState `json:"state"`
	Result    string    `json:"result"`
	Model     string    `json:"model"`
	RiskLevel RiskLevel `json:"risk_level"`
}

// Executed reports whether the recorded command was launched.
func (r HistoryRecord) Executed() bool {
	return r.State == GateExecuted
}
