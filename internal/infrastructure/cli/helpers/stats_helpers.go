package helpers

import (
	"sort"
	"strings"

	"github.com/doeshing/cmdllm/internal/domain"
)

// CommandStatistic represents usage statistics for a command
type CommandStatistic struct {
	Command string
	Count   int
}

// HistorySummary aggregates turn history for the stats command.
type HistorySummary struct {
	Turns     int
	Commands  int
	Answers   int
	Executed  int
	Cancelled int
	Blocked   int
	Dangerous int
	ByTool    map[string]int
	ByRisk    map[domain.RiskLevel]int
	Top       []CommandStatistic
}

// SummarizeHistory counts outcomes per gate state, tool and risk level and
// keeps the topN most frequent commands.
func SummarizeHistory(records []domain.HistoryRecord, topN int) HistorySummary {
	summary := HistorySummary{
		Turns:  len(records),
		ByTool: map[string]int{},
		ByRisk: map[domain.RiskLevel]int{},
	}
	frequency := map[string]int{}
	for _, rec := range records {
		summary.ByTool[rec.Tool]++
		if rec.Command == "" || rec.Command == domain.NoCommand {
			summary.Answers++
			continue
		}
		summary.Commands++
		frequency[rec.Command]++
		if rec.RiskLevel != "" {
			summary.ByRisk[rec.RiskLevel]++
		}
		if rec.Dangerous {
			summary.Dangerous++
		}
		switch rec.State {
		case domain.GateExecuted:
			summary.Executed++
		case domain.GateCancelled:
			summary.Cancelled++
		case domain.GateBlocked:
			summary.Blocked++
		}
	}
	summary.Top = CalculateTopCommands(frequency, topN)
	return summary
}

// CalculateTopCommands returns the top N most frequently used commands
// If limit is 0 or negative, returns all commands
func CalculateTopCommands(commandFrequency map[string]int, limit int) []CommandStatistic {
	stats := make([]CommandStatistic, 0, len(commandFrequency))
	for cmd, count := range commandFrequency {
		stats = append(stats, CommandStatistic{Command: cmd, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Command < stats[j].Command
		}
		return stats[i].Count > stats[j].Count
	})
	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// Percentage returns part as a percentage of total, 0 when total is 0.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(part) / float64(total) * 100.0
}

// SortedKeys returns the keys of counts in ascending order.
func SortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// DeriveUndoHints suggests recovery commands for the tools seen in history.
func DeriveUndoHints(records []domain.HistoryRecord) []string {
	hints := map[string]string{
		"git ":     "Use `git status`, `git reflog`, or `git restore` to inspect and undo git changes.",
		"kubectl ": "Use `kubectl rollout undo` or `kubectl get events` to recover from cluster issues.",
		"rm ":      "Restore files via backups or `git checkout -- <path>` if tracked.",
		"docker ":  "Use `docker ps -a` and `docker logs` to review container history before repeating.",
	}
	found := map[string]bool{}
	for _, rec := range records {
		if !rec.Executed() {
			continue
		}
		command := strings.ToLower(rec.Command)
		for prefix, hint := range hints {
			if strings.HasPrefix(command, prefix) {
				found[hint] = true
			}
		}
	}
	out := make([]string, 0, len(found))
	for hint := range found {
		out = append(out, hint)
	}
	sort.Strings(out)
	return out
}
