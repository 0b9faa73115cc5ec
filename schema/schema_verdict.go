package schema

import (
	"fmt"
	"strings"
	"time"
)

// AnomalyReason is one triggered rule on one transition or scan.
type AnomalyReason struct {
	Rule        string    `json:"rule"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Transition  int       `json:"transition"` // index of the later scan, 0-based
	CollectedAt time.Time `json:"collected_at,omitzero"`
}

// Location describes where the reason fired using 1-based scan numbers.
func (r AnomalyReason) Location() string {
	if r.Severity == SeverityNote {
		return fmt.Sprintf("scan %d", r.Transition+1)
	}
	return fmt.Sprintf("between scans %d and %d", r.Transition, r.Transition+1)
}

// String renders the reason as an audit line.
func (r AnomalyReason) String() string {
	if r.CollectedAt.IsZero() {
		return fmt.Sprintf("%s: %s", r.Location(), r.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", r.CollectedAt.UTC().Format(time.RFC3339), r.Location(), r.Message)
}

// JoinReasons renders reasons newline separated, in order.
func JoinReasons(reasons []AnomalyReason) string {
	lines := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if r.Message == "" {
			continue
		}
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}

// SubmissionVerdict is the outcome of evaluating one full series.
type SubmissionVerdict struct {
	ShouldReject bool            `json:"should_reject"`
	BottedReason string          `json:"botted_reason"`
	Reasons      []AnomalyReason `json:"reasons"`
	Notes        []AnomalyReason `json:"notes"`
}

// SummaryLine is one line of the condensed per-scan report.
type SummaryLine struct {
	Condition SummaryCondition `json:"condition"`
	FirstScan int              `json:"first_scan"` // 1-based
	LastScan  int              `json:"last_scan"`  // 1-based
	Count     int              `json:"count"`
	Collapsed bool             `json:"collapsed"`
	Text      string           `json:"text"`
}

// RuleDefinition describes a registered rule for listings.
type RuleDefinition struct {
	Name        string     `json:"name"`
	Kind        string     `json:"kind"`
	Platforms   []Platform `json:"platforms"`
	Description string     `json:"description"`
}
