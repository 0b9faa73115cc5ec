// Package outwriter renders evaluation results as tables, CSV and JSON.
package outwriter

import (
	"os"
	"time"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteResults prints batch results using the configured output format.
func (ow *OutWriter) WriteResults(results []schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	return WriteBatchResults(results, cfg, duration)
}

// WriteReport prints a per-scan report of one submission.
func (ow *OutWriter) WriteReport(report schema.SubmissionReport, cfg *contract.Config) error {
	return WriteSubmissionReport(report, cfg)
}

// WriteRules prints the rule registry.
func (ow *OutWriter) WriteRules(rules []schema.RuleDefinition, cfg *contract.Config) error {
	return WriteRuleDefinitions(rules, cfg)
}

// terminalWidth returns the width override or the detected terminal width.
func terminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detected
}

// GetMaxTableURLWidth calculates the maximum width for URLs in the results table.
func GetMaxTableURLWidth(cfg *contract.Config) int {
	// #, Platform, Scans, Verdict, Reasons and the first reason, with borders
	const baseWidth = 105

	available := terminalWidth(cfg) - baseWidth
	if available < 20 {
		return 20
	}
	if available > 80 {
		return 80
	}
	return available
}
