// Package core orchestrates evaluations: it loads scan series, runs the
// detection engine, and records verdicts.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/botscan/core/detect"
	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/internal/outwriter"
	"github.com/huangsam/botscan/internal/scanfile"
	"github.com/huangsam/botscan/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ErrRejected is returned when --fail-on-reject is set and a submission was flagged.
var ErrRejected = errors.New("submissions flagged as botted")

// ExecuteEvaluate evaluates the series stored in the scan files given as inputs.
func ExecuteEvaluate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	all, err := loadScanFiles(cfg.Inputs)
	if err != nil {
		return err
	}
	results := EvaluateSeries(ctx, cfg, mgr, all)
	if err := outwriter.WriteBatchResults(results, cfg, time.Since(start)); err != nil {
		return err
	}
	return rejectionError(cfg, results)
}

// ExecuteBatch evaluates stored submissions named by URL or id.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	start := time.Now()
	targets := cfg.BatchTargets()
	if len(targets) == 0 {
		return errors.New("no submissions given: pass URLs or ids as arguments or use --url-file")
	}
	results := EvaluateTargets(ctx, cfg, mgr, targets)
	if err := outwriter.WriteBatchResults(results, cfg, time.Since(start)); err != nil {
		return err
	}
	return rejectionError(cfg, results)
}

// ExecuteReport prints the per-scan report of one stored submission.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if len(cfg.Inputs) != 1 {
		return errors.New("report needs exactly one URL or submission id")
	}
	report, err := BuildReport(ctx, cfg, mgr, cfg.Inputs[0])
	if err != nil {
		return err
	}
	return outwriter.WriteSubmissionReport(report, cfg)
}

// ExecuteRules prints the rule registry.
func ExecuteRules(_ context.Context, cfg *contract.Config, _ contract.StoreManager) error {
	return outwriter.WriteRuleDefinitions(RuleDefinitions(), cfg)
}

// ExecuteImport loads scan files and stores every series in the scan store.
func ExecuteImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	if mgr == nil || mgr.GetScanStore() == nil {
		return errors.New("no scan store configured")
	}
	store := mgr.GetScanStore()
	for _, path := range cfg.Inputs {
		all, err := scanfile.LoadFile(path)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		scans := 0
		for _, series := range all {
			if cfg.Platform != "" {
				series.Platform = cfg.Platform
			}
			if err := store.ImportSeries(ctx, series); err != nil {
				return fmt.Errorf("failed to import %s from %s: %w", series.SubmissionID, path, err)
			}
			scans += len(series.Scans)
		}
		if _, err := fmt.Fprintf(os.Stderr, "Imported %d series (%d scans) from %s\n", len(all), scans, path); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateSeries evaluates series that were loaded outside the scan store.
func EvaluateSeries(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, all []schema.RawSeries) []schema.AnalysisResult {
	if len(all) == 0 {
		return []schema.AnalysisResult{}
	}
	ctx = beginRun(ctx, cfg, mgr)
	results := evaluateAllSeries(ctx, cfg, detect.NewEvaluator(), all)
	endRun(ctx, results)
	return results
}

// EvaluateTargets fetches and evaluates stored submissions with a worker pool.
// Repeated targets are evaluated once; results follow the order of first appearance.
func EvaluateTargets(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, targets []string) []schema.AnalysisResult {
	targets = dedupTargets(targets)
	if len(targets) == 0 {
		return []schema.AnalysisResult{}
	}
	if !shouldSuppressHeader(ctx) {
		logBatchHeader(cfg, len(targets))
	}

	var source contract.ScanSource
	if mgr != nil {
		if scans := mgr.GetScanStore(); scans != nil {
			source = scans
		}
	}

	ctx = beginRun(ctx, cfg, mgr)
	results := evaluateTargets(ctx, cfg, source, detect.NewEvaluator(), targets)
	endRun(ctx, results)
	return results
}

// BuildReport evaluates one stored submission and keeps its valid scans for display.
func BuildReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, target string) (schema.SubmissionReport, error) {
	var source contract.ScanSource
	if mgr != nil {
		if scans := mgr.GetScanStore(); scans != nil {
			source = scans
		}
	}
	builder := NewSubmissionResultBuilder(ctx, cfg, source, detect.NewEvaluator(), target)
	builder.FetchScans().Normalize().Evaluate().Summarize()
	if err := builder.Err(); err != nil {
		return schema.SubmissionReport{}, err
	}
	return builder.BuildReport(), nil
}

// RuleDefinitions lists the rules of the default engine.
func RuleDefinitions() []schema.RuleDefinition {
	return detect.NewEvaluator().Rules().Definitions()
}

// loadScanFiles reads every series from the given files.
func loadScanFiles(paths []string) ([]schema.RawSeries, error) {
	if len(paths) == 0 {
		return nil, errors.New("at least one scan file is required")
	}
	var all []schema.RawSeries
	for _, path := range paths {
		series, err := scanfile.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		all = append(all, series...)
	}
	return all, nil
}

// rejectionError reports flagged submissions when the caller asked to fail on them.
func rejectionError(cfg *contract.Config, results []schema.AnalysisResult) error {
	if !cfg.FailOnReject {
		return nil
	}
	if flagged := schema.CountFlagged(results); flagged > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRejected, flagged, len(results))
	}
	return nil
}

// logBatchHeader prints the batch parameters to stderr so stdout stays machine readable.
func logBatchHeader(cfg *contract.Config, n int) {
	header := fmt.Sprintf("Evaluating %d submissions with %d workers (scan backend: %s)", n, cfg.Workers, cfg.ScanBackend)
	if cfg.UseColors {
		header = contract.HeaderColor.Sprint(header)
	}
	_, _ = fmt.Fprintln(os.Stderr, header)
}
