package core

import (
	"context"
	"strings"
	"sync"

	"github.com/huangsam/botscan/core/detect"
	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
)

// dedupTargets drops blank and repeated targets, keeping first occurrences in order.
func dedupTargets(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	out := make([]string, 0, len(targets))
	for _, t := range targets {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// analyzeSubmission runs the full builder chain for one stored submission.
func analyzeSubmission(ctx context.Context, cfg *contract.Config, source contract.ScanSource, evaluator *detect.Evaluator, target string) schema.AnalysisResult {
	builder := NewSubmissionResultBuilder(ctx, cfg, source, evaluator, target)
	builder.
		FetchScans(). // Resolves the target and loads scans
		Normalize().  // Drops extended scans and flags missing ones
		Evaluate().   // Runs the detection engine
		Summarize()   // Condenses per-scan conditions
	result := builder.Build()

	if cfg.Record {
		recordSubmission(ctx, result)
	}
	return result
}

// analyzeSeries evaluates a series that was loaded outside the scan store.
func analyzeSeries(ctx context.Context, cfg *contract.Config, evaluator *detect.Evaluator, raw schema.RawSeries) schema.AnalysisResult {
	builder := NewSeriesResultBuilder(ctx, cfg, evaluator, raw)
	builder.
		Normalize().
		Evaluate().
		Summarize()
	result := builder.Build()

	if runID, ok := getRunID(ctx); ok && runID > 0 {
		recordVerdict(ctx, runID, result)
	}
	return result
}

// evaluateTargets processes all targets in parallel using a worker pool.
// Results keep the order of targets.
func evaluateTargets(ctx context.Context, cfg *contract.Config, source contract.ScanSource, evaluator *detect.Evaluator, targets []string) []schema.AnalysisResult {
	results := make([]schema.AnalysisResult, len(targets))
	indexCh := make(chan int, len(targets))
	var wg sync.WaitGroup

	workers := max(1, min(cfg.Workers, len(targets)))
	for range workers {
		wg.Go(func() {
			for idx := range indexCh {
				// Each worker writes a unique index, which is safe
				results[idx] = analyzeSubmission(ctx, cfg, source, evaluator, targets[idx])
			}
		})
	}

	for i := range targets {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return results
}

// evaluateAllSeries evaluates loaded series in parallel, keeping their order.
func evaluateAllSeries(ctx context.Context, cfg *contract.Config, evaluator *detect.Evaluator, all []schema.RawSeries) []schema.AnalysisResult {
	results := make([]schema.AnalysisResult, len(all))
	indexCh := make(chan int, len(all))
	var wg sync.WaitGroup

	workers := max(1, min(cfg.Workers, len(all)))
	for range workers {
		wg.Go(func() {
			for idx := range indexCh {
				results[idx] = analyzeSeries(ctx, cfg, evaluator, all[idx])
			}
		})
	}

	for i := range all {
		indexCh <- i
	}
	close(indexCh)
	wg.Wait()

	return results
}
