package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/huangsam/botscan/core/detect"
	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
)

// SubmissionResultBuilder builds the evaluation of one submission.
// A failed step records its error and turns the remaining steps into no-ops.
type SubmissionResultBuilder struct {
	ctx       context.Context
	cfg       *contract.Config
	source    contract.ScanSource
	evaluator *detect.Evaluator
	target    string

	// Internal data collected during the build process
	raw     schema.RawSeries
	series  schema.ScanSeries
	valid   schema.ScanSeries
	verdict *schema.SubmissionVerdict
	summary []schema.SummaryLine
	status  schema.ResultStatus
	err     error
}

// NewSubmissionResultBuilder is the starting point for evaluating a stored submission.
// The target is either a submission URL or a submission id.
func NewSubmissionResultBuilder(ctx context.Context, cfg *contract.Config, source contract.ScanSource, evaluator *detect.Evaluator, target string) *SubmissionResultBuilder {
	return &SubmissionResultBuilder{
		ctx:       ctx,
		cfg:       cfg,
		source:    source,
		evaluator: evaluator,
		target:    strings.TrimSpace(target),
	}
}

// NewSeriesResultBuilder starts from a series that was already loaded, e.g. from a scan file.
func NewSeriesResultBuilder(ctx context.Context, cfg *contract.Config, evaluator *detect.Evaluator, raw schema.RawSeries) *SubmissionResultBuilder {
	b := &SubmissionResultBuilder{
		ctx:       ctx,
		cfg:       cfg,
		evaluator: evaluator,
		target:    raw.URL,
		raw:       raw,
	}
	if b.target == "" {
		b.target = raw.SubmissionID
	}
	if cfg.Platform != "" {
		b.raw.Platform = cfg.Platform
	}
	return b
}

// isURL reports whether a target names a submission URL rather than an id.
func isURL(target string) bool {
	if strings.Contains(target, "://") {
		return true
	}
	_, err := schema.InferPlatform(target)
	return err == nil
}

// FetchScans resolves the target and loads its scans from the source.
// URLs are looked up by FindByURL and their platform inferred from the host;
// the configured platform overrides both.
func (b *SubmissionResultBuilder) FetchScans() *SubmissionResultBuilder {
	if b.err != nil {
		return b
	}
	if b.source == nil {
		b.err = errors.New("no scan store configured")
		return b
	}

	ctx := b.ctx
	if b.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()
	}

	submissionID := b.target
	platform := b.cfg.Platform
	if isURL(b.target) {
		record, err := b.source.FindByURL(ctx, b.target)
		if err != nil {
			b.err = err
			return b
		}
		submissionID = record.SubmissionID
		if platform == "" {
			platform, err = schema.InferPlatform(b.target)
			if err != nil {
				platform = record.Platform
			}
		}
	}

	raw, err := b.source.GetScans(ctx, submissionID, platform)
	if err != nil {
		b.err = err
		return b
	}
	if platform != "" {
		raw.Platform = platform
	}
	if raw.URL == "" && isURL(b.target) {
		raw.URL = b.target
	}
	b.raw = raw
	return b
}

// Normalize converts the raw records into a scan series and drops missing scans.
func (b *SubmissionResultBuilder) Normalize() *SubmissionResultBuilder {
	if b.err != nil {
		return b
	}
	if b.raw.Platform == "" {
		b.err = fmt.Errorf("%w: no platform for %s", schema.ErrUnknownPlatform, b.target)
		return b
	}
	b.series = detect.NormalizeSeries(b.raw)
	b.valid = b.series.Valid()
	return b
}

// Evaluate runs the detection engine over the series.
func (b *SubmissionResultBuilder) Evaluate() *SubmissionResultBuilder {
	if b.err != nil {
		return b
	}
	verdict, err := b.evaluator.Evaluate(b.raw.Platform, b.series)
	switch {
	case errors.Is(err, detect.ErrInsufficientData):
		b.status = schema.StatusInsufficient
	case err != nil:
		b.err = err
	case verdict.ShouldReject:
		b.verdict = verdict
		b.status = schema.StatusFlagged
	default:
		b.verdict = verdict
		b.status = schema.StatusClean
	}
	return b
}

// Summarize condenses the per-scan conditions of the valid scans.
func (b *SubmissionResultBuilder) Summarize() *SubmissionResultBuilder {
	if b.err != nil {
		return b
	}
	b.summary = detect.Summarize(b.raw.Platform, b.valid)
	return b
}

// Build finalizes the construction and returns the completed result.
func (b *SubmissionResultBuilder) Build() schema.AnalysisResult {
	result := schema.AnalysisResult{
		URL:            b.raw.URL,
		SubmissionID:   b.raw.SubmissionID,
		Platform:       b.raw.Platform,
		Status:         b.status,
		Summary:        b.summary,
		ScanCount:      b.series.Len(),
		ValidScanCount: b.valid.Len(),
	}
	if result.URL == "" && result.SubmissionID == "" {
		if isURL(b.target) {
			result.URL = b.target
		} else {
			result.SubmissionID = b.target
		}
	}
	if result.Platform == "" {
		result.Platform = b.cfg.Platform
	}
	if b.err != nil {
		result.Status = schema.StatusError
		result.Error = b.err.Error()
		return result
	}
	if b.verdict != nil {
		result.ShouldReject = b.verdict.ShouldReject
		result.BottedReason = b.verdict.BottedReason
		result.Reasons = b.verdict.Reasons
		result.Notes = b.verdict.Notes
	}
	return result
}

// BuildReport returns the result together with the valid scans its reasons refer to.
func (b *SubmissionResultBuilder) BuildReport() schema.SubmissionReport {
	return schema.SubmissionReport{
		AnalysisResult: b.Build(),
		Scans:          b.valid,
	}
}

// Err returns the first error hit while building.
func (b *SubmissionResultBuilder) Err() error {
	return b.err
}
