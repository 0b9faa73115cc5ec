package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
)

// beginRun starts a history run when recording is enabled and stores its id in the context.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) context.Context {
	ctx = contextWithStoreManager(ctx, mgr)
	if !cfg.Record || mgr == nil {
		return ctx
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		contract.LogWarn("Verdict recording skipped", errors.New("no history store configured"))
		return ctx
	}
	runID, err := history.BeginRun(time.Now(), cfg.Params())
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// endRun finalizes the history run with the totals of the results.
func endRun(ctx context.Context, results []schema.AnalysisResult) {
	runID, ok := getRunID(ctx)
	if !ok || runID <= 0 {
		return
	}
	mgr := storeManagerFromContext(ctx)
	if mgr == nil || mgr.GetHistoryStore() == nil {
		return
	}
	if err := mgr.GetHistoryStore().EndRun(runID, time.Now(), len(results), schema.CountFlagged(results)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// toVerdictRecord converts a result into its history row.
func toVerdictRecord(runID int64, result schema.AnalysisResult, evaluatedAt time.Time) schema.VerdictRecord {
	return schema.VerdictRecord{
		RunID:        runID,
		SubmissionID: result.SubmissionID,
		Platform:     result.Platform,
		URL:          result.URL,
		Status:       result.Status,
		ShouldReject: result.ShouldReject,
		BottedReason: result.BottedReason,
		ReasonCount:  int32(len(result.Reasons)),
		NoteCount:    int32(len(result.Notes)),
		ScanCount:    int32(result.ScanCount),
		EvaluatedAt:  evaluatedAt,
	}
}

// recordVerdict writes the verdict row of a result to the history store.
func recordVerdict(ctx context.Context, runID int64, result schema.AnalysisResult) {
	mgr := storeManagerFromContext(ctx)
	if mgr == nil {
		return
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		return
	}
	if result.SubmissionID == "" {
		result.SubmissionID = result.URL
	}
	if err := history.RecordVerdict(runID, toVerdictRecord(runID, result, time.Now())); err != nil {
		logTrackingError("RecordVerdict", result.SubmissionID, err)
	}
}

// recordSubmission records the verdict when a run is open and appends the
// reason trail of a flagged submission to its internal notes.
func recordSubmission(ctx context.Context, result schema.AnalysisResult) {
	if runID, ok := getRunID(ctx); ok && runID > 0 {
		recordVerdict(ctx, runID, result)
	}
	if result.Status != schema.StatusFlagged {
		return
	}
	mgr := storeManagerFromContext(ctx)
	if mgr == nil || mgr.GetScanStore() == nil {
		return
	}
	notes := schema.JoinReasons(result.Reasons)
	if err := mgr.GetScanStore().AppendInternalNotes(ctx, result.SubmissionID, notes); err != nil {
		logTrackingError("AppendInternalNotes", result.SubmissionID, err)
	}
}

// logTrackingError logs storage failures to stderr without disrupting evaluation.
func logTrackingError(operation, submissionID string, err error) {
	contract.LogWarn(fmt.Sprintf("Verdict tracking failed for %s on %s", operation, submissionID), err)
}
