// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/botscan/schema"
)

// StoreManager defines the interface for managing the scan and history stores.
// This allows the storage layer to be mocked for testing.
type StoreManager interface {
	GetScanStore() ScanStore
	GetHistoryStore() HistoryStore
}

// ScanSource supplies the collected scans of a submission.
type ScanSource interface {
	// GetScans returns the ordered non-extended scans of a submission on a platform.
	GetScans(ctx context.Context, submissionID string, platform schema.Platform) (schema.RawSeries, error)

	// FindByURL resolves the submission stored for a URL.
	FindByURL(ctx context.Context, url string) (schema.SubmissionRecord, error)
}

// NotesWriter accepts the audit trail of a verdict.
type NotesWriter interface {
	// AppendInternalNotes appends notes to the submission's internal notes.
	AppendInternalNotes(ctx context.Context, submissionID string, notes string) error
}

// ScanStore defines the interface for scan data storage.
type ScanStore interface {
	ScanSource
	NotesWriter

	// ImportSeries creates or updates a submission and replaces its scans.
	ImportSeries(ctx context.Context, series schema.RawSeries) error

	// ListSubmissions returns stored submissions, optionally filtered by platform.
	ListSubmissions(ctx context.Context, platform schema.Platform) ([]schema.SubmissionRecord, error)

	// GetStatus returns status information about the scan store
	GetStatus() (schema.ScanStoreStatus, error)

	// Close closes the underlying connection
	Close() error
}

// HistoryStore defines the interface for tracking evaluation runs and their verdicts.
type HistoryStore interface {
	// BeginRun creates a new evaluation run and returns its unique ID
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalSubmissions, flaggedSubmissions int) error

	// RecordVerdict stores the outcome for one submission
	RecordVerdict(runID int64, record schema.VerdictRecord) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllVerdicts returns every recorded verdict
	GetAllVerdicts() ([]schema.VerdictRecord, error)

	// GetVerdictsForSubmission returns the verdicts of one submission, newest first
	GetVerdictsForSubmission(submissionID string) ([]schema.VerdictRecord, error)

	// Close closes the underlying connection
	Close() error
}
