package schema

import "time"

// SubmissionRecord represents a row from the botscan_submissions table.
type SubmissionRecord struct {
	SubmissionID  string
	Platform      Platform
	URL           string
	InternalNotes string
	CreatedAt     time.Time
	ScanCount     int
}

// RunRecord represents a row from the botscan_runs table.
type RunRecord struct {
	RunID              int64
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	TotalSubmissions   int32
	FlaggedSubmissions int32
	ConfigParams       *string
}

// VerdictRecord represents a row from the botscan_verdicts table.
type VerdictRecord struct {
	RunID        int64
	SubmissionID string
	Platform     Platform
	URL          string
	Status       ResultStatus
	ShouldReject bool
	BottedReason string
	ReasonCount  int32
	NoteCount    int32
	ScanCount    int32
	EvaluatedAt  time.Time
}
