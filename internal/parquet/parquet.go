// Package parquet exports botscan verdict history to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/botscan/schema"
	"github.com/parquet-go/parquet-go"
)

// Run is one evaluation run. It maps to the botscan_runs table.
type Run struct {
	RunID int64 `parquet:"run_id,snappy"`

	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is nil while the run has not finished
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalSubmissions int32 `parquet:"total_submissions,snappy"`

	FlaggedSubmissions int32 `parquet:"flagged_submissions,snappy"`

	// ConfigParams contains the JSON-encoded run settings
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Verdict is the outcome for one submission in a run.
// It maps to the botscan_verdicts table.
type Verdict struct {
	RunID        int64     `parquet:"run_id,snappy"`
	SubmissionID string    `parquet:"submission_id,snappy"`
	Platform     string    `parquet:"platform,dict,snappy"`
	URL          *string   `parquet:"url,optional,snappy"`
	Status       string    `parquet:"status,dict,snappy"`
	ShouldReject bool      `parquet:"should_reject,snappy"`
	BottedReason *string   `parquet:"botted_reason,optional,snappy"`
	ReasonCount  int32     `parquet:"reason_count,snappy"`
	NoteCount    int32     `parquet:"note_count,snappy"`
	ScanCount    int32     `parquet:"scan_count,snappy"`
	EvaluatedAt  time.Time `parquet:"evaluated_at,snappy"`
}

// WriteRunsParquet writes runs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteVerdictsParquet writes verdicts to a Parquet file.
func WriteVerdictsParquet(data []Verdict, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using the schema derived from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts stored runs for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:              record.RunID,
			StartTime:          record.StartTime,
			EndTime:            record.EndTime,
			RunDurationMs:      record.RunDurationMs,
			TotalSubmissions:   record.TotalSubmissions,
			FlaggedSubmissions: record.FlaggedSubmissions,
			ConfigParams:       record.ConfigParams,
		}
	}
	return result
}

// ConvertVerdictRecords converts stored verdicts for Parquet export.
// Empty URLs and reasons become nulls.
func ConvertVerdictRecords(records []schema.VerdictRecord) []Verdict {
	result := make([]Verdict, len(records))
	for i, record := range records {
		result[i] = Verdict{
			RunID:        record.RunID,
			SubmissionID: record.SubmissionID,
			Platform:     string(record.Platform),
			URL:          optional(record.URL),
			Status:       string(record.Status),
			ShouldReject: record.ShouldReject,
			BottedReason: optional(record.BottedReason),
			ReasonCount:  record.ReasonCount,
			NoteCount:    record.NoteCount,
			ScanCount:    record.ScanCount,
			EvaluatedAt:  record.EvaluatedAt,
		}
	}
	return result
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
