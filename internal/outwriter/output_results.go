package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// maxReasonWidth bounds the first-reason column of the results table.
const maxReasonWidth = 40

// WriteBatchResults outputs batch results, dispatching based on the output format configured.
// Simple mode prints one flag line per submission instead of a table.
func WriteBatchResults(results []schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResults(w, results)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResults(w, results)
		}, "Wrote CSV")
	default:
		if cfg.Simple {
			return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
				return writeFlagLines(w, results)
			}, "Wrote flags")
		}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeResultsTable(w, results, cfg, duration)
		}, "Wrote table")
	}
}

// FlagLine renders the one-line outcome of a submission.
func FlagLine(r schema.AnalysisResult) string {
	target := displayTarget(r)
	switch r.Status {
	case schema.StatusFlagged:
		return "FLAG " + target
	case schema.StatusClean:
		return "OK " + target
	case schema.StatusInsufficient:
		return "INSUFFICIENT " + target
	default:
		return fmt.Sprintf("ERROR %s: %s", target, r.Error)
	}
}

// writeFlagLines writes one FlagLine per result.
func writeFlagLines(w io.Writer, results []schema.AnalysisResult) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, FlagLine(r)); err != nil {
			return err
		}
	}
	return nil
}

// writeResultsTable generates and writes the human-readable table.
func writeResultsTable(w io.Writer, results []schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "URL", "Platform", "Scans", "Verdict", "Reasons", "First Reason"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.PerColumn = []tw.Align{
			tw.AlignRight, tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignLeft, tw.AlignRight, tw.AlignLeft,
		}
	})

	urlWidth := GetMaxTableURLWidth(cfg)
	data := make([][]string, 0, len(results))
	for i, r := range results {
		first := ""
		switch {
		case r.Error != "":
			first = r.Error
		case len(r.Reasons) > 0:
			first = r.Reasons[0].Message
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(displayTarget(r), urlWidth),
			string(r.Platform),
			fmt.Sprintf("%d/%d", r.ValidScanCount, r.ScanCount),
			statusLabel(r.Status, cfg),
			strconv.Itoa(len(r.Reasons)),
			contract.TruncateText(first, maxReasonWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	flagged := schema.CountFlagged(results)
	if _, err := fmt.Fprintf(w, "Evaluated %d submissions (%d flagged)\n", len(results), flagged); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Evaluation completed in %v with %d workers. Scan backend: %s\n", duration.Round(time.Millisecond), cfg.Workers, cfg.ScanBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResults writes the batch results in CSV format.
func writeCSVResults(w io.Writer, results []schema.AnalysisResult) error {
	header := []string{
		"rank",
		"url",
		"submission_id",
		"platform",
		"status",
		"should_reject",
		"reason_count",
		"note_count",
		"scan_count",
		"valid_scan_count",
		"botted_reason",
		"error",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range results {
			rec := []string{
				strconv.Itoa(i + 1),
				r.URL,
				r.SubmissionID,
				string(r.Platform),
				string(r.Status),
				strconv.FormatBool(r.ShouldReject),
				strconv.Itoa(len(r.Reasons)),
				strconv.Itoa(len(r.Notes)),
				strconv.Itoa(r.ScanCount),
				strconv.Itoa(r.ValidScanCount),
				r.BottedReason,
				r.Error,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResults writes the batch results in JSON format with rank and label added.
func writeJSONResults(w io.Writer, results []schema.AnalysisResult) error {
	return writeJSON(w, schema.EnrichResults(results))
}
