package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSubmissionReport outputs the per-scan report of one submission.
func WriteSubmissionReport(report schema.SubmissionReport, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReport(w, report, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, cfg)
		}, "Wrote text")
	}
}

// reportColumns lists the metric columns shown for the platform.
func reportColumns(platform schema.Platform) []schema.Metric {
	if platform == "" {
		return schema.AllMetrics
	}
	return platform.Metrics()
}

// scanRatios returns the like and comment percentages of views for a scan.
func scanRatios(platform schema.Platform, scan schema.ScanSnapshot, fmtFloat func(float64) string) []string {
	pct := func(v int64) string {
		if scan.Views == 0 {
			return "-"
		}
		return fmtFloat(100*float64(v)/float64(scan.Views)) + "%"
	}
	var ratios []string
	if platform == "" || platform.HasLikes() {
		ratios = append(ratios, pct(scan.Likes))
	}
	return append(ratios, pct(scan.Comments))
}

func ratioHeaders(platform schema.Platform) []string {
	if platform == "" || platform.HasLikes() {
		return []string{"Like %", "Comment %"}
	}
	return []string{"Comment %"}
}

// writeReportText writes the scan table followed by the summary and the verdict.
func writeReportText(w io.Writer, report schema.SubmissionReport, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	metrics := reportColumns(report.Platform)

	title := fmt.Sprintf("Submission %s (%s)", report.SubmissionID, report.Platform)
	if report.URL != "" {
		title += " " + report.URL
	}
	if cfg.UseColors {
		title = contract.HeaderColor.Sprint(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Scan", "Collected"}
	for _, m := range metrics {
		headers = append(headers, strings.ToUpper(string(m[:1]))+string(m[1:]))
	}
	headers = append(headers, ratioHeaders(report.Platform)...)
	table.Header(headers)
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	scans := report.Scans.Scans()
	data := make([][]string, 0, len(scans))
	for i, scan := range scans {
		row := []string{strconv.Itoa(i + 1), formatTime(scan.CollectedAt)}
		for _, m := range metrics {
			row = append(row, fmt.Sprintf(intFmt, scan.Value(m)))
		}
		row = append(row, scanRatios(report.Platform, scan, fmtFloat)...)
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	var b strings.Builder
	if missing := report.ScanCount - report.ValidScanCount; missing > 0 {
		fmt.Fprintf(&b, "%d of %d scans were missing or unusable and are not shown\n", missing, report.ScanCount)
	}
	if len(report.Summary) > 0 {
		b.WriteString("\nSummary:\n")
		for _, line := range report.Summary {
			fmt.Fprintf(&b, "  %s\n", line.Text)
		}
	}

	b.WriteString("\nVerdict: " + statusLabel(report.Status, cfg) + "\n")
	switch {
	case report.Error != "":
		fmt.Fprintf(&b, "  %s\n", report.Error)
	case report.Status == schema.StatusInsufficient:
		b.WriteString("  not enough valid scans to evaluate\n")
	}
	for _, r := range report.Reasons {
		fmt.Fprintf(&b, "  [%s] %s\n", r.Rule, r.String())
	}
	if len(report.Notes) > 0 {
		b.WriteString("\nNotes:\n")
		for _, n := range report.Notes {
			fmt.Fprintf(&b, "  [%s] %s\n", n.Rule, n.String())
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeCSVReport writes one CSV row per scan.
func writeCSVReport(w io.Writer, report schema.SubmissionReport, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	metrics := reportColumns(report.Platform)

	header := []string{"scan", "collected_at"}
	for _, m := range metrics {
		header = append(header, string(m))
	}
	if report.Platform == "" || report.Platform.HasLikes() {
		header = append(header, "like_pct")
	}
	header = append(header, "comment_pct")

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, scan := range report.Scans.Scans() {
			rec := []string{strconv.Itoa(i + 1), formatTime(scan.CollectedAt)}
			for _, m := range metrics {
				rec = append(rec, strconv.FormatInt(scan.Value(m), 10))
			}
			for _, ratio := range scanRatios(report.Platform, scan, fmtFloat) {
				rec = append(rec, strings.TrimSuffix(ratio, "%"))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
