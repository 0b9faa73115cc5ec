package store

import (
	"fmt"
	"io"
	"slices"

	"github.com/huangsam/botscan/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintScanStatus prints scan store status information.
func PrintScanStatus(w io.Writer, status schema.ScanStoreStatus) {
	_, _ = fmt.Fprintf(w, "Scan Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Submissions: %d\n", status.TotalSubmissions)
	_, _ = fmt.Fprintf(w, "Total Scans: %d\n", status.TotalScans)
	if !status.LastScanTime.IsZero() {
		_, _ = fmt.Fprintf(w, "Last Scan: %s\n", status.LastScanTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Scan: %s\n", status.OldestScanTime.Format(statusTimeFormat))
	}
}

// PrintHistoryStatus prints verdict history status information.
func PrintHistoryStatus(w io.Writer, status schema.HistoryStatus) {
	_, _ = fmt.Fprintf(w, "History Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		_, _ = fmt.Fprintf(w, "Last Run ID: %d\n", status.LastRunID)
		_, _ = fmt.Fprintf(w, "Last Run: %s\n", status.LastRunTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Total Verdicts: %d (%d flagged)\n", status.TotalVerdicts, status.FlaggedVerdicts)
	_, _ = fmt.Fprintln(w, "Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		_, _ = fmt.Fprintf(w, "  %s: %d rows\n", table, status.TableSizes[table])
	}
}
