package store

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/internal/parquet"
)

// ExportHistory writes the runs and verdicts of a history store to
// outputFile.runs.parquet and outputFile.verdicts.parquet.
func ExportHistory(w io.Writer, history contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if history == nil {
		return errors.New("history store is not configured")
	}

	status, err := history.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no verdict history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total verdicts: %d\n", status.TotalVerdicts)

	runs, err := history.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	verdicts, err := history.GetAllVerdicts()
	if err != nil {
		return fmt.Errorf("failed to retrieve verdicts: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	verdictsFile := outputFile + ".verdicts.parquet"
	parquetVerdicts := parquet.ConvertVerdictRecords(verdicts)
	if err := parquet.WriteVerdictsParquet(parquetVerdicts, verdictsFile); err != nil {
		return fmt.Errorf("failed to write verdicts: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d verdicts to: %s\n", len(parquetVerdicts), verdictsFile)
	return nil
}
