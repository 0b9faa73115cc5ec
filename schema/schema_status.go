package schema

import "time"

// ScanStoreStatus represents the status of the scan store.
type ScanStoreStatus struct {
	Backend          string    `json:"backend"`
	Connected        bool      `json:"connected"`
	TotalSubmissions int       `json:"total_submissions"`
	TotalScans       int       `json:"total_scans"`
	LastScanTime     time.Time `json:"last_scan_time"`
	OldestScanTime   time.Time `json:"oldest_scan_time"`
}

// HistoryStatus represents the status of the verdict history store.
type HistoryStatus struct {
	Backend         string           `json:"backend"`
	Connected       bool             `json:"connected"`
	TotalRuns       int              `json:"total_runs"`
	LastRunID       int64            `json:"last_run_id"`
	LastRunTime     time.Time        `json:"last_run_time"`
	OldestRunTime   time.Time        `json:"oldest_run_time"`
	TotalVerdicts   int              `json:"total_verdicts"`
	FlaggedVerdicts int              `json:"flagged_verdicts"`
	TableSizes      map[string]int64 `json:"table_sizes"`
}
