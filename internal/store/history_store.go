package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
)

// HistoryStoreImpl records evaluation runs and their verdicts.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore opens the verdict history store for the backend and creates its tables.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (*HistoryStoreImpl, error) {
	if backend == schema.NoneBackend {
		// No-op store when history tracking is disabled
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createTables(db, historyDir, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

func (hs *HistoryStoreImpl) q(query string) string {
	query = strings.ReplaceAll(query, "{runs}", quoteTableName(runsTable, hs.backend))
	query = strings.ReplaceAll(query, "{verdicts}", quoteTableName(verdictsTable, hs.backend))
	return rebind(query, hs.backend)
}

// BeginRun creates a new evaluation run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := hs.q(`INSERT INTO {runs} (start_time, config_params) VALUES (?, ?) RETURNING run_id`)
		err = hs.db.QueryRow(query, formatTime(startTime, hs.backend), string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		var result sql.Result
		result, err = hs.db.Exec(hs.q(`INSERT INTO {runs} (start_time, config_params) VALUES (?, ?)`), formatTime(startTime, hs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalSubmissions, flaggedSubmissions int) error {
	if hs.disabled() {
		return nil
	}

	var startTime dbTime
	if err := hs.db.QueryRow(hs.q(`SELECT start_time FROM {runs} WHERE run_id = ?`), runID).Scan(&startTime); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	durationMs := endTime.Sub(startTime.Time).Milliseconds()

	_, err := hs.db.Exec(hs.q(`UPDATE {runs} SET end_time = ?, run_duration_ms = ?, total_submissions = ?, flagged_submissions = ? WHERE run_id = ?`),
		formatTime(endTime, hs.backend), durationMs, totalSubmissions, flaggedSubmissions, runID)
	if err != nil {
		return fmt.Errorf("failed to update run %d: %w", runID, err)
	}
	return nil
}

// RecordVerdict stores the outcome for one submission, replacing an earlier
// verdict of the same submission in the same run.
func (hs *HistoryStoreImpl) RecordVerdict(runID int64, record schema.VerdictRecord) error {
	if hs.disabled() {
		return nil
	}

	evaluatedAt := record.EvaluatedAt
	if evaluatedAt.IsZero() {
		evaluatedAt = time.Now()
	}
	args := []any{
		runID, record.SubmissionID, string(record.Platform), nullString(record.URL), string(record.Status),
		boolToInt(record.ShouldReject), nullString(record.BottedReason), record.ReasonCount, record.NoteCount,
		record.ScanCount, formatTime(evaluatedAt, hs.backend),
	}
	if _, err := hs.db.Exec(hs.upsertVerdictQuery(), args...); err != nil {
		return fmt.Errorf("failed to record verdict for %s: %w", record.SubmissionID, err)
	}
	return nil
}

// upsertVerdictQuery returns the UPSERT query for the backend.
func (hs *HistoryStoreImpl) upsertVerdictQuery() string {
	const columns = `(run_id, submission_id, platform, url, status, should_reject, botted_reason, reason_count, note_count, scan_count, evaluated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	switch hs.backend {
	case schema.MySQLBackend:
		return hs.q(`INSERT INTO {verdicts} ` + columns + ` AS new
			ON DUPLICATE KEY UPDATE platform = new.platform, url = new.url, status = new.status, should_reject = new.should_reject,
			botted_reason = new.botted_reason, reason_count = new.reason_count, note_count = new.note_count,
			scan_count = new.scan_count, evaluated_at = new.evaluated_at`)
	case schema.PostgreSQLBackend:
		return hs.q(`INSERT INTO {verdicts} ` + columns + `
			ON CONFLICT (run_id, submission_id) DO UPDATE SET platform = EXCLUDED.platform, url = EXCLUDED.url,
			status = EXCLUDED.status, should_reject = EXCLUDED.should_reject, botted_reason = EXCLUDED.botted_reason,
			reason_count = EXCLUDED.reason_count, note_count = EXCLUDED.note_count, scan_count = EXCLUDED.scan_count,
			evaluated_at = EXCLUDED.evaluated_at`)
	default: // SQLite
		return hs.q(`INSERT OR REPLACE INTO {verdicts} ` + columns)
	}
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.disabled() {
		return status, nil
	}

	if err := hs.db.QueryRow(hs.q(`SELECT COUNT(*) FROM {runs}`)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTime, oldestRunTime dbTime
		if err := hs.db.QueryRow(hs.q(`SELECT run_id, start_time FROM {runs} ORDER BY run_id DESC LIMIT 1`)).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if err := hs.db.QueryRow(hs.q(`SELECT start_time FROM {runs} ORDER BY run_id ASC LIMIT 1`)).Scan(&oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.LastRunTime = lastRunTime.Time
		status.OldestRunTime = oldestRunTime.Time
	}

	if err := hs.db.QueryRow(hs.q(`SELECT COUNT(*) FROM {verdicts}`)).Scan(&status.TotalVerdicts); err != nil {
		return status, fmt.Errorf("failed to get total verdicts: %w", err)
	}
	if err := hs.db.QueryRow(hs.q(`SELECT COUNT(*) FROM {verdicts} WHERE status = ?`), string(schema.StatusFlagged)).Scan(&status.FlaggedVerdicts); err != nil {
		return status, fmt.Errorf("failed to get flagged verdicts: %w", err)
	}

	status.TableSizes[runsTable] = int64(status.TotalRuns)
	status.TableSizes[verdictsTable] = int64(status.TotalVerdicts)
	return status, nil
}

// GetAllRuns retrieves all runs ordered by id.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	rows, err := hs.db.Query(hs.q(`SELECT run_id, start_time, end_time, run_duration_ms, total_submissions, flagged_submissions, config_params
		FROM {runs} ORDER BY run_id`))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var startTime, endTime dbTime
		if err := rows.Scan(&record.RunID, &startTime, &endTime, &record.RunDurationMs,
			&record.TotalSubmissions, &record.FlaggedSubmissions, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = startTime.Time
		record.EndTime = endTime.ptr()
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// verdictColumns selects a VerdictRecord.
const verdictColumns = `SELECT run_id, submission_id, platform, url, status, should_reject, botted_reason,
	reason_count, note_count, scan_count, evaluated_at FROM {verdicts}`

// GetAllVerdicts retrieves all verdicts ordered by run and submission.
func (hs *HistoryStoreImpl) GetAllVerdicts() ([]schema.VerdictRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	return hs.queryVerdicts(hs.q(verdictColumns + ` ORDER BY run_id, submission_id`))
}

// GetVerdictsForSubmission retrieves the verdicts of one submission, newest run first.
func (hs *HistoryStoreImpl) GetVerdictsForSubmission(submissionID string) ([]schema.VerdictRecord, error) {
	if hs.disabled() {
		return nil, nil
	}
	return hs.queryVerdicts(hs.q(verdictColumns+` WHERE submission_id = ? ORDER BY run_id DESC`), submissionID)
}

func (hs *HistoryStoreImpl) queryVerdicts(query string, args ...any) ([]schema.VerdictRecord, error) {
	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query verdicts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.VerdictRecord
	for rows.Next() {
		var record schema.VerdictRecord
		var platform, status string
		var url, reason sql.NullString
		var shouldReject int
		var evaluatedAt dbTime
		if err := rows.Scan(&record.RunID, &record.SubmissionID, &platform, &url, &status, &shouldReject, &reason,
			&record.ReasonCount, &record.NoteCount, &record.ScanCount, &evaluatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan verdict: %w", err)
		}
		record.Platform = schema.Platform(platform)
		record.Status = schema.ResultStatus(status)
		record.URL = url.String
		record.BottedReason = reason.String
		record.ShouldReject = shouldReject != 0
		record.EvaluatedAt = evaluatedAt.Time
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating verdicts: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}
