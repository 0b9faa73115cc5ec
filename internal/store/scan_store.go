package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/schema"
)

// ScanStoreImpl reads and writes submissions and their scans.
type ScanStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.ScanStore = &ScanStoreImpl{} // Compile-time check

// NewScanStore opens the scan store for the backend and creates its tables.
func NewScanStore(backend schema.DatabaseBackend, connStr string) (*ScanStoreImpl, error) {
	if backend == schema.NoneBackend {
		// No-op store when scan storage is disabled
		return &ScanStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDB(backend, connStr, contract.GetScanDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createTables(db, scansDir, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &ScanStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

func (ss *ScanStoreImpl) disabled() bool {
	return ss.backend == schema.NoneBackend || ss.db == nil
}

func (ss *ScanStoreImpl) q(query string) string {
	query = strings.ReplaceAll(query, "{submissions}", quoteTableName(submissionsTable, ss.backend))
	query = strings.ReplaceAll(query, "{scans}", quoteTableName(scansTable, ss.backend))
	return rebind(query, ss.backend)
}

// submissionColumns selects a SubmissionRecord with its scan count.
const submissionColumns = `SELECT s.submission_id, s.platform, s.url, s.internal_notes, s.created_at,
	(SELECT COUNT(*) FROM {scans} c WHERE c.submission_id = s.submission_id)
	FROM {submissions} s`

// GetScans returns the ordered non-extended scans of a submission.
// An empty platform matches any stored platform.
func (ss *ScanStoreImpl) GetScans(ctx context.Context, submissionID string, platform schema.Platform) (schema.RawSeries, error) {
	if ss.disabled() {
		return schema.RawSeries{}, fmt.Errorf("%w: %s (scan store disabled)", ErrSubmissionNotFound, submissionID)
	}

	record, err := ss.getSubmission(ctx, ss.q(submissionColumns+` WHERE s.submission_id = ?`), submissionID)
	if err != nil {
		return schema.RawSeries{}, err
	}
	if platform != "" && record.Platform != platform {
		return schema.RawSeries{}, fmt.Errorf("%w: %s on %s", ErrSubmissionNotFound, submissionID, platform)
	}

	rows, err := ss.db.QueryContext(ctx, ss.q(`SELECT collected_at, views, likes, comments, shares, saves, is_missing
		FROM {scans} WHERE submission_id = ? AND is_extended = 0 ORDER BY scan_index`), submissionID)
	if err != nil {
		return schema.RawSeries{}, fmt.Errorf("failed to query scans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	series := schema.RawSeries{
		SubmissionID: record.SubmissionID,
		URL:          record.URL,
		Platform:     record.Platform,
	}
	for rows.Next() {
		var scan schema.RawScan
		var collectedAt dbTime
		var missing int
		if err := rows.Scan(&collectedAt, &scan.Views, &scan.Likes, &scan.Comments, &scan.Shares, &scan.Saves, &missing); err != nil {
			return schema.RawSeries{}, fmt.Errorf("failed to scan row: %w", err)
		}
		scan.CollectedAt = collectedAt.Time
		if missing != 0 {
			scan.Views = math.NaN()
		}
		series.Scans = append(series.Scans, scan)
	}
	if err := rows.Err(); err != nil {
		return schema.RawSeries{}, fmt.Errorf("error iterating scans: %w", err)
	}
	return series, nil
}

// FindByURL resolves the submission stored for a URL.
func (ss *ScanStoreImpl) FindByURL(ctx context.Context, url string) (schema.SubmissionRecord, error) {
	if ss.disabled() {
		return schema.SubmissionRecord{}, fmt.Errorf("%w: %s (scan store disabled)", ErrSubmissionNotFound, url)
	}
	return ss.getSubmission(ctx, ss.q(submissionColumns+` WHERE s.url = ?`), url)
}

func (ss *ScanStoreImpl) getSubmission(ctx context.Context, query, key string) (schema.SubmissionRecord, error) {
	row := ss.db.QueryRowContext(ctx, query, key)
	record, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.SubmissionRecord{}, fmt.Errorf("%w: %s", ErrSubmissionNotFound, key)
	}
	if err != nil {
		return schema.SubmissionRecord{}, fmt.Errorf("failed to load submission %s: %w", key, err)
	}
	return record, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (schema.SubmissionRecord, error) {
	var record schema.SubmissionRecord
	var platform string
	var url, notes sql.NullString
	var createdAt dbTime
	if err := row.Scan(&record.SubmissionID, &platform, &url, &notes, &createdAt, &record.ScanCount); err != nil {
		return record, err
	}
	record.Platform = schema.Platform(platform)
	record.URL = url.String
	record.InternalNotes = notes.String
	record.CreatedAt = createdAt.Time
	return record, nil
}

// ImportSeries creates or updates a submission and replaces its scans.
// Internal notes and creation time of an existing submission are kept.
func (ss *ScanStoreImpl) ImportSeries(ctx context.Context, series schema.RawSeries) error {
	if ss.disabled() {
		return nil
	}

	id := series.SubmissionID
	if id == "" {
		id = series.URL
	}
	if id == "" {
		return fmt.Errorf("series needs a submission id or url")
	}
	platform := series.Platform
	if platform == "" {
		p, err := schema.InferPlatform(series.URL)
		if err != nil {
			return fmt.Errorf("submission %s: %w", id, err)
		}
		platform = p
	}

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := formatTime(ss.now(), ss.backend)
	if _, err := tx.ExecContext(ctx, ss.upsertSubmissionQuery(), id, string(platform), nullString(series.URL), createdAt); err != nil {
		return fmt.Errorf("failed to upsert submission %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, ss.q(`DELETE FROM {scans} WHERE submission_id = ?`), id); err != nil {
		return fmt.Errorf("failed to clear scans of %s: %w", id, err)
	}

	insert := ss.q(`INSERT INTO {scans} (submission_id, scan_index, collected_at, views, likes, comments, shares, saves, is_missing, is_extended)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, scan := range series.Scans {
		values, missing := storedMetrics(scan)
		args := []any{id, i, formatTime(scan.CollectedAt, ss.backend)}
		args = append(args, values...)
		args = append(args, boolToInt(missing), boolToInt(scan.Extended))
		if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
			return fmt.Errorf("failed to insert scan %d of %s: %w", i+1, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit series %s: %w", id, err)
	}
	return nil
}

// storedMetrics replaces unusable values with 0 and reports the scan as missing.
func storedMetrics(scan schema.RawScan) ([]any, bool) {
	raw := []float64{scan.Views, scan.Likes, scan.Comments, scan.Shares, scan.Saves}
	values := make([]any, len(raw))
	missing := false
	for i, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			missing = true
			v = 0
		}
		values[i] = v
	}
	return values, missing
}

// upsertSubmissionQuery returns the UPSERT query for the backend.
func (ss *ScanStoreImpl) upsertSubmissionQuery() string {
	switch ss.backend {
	case schema.MySQLBackend:
		return ss.q(`INSERT INTO {submissions} (submission_id, platform, url, created_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE platform = new.platform, url = new.url`)
	default: // SQLite and PostgreSQL
		return ss.q(`INSERT INTO {submissions} (submission_id, platform, url, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (submission_id) DO UPDATE SET platform = EXCLUDED.platform, url = EXCLUDED.url`)
	}
}

// AppendInternalNotes appends notes to the internal notes of a submission.
func (ss *ScanStoreImpl) AppendInternalNotes(ctx context.Context, submissionID string, notes string) error {
	if ss.disabled() || strings.TrimSpace(notes) == "" {
		return nil
	}

	tx, err := ss.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing sql.NullString
	err = tx.QueryRowContext(ctx, ss.q(`SELECT internal_notes FROM {submissions} WHERE submission_id = ?`), submissionID).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrSubmissionNotFound, submissionID)
	}
	if err != nil {
		return fmt.Errorf("failed to read notes of %s: %w", submissionID, err)
	}

	updated := notes
	if existing.String != "" {
		updated = existing.String + "\n" + notes
	}
	if _, err := tx.ExecContext(ctx, ss.q(`UPDATE {submissions} SET internal_notes = ? WHERE submission_id = ?`), updated, submissionID); err != nil {
		return fmt.Errorf("failed to update notes of %s: %w", submissionID, err)
	}
	return tx.Commit()
}

// ListSubmissions returns stored submissions ordered by id.
// An empty platform lists every submission.
func (ss *ScanStoreImpl) ListSubmissions(ctx context.Context, platform schema.Platform) ([]schema.SubmissionRecord, error) {
	if ss.disabled() {
		return nil, nil
	}

	query := submissionColumns
	var args []any
	if platform != "" {
		query += ` WHERE s.platform = ?`
		args = append(args, string(platform))
	}
	query += ` ORDER BY s.submission_id`

	rows, err := ss.db.QueryContext(ctx, ss.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SubmissionRecord
	for rows.Next() {
		record, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the scan store.
func (ss *ScanStoreImpl) GetStatus() (schema.ScanStoreStatus, error) {
	status := schema.ScanStoreStatus{
		Backend:   string(ss.backend),
		Connected: ss.db != nil,
	}
	if ss.disabled() {
		return status, nil
	}

	if err := ss.db.QueryRow(ss.q(`SELECT COUNT(*) FROM {submissions}`)).Scan(&status.TotalSubmissions); err != nil {
		return status, fmt.Errorf("failed to get total submissions: %w", err)
	}
	if err := ss.db.QueryRow(ss.q(`SELECT COUNT(*) FROM {scans}`)).Scan(&status.TotalScans); err != nil {
		return status, fmt.Errorf("failed to get total scans: %w", err)
	}
	if status.TotalScans == 0 {
		return status, nil
	}

	var last, oldest dbTime
	if err := ss.db.QueryRow(ss.q(`SELECT MAX(collected_at), MIN(collected_at) FROM {scans}`)).Scan(&last, &oldest); err != nil {
		return status, fmt.Errorf("failed to get scan time range: %w", err)
	}
	status.LastScanTime = last.Time
	status.OldestScanTime = oldest.Time
	return status, nil
}

// Close closes the underlying DB connection.
func (ss *ScanStoreImpl) Close() error {
	if ss.db != nil {
		return ss.db.Close()
	}
	return nil
}
