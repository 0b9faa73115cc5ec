package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHistory(t *testing.T) {
	h := newTestHistoryStore(t)
	runID, err := h.BeginRun(time.Now(), map[string]any{"workers": 2})
	require.NoError(t, err)
	require.NoError(t, h.RecordVerdict(runID, schema.VerdictRecord{SubmissionID: "s1", Platform: schema.TikTok, Status: schema.StatusFlagged, ShouldReject: true}))
	require.NoError(t, h.EndRun(runID, time.Now(), 1, 1))

	out := filepath.Join(t.TempDir(), "history")
	var buf bytes.Buffer
	require.NoError(t, ExportHistory(&buf, h, out))

	for _, suffix := range []string{".runs.parquet", ".verdicts.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, buf.String(), "Exported 1 runs")
	assert.Contains(t, buf.String(), "Exported 1 verdicts")
}

func TestExportHistory_Errors(t *testing.T) {
	var buf bytes.Buffer

	t.Run("missing output file", func(t *testing.T) {
		assert.Error(t, ExportHistory(&buf, &MockHistoryStore{}, ""))
	})

	t.Run("no store", func(t *testing.T) {
		assert.Error(t, ExportHistory(&buf, nil, "out"))
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Error(t, ExportHistory(&buf, newTestHistoryStore(t), filepath.Join(t.TempDir(), "out")))
	})

	t.Run("status failure", func(t *testing.T) {
		m := &MockHistoryStore{}
		m.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))
		err := ExportHistory(&buf, m, "out")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		m.AssertExpectations(t)
	})
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintScanStatus(&buf, schema.ScanStoreStatus{Backend: "none"})
	assert.Equal(t, "Scan Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	last := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	PrintScanStatus(&buf, schema.ScanStoreStatus{Backend: "sqlite", Connected: true, TotalSubmissions: 2, TotalScans: 9, LastScanTime: last, OldestScanTime: last.Add(-time.Hour)})
	assert.Contains(t, buf.String(), "Total Scans: 9")
	assert.Contains(t, buf.String(), "Last Scan: 2024-05-02 08:00:00")

	buf.Reset()
	PrintHistoryStatus(&buf, schema.HistoryStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalVerdicts:   3,
		FlaggedVerdicts: 1,
		TableSizes:      map[string]int64{verdictsTable: 3, runsTable: 1},
	})
	out := buf.String()
	assert.Contains(t, out, "Total Verdicts: 3 (1 flagged)")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(runsTable)), bytes.Index(buf.Bytes(), []byte(verdictsTable)), "tables are sorted")
}
