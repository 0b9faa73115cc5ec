package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	h, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	h, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := h.BeginRun(time.Now(), map[string]any{"workers": 1})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)
	assert.NoError(t, h.RecordVerdict(1, schema.VerdictRecord{SubmissionID: "x"}))
	assert.NoError(t, h.EndRun(1, time.Now(), 1, 0))

	runs, err := h.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, h.Close())
}

func TestHistoryStore_RunLifecycle(t *testing.T) {
	h := newTestHistoryStore(t)
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	runID, err := h.BeginRun(start, map[string]any{"workers": 4, "platform": "tiktok"})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	require.NoError(t, h.RecordVerdict(runID, schema.VerdictRecord{
		SubmissionID: "s1",
		Platform:     schema.TikTok,
		URL:          "https://www.tiktok.com/@a/video/1",
		Status:       schema.StatusFlagged,
		ShouldReject: true,
		BottedReason: "between scans 1 and 2: views doubled while likes stayed flat",
		ReasonCount:  1,
		ScanCount:    6,
		EvaluatedAt:  start.Add(time.Second),
	}))
	require.NoError(t, h.RecordVerdict(runID, schema.VerdictRecord{
		SubmissionID: "s2",
		Platform:     schema.Snapchat,
		Status:       schema.StatusClean,
		NoteCount:    1,
		ScanCount:    4,
		EvaluatedAt:  start.Add(time.Second),
	}))
	require.NoError(t, h.EndRun(runID, start.Add(2*time.Second), 2, 1))

	runs, err := h.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
	assert.True(t, start.Equal(runs[0].StartTime))
	require.NotNil(t, runs[0].EndTime)
	require.NotNil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(2000), *runs[0].RunDurationMs)
	assert.Equal(t, int32(2), runs[0].TotalSubmissions)
	assert.Equal(t, int32(1), runs[0].FlaggedSubmissions)
	require.NotNil(t, runs[0].ConfigParams)
	assert.JSONEq(t, `{"workers":4,"platform":"tiktok"}`, *runs[0].ConfigParams)

	verdicts, err := h.GetAllVerdicts()
	require.NoError(t, err)
	require.Len(t, verdicts, 2)
	assert.Equal(t, "s1", verdicts[0].SubmissionID)
	assert.True(t, verdicts[0].ShouldReject)
	assert.Equal(t, schema.StatusFlagged, verdicts[0].Status)
	assert.Contains(t, verdicts[0].BottedReason, "likes stayed flat")
	assert.False(t, verdicts[1].ShouldReject)
	assert.Empty(t, verdicts[1].URL)
	assert.Equal(t, int32(1), verdicts[1].NoteCount)

	status, err := h.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 2, status.TotalVerdicts)
	assert.Equal(t, 1, status.FlaggedVerdicts)
	assert.Equal(t, int64(2), status.TableSizes[verdictsTable])
}

func TestHistoryStore_RecordVerdictReplaces(t *testing.T) {
	h := newTestHistoryStore(t)
	runID, err := h.BeginRun(time.Now(), nil)
	require.NoError(t, err)

	require.NoError(t, h.RecordVerdict(runID, schema.VerdictRecord{SubmissionID: "s1", Platform: schema.YouTube, Status: schema.StatusError}))
	require.NoError(t, h.RecordVerdict(runID, schema.VerdictRecord{SubmissionID: "s1", Platform: schema.YouTube, Status: schema.StatusClean}))

	verdicts, err := h.GetAllVerdicts()
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	assert.Equal(t, schema.StatusClean, verdicts[0].Status)
	assert.False(t, verdicts[0].EvaluatedAt.IsZero(), "evaluation time defaults to now")
}

func TestHistoryStore_GetVerdictsForSubmission(t *testing.T) {
	h := newTestHistoryStore(t)

	var runIDs []int64
	for i := range 3 {
		runID, err := h.BeginRun(time.Now(), map[string]any{"run": i})
		require.NoError(t, err)
		runIDs = append(runIDs, runID)
		require.NoError(t, h.RecordVerdict(runID, schema.VerdictRecord{SubmissionID: "target", Platform: schema.Twitter, Status: schema.StatusClean}))
		require.NoError(t, h.RecordVerdict(runID, schema.VerdictRecord{SubmissionID: "other", Platform: schema.Twitter, Status: schema.StatusClean}))
	}

	verdicts, err := h.GetVerdictsForSubmission("target")
	require.NoError(t, err)
	require.Len(t, verdicts, 3)
	assert.Equal(t, runIDs[2], verdicts[0].RunID, "newest run first")
	assert.Equal(t, runIDs[0], verdicts[2].RunID)

	none, err := h.GetVerdictsForSubmission("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryStore_EndRunUnknown(t *testing.T) {
	h := newTestHistoryStore(t)
	assert.Error(t, h.EndRun(999, time.Now(), 0, 0))
}
