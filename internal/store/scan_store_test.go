package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newTestScanStore(t *testing.T) *ScanStoreImpl {
	t.Helper()
	s, err := NewScanStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "scans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSeries() schema.RawSeries {
	return schema.RawSeries{
		SubmissionID: "sub-1",
		URL:          "https://www.tiktok.com/@a/video/1",
		Platform:     schema.TikTok,
		Scans: []schema.RawScan{
			{CollectedAt: baseTime, Views: 100, Likes: 10, Comments: 1},
			{CollectedAt: baseTime.Add(time.Hour), Views: math.NaN(), Likes: 12},
			{CollectedAt: baseTime.Add(2 * time.Hour), Views: 400, Likes: 30, Comments: 3, Shares: 2, Saves: 1},
			{CollectedAt: baseTime.Add(48 * time.Hour), Views: 9000, Likes: 900, Extended: true},
		},
	}
}

func TestScanStore_NoneBackend(t *testing.T) {
	s, err := NewScanStore(schema.NoneBackend, "")
	require.NoError(t, err)
	ctx := context.Background()

	assert.NoError(t, s.ImportSeries(ctx, testSeries()))
	assert.NoError(t, s.AppendInternalNotes(ctx, "sub-1", "note"))

	_, err = s.GetScans(ctx, "sub-1", schema.TikTok)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, s.Close())
}

func TestScanStore_ImportAndGetScans(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()
	require.NoError(t, s.ImportSeries(ctx, testSeries()))

	series, err := s.GetScans(ctx, "sub-1", schema.TikTok)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", series.SubmissionID)
	assert.Equal(t, schema.TikTok, series.Platform)
	assert.Equal(t, "https://www.tiktok.com/@a/video/1", series.URL)
	require.Len(t, series.Scans, 3, "extended scans are not returned")

	assert.Equal(t, 100.0, series.Scans[0].Views)
	assert.True(t, baseTime.Equal(series.Scans[0].CollectedAt))
	assert.True(t, math.IsNaN(series.Scans[1].Views), "missing scans come back unusable")
	assert.Equal(t, 400.0, series.Scans[2].Views)
	assert.Equal(t, 2.0, series.Scans[2].Shares)
	assert.Equal(t, 1.0, series.Scans[2].Saves)

	t.Run("any platform", func(t *testing.T) {
		_, err := s.GetScans(ctx, "sub-1", "")
		assert.NoError(t, err)
	})

	t.Run("platform mismatch", func(t *testing.T) {
		_, err := s.GetScans(ctx, "sub-1", schema.YouTube)
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})

	t.Run("unknown submission", func(t *testing.T) {
		_, err := s.GetScans(ctx, "nope", schema.TikTok)
		assert.ErrorIs(t, err, ErrSubmissionNotFound)
	})
}

func TestScanStore_FindByURL(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()
	require.NoError(t, s.ImportSeries(ctx, testSeries()))

	record, err := s.FindByURL(ctx, "https://www.tiktok.com/@a/video/1")
	require.NoError(t, err)
	assert.Equal(t, "sub-1", record.SubmissionID)
	assert.Equal(t, 4, record.ScanCount)
	assert.False(t, record.CreatedAt.IsZero())

	_, err = s.FindByURL(ctx, "https://x.com/missing")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestScanStore_ReimportKeepsNotes(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()
	require.NoError(t, s.ImportSeries(ctx, testSeries()))
	require.NoError(t, s.AppendInternalNotes(ctx, "sub-1", "first verdict"))

	updated := testSeries()
	updated.Scans = updated.Scans[:1]
	require.NoError(t, s.ImportSeries(ctx, updated))

	series, err := s.GetScans(ctx, "sub-1", schema.TikTok)
	require.NoError(t, err)
	assert.Len(t, series.Scans, 1, "scans are replaced")

	record, err := s.FindByURL(ctx, updated.URL)
	require.NoError(t, err)
	assert.Equal(t, "first verdict", record.InternalNotes)
}

func TestScanStore_AppendInternalNotes(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()
	require.NoError(t, s.ImportSeries(ctx, testSeries()))

	require.NoError(t, s.AppendInternalNotes(ctx, "sub-1", "line one"))
	require.NoError(t, s.AppendInternalNotes(ctx, "sub-1", "line two"))
	require.NoError(t, s.AppendInternalNotes(ctx, "sub-1", "   "))

	record, err := s.FindByURL(ctx, "https://www.tiktok.com/@a/video/1")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", record.InternalNotes)

	assert.ErrorIs(t, s.AppendInternalNotes(ctx, "ghost", "x"), ErrSubmissionNotFound)
}

func TestScanStore_ImportDerivesIdentity(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()

	series := schema.RawSeries{
		URL:   "https://youtu.be/abc",
		Scans: []schema.RawScan{{Views: 1}, {Views: 2}},
	}
	require.NoError(t, s.ImportSeries(ctx, series))

	got, err := s.GetScans(ctx, "https://youtu.be/abc", schema.YouTube)
	require.NoError(t, err)
	assert.Len(t, got.Scans, 2)

	assert.Error(t, s.ImportSeries(ctx, schema.RawSeries{Scans: []schema.RawScan{{Views: 1}}}))
	assert.ErrorIs(t, s.ImportSeries(ctx, schema.RawSeries{URL: "https://example.com/x"}), schema.ErrUnknownPlatform)
}

func TestScanStore_ListAndStatus(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()
	require.NoError(t, s.ImportSeries(ctx, testSeries()))
	require.NoError(t, s.ImportSeries(ctx, schema.RawSeries{
		SubmissionID: "sub-2",
		Platform:     schema.Snapchat,
		Scans:        []schema.RawScan{{CollectedAt: baseTime.Add(-time.Hour), Views: 5}},
	}))

	all, err := s.ListSubmissions(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "sub-1", all[0].SubmissionID)
	assert.Equal(t, "sub-2", all[1].SubmissionID)
	assert.Empty(t, all[1].URL)

	snaps, err := s.ListSubmissions(ctx, schema.Snapchat)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 1, snaps[0].ScanCount)

	status, err := s.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "sqlite", status.Backend)
	assert.Equal(t, 2, status.TotalSubmissions)
	assert.Equal(t, 5, status.TotalScans)
	assert.True(t, baseTime.Add(48*time.Hour).Equal(status.LastScanTime))
	assert.True(t, baseTime.Add(-time.Hour).Equal(status.OldestScanTime))
}
