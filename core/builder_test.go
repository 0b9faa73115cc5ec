package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/huangsam/botscan/core/detect"
	"github.com/huangsam/botscan/internal/store"
	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIsURL(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"https://www.tiktok.com/@a/video/1", true},
		{"tiktok.com/@a/video/1", true},
		{"https://example.com/x", true},
		{"sub-123", false},
		{"7312345678901234567", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isURL(tt.target), tt.target)
	}
}

func TestBuilderFetchByURL(t *testing.T) {
	ctx := context.Background()
	url := "https://x.com/a/status/1"
	scans := &store.MockScanStore{}
	scans.On("FindByURL", mock.Anything, url).Return(schema.SubmissionRecord{SubmissionID: "tw1", Platform: schema.Twitter}, nil)
	scans.On("GetScans", mock.Anything, "tw1", schema.Twitter).Return(flaggedSeries("tw1"), nil)

	result := NewSubmissionResultBuilder(ctx, testConfig(), scans, detect.NewEvaluator(), url).
		FetchScans().
		Normalize().
		Evaluate().
		Summarize().
		Build()

	assert.Equal(t, schema.StatusFlagged, result.Status)
	assert.True(t, result.ShouldReject)
	assert.Equal(t, "tw1", result.SubmissionID)
	assert.Equal(t, url, result.URL, "the looked up URL is kept")
	assert.Equal(t, schema.Twitter, result.Platform)
	assert.Equal(t, 2, result.ScanCount)
	assert.Contains(t, result.BottedReason, "between scans 1 and 2")
	scans.AssertExpectations(t)
}

func TestBuilderPlatformOverride(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig()
	cfg.Platform = schema.Facebook

	scans := &store.MockScanStore{}
	series := cleanSeries("fb1")
	series.Platform = schema.Facebook
	scans.On("GetScans", mock.Anything, "fb1", schema.Facebook).Return(series, nil)

	result := NewSubmissionResultBuilder(ctx, cfg, scans, detect.NewEvaluator(), "fb1").
		FetchScans().Normalize().Evaluate().Summarize().Build()

	assert.Equal(t, schema.Facebook, result.Platform)
	assert.Empty(t, result.Error)
	scans.AssertExpectations(t)
}

func TestBuilderErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no source", func(t *testing.T) {
		b := NewSubmissionResultBuilder(ctx, testConfig(), nil, detect.NewEvaluator(), "sub-1")
		result := b.FetchScans().Normalize().Evaluate().Summarize().Build()
		assert.Equal(t, schema.StatusError, result.Status)
		assert.Equal(t, "sub-1", result.SubmissionID)
		assert.Contains(t, result.Error, "no scan store")
		assert.Error(t, b.Err())
	})

	t.Run("not found", func(t *testing.T) {
		scans := &store.MockScanStore{}
		scans.On("GetScans", mock.Anything, "missing", schema.Platform("")).
			Return(schema.RawSeries{}, fmt.Errorf("%w: missing", store.ErrSubmissionNotFound))
		b := NewSubmissionResultBuilder(ctx, testConfig(), scans, detect.NewEvaluator(), "missing")
		result := b.FetchScans().Normalize().Evaluate().Summarize().Build()
		assert.Equal(t, schema.StatusError, result.Status)
		assert.ErrorIs(t, b.Err(), store.ErrSubmissionNotFound)
		assert.Zero(t, result.ScanCount)
	})

	t.Run("no platform", func(t *testing.T) {
		series := cleanSeries("p1")
		series.Platform = ""
		b := NewSeriesResultBuilder(ctx, testConfig(), detect.NewEvaluator(), series)
		b.Normalize().Evaluate()
		assert.ErrorIs(t, b.Err(), schema.ErrUnknownPlatform)
	})
}

func TestBuilderInsufficient(t *testing.T) {
	b := NewSeriesResultBuilder(context.Background(), testConfig(), detect.NewEvaluator(), shortSeries("s1"))
	result := b.Normalize().Evaluate().Summarize().Build()

	assert.Equal(t, schema.StatusInsufficient, result.Status)
	assert.False(t, result.ShouldReject)
	assert.Empty(t, result.Error)
	assert.Equal(t, 1, result.ValidScanCount)
	require.NoError(t, b.Err())
}

func TestBuilderReportKeepsValidScans(t *testing.T) {
	series := cleanSeries("r1")
	series.Scans[1].Views = -1 // unusable reading

	report := NewSeriesResultBuilder(context.Background(), testConfig(), detect.NewEvaluator(), series).
		Normalize().Evaluate().Summarize().BuildReport()

	assert.Equal(t, 4, report.ScanCount)
	assert.Equal(t, 3, report.ValidScanCount)
	assert.Equal(t, 3, report.Scans.Len())
	assert.Equal(t, int64(2200), report.Scans.At(1).Views)
}
