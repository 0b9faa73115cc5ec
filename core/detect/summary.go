package detect

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/huangsam/botscan/schema"
)

// summaryCondition is one per-scan flag tracked by the run summarizer.
type summaryCondition struct {
	condition schema.SummaryCondition
	minRun    int
	platforms []schema.Platform
	match     func(scan schema.ScanSnapshot) bool
}

var summaryConditions = []summaryCondition{
	{
		condition: schema.ConditionZeroLikes,
		minRun:    5,
		platforms: only(schema.TikTok, schema.Instagram, schema.YouTube),
		match: func(s schema.ScanSnapshot) bool {
			return s.Views > 1000 && s.Likes == 0
		},
	},
	{
		condition: schema.ConditionZeroComments,
		minRun:    3,
		platforms: allPlatforms(),
		match: func(s schema.ScanSnapshot) bool {
			return s.Views > noteMinViews && s.Comments == 0
		},
	},
	{
		condition: schema.ConditionLowCommentRatio,
		minRun:    3,
		platforms: allPlatforms(),
		match: func(s schema.ScanSnapshot) bool {
			return s.Views > noteMinViews && s.Comments > 0 &&
				ratio(float64(s.Comments), float64(s.Views)) < lowCommentRatioBand
		},
	},
	{
		condition: schema.ConditionUltraLow,
		minRun:    3,
		platforms: only(schema.Snapchat),
		match: func(s schema.ScanSnapshot) bool {
			return s.Views > 20000 && s.Comments == 0 && s.Shares <= 1
		},
	},
}

// Summarize condenses per-scan flags into report lines. Runs at or above a
// condition's minimum length become one range line; shorter runs are listed
// scan by scan. Scans flagged missing never match. Lines are ordered by first
// scan, then by condition.
func Summarize(platform schema.Platform, series schema.ScanSeries) []schema.SummaryLine {
	var lines []schema.SummaryLine
	for _, cond := range summaryConditions {
		if !applies(cond.platforms, platform) {
			continue
		}
		lines = append(lines, summarizeCondition(cond, series)...)
	}
	slices.SortStableFunc(lines, func(a, b schema.SummaryLine) int {
		return cmp.Compare(a.FirstScan, b.FirstScan)
	})
	return lines
}

func summarizeCondition(cond summaryCondition, series schema.ScanSeries) []schema.SummaryLine {
	var lines []schema.SummaryLine
	runStart := -1
	closeRun := func(end int) {
		if runStart < 0 {
			return
		}
		lines = append(lines, runLines(cond, series, runStart, end)...)
		runStart = -1
	}
	for i := range series.Len() {
		scan := series.At(i)
		if !scan.Missing && cond.match(scan) {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		closeRun(i - 1)
	}
	closeRun(series.Len() - 1)
	return lines
}

// runLines renders the run [start, end] (0-based, inclusive).
func runLines(cond summaryCondition, series schema.ScanSeries, start, end int) []schema.SummaryLine {
	count := end - start + 1
	if count >= cond.minRun {
		return []schema.SummaryLine{{
			Condition: cond.condition,
			FirstScan: start + 1,
			LastScan:  end + 1,
			Count:     count,
			Collapsed: true,
			Text:      fmt.Sprintf("Scans %d–%d: %s across %d scans", start+1, end+1, cond.condition, count),
		}}
	}
	lines := make([]schema.SummaryLine, 0, count)
	for i := start; i <= end; i++ {
		lines = append(lines, schema.SummaryLine{
			Condition: cond.condition,
			FirstScan: i + 1,
			LastScan:  i + 1,
			Count:     1,
			Text:      fmt.Sprintf("Scan %d: %s at %d views", i+1, cond.condition, series.At(i).Views),
		})
	}
	return lines
}
