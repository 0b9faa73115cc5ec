package detect

import (
	"time"

	"github.com/huangsam/botscan/schema"
)

// row is a compact scan literal for tests.
type row struct {
	v, l, c, sh, sv int64
}

var baseTime = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// seriesOf builds a series with hourly collection times.
func seriesOf(rows ...row) schema.ScanSeries {
	scans := make([]schema.ScanSnapshot, len(rows))
	for i, r := range rows {
		scans[i] = schema.ScanSnapshot{
			CollectedAt: baseTime.Add(time.Duration(i) * time.Hour),
			Views:       r.v,
			Likes:       r.l,
			Comments:    r.c,
			Shares:      r.sh,
			Saves:       r.sv,
		}
	}
	return schema.NewScanSeries(scans)
}

// viewsOnly builds a series from view counts with healthy engagement.
func viewsOnly(views ...int64) schema.ScanSeries {
	rows := make([]row, len(views))
	for i, v := range views {
		rows[i] = row{v: v, l: v / 10, c: v / 100, sh: v / 200, sv: v / 200}
	}
	return seriesOf(rows...)
}

// reasonsFor filters reasons by rule name.
func reasonsFor(reasons []schema.AnomalyReason, rule string) []schema.AnomalyReason {
	var out []schema.AnomalyReason
	for _, r := range reasons {
		if r.Rule == rule {
			out = append(out, r)
		}
	}
	return out
}

// fired reports whether the rule produced a reason on transition i.
func fired(p schema.Platform, s schema.ScanSeries, i int, rule string) bool {
	return len(reasonsFor(DefaultRuleSet().EvaluateTransition(p, s, i), rule)) > 0
}
