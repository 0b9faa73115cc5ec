package detect

import (
	"math"

	"github.com/huangsam/botscan/schema"
)

// Normalize converts raw records into a ScanSeries. Non-finite or negative
// values become 0 and flag the scan missing; fractions are truncated. Trailing
// scans whose metrics are all zero are dropped.
func Normalize(raw []schema.RawScan) schema.ScanSeries {
	scans := make([]schema.ScanSnapshot, 0, len(raw))
	for _, r := range raw {
		snap := schema.ScanSnapshot{CollectedAt: r.CollectedAt}
		missing := false
		snap.Views = cleanValue(r.Views, &missing)
		snap.Likes = cleanValue(r.Likes, &missing)
		snap.Comments = cleanValue(r.Comments, &missing)
		snap.Shares = cleanValue(r.Shares, &missing)
		snap.Saves = cleanValue(r.Saves, &missing)
		snap.Missing = missing
		scans = append(scans, snap)
	}
	for len(scans) > 0 && scans[len(scans)-1].AllZero() {
		scans = scans[:len(scans)-1]
	}
	return schema.NewScanSeries(scans)
}

// NormalizeSeries normalizes a raw series, skipping extended scans.
func NormalizeSeries(rs schema.RawSeries) schema.ScanSeries {
	raw := make([]schema.RawScan, 0, len(rs.Scans))
	for _, s := range rs.Scans {
		if !s.Extended {
			raw = append(raw, s)
		}
	}
	return Normalize(raw)
}

func cleanValue(v float64, missing *bool) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		*missing = true
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
