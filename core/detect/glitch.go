package detect

import "github.com/huangsam/botscan/schema"

// zeroish reports a reading that looks like a failed collection. Normalized
// counters are always finite, so only zero qualifies.
func zeroish(v int64) bool {
	return v == 0
}

// IsGlitch reports whether the transition into scan i looks like a single bad
// scan for metric m, either because scan i dropped to zero between two positive
// readings or because scan i-1 did.
func IsGlitch(series schema.ScanSeries, m schema.Metric, i int) bool {
	if !series.Has(i) || !series.Has(i-1) {
		return false
	}
	prev := series.At(i - 1).Value(m)
	curr := series.At(i).Value(m)

	if zeroish(curr) && series.Has(i+1) && prev > 0 && series.At(i+1).Value(m) > 0 {
		return true
	}
	if zeroish(prev) && series.Has(i-2) && series.At(i-2).Value(m) > 0 && curr > 0 {
		return true
	}
	return false
}

// EffectivePair returns the values of metric m used for magnitude comparisons
// on the transition into scan i. A zero reading after a positive one is
// replaced by the next scan's value and views when that scan is positive.
func EffectivePair(series schema.ScanSeries, m schema.Metric, i int) schema.EffectiveMetricPair {
	prev := series.At(i - 1)
	curr := series.At(i)
	pair := schema.EffectiveMetricPair{
		Metric:    m,
		Prev:      prev.Value(m),
		Curr:      curr.Value(m),
		PrevViews: prev.Views,
		CurrViews: curr.Views,
	}
	if zeroish(pair.Curr) && pair.Prev > 0 && series.Has(i+1) {
		next := series.At(i + 1)
		if next.Value(m) > 0 {
			pair.Curr = next.Value(m)
			pair.CurrViews = next.Views
			pair.Bridged = true
		}
	}
	return pair
}
