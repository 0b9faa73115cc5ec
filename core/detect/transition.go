package detect

import "github.com/huangsam/botscan/schema"

// Transition is the view a rule gets of the step from scan Index-1 to scan Index.
// The whole series is available for look-behind and look-ahead.
type Transition struct {
	Platform     schema.Platform
	Series       schema.ScanSeries
	Index        int
	LeadingZeros int
}

// Prev returns the earlier scan of the transition.
func (t *Transition) Prev() schema.ScanSnapshot { return t.Series.At(t.Index - 1) }

// Curr returns the later scan of the transition.
func (t *Transition) Curr() schema.ScanSnapshot { return t.Series.At(t.Index) }

// Glitched reports whether metric m is glitched on this transition.
func (t *Transition) Glitched(m schema.Metric) bool {
	return IsGlitch(t.Series, m, t.Index)
}

// Pair returns the effective (possibly bridged) pair for metric m.
func (t *Transition) Pair(m schema.Metric) schema.EffectiveMetricPair {
	return EffectivePair(t.Series, m, t.Index)
}

// leadingZeroScans counts scans at the start of the series with zero views.
func leadingZeroScans(series schema.ScanSeries) int {
	n := 0
	for n < series.Len() && series.At(n).Views == 0 {
		n++
	}
	return n
}
