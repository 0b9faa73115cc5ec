package detect

import (
	"fmt"

	"github.com/huangsam/botscan/schema"
)

// growthTier bounds how fast a counter may grow relative to views.
type growthTier struct {
	viewBound  float64
	multiplier float64
}

// fastGrowthTiers are the (view bound, multiplier) pairs of the growth check.
// Multiplication messages are reported per tier; the appearance message is reported once.
var fastGrowthTiers = []growthTier{
	{viewBound: 2.0, multiplier: 10},
	{viewBound: 1.2, multiplier: 3},
}

// checkFastGrowth is the generic anomaly check for shares and saves.
func checkFastGrowth(t *Transition, m schema.Metric) []string {
	if t.Glitched(m) {
		return nil
	}
	prev, curr := t.Prev(), t.Curr()
	pv, cv := prev.Value(m), curr.Value(m)

	var msgs []string
	if pv == 0 && cv >= 10 {
		for _, tier := range fastGrowthTiers {
			if float64(curr.Views) < tier.viewBound*float64(prev.Views) {
				msgs = append(msgs, fmt.Sprintf("%s appeared without view jump (0→%d, views %d→%d)", m, cv, prev.Views, curr.Views))
				break
			}
		}
	}
	if pv > 0 {
		for _, tier := range fastGrowthTiers {
			if float64(curr.Views) < tier.viewBound*float64(prev.Views) && float64(cv) > tier.multiplier*float64(pv) {
				msgs = append(msgs, fmt.Sprintf("%s grew more than %gx (%d→%d) while views grew under %gx (%d→%d)",
					m, tier.multiplier, pv, cv, tier.viewBound, prev.Views, curr.Views))
			}
		}
	}
	return msgs
}

var fastGrowthRule = TransitionRule{
	Name:        "fast_growth",
	Description: "shares or saves appear or multiply without a matching view jump",
	Platforms:   allPlatforms(),
	Check: func(t *Transition) []string {
		msgs := checkFastGrowth(t, schema.MetricShares)
		return append(msgs, checkFastGrowth(t, schema.MetricSaves)...)
	},
}

// fromZeroRule flags a counter that leaps from zero to 10+ without views doubling.
func fromZeroRule(m schema.Metric) TransitionRule {
	return TransitionRule{
		Name:        string(m) + "_from_zero",
		Description: string(m) + " jump from 0 to 10+ while views less than double",
		Platforms:   allPlatforms(),
		Check: func(t *Transition) []string {
			if t.Glitched(m) || t.Pair(m).Bridged {
				return nil
			}
			prev, curr := t.Prev(), t.Curr()
			if prev.Value(m) == 0 && curr.Value(m) >= 10 && float64(curr.Views) < 2*float64(prev.Views) {
				return single("%s jumped from 0 to %d without view growth (%d→%d)", m, curr.Value(m), prev.Views, curr.Views)
			}
			return nil
		},
	}
}

var (
	sharesFromZeroRule = fromZeroRule(schema.MetricShares)
	savesFromZeroRule  = fromZeroRule(schema.MetricSaves)
)

// tiktokZeroRule flags a TikTok counter still at zero past a view threshold.
func tiktokZeroRule(m schema.Metric, minViews int64) TransitionRule {
	return TransitionRule{
		Name:        "tiktok_zero_" + string(m),
		Description: fmt.Sprintf("TikTok video with %d+ views and zero %s", minViews, m),
		Platforms:   only(schema.TikTok),
		Check: func(t *Transition) []string {
			if t.Glitched(m) {
				return nil
			}
			curr := t.Curr()
			if curr.Views >= minViews && curr.Value(m) == 0 {
				return single("zero %s at %d views", m, curr.Views)
			}
			return nil
		},
	}
}

var (
	tiktokZeroSavesRule  = tiktokZeroRule(schema.MetricSaves, 5000)
	tiktokZeroSharesRule = tiktokZeroRule(schema.MetricShares, 10000)
)
