package detect

import (
	"fmt"
	"slices"

	"github.com/huangsam/botscan/schema"
)

// Rule kinds used in listings.
const (
	KindTransition = "transition"
	KindWindow     = "window"
	KindNote       = "note"
)

// TransitionRule is one pairwise check. Check returns the messages of every
// sub-check that fired; an empty result means the rule stayed quiet.
type TransitionRule struct {
	Name        string
	Description string
	Platforms   []schema.Platform
	Check       func(t *Transition) []string
}

// WindowRule is a shape check over six consecutive view counts.
type WindowRule struct {
	Name        string
	Description string
	Platforms   []schema.Platform
	Check       func(w [windowSize]int64) (string, bool)
}

// NoteRule is a per-scan observation that never rejects.
type NoteRule struct {
	Name        string
	Description string
	Platforms   []schema.Platform
	Check       func(scan schema.ScanSnapshot) (string, bool)
}

// RuleSet is the ordered registry evaluated for every series.
type RuleSet struct {
	TransitionRules []TransitionRule
	WindowRules     []WindowRule
	NoteRules       []NoteRule
}

// DefaultRuleSet returns the production rule library in evaluation order.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		TransitionRules: []TransitionRule{
			earlyViewJumpRule,
			viewsDoubledLikesFlatRule,
			viewsGrewLikesFrozenRule,
			likesSpikeViewsFlatRule,
			fastGrowthRule,
			sharesFromZeroRule,
			savesFromZeroRule,
			tiktokZeroSavesRule,
			tiktokZeroSharesRule,
			zeroLikesRule,
			snapchatUltraLowRule,
			likeRatioCollapseRule,
			massiveCommentDropRule,
			commentJumpViewsFlatRule,
			commentInjectionRule,
		},
		WindowRules: []WindowRule{
			plateauJumpPlateauRule,
			stairStepRule,
		},
		NoteRules: []NoteRule{
			zeroCommentsNote,
			lowCommentRatioNote,
		},
	}
}

// Definitions lists every registered rule for display.
func (rs RuleSet) Definitions() []schema.RuleDefinition {
	defs := make([]schema.RuleDefinition, 0, len(rs.TransitionRules)+len(rs.WindowRules)+len(rs.NoteRules))
	for _, r := range rs.TransitionRules {
		defs = append(defs, schema.RuleDefinition{Name: r.Name, Kind: KindTransition, Platforms: r.Platforms, Description: r.Description})
	}
	for _, r := range rs.WindowRules {
		defs = append(defs, schema.RuleDefinition{Name: r.Name, Kind: KindWindow, Platforms: r.Platforms, Description: r.Description})
	}
	for _, r := range rs.NoteRules {
		defs = append(defs, schema.RuleDefinition{Name: r.Name, Kind: KindNote, Platforms: r.Platforms, Description: r.Description})
	}
	return defs
}

// EvaluateTransition runs every applicable transition rule on the step into scan i.
func (rs RuleSet) EvaluateTransition(platform schema.Platform, series schema.ScanSeries, i int) []schema.AnomalyReason {
	if i < 1 || !series.Has(i) {
		return nil
	}
	t := &Transition{
		Platform:     platform,
		Series:       series,
		Index:        i,
		LeadingZeros: leadingZeroScans(series),
	}
	return rs.evaluateTransition(t)
}

func (rs RuleSet) evaluateTransition(t *Transition) []schema.AnomalyReason {
	var reasons []schema.AnomalyReason
	for _, rule := range rs.TransitionRules {
		if !applies(rule.Platforms, t.Platform) {
			continue
		}
		for _, msg := range rule.Check(t) {
			reasons = append(reasons, schema.AnomalyReason{
				Rule:        rule.Name,
				Severity:    schema.SeverityReject,
				Message:     msg,
				Transition:  t.Index,
				CollectedAt: t.Curr().CollectedAt,
			})
		}
	}
	return reasons
}

// EvaluateNotes runs the note rules on scan i.
func (rs RuleSet) EvaluateNotes(platform schema.Platform, series schema.ScanSeries, i int) []schema.AnomalyReason {
	var notes []schema.AnomalyReason
	scan := series.At(i)
	for _, rule := range rs.NoteRules {
		if !applies(rule.Platforms, platform) {
			continue
		}
		if msg, ok := rule.Check(scan); ok {
			notes = append(notes, schema.AnomalyReason{
				Rule:        rule.Name,
				Severity:    schema.SeverityNote,
				Message:     msg,
				Transition:  i,
				CollectedAt: scan.CollectedAt,
			})
		}
	}
	return notes
}

func applies(platforms []schema.Platform, p schema.Platform) bool {
	return slices.Contains(platforms, p)
}

// allPlatforms returns every platform.
func allPlatforms() []schema.Platform {
	return slices.Clone(schema.AllPlatforms)
}

// allExcept returns every platform but the excluded ones.
func allExcept(excluded ...schema.Platform) []schema.Platform {
	var out []schema.Platform
	for _, p := range schema.AllPlatforms {
		if !slices.Contains(excluded, p) {
			out = append(out, p)
		}
	}
	return out
}

// only returns the given platforms.
func only(platforms ...schema.Platform) []schema.Platform {
	return platforms
}

// single wraps a message in the rule result shape.
func single(format string, args ...any) []string {
	return []string{fmt.Sprintf(format, args...)}
}
