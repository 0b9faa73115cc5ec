package detect

import (
	"testing"

	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarlyViewJumpThreshold(t *testing.T) {
	tests := []struct {
		name  string
		views []int64
		i     int
		want  bool
	}{
		{"exactly 20000", []int64{0, 20000}, 1, true},
		{"one below", []int64{0, 19999}, 1, false},
		{"third transition", []int64{100, 200, 300, 20300}, 3, true},
		{"fourth transition is not early", []int64{100, 200, 300, 400, 20400}, 4, false},
		{"leading zeros shift the early span", []int64{0, 0, 100, 200, 300, 20300}, 5, true},
		{"past the shifted span", []int64{0, 0, 100, 200, 300, 400, 20400}, 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := viewsOnly(tt.views...)
			reasons := reasonsFor(DefaultRuleSet().EvaluateTransition(schema.TikTok, s, tt.i), "early_view_jump")
			if !tt.want {
				assert.Empty(t, reasons)
				return
			}
			require.Len(t, reasons, 1)
			assert.Contains(t, reasons[0].Message, "early 20k+ view jump")
			assert.Equal(t, schema.SeverityReject, reasons[0].Severity)
		})
	}
}

func TestTikTokZeroSavesBoundary(t *testing.T) {
	at := func(views int64) bool {
		s := seriesOf(row{v: 4000, l: 400, c: 40, sh: 20}, row{v: views, l: 500, c: 50, sh: 25})
		return fired(schema.TikTok, s, 1, "tiktok_zero_saves")
	}
	assert.True(t, at(5000), "5000 views with zero saves must reject")
	assert.False(t, at(4999), "4999 views must not trigger the zero saves rule")

	s := seriesOf(row{v: 4000}, row{v: 6000})
	assert.False(t, fired(schema.Instagram, s, 1, "tiktok_zero_saves"), "rule is TikTok only")
}

func TestTransitionRules(t *testing.T) {
	tests := []struct {
		name     string
		platform schema.Platform
		rows     []row
		rule     string
		want     bool
	}{
		{"views doubled likes flat", schema.TikTok, []row{{v: 1000, l: 50}, {v: 2500, l: 55}}, "views_doubled_likes_flat", true},
		{"views doubled likes grew", schema.TikTok, []row{{v: 1000, l: 50}, {v: 2500, l: 200}}, "views_doubled_likes_flat", false},
		{"views doubled gated on youtube", schema.YouTube, []row{{v: 1000, l: 50}, {v: 2500, l: 55}}, "views_doubled_likes_flat", false},
		{"views grew likes frozen", schema.Twitter, []row{{v: 1000, l: 50}, {v: 2000, l: 51}}, "views_grew_likes_frozen", true},
		{"views grew likes moved", schema.Twitter, []row{{v: 1000, l: 50}, {v: 2000, l: 52}}, "views_grew_likes_frozen", false},
		{"likes spike views flat", schema.Facebook, []row{{v: 1000, l: 10}, {v: 1100, l: 20}}, "likes_spike_views_flat", true},
		{"likes spike with views", schema.Facebook, []row{{v: 1000, l: 10}, {v: 1300, l: 20}}, "likes_spike_views_flat", false},
		{"shares appear without view jump", schema.Twitter, []row{{v: 1000}, {v: 1500, sh: 10}}, "fast_growth", true},
		{"shares appear with view jump", schema.Twitter, []row{{v: 1000}, {v: 2000, sh: 10}}, "fast_growth", false},
		{"shares multiply tenfold", schema.Twitter, []row{{v: 1000, sh: 5}, {v: 1500, sh: 60}}, "fast_growth", true},
		{"shares triple on flat views", schema.Twitter, []row{{v: 1000, sh: 5}, {v: 1100, sh: 20}}, "fast_growth", true},
		{"shares grow with views", schema.Twitter, []row{{v: 1000, sh: 5}, {v: 1300, sh: 20}}, "fast_growth", false},
		{"saves multiply", schema.TikTok, []row{{v: 1000, sv: 2}, {v: 1100, sv: 7}}, "fast_growth", true},
		{"shares from zero", schema.Snapchat, []row{{v: 1000}, {v: 1500, sh: 10}}, "shares_from_zero", true},
		{"shares from zero below ten", schema.Snapchat, []row{{v: 1000}, {v: 1500, sh: 9}}, "shares_from_zero", false},
		{"saves from zero", schema.Facebook, []row{{v: 1000}, {v: 1500, sv: 12}}, "saves_from_zero", true},
		{"tiktok zero shares", schema.TikTok, []row{{v: 9000, sv: 50}, {v: 10000, sv: 60}}, "tiktok_zero_shares", true},
		{"tiktok zero shares below threshold", schema.TikTok, []row{{v: 9000, sv: 50}, {v: 9999, sv: 60}}, "tiktok_zero_shares", false},
		{"zero likes on instagram", schema.Instagram, []row{{v: 900}, {v: 1001}}, "zero_likes", true},
		{"zero likes at exactly 1000", schema.Instagram, []row{{v: 900}, {v: 1000}}, "zero_likes", false},
		{"zero likes gated on twitter", schema.Twitter, []row{{v: 900}, {v: 1001}}, "zero_likes", false},
		{"snapchat ultra low", schema.Snapchat, []row{{v: 19000}, {v: 20001, sh: 1}}, "snapchat_ultra_low_engagement", true},
		{"snapchat with a comment", schema.Snapchat, []row{{v: 19000}, {v: 20001, c: 1}}, "snapchat_ultra_low_engagement", false},
		{"snapchat at 20000", schema.Snapchat, []row{{v: 19000}, {v: 20000}}, "snapchat_ultra_low_engagement", false},
		{"like ratio collapse", schema.Twitter, []row{{v: 1000, l: 100}, {v: 6000, l: 150}}, "like_ratio_collapse", true},
		{"like ratio holds", schema.Twitter, []row{{v: 1000, l: 100}, {v: 6000, l: 500}}, "like_ratio_collapse", false},
		{"like ratio needs 100 prior views", schema.Twitter, []row{{v: 99, l: 10}, {v: 6000, l: 11}}, "like_ratio_collapse", false},
		{"massive comment drop", schema.YouTube, []row{{v: 1000, c: 30}, {v: 1000, c: 15}}, "massive_comment_drop", true},
		{"comment drop from below 20", schema.YouTube, []row{{v: 1000, c: 19}, {v: 1000, c: 5}}, "massive_comment_drop", false},
		{"comment jump views flat", schema.TikTok, []row{{v: 1000, c: 5}, {v: 1020, c: 15}}, "comment_jump_views_flat", true},
		{"comment jump views moved", schema.TikTok, []row{{v: 1000, c: 5}, {v: 1031, c: 15}}, "comment_jump_views_flat", false},
		{"comment jump gated on youtube", schema.YouTube, []row{{v: 1000, c: 5}, {v: 1020, c: 15}}, "comment_jump_views_flat", false},
		{"comment injection", schema.YouTube, []row{{v: 1000, c: 1}, {v: 2000, c: 50}}, "comment_injection", true},
		{"comment injection under 50x", schema.YouTube, []row{{v: 1000, c: 1}, {v: 2000, c: 49}}, "comment_injection", false},
		{"comment injection with view jump", schema.YouTube, []row{{v: 1000, c: 1}, {v: 5000, c: 50}}, "comment_injection", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fired(tt.platform, seriesOf(tt.rows...), 1, tt.rule))
		})
	}
}

func TestLikeRatioCollapseReportsBothRatios(t *testing.T) {
	s := seriesOf(row{v: 1000, l: 100}, row{v: 6000, l: 150})
	reasons := reasonsFor(DefaultRuleSet().EvaluateTransition(schema.Twitter, s, 1), "like_ratio_collapse")
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0].Message, "10.00%")
	assert.Contains(t, reasons[0].Message, "2.50%")
}

func TestFastGrowthAppearanceReportedOnce(t *testing.T) {
	s := seriesOf(row{v: 1000}, row{v: 1000, sh: 10})
	reasons := reasonsFor(DefaultRuleSet().EvaluateTransition(schema.Twitter, s, 1), "fast_growth")
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0].Message, "shares appeared without view jump")
}

func TestFastGrowthReportsEveryTier(t *testing.T) {
	tests := []struct {
		name string
		rows []row
		want []string
	}{
		{"both tiers", []row{{v: 1000, sh: 5}, {v: 1100, sh: 60}}, []string{"more than 10x", "more than 3x"}},
		{"wide tier only", []row{{v: 1000, sh: 5}, {v: 1500, sh: 60}}, []string{"more than 10x"}},
		{"narrow tier only", []row{{v: 1000, sh: 5}, {v: 1100, sh: 20}}, []string{"more than 3x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasons := reasonsFor(DefaultRuleSet().EvaluateTransition(schema.Twitter, seriesOf(tt.rows...), 1), "fast_growth")
			require.Len(t, reasons, len(tt.want))
			for i, want := range tt.want {
				assert.Contains(t, reasons[i].Message, want)
			}
		})
	}
}

func TestViewMultipleRulesOnHugeCounts(t *testing.T) {
	tests := []struct {
		name string
		rows []row
		rule string
	}{
		{"views grow 2% near int64 max", []row{{v: 5_000_000_000_000_000_000, l: 100}, {v: 5_100_000_000_000_000_000, l: 100}}, "views_doubled_likes_flat"},
		{"flat views with falling likes", []row{{v: 2_000_000_000_000_000_000, l: 400_000_000_000_000_000}, {v: 2_000_000_000_000_000_000, l: 100_000_000_000_000_000}}, "like_ratio_collapse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, fired(schema.Twitter, seriesOf(tt.rows...), 1, tt.rule))
		})
	}
}

func TestEvaluateTransitionOutOfRange(t *testing.T) {
	s := viewsOnly(100, 200)
	assert.Nil(t, DefaultRuleSet().EvaluateTransition(schema.TikTok, s, 0))
	assert.Nil(t, DefaultRuleSet().EvaluateTransition(schema.TikTok, s, 2))
}

func TestDefinitions(t *testing.T) {
	rs := DefaultRuleSet()
	defs := rs.Definitions()
	require.Len(t, defs, len(rs.TransitionRules)+len(rs.WindowRules)+len(rs.NoteRules))

	names := make(map[string]struct{}, len(defs))
	for _, d := range defs {
		assert.NotEmpty(t, d.Description, "rule %s needs a description", d.Name)
		assert.NotEmpty(t, d.Platforms, "rule %s needs platforms", d.Name)
		_, dup := names[d.Name]
		assert.False(t, dup, "duplicate rule name %s", d.Name)
		names[d.Name] = struct{}{}
	}
	assert.Equal(t, "early_view_jump", defs[0].Name)
	assert.Equal(t, KindWindow, defs[len(rs.TransitionRules)].Kind)
}

func TestNoteRules(t *testing.T) {
	tests := []struct {
		name string
		scan row
		want []string
	}{
		{"zero comments", row{v: 5001}, []string{"zero_comments"}},
		{"at 5000 views", row{v: 5000}, nil},
		{"low ratio", row{v: 100000, c: 9}, []string{"low_comment_ratio"}},
		{"healthy ratio", row{v: 100000, c: 10}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := DefaultRuleSet().EvaluateNotes(schema.TikTok, seriesOf(tt.scan), 0)
			var got []string
			for _, n := range notes {
				assert.Equal(t, schema.SeverityNote, n.Severity)
				got = append(got, n.Rule)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
