package detect

import "github.com/huangsam/botscan/schema"

const (
	earlyJumpViews      = 20000
	earlyTransitionSpan = 4
)

var earlyViewJumpRule = TransitionRule{
	Name:        "early_view_jump",
	Description: "views grow by 20k+ within the first transitions after leading zero scans",
	Platforms:   allPlatforms(),
	Check: func(t *Transition) []string {
		if t.Index-t.LeadingZeros >= earlyTransitionSpan {
			return nil
		}
		delta := t.Curr().Views - t.Prev().Views
		if delta < earlyJumpViews {
			return nil
		}
		return single("early 20k+ view jump (+%d views)", delta)
	},
}

var snapchatUltraLowRule = TransitionRule{
	Name:        "snapchat_ultra_low_engagement",
	Description: "more than 20k views with no comments and at most one share",
	Platforms:   only(schema.Snapchat),
	Check: func(t *Transition) []string {
		curr := t.Curr()
		if curr.Views > 20000 && curr.Comments == 0 && curr.Shares <= 1 {
			return single("ultra-low engagement at %d views (0 comments, %d shares)", curr.Views, curr.Shares)
		}
		return nil
	},
}
