package detect

import "github.com/huangsam/botscan/schema"

var viewsDoubledLikesFlatRule = TransitionRule{
	Name:        "views_doubled_likes_flat",
	Description: "views pass 1000 and more than double while likes grow at most 20%",
	Platforms:   allExcept(schema.YouTube, schema.Snapchat),
	Check: func(t *Transition) []string {
		p := t.Pair(schema.MetricLikes)
		if p.CurrViews > 1000 && float64(p.CurrViews) > 2*float64(p.PrevViews) && float64(p.Curr) <= 1.2*float64(p.Prev) {
			return single("views doubled (%d→%d) while likes stayed flat (%d→%d)", p.PrevViews, p.CurrViews, p.Prev, p.Curr)
		}
		return nil
	},
}

var viewsGrewLikesFrozenRule = TransitionRule{
	Name:        "views_grew_likes_frozen",
	Description: "views grow by 1000+ while likes grow by fewer than 2",
	Platforms:   allExcept(schema.YouTube, schema.Snapchat),
	Check: func(t *Transition) []string {
		if t.Glitched(schema.MetricLikes) {
			return nil
		}
		prev, curr := t.Prev(), t.Curr()
		viewDelta := curr.Views - prev.Views
		likeDelta := curr.Likes - prev.Likes
		if viewDelta >= 1000 && likeDelta < 2 {
			return single("views grew by %d but likes changed by only %d", viewDelta, likeDelta)
		}
		return nil
	},
}

var likesSpikeViewsFlatRule = TransitionRule{
	Name:        "likes_spike_views_flat",
	Description: "likes grow more than 1.5x while views grow less than 1.2x",
	Platforms:   allExcept(schema.YouTube, schema.Snapchat),
	Check: func(t *Transition) []string {
		if t.Glitched(schema.MetricLikes) {
			return nil
		}
		prev, curr := t.Prev(), t.Curr()
		if curr.Likes > 0 && float64(curr.Likes) > 1.5*float64(prev.Likes) && float64(curr.Views) < 1.2*float64(prev.Views) {
			return single("likes spiked %d→%d while views barely moved (%d→%d)", prev.Likes, curr.Likes, prev.Views, curr.Views)
		}
		return nil
	},
}

var zeroLikesRule = TransitionRule{
	Name:        "zero_likes",
	Description: "more than 1000 views with zero likes",
	Platforms:   only(schema.TikTok, schema.Instagram, schema.YouTube),
	Check: func(t *Transition) []string {
		if t.Glitched(schema.MetricLikes) {
			return nil
		}
		p := t.Pair(schema.MetricLikes)
		if p.CurrViews > 1000 && p.Curr == 0 {
			return single("zero likes at %d views", p.CurrViews)
		}
		return nil
	},
}

var likeRatioCollapseRule = TransitionRule{
	Name:        "like_ratio_collapse",
	Description: "like-to-view ratio falls to a third or less on a big view jump",
	Platforms:   allExcept(schema.YouTube, schema.Snapchat),
	Check: func(t *Transition) []string {
		if t.Prev().Views < 100 {
			return nil
		}
		p := t.Pair(schema.MetricLikes)
		bigJump := float64(p.CurrViews) >= 5*float64(p.PrevViews) || p.CurrViews-p.PrevViews >= 5000
		if !bigJump {
			return nil
		}
		prevRatio := ratio(float64(p.Prev), float64(p.PrevViews))
		currRatio := ratio(float64(p.Curr), float64(p.CurrViews))
		if prevRatio > 0 && ratio(prevRatio, currRatio) >= 3 {
			return single("like ratio collapsed from %.2f%% to %.2f%% on view jump (%d→%d)",
				prevRatio*100, currRatio*100, p.PrevViews, p.CurrViews)
		}
		return nil
	},
}
