package detect

import "github.com/huangsam/botscan/schema"

var massiveCommentDropRule = TransitionRule{
	Name:        "massive_comment_drop",
	Description: "comments fall by 10+ from at least 20",
	Platforms:   allPlatforms(),
	Check: func(t *Transition) []string {
		if t.Glitched(schema.MetricComments) || t.Prev().Comments < 20 {
			return nil
		}
		p := t.Pair(schema.MetricComments)
		if p.Prev-p.Curr >= 10 {
			return single("comments dropped %d→%d", p.Prev, p.Curr)
		}
		return nil
	},
}

var commentJumpViewsFlatRule = TransitionRule{
	Name:        "comment_jump_views_flat",
	Description: "comments grow by 10+ while views move by 30 or less",
	Platforms:   allExcept(schema.YouTube),
	Check: func(t *Transition) []string {
		if t.Glitched(schema.MetricComments) {
			return nil
		}
		prev, curr := t.Prev(), t.Curr()
		viewMove := abs64(curr.Views - prev.Views)
		commentDelta := curr.Comments - prev.Comments
		if viewMove <= 30 && commentDelta >= 10 {
			return single("comments jumped +%d while views moved only %d", commentDelta, viewMove)
		}
		return nil
	},
}

var commentInjectionRule = TransitionRule{
	Name:        "comment_injection",
	Description: "comments multiply 50x or more while views grow less than 5x",
	Platforms:   allPlatforms(),
	Check: func(t *Transition) []string {
		if t.Glitched(schema.MetricComments) {
			return nil
		}
		prev, curr := t.Prev(), t.Curr()
		viewJump := factor(curr.Views, prev.Views)
		commentJump := factor(curr.Comments, prev.Comments)
		if viewJump < 5 && commentJump >= 50 {
			return single("suspicious comment injection: comments x%.1f (%d→%d) while views x%.2f",
				commentJump, prev.Comments, curr.Comments, viewJump)
		}
		return nil
	},
}
