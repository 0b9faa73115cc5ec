package detect

import (
	"fmt"

	"github.com/huangsam/botscan/schema"
)

const (
	noteMinViews        = 5000
	lowCommentRatioBand = 0.0001 // 0.01%
)

var zeroCommentsNote = NoteRule{
	Name:        "zero_comments",
	Description: "more than 5000 views with zero comments",
	Platforms:   allPlatforms(),
	Check: func(scan schema.ScanSnapshot) (string, bool) {
		if scan.Views > noteMinViews && scan.Comments == 0 {
			return fmt.Sprintf("zero comments at %d views", scan.Views), true
		}
		return "", false
	},
}

var lowCommentRatioNote = NoteRule{
	Name:        "low_comment_ratio",
	Description: "comment-to-view ratio under 0.01% past 5000 views",
	Platforms:   allPlatforms(),
	Check: func(scan schema.ScanSnapshot) (string, bool) {
		if scan.Views <= noteMinViews || scan.Comments == 0 {
			return "", false
		}
		r := ratio(float64(scan.Comments), float64(scan.Views))
		if r < lowCommentRatioBand {
			return fmt.Sprintf("comment ratio %.3f%% at %d views", r*100, scan.Views), true
		}
		return "", false
	},
}
