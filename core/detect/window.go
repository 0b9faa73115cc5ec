package detect

import (
	"fmt"

	"github.com/huangsam/botscan/schema"
)

const (
	windowSize       = 6
	plateauTolerance = 30
)

// isPlateau reports whether two view counts are within the plateau tolerance.
func isPlateau(a, b int64) bool {
	return abs64(a-b) <= plateauTolerance
}

var plateauJumpPlateauRule = WindowRule{
	Name:        "plateau_jump_plateau",
	Description: "flat views, a 500+ jump, then flat again within a 6-scan window",
	Platforms:   allExcept(schema.YouTube),
	Check: func(w [windowSize]int64) (string, bool) {
		drift := abs64(w[5] - w[3])
		settled := drift <= plateauTolerance || float64(drift) <= 0.10*float64(w[3])
		if isPlateau(w[0], w[2]) && w[3]-w[2] >= 500 && isPlateau(w[3], w[4]) && isPlateau(w[4], w[5]) && settled {
			return fmt.Sprintf("plateau→jump→plateau in views %v", w), true
		}
		return "", false
	},
}

var stairStepRule = WindowRule{
	Name:        "stair_step",
	Description: "flat views, a 300+ jump, a larger 500+ jump, then flat again",
	Platforms:   allExcept(schema.YouTube),
	Check: func(w [windowSize]int64) (string, bool) {
		small := w[2] - w[1]
		big := w[3] - w[2]
		if isPlateau(w[0], w[1]) && small >= 300 && big >= 500 && big > small && isPlateau(w[3], w[4]) && isPlateau(w[4], w[5]) {
			return fmt.Sprintf("two-stage stair-step in views %v", w), true
		}
		return "", false
	},
}

// windowStart picks the 6-scan window centered on transition i, clamped to the series.
func windowStart(n, i int) (int, error) {
	if n < windowSize {
		return 0, fmt.Errorf("series has %d scans, window needs %d", n, windowSize)
	}
	if i < 1 || i >= n {
		return 0, fmt.Errorf("transition %d outside series of %d scans", i, n)
	}
	return max(0, min(i-windowSize/2, n-windowSize)), nil
}

// viewWindow copies the view counts of the window starting at start.
func viewWindow(series schema.ScanSeries, start int) [windowSize]int64 {
	var w [windowSize]int64
	for k := range w {
		w[k] = series.At(start + k).Views
	}
	return w
}

// EvaluateWindow runs the window rules on the window chosen for transition i.
func (rs RuleSet) EvaluateWindow(platform schema.Platform, series schema.ScanSeries, i int) ([]schema.AnomalyReason, error) {
	start, err := windowStart(series.Len(), i)
	if err != nil {
		return nil, err
	}
	return rs.evaluateWindowAt(platform, series, start)
}

// jumpOffset is the window position of the jump both window rules key on.
const jumpOffset = 3

// evaluateWindowAt checks the window starting at start and attributes hits to
// the transition into its jump scan. A panic inside a rule is returned as an error.
func (rs RuleSet) evaluateWindowAt(platform schema.Platform, series schema.ScanSeries, start int) (reasons []schema.AnomalyReason, err error) {
	defer func() {
		if r := recover(); r != nil {
			reasons = nil
			err = fmt.Errorf("window at scan %d: %v", start+1, r)
		}
	}()

	w := viewWindow(series, start)
	jump := start + jumpOffset
	for _, rule := range rs.WindowRules {
		if !applies(rule.Platforms, platform) {
			continue
		}
		if msg, ok := rule.Check(w); ok {
			reasons = append(reasons, schema.AnomalyReason{
				Rule:        rule.Name,
				Severity:    schema.SeverityReject,
				Message:     msg,
				Transition:  jump,
				CollectedAt: series.At(jump).CollectedAt,
			})
		}
	}
	return reasons, nil
}

// windowsApply reports whether window rules run for this platform and length.
func windowsApply(platform schema.Platform, n int) bool {
	return platform != schema.YouTube && n >= windowSize
}
