package detect

import "github.com/huangsam/botscan/schema"

// Evaluator aggregates rule results into a SubmissionVerdict.
type Evaluator struct {
	rules  RuleSet
	logger Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithRuleSet replaces the default rule library.
func WithRuleSet(rs RuleSet) Option {
	return func(e *Evaluator) { e.rules = rs }
}

// WithLogger sets where recovered window errors are reported.
func WithLogger(l Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEvaluator returns an Evaluator using DefaultRuleSet unless overridden.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{rules: DefaultRuleSet(), logger: defaultLogger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the rule set used by the evaluator.
func (e *Evaluator) Rules() RuleSet {
	return e.rules
}

// Evaluate runs every rule over the valid scans of series. Scans flagged
// missing are excluded first; fewer than two remaining scans yields
// ErrInsufficientData rather than a clean verdict.
func (e *Evaluator) Evaluate(platform schema.Platform, series schema.ScanSeries) (*schema.SubmissionVerdict, error) {
	valid := series.Valid()
	n := valid.Len()
	if n < 2 {
		return nil, ErrInsufficientData
	}

	t := &Transition{Platform: platform, Series: valid, LeadingZeros: leadingZeroScans(valid)}
	withWindows := windowsApply(platform, n)
	seenWindows := make(map[int]struct{})

	var reasons []schema.AnomalyReason
	for i := 1; i < n; i++ {
		t.Index = i
		reasons = append(reasons, e.rules.evaluateTransition(t)...)

		if !withWindows {
			continue
		}
		start, err := windowStart(n, i)
		if err != nil {
			e.logger("window selection failed", err)
			continue
		}
		if _, seen := seenWindows[start]; seen {
			continue
		}
		seenWindows[start] = struct{}{}
		windowReasons, err := e.rules.evaluateWindowAt(platform, valid, start)
		if err != nil {
			e.logger("window evaluation failed", err)
			continue
		}
		reasons = append(reasons, windowReasons...)
	}

	var notes []schema.AnomalyReason
	for i := range n {
		notes = append(notes, e.rules.EvaluateNotes(platform, valid, i)...)
	}

	return &schema.SubmissionVerdict{
		ShouldReject: len(reasons) > 0,
		BottedReason: schema.JoinReasons(reasons),
		Reasons:      reasons,
		Notes:        notes,
	}, nil
}

// EvaluateRaw normalizes raw records and evaluates them.
func (e *Evaluator) EvaluateRaw(platform schema.Platform, raw []schema.RawScan) (*schema.SubmissionVerdict, error) {
	return e.Evaluate(platform, Normalize(raw))
}

// Evaluate runs the default evaluator.
func Evaluate(platform schema.Platform, series schema.ScanSeries) (*schema.SubmissionVerdict, error) {
	return NewEvaluator().Evaluate(platform, series)
}
