package guard

import "context"

// Thresholds are the similarity cut-offs per check. The injection
// threshold is deliberately the lowest: high recall matters more there.
type Thresholds struct {
	Injection  float64
	Football   float64
	ComingSoon float64
}

// DefaultThresholds returns the tuned defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{Injection: 0.70, Football: 0.62, ComingSoon: 0.68}
}

// Pipeline runs the ordered admission checks for one query.
type Pipeline struct {
	classifier *Classifier
	thresholds Thresholds
}

// NewPipeline builds the guard pipeline over a classifier.
func NewPipeline(classifier *Classifier, thresholds Thresholds) *Pipeline {
	return &Pipeline{classifier: classifier, thresholds: thresholds}
}

// Check classifies text and returns the admission verdict. Stages run in
// order and short-circuit, sharing one Query so the text is embedded at
// most once per check; a stage is never retried — embedding failures are
// resolved by each stage's fail policy.
//
// Fail policies: the injection semantic stage fails closed (the regex
// pre-filter remains the backstop, and an embedding outage must not block
// all traffic), the football topic stage fails open (an outage must not
// block legitimate football questions), and the coming-soon stage fails
// closed (falling through to the out-of-scope verdict).
func (p *Pipeline) Check(ctx context.Context, text string) Verdict {
	query := p.classifier.Query(text)

	// Stage 1: injection. Regex short-circuits inside Classify without
	// spending an embedding call.
	if query.Classify(ctx, LabelInjection, p.thresholds.Injection, FailClosed) {
		return blocked(ReasonInjection, msgInjection)
	}

	// Stage 2: topic.
	if query.Classify(ctx, LabelFootball, p.thresholds.Football, FailOpen) {
		return allowed()
	}
	if query.Classify(ctx, LabelComingSoonSport, p.thresholds.ComingSoon, FailClosed) {
		return blocked(ReasonComingSoon, msgComingSoon)
	}
	if MatchesPatterns(text, labelNotAllowedSport) {
		return blocked(ReasonOutOfScope, msgSportNotAllowed)
	}
	return blocked(ReasonOutOfScope, msgOutOfScope)
}
