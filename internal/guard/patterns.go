package guard

import "regexp"

// Classification labels. Each names a reference-phrase set; some also
// carry a regex pre-filter that runs before any embedding call.
const (
	LabelFootball        = "football"
	LabelComingSoonSport = "coming_soon_sport"
	LabelInjection       = "injection_phrase"

	labelNotAllowedSport = "not_allowed_sport"
)

// patternSets holds the pre-compiled regex pre-filters per label.
// Patterns are cheap literal/phrase matchers for the clearest cases;
// anything subtler falls through to the semantic classifier.
var patternSets map[string][]*regexp.Regexp

func init() {
	patternSets = map[string][]*regexp.Regexp{
		LabelInjection: compile(
			`(?i)ignore\s+(all\s+|the\s+)?previous`,
			`(?i)disregard\s+(all\s+|the\s+)?(previous|above)`,
			`(?i)system\s+prompt`,
			`(?i)api[\s_-]?key`,
			`(?i)\bhack\b`,
			`(?i)(reveal|show|print)\b.*\b(instructions|prompt|regras)`,
			`(?i)(show|give|tell|send)\b.*\b(credentials?|password|secret|token)`,
			`(?i)bypass\b.*\b(restrictions?|filters?|rules?)`,
			`(?i)pretend\s+(to\s+be|you\s+are)`,
			`(?i)you\s+are\s+now\s`,
		),
		LabelComingSoonSport: compile(
			`(?i)\bbasket`,
			`(?i)basquetebol`,
			`(?i)\brugby\b`,
			`(?i)f[óo]rmula\s*1`,
			`(?i)\bformula\s*1\b`,
		),
		labelNotAllowedSport: compile(
			`(?i)t[ée]nis\b`,
			`(?i)\btennis\b`,
			`(?i)\bgolfe?\b`,
			`(?i)\bcricket\b`,
			`(?i)h[óo]quei`,
			`(?i)\bhockey\b`,
		),
	}
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// MatchesPatterns reports whether any regex pre-filter for label matches
// text. Labels without a pattern set never match. Pure and deterministic.
func MatchesPatterns(text, label string) bool {
	for _, pat := range patternSets[label] {
		if pat.MatchString(text) {
			return true
		}
	}
	return false
}
