package matcher

import (
	"regexp"
	"strings"
)

// regexMatcher backs the basic, extended, and default engines with
// Go's RE2 engine for every non-literal, non-PCRE pattern — BRE/ERE
// dialect differences are not modeled, only RE2 syntax is accepted.
type regexMatcher struct {
	re *regexp.Regexp
}

func newRegexMatcher(pattern []byte, opts Options) (Matcher, error) {
	expr := joinAlternatives(pattern)
	if expr == "" {
		return emptyPatternMatcher{}, nil
	}
	if opts.WordMatch {
		expr = `\b(?:` + expr + `)\b`
	}
	if opts.LineMatch {
		expr = `^(?:` + expr + `)$`
	}
	if opts.IgnoreCase {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &regexMatcher{re: re}, nil
}

// joinAlternatives turns \n-separated pattern sources (from -e/-f
// accumulation) into a single RE2 alternation.
func joinAlternatives(pattern []byte) string {
	parts := strings.Split(string(pattern), "\n")
	nonEmpty := parts[:0]
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return ""
	}
	if len(nonEmpty) == 1 {
		return nonEmpty[0]
	}
	for i, p := range nonEmpty {
		nonEmpty[i] = "(?:" + p + ")"
	}
	return strings.Join(nonEmpty, "|")
}

func (m *regexMatcher) Execute(data []byte) (int, int, bool) {
	loc := m.re.FindIndex(data)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1] - loc[0], true
}

// emptyPatternMatcher implements grep's empty-pattern special case:
// every position matches with a zero-length match. Word/line handling
// is the caller's concern (an empty pattern disables those
// constraints); this just reports the earliest possible match.
type emptyPatternMatcher struct{}

func (emptyPatternMatcher) Execute(data []byte) (int, int, bool) {
	if len(data) == 0 {
		return 0, 0, false
	}
	return 0, 0, true
}
