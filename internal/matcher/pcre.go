package matcher

import (
	"go.elara.ws/pcre"
)

// pcreMatcher backs -P/--perl-regexp with a pure-Go PCRE2-compatible
// engine.
type pcreMatcher struct {
	re *pcre.Regexp
}

func newPCREMatcher(pattern []byte, opts Options) (Matcher, error) {
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

	var compileOpts pcre.CompileOption
	if opts.IgnoreCase {
		compileOpts |= pcre.Caseless
	}

	re, err := pcre.CompileOpts(expr, compileOpts)
	if err != nil {
		return nil, err
	}
	return &pcreMatcher{re: re}, nil
}

func (m *pcreMatcher) Execute(data []byte) (int, int, bool) {
	loc := m.re.FindIndex(data)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1] - loc[0], true
}

// Close releases the compiled PCRE resources.
func (m *pcreMatcher) Close() {
	if m.re != nil {
		m.re.Close()
	}
}
