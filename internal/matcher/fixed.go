package matcher

import "bytes"

// fixedMatcher does literal substring matching for -F/--fixed-strings,
// via bytes.Index — the same algorithm modern Go runtimes already pick
// for short needles (see DESIGN.md for why a SIMD-accelerated variant
// isn't used here).
type fixedMatcher struct {
	patterns   [][]byte
	ignoreCase bool
	wordMatch  bool
	lineMatch  bool
}

func newFixedMatcher(pattern []byte, opts Options) (Matcher, error) {
	var patterns [][]byte
	for _, p := range bytes.Split(pattern, []byte("\n")) {
		if len(p) > 0 {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return emptyPatternMatcher{}, nil
	}
	if opts.IgnoreCase {
		for i, p := range patterns {
			patterns[i] = bytes.ToLower(p)
		}
	}
	return &fixedMatcher{
		patterns:   patterns,
		ignoreCase: opts.IgnoreCase,
		wordMatch:  opts.WordMatch,
		lineMatch:  opts.LineMatch,
	}, nil
}

func (m *fixedMatcher) Execute(data []byte) (int, int, bool) {
	haystack := data
	if m.ignoreCase {
		haystack = bytes.ToLower(data)
	}

	best, bestLen, found := -1, 0, false
	for _, p := range m.patterns {
		off := 0
		for off <= len(haystack) {
			idx := bytes.Index(haystack[off:], p)
			if idx < 0 {
				break
			}
			start := off + idx
			end := start + len(p)
			if m.lineMatch && !(start == 0 && end == len(data)) {
				off = start + 1
				continue
			}
			if m.wordMatch && !isWordBoundaryMatch(data, start, end) {
				off = start + 1
				continue
			}
			if !found || start < best {
				best, bestLen, found = start, len(p), true
			}
			break
		}
	}
	if !found {
		return 0, 0, false
	}
	return best, bestLen, true
}

// isWordBoundaryMatch reports whether data[start:end] is flanked by
// non-word characters (or the ends of data), the same rule -w applies to
// regex engines via \b assertions.
func isWordBoundaryMatch(data []byte, start, end int) bool {
	if start > 0 && isWordByte(data[start-1]) {
		return false
	}
	if end < len(data) && isWordByte(data[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
