// Package matcher provides the pluggable pattern-matching engines behind
// the scanner's Matcher contract: compile a pattern once, then locate
// matches in arbitrary byte slices across repeated calls. Implementations
// are re-entrant across calls with different slices but are not required
// to be safe for concurrent use — the scanner drives exactly one matcher
// at a time.
package matcher

import (
	"fmt"
)

// Options carries the match-shaping flags the engine itself is responsible
// for honoring, since word/line anchoring and case folding interact with
// an engine's own syntax (regex boundary assertions, PCRE options, plain
// byte comparison for fixed strings) rather than being generic.
type Options struct {
	IgnoreCase bool
	WordMatch  bool
	LineMatch  bool
}

// Matcher locates the first match of a compiled pattern within data.
//
// Execute returns ok=false for NO_MATCH. A returned pair of
// offset == len(data), length == 0 is the sentinel convention: a
// zero-length match sitting exactly at the end of the slice, which the
// scanner must treat as no-match to avoid matching the synthetic
// terminator line appended at EOF.
type Matcher interface {
	Execute(data []byte) (offset, length int, ok bool)
}

// Closer is implemented by matchers holding resources (e.g. PCRE's
// off-heap compiled form) that must be released explicitly.
type Closer interface {
	Close()
}

// constructor builds a Matcher from pattern bytes (multiple -e/-f sources
// already concatenated with '\n') and the shared Options.
type constructor func(pattern []byte, opts Options) (Matcher, error)

var registry = map[string]constructor{
	"basic":    newRegexMatcher,
	"extended": newRegexMatcher,
	"default":  newRegexMatcher,
	"fixed":    newFixedMatcher,
	"perl":     newPCREMatcher,
}

// Compile looks up name in the engine registry and builds a Matcher for
// pattern. An unknown name falls back to "default"; failing that is a
// fatal configuration error, matching grep.c's install_matcher.
func Compile(name string, pattern []byte, opts Options) (Matcher, error) {
	ctor, ok := registry[name]
	if !ok {
		ctor, ok = registry["default"]
		if !ok {
			return nil, fmt.Errorf("matcher: unknown engine %q and no default registered", name)
		}
	}
	m, err := ctor(pattern, opts)
	if err != nil {
		return nil, fmt.Errorf("matcher: compiling %q pattern: %w", name, err)
	}
	return m, nil
}
