package cli

import (
	"strings"
)

// DefaultMatcherFromArgv0 inspects argv[0] the way grep.c's main() does
// before any flag is parsed: a basename ending in "egrep" or "fgrep"
// (after stripping a ".exe" suffix, case-folded) selects the extended or
// fixed-string engine by default. Anything else leaves the caller free
// to apply its own default.
func DefaultMatcherFromArgv0(argv0 string) string {
	name := argv0
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")

	switch {
	case strings.HasSuffix(name, "egrep"):
		return "extended"
	case strings.HasSuffix(name, "fgrep"):
		return "fixed"
	default:
		return ""
	}
}
