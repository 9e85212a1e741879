package cli

import (
	"fmt"
	"io"
)

// Reporter emits grep's fixed diagnostic wire formats byte-for-byte:
// "prog: subject: message\n" for per-file errors, and
// "prog: warning: path: recursive directory loop\n" for loop detection.
// charmbracelet/log's level-prefixed formatter can't reproduce either of
// these exactly, so the wire-format path is kept separate from the
// structured logger — see DESIGN.md.
type Reporter struct {
	w       io.Writer
	prog    string
	quiet   bool // -s/--no-messages suppresses ordinary errors, never loops
	ErrSeen bool
}

// NewReporter creates a Reporter writing to w (typically os.Stderr).
func NewReporter(w io.Writer, prog string, quiet bool) *Reporter {
	return &Reporter{w: w, prog: prog, quiet: quiet}
}

// Error reports a per-file error: "prog: subject: message". Always sets
// ErrSeen, even when suppressed by -s, since the exit status still
// reflects that an error occurred.
func (r *Reporter) Error(subject string, err error) {
	r.ErrSeen = true
	if r.quiet {
		return
	}
	fmt.Fprintf(r.w, "%s: %s: %s\n", r.prog, subject, err)
}

// Warn reports a non-fatal diagnostic that is never suppressed by -s
// (loop warnings are not "error messages" in grep.c's sense — they are
// always printed, and always flip the exit status to 2).
func (r *Reporter) Warn(path string) {
	r.ErrSeen = true
	fmt.Fprintf(r.w, "%s: warning: %s: recursive directory loop\n", r.prog, path)
}

// Fatal reports "prog: message" and returns the exit status the caller
// should use (always 2), matching grep.c's fatal().
func (r *Reporter) Fatal(format string, args ...any) int {
	fmt.Fprintf(r.w, "%s: %s\n", r.prog, fmt.Sprintf(format, args...))
	return 2
}
