// Package output implements the byte-exact line formatter: filename,
// line number, and byte offset prefixes with role-specific separators,
// count/list summary modes, and the "--" group separator between
// discontiguous context blocks.
package output

// LineOpts carries everything one emitted line needs. The same struct
// serves match lines and context lines — IsContext selects the '-'
// separator instead of ':' and turns off match highlighting.
type LineOpts struct {
	Filename     string
	ShowFilename bool
	// NullFilenameSep replaces the separator that follows the filename
	// (only that one) with a NUL byte, per -Z/--null.
	NullFilenameSep bool

	LineNum     int
	ShowLineNum bool

	ByteOffset     int64
	ShowByteOffset bool

	Line      []byte
	Positions [][2]int // match spans within Line, for optional highlighting
	IsContext bool
	EOLByte   byte
}

// Formatter renders emitted lines, count summaries, and filename-only
// listings into an output buffer. Implementations append to and return
// buf so callers can reuse one growing buffer across an entire scan.
type Formatter interface {
	FormatLine(buf []byte, opts LineOpts) []byte
	Separator(buf []byte) []byte
	BinaryMatch(buf []byte, filename string) []byte
	FileCount(buf []byte, filename string, count int, showFilename bool, nullSep bool) []byte
	FileNameOnly(buf []byte, filename string, nullSep bool) []byte
}
