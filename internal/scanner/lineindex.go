package scanner

import "bytes"

// lineCursor tracks position while scanning forward through one buffer
// window for line boundaries. Offsets passed to advance must be
// non-decreasing, so nearby matches can walk line-by-line instead of
// re-scanning from the start.
type lineCursor struct {
	data      []byte
	eol       byte
	lineStart int
	lineEnd   int
}

func newLineCursor(data []byte, eol byte) lineCursor {
	end := len(data)
	if i := bytes.IndexByte(data, eol); i >= 0 {
		end = i
	}
	return lineCursor{data: data, eol: eol, lineStart: 0, lineEnd: end}
}

// advance moves the cursor to the line containing pos and returns that
// line's start offset (relative to data) and one-past-end offset.
func (c *lineCursor) advance(pos int) (start, end int) {
	for pos > c.lineEnd && c.lineEnd < len(c.data) {
		c.lineStart = c.lineEnd + 1
		if i := bytes.IndexByte(c.data[c.lineStart:], c.eol); i >= 0 {
			c.lineEnd = c.lineStart + i
		} else {
			c.lineEnd = len(c.data)
		}
	}
	return c.lineStart, c.lineEnd
}

// LineIndex tracks byte-offset and line-number accounting for one file's
// scan, across however many buffer refills it takes. Line numbering is
// maintained lazily: nlBeforeWindow only grows when AdvanceDropped is
// told about bytes disappearing off the front of the buffer, mirroring
// grep.c's totalcc/lastnl/totalnl bookkeeping without needing to rescan
// from byte zero.
type LineIndex struct {
	// nlBeforeWindow is the count of eol bytes at absolute offsets
	// strictly before the current window's first byte.
	nlBeforeWindow int64

	// LinesRemaining mirrors max_count; -1 means unlimited.
	LinesRemaining int

	// PendingTrailing is the number of trailing-context lines still
	// owed to output after the most recent match.
	PendingTrailing int

	// LastEmittedEnd is the absolute byte offset one past the last byte
	// emitted, or -1 if nothing has been emitted yet. Being absolute, it
	// stays valid across refills, so a gap that spans a refill still
	// produces a "--" separator.
	LastEmittedEnd int64

	eolByte byte
	cursor  lineCursor
}

// NewLineIndex creates a LineIndex for one file scan. maxCount of -1
// means unlimited.
func NewLineIndex(maxCount int, eolByte byte) *LineIndex {
	return &LineIndex{
		LinesRemaining:  maxCount,
		PendingTrailing: 0,
		LastEmittedEnd:  -1,
		eolByte:         eolByte,
	}
}

// ResetWindow must be called once per buffer window (i.e. once per Fill)
// before any LineNumberAt calls against that window's data.
func (li *LineIndex) ResetWindow(window []byte) {
	li.cursor = newLineCursor(window, li.eolByte)
}

// LineNumberAt returns the 1-based line number of the line containing
// windowRelPos, a byte offset into the window passed to ResetWindow.
// Calls within one window must use non-decreasing windowRelPos.
func (li *LineIndex) LineNumberAt(windowRelPos int) int {
	lineStart, _ := li.cursor.advance(windowRelPos)
	nlBefore := li.nlBeforeWindow + int64(countEOL(li.cursor.data[:lineStart], li.eolByte))
	return int(nlBefore) + 1
}

// AdvanceDropped records that the bytes in dropped (the region sliding
// out of the save-region retention before the next fill) have left the
// window for good. If line numbers are in use, this must be called with
// the exact bytes being dropped so the running eol count stays correct
// without ever rescanning from offset zero.
func (li *LineIndex) AdvanceDropped(dropped []byte) {
	li.nlBeforeWindow += int64(countEOL(dropped, li.eolByte))
}

// ClearLastEmitted resets LastEmittedEnd to -1, the nothing-emitted-yet
// state, so the next emitted line is printed without a "--" separator.
func (li *LineIndex) ClearLastEmitted() {
	li.LastEmittedEnd = -1
}

func countEOL(data []byte, eol byte) int {
	return bytes.Count(data, []byte{eol})
}
