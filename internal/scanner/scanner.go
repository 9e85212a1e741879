// Package scanner drives the PageBuffer through one file's worth of
// input, splitting it into lines, invoking a Matcher, tracking context
// windows across buffer refills, and handing emitted lines to a
// Formatter. This is the core the rest of the program exists to feed.
package scanner

import (
	"bytes"

	"github.com/oss-mirror/ggrep/internal/matcher"
	"github.com/oss-mirror/ggrep/internal/output"
	"github.com/oss-mirror/ggrep/internal/pagebuf"
)

// OutMode selects what a scan actually emits.
type OutMode int

const (
	OutNormal OutMode = iota
	OutCountOnly
	OutListMatching
	OutListNonMatching
	OutQuiet
)

// BinaryPolicy controls how a file classified as binary is handled.
type BinaryPolicy int

const (
	BinaryReport BinaryPolicy = iota // default: "Binary file X matches"
	BinaryAsText
	BinaryWithoutMatch
)

// Options mirrors the subset of Config that shapes one file's scan.
// Unlimited is represented by MaxCount < 0.
type Options struct {
	EOLByte        byte
	Invert         bool
	MaxCount       int
	BeforeContext  int
	AfterContext   int
	ShowByteOffset bool
	ShowLineNumber bool
	ShowFilename   bool
	NullFilename   bool // -Z: NUL instead of ':'/'-' after filename
	OutMode        OutMode
	BinaryPolicy   BinaryPolicy
	StopOnFirst    bool // -q or -l/-L: stop scanning as soon as the answer is known
	ExitOnMatch    bool // -q: stop the scan at the first match; the caller then stops visiting further paths
}

// Result reports what one ScanFile call decided.
type Result struct {
	Matched      bool
	IsBinary     bool
	LinesMatched int // for -c
	// FinalOffset is the absolute byte offset one past the last byte
	// this scan consumed or emitted — used to reposition stdin on
	// early exit.
	FinalOffset int64
	// AfterLastMatch is FinalOffset's counterpart for the quiet/list/
	// count early-exit case: the offset just past the last match.
	AfterLastMatch int64
}

// Scanner scans one file at a time against a compiled Matcher, writing
// through a Formatter and Writer. The PageBuffer and Matcher are reused
// across files in one process; nothing here is safe for concurrent use.
type Scanner struct {
	buf    *pagebuf.Buffer
	m      matcher.Matcher
	fmt    output.Formatter
	w      *output.Writer
	opts   Options
	outbuf []byte // reused formatting scratch buffer
}

// New creates a Scanner.
func New(buf *pagebuf.Buffer, m matcher.Matcher, f output.Formatter, w *output.Writer, opts Options) *Scanner {
	return &Scanner{buf: buf, m: m, fmt: f, w: w, opts: opts}
}

// OptionsRef exposes the Scanner's Options by pointer so a caller
// iterating over many files (e.g. toggling ShowFilename on entry into
// a recursed directory) can adjust them between ScanFile calls without
// rebuilding the Scanner.
func (s *Scanner) OptionsRef() *Options { return &s.opts }

// pendingLine is one line seen but not yet emitted, kept around in case
// it turns out to be before-context for an upcoming match.
type pendingLine struct {
	startAbs int64
	endAbs   int64 // one past the eol byte
}

// ScanFile runs the full per-file scan loop against an already-open,
// already-classified file descriptor.
func (s *Scanner) ScanFile(fd int, filename string, isRegular bool, fileSize int64, initialOffset int64, useMmap bool) (Result, error) {
	if err := s.buf.Reset(fd, isRegular, fileSize, initialOffset, useMmap); err != nil {
		return Result{}, err
	}

	li := NewLineIndex(s.opts.MaxCount, s.opts.EOLByte)

	if ok, err := s.buf.Fill(0); !ok {
		return Result{}, err
	}

	if looksBinary(s.buf.Window(), s.opts.EOLByte) {
		switch s.opts.BinaryPolicy {
		case BinaryWithoutMatch:
			return Result{}, nil
		case BinaryReport:
			return s.scanBinary(filename, li)
		case BinaryAsText:
			// fall through to the normal text path below
		}
	}

	residue := 0
	save := 0
	windowBaseAbs := initialOffset // absolute offset of buf.Window()[0]

	var before []pendingLine
	matched := false
	linesMatched := 0
	lastMatchEndAbs := int64(-1)
	stop := false

	for !stop {
		if s.buf.End()-s.buf.Begin() == save {
			break // EOF: this fill's read added no new bytes
		}
		data := s.buf.Window()
		li.ResetWindow(data)

		scanBegin := save - residue
		scanEnd := lastCompleteLineEnd(data, s.opts.EOLByte)
		newResidue := len(data) - scanEnd

		if scanBegin < scanEnd && li.LinesRemaining != 0 {
			r := s.grepbuf(data, scanBegin, scanEnd, false, windowBaseAbs, filename, li, &before, &lastMatchEndAbs)
			matched = matched || r.matched
			linesMatched += r.linesMatched
			stop = r.stop
		}

		begOfReserved := reserveBeforeContext(data, scanEnd, s.opts.BeforeContext, s.opts.EOLByte)
		nextSave := newResidue + (scanEnd - begOfReserved)
		if nextSave > len(data) {
			nextSave = len(data) // never retain more than the window currently holds
		}

		dropped := data[:len(data)-nextSave]
		li.AdvanceDropped(dropped)
		windowBaseAbs += int64(len(dropped))

		residue = newResidue
		save = nextSave

		if stop {
			break
		}
		if ok, err := s.buf.Fill(save); !ok {
			return Result{}, err
		}
	}

	if !stop && residue > 0 && li.LinesRemaining != 0 {
		s.buf.SentinelEOL(s.opts.EOLByte)
		data := s.buf.Window()
		li.ResetWindow(data)
		scanBegin := save - residue
		scanEnd := len(data)
		r := s.grepbuf(data, scanBegin, scanEnd, true, windowBaseAbs, filename, li, &before, &lastMatchEndAbs)
		matched = matched || r.matched
		linesMatched += r.linesMatched
	}

	if s.opts.OutMode == OutCountOnly {
		buf := s.fmt.FileCount(s.outbuf[:0], filename, linesMatched, s.opts.ShowFilename, s.opts.NullFilename)
		if err := s.w.Write(buf); err != nil {
			return Result{}, err
		}
	} else if s.opts.OutMode == OutListMatching && matched {
		buf := s.fmt.FileNameOnly(s.outbuf[:0], filename, s.opts.NullFilename)
		if err := s.w.Write(buf); err != nil {
			return Result{}, err
		}
	} else if s.opts.OutMode == OutListNonMatching && !matched {
		buf := s.fmt.FileNameOnly(s.outbuf[:0], filename, s.opts.NullFilename)
		if err := s.w.Write(buf); err != nil {
			return Result{}, err
		}
	}

	finalOffset := s.buf.FileOffset()
	afterLast := finalOffset
	if lastMatchEndAbs >= 0 {
		afterLast = lastMatchEndAbs
	}

	return Result{
		Matched:        matched,
		LinesMatched:   linesMatched,
		FinalOffset:    finalOffset,
		AfterLastMatch: afterLast,
	}, nil
}

// scanBinary handles the binary-report path: stop at the first match
// (the scan only needs a yes/no answer) and, if found, emit the
// canonical one-line notice.
func (s *Scanner) scanBinary(filename string, li *LineIndex) (Result, error) {
	data := s.buf.Window()
	_, _, ok := s.m.Execute(data)
	if !ok && s.opts.Invert {
		ok = len(data) > 0
	}
	if !ok {
		return Result{IsBinary: true}, nil
	}
	buf := s.fmt.BinaryMatch(s.outbuf[:0], filename)
	if err := s.w.Write(buf); err != nil {
		return Result{}, err
	}
	return Result{Matched: true, IsBinary: true, LinesMatched: 1}, nil
}

// grepbuf results, threaded back to ScanFile for aggregation.
type grepbufResult struct {
	matched      bool
	linesMatched int
	stop         bool
}

// grepbuf finds every match in data[scanBegin:scanEnd], emitting match
// and context lines in order. It
// is called once per fill (plus once more for the terminal synthetic
// line, with sentinelGuard set), so before/after context state is
// threaded in and out via the pointer parameters rather than being
// per-call local.
func (s *Scanner) grepbuf(
	data []byte,
	scanBegin, scanEnd int,
	sentinelGuard bool,
	windowBaseAbs int64,
	filename string,
	li *LineIndex,
	before *[]pendingLine,
	lastMatchEndAbs *int64,
) grepbufResult {
	result := grepbufResult{}
	pos := scanBegin
	invertRunStart := scanBegin

	for pos < scanEnd {
		lineEnd := nextLineEnd(data, pos, scanEnd, s.opts.EOLByte)
		line := data[pos:lineEnd]

		off, length, ok := s.m.Execute(line)
		if ok && off == len(line) && length == 0 {
			ok = false // sentinel convention: no-match at end of slice
		}
		matchEndAbs := pos + off + length

		if sentinelGuard && ok && matchEndAbs == scanEnd {
			result.stop = true
			break
		}

		if s.opts.Invert {
			if ok {
				s.emitNonMatchingRun(data, invertRunStart, pos, windowBaseAbs, filename, li, before, &result)
				invertRunStart = lineEnd
			}
			pos = lineEnd
			continue
		}

		if !ok {
			*before = pushPending(*before, s.opts.BeforeContext, pendingLine{
				startAbs: windowBaseAbs + int64(pos),
				endAbs:   windowBaseAbs + int64(lineEnd),
			})
			if li.PendingTrailing > 0 {
				s.emitContextLine(data, pos, lineEnd, windowBaseAbs, filename, li)
				li.PendingTrailing--
			}
			pos = lineEnd
			continue
		}

		s.flushBeforeContext(data, before, windowBaseAbs, filename, li)
		s.emitMatchLine(data, pos, lineEnd, pos+off, pos+off+length, windowBaseAbs, filename, li)
		result.matched = true
		result.linesMatched++
		*lastMatchEndAbs = windowBaseAbs + int64(lineEnd)
		if li.LinesRemaining > 0 {
			li.LinesRemaining--
		}
		li.PendingTrailing = s.opts.AfterContext
		*before = (*before)[:0]

		if s.opts.ExitOnMatch {
			result.stop = true
			break
		}
		if s.opts.StopOnFirst && li.PendingTrailing == 0 {
			result.stop = true
			break
		}
		if li.LinesRemaining == 0 && li.PendingTrailing == 0 {
			result.stop = true
			break
		}
		pos = lineEnd
	}

	if s.opts.Invert && invertRunStart < pos {
		s.emitNonMatchingRun(data, invertRunStart, pos, windowBaseAbs, filename, li, before, &result)
	}

	return result
}

func (s *Scanner) emitNonMatchingRun(data []byte, start, end int, windowBaseAbs int64, filename string, li *LineIndex, before *[]pendingLine, result *grepbufResult) {
	pos := start
	for pos < end {
		lineEnd := nextLineEnd(data, pos, end, s.opts.EOLByte)
		if li.LinesRemaining == 0 {
			return
		}
		s.emitMatchLine(data, pos, lineEnd, pos, pos, windowBaseAbs, filename, li)
		result.matched = true
		result.linesMatched++
		if li.LinesRemaining > 0 {
			li.LinesRemaining--
		}
		pos = lineEnd
	}
}

// flushBeforeContext emits the queued before-context lines right ahead
// of a match. Because reserveBeforeContext always keeps these lines
// inside the retained save region, they are still part of the current
// window and can be read back out of data directly.
func (s *Scanner) flushBeforeContext(data []byte, before *[]pendingLine, windowBaseAbs int64, filename string, li *LineIndex) {
	for _, p := range *before {
		start := int(p.startAbs - windowBaseAbs)
		end := int(p.endAbs - windowBaseAbs)
		if start < 0 || end > len(data) {
			continue // fell out of the window; drop rather than emit garbage
		}
		s.emitContextLine(data, start, end, windowBaseAbs, filename, li)
	}
	*before = (*before)[:0]
}

func (s *Scanner) emitContextLine(data []byte, start, end int, windowBaseAbs int64, filename string, li *LineIndex) {
	if s.opts.OutMode != OutNormal {
		return // count/list/quiet modes print no lines
	}
	lineBytes := trimEOL(data[start:end], s.opts.EOLByte)
	lineNum := 0
	if s.opts.ShowLineNumber {
		lineNum = li.LineNumberAt(start)
	}
	if li.LastEmittedEnd >= 0 && li.LastEmittedEnd != windowBaseAbs+int64(start) && s.hasAnyContext() {
		buf := s.fmt.Separator(s.outbuf[:0])
		s.w.Write(buf)
	}
	buf := s.fmt.FormatLine(s.outbuf[:0], output.LineOpts{
		ShowFilename:    s.opts.ShowFilename,
		Filename:        filename,
		NullFilenameSep: s.opts.NullFilename,
		ShowLineNum:     s.opts.ShowLineNumber,
		LineNum:         lineNum,
		ShowByteOffset:  s.opts.ShowByteOffset,
		ByteOffset:      windowBaseAbs + int64(start),
		Line:            lineBytes,
		IsContext:       true,
		EOLByte:         s.opts.EOLByte,
	})
	s.w.Write(buf)
	li.LastEmittedEnd = windowBaseAbs + int64(end)
}

func (s *Scanner) emitMatchLine(data []byte, lineStart, lineEnd, matchStart, matchEnd int, windowBaseAbs int64, filename string, li *LineIndex) {
	if s.opts.OutMode != OutNormal {
		return // count/list/quiet modes print no lines
	}
	lineBytes := trimEOL(data[lineStart:lineEnd], s.opts.EOLByte)
	lineNum := 0
	if s.opts.ShowLineNumber {
		lineNum = li.LineNumberAt(lineStart)
	}
	if li.LastEmittedEnd >= 0 && li.LastEmittedEnd != windowBaseAbs+int64(lineStart) && s.hasAnyContext() {
		buf := s.fmt.Separator(s.outbuf[:0])
		s.w.Write(buf)
	}
	var positions [][2]int
	if matchEnd > matchStart {
		positions = [][2]int{{matchStart - lineStart, matchEnd - lineStart}}
	}
	buf := s.fmt.FormatLine(s.outbuf[:0], output.LineOpts{
		ShowFilename:    s.opts.ShowFilename,
		Filename:        filename,
		NullFilenameSep: s.opts.NullFilename,
		ShowLineNum:     s.opts.ShowLineNumber,
		LineNum:         lineNum,
		ShowByteOffset:  s.opts.ShowByteOffset,
		ByteOffset:      windowBaseAbs + int64(lineStart),
		Line:            lineBytes,
		Positions:       positions,
		EOLByte:         s.opts.EOLByte,
	})
	s.w.Write(buf)
	li.LastEmittedEnd = windowBaseAbs + int64(lineEnd)
}

func (s *Scanner) hasAnyContext() bool {
	return s.opts.BeforeContext > 0 || s.opts.AfterContext > 0
}

func pushPending(q []pendingLine, limit int, p pendingLine) []pendingLine {
	if limit == 0 {
		return q
	}
	q = append(q, p)
	if len(q) > limit {
		q = q[len(q)-limit:]
	}
	return q
}

// lastCompleteLineEnd returns the greatest offset <= len(data) such that
// data[offset-1] == eol, or 0 if data contains no eol byte.
func lastCompleteLineEnd(data []byte, eol byte) int {
	i := bytes.LastIndexByte(data, eol)
	if i < 0 {
		return 0
	}
	return i + 1
}

// nextLineEnd returns the offset one past the next eol byte at or after
// pos, bounded by limit (used for the final, possibly eol-less, line).
func nextLineEnd(data []byte, pos, limit int, eol byte) int {
	i := bytes.IndexByte(data[pos:limit], eol)
	if i < 0 {
		return limit
	}
	return pos + i + 1
}

// trimEOL drops the trailing eol byte a line was split on, if present.
func trimEOL(line []byte, eol byte) []byte {
	if len(line) > 0 && line[len(line)-1] == eol {
		return line[:len(line)-1]
	}
	return line
}

// reserveBeforeContext walks backward from scanEnd counting complete
// lines, returning the offset at which `before` lines of context begin.
func reserveBeforeContext(data []byte, scanEnd, before int, eol byte) int {
	if before <= 0 {
		return scanEnd
	}
	pos := scanEnd
	for i := 0; i < before && pos > 0; i++ {
		idx := bytes.LastIndexByte(data[:pos-1], eol)
		if idx < 0 {
			return 0
		}
		pos = idx + 1
	}
	return pos
}
