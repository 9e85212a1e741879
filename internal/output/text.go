package output

import "strconv"

// TextFormatter is the default formatter: byte-exact with grep's own
// output, optionally with lipgloss highlighting layered on whenever
// Styles is non-nil (the caller decides that, e.g. from --color and a
// terminal check). With Styles nil, the
// default path never allocates for color and matches grep's own plain
// output byte-for-byte.
type TextFormatter struct {
	Styles *Styles
}

// NewTextFormatter creates a TextFormatter. Pass nil for styles to get
// the plain, byte-exact default.
func NewTextFormatter(styles *Styles) *TextFormatter {
	return &TextFormatter{Styles: styles}
}

func (f *TextFormatter) FormatLine(buf []byte, o LineOpts) []byte {
	sep := byte(':')
	if o.IsContext {
		sep = '-'
	}

	firstSep := sep
	if o.NullFilenameSep {
		firstSep = 0
	}

	if o.ShowFilename {
		buf = f.appendFilename(buf, o.Filename)
		buf = append(buf, firstSep)
	}
	if o.ShowLineNum {
		buf = f.appendLineNum(buf, o.LineNum)
		buf = append(buf, sep)
	}
	if o.ShowByteOffset {
		buf = strconv.AppendInt(buf, o.ByteOffset, 10)
		buf = append(buf, sep)
	}

	if f.Styles != nil && len(o.Positions) > 0 && !o.IsContext {
		buf = f.highlight(buf, o.Line, o.Positions)
	} else {
		buf = append(buf, o.Line...)
	}

	return append(buf, o.EOLByte)
}

func (f *TextFormatter) Separator(buf []byte) []byte {
	return append(buf, '-', '-', '\n')
}

func (f *TextFormatter) BinaryMatch(buf []byte, filename string) []byte {
	buf = append(buf, "Binary file "...)
	buf = append(buf, filename...)
	return append(buf, " matches\n"...)
}

func (f *TextFormatter) FileCount(buf []byte, filename string, count int, showFilename bool, nullSep bool) []byte {
	if showFilename {
		buf = f.appendFilename(buf, filename)
		if nullSep {
			buf = append(buf, 0)
		} else {
			buf = append(buf, ':')
		}
	}
	buf = strconv.AppendInt(buf, int64(count), 10)
	return append(buf, '\n')
}

func (f *TextFormatter) FileNameOnly(buf []byte, filename string, nullSep bool) []byte {
	buf = f.appendFilename(buf, filename)
	if nullSep {
		return append(buf, 0)
	}
	return append(buf, '\n')
}

func (f *TextFormatter) appendFilename(buf []byte, filename string) []byte {
	if f.Styles == nil {
		return append(buf, filename...)
	}
	return append(buf, f.Styles.Filename.Render(filename)...)
}

func (f *TextFormatter) appendLineNum(buf []byte, n int) []byte {
	if f.Styles == nil {
		return strconv.AppendInt(buf, int64(n), 10)
	}
	return append(buf, f.Styles.LineNum.Render(strconv.Itoa(n))...)
}

func (f *TextFormatter) highlight(buf []byte, line []byte, positions [][2]int) []byte {
	prev := 0
	for _, pos := range positions {
		start, end := pos[0], pos[1]
		if start > len(line) {
			break
		}
		if end > len(line) {
			end = len(line)
		}
		if start > prev {
			buf = append(buf, line[prev:start]...)
		}
		buf = append(buf, f.Styles.Match.Render(string(line[start:end]))...)
		prev = end
	}
	if prev < len(line) {
		buf = append(buf, line[prev:]...)
	}
	return buf
}
