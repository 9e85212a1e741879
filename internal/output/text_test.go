package output

import "testing"

func TestFormatLineMatch(t *testing.T) {
	f := NewTextFormatter(nil)
	got := f.FormatLine(nil, LineOpts{
		ShowFilename: true,
		Filename:     "a.txt",
		ShowLineNum:  true,
		LineNum:      3,
		Line:         []byte("hello world"),
		EOLByte:      '\n',
	})
	want := "a.txt:3:hello world\n"
	if string(got) != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}

func TestFormatLineContextUsesDash(t *testing.T) {
	f := NewTextFormatter(nil)
	got := f.FormatLine(nil, LineOpts{
		ShowFilename: true,
		Filename:     "a.txt",
		Line:         []byte("context"),
		IsContext:    true,
		EOLByte:      '\n',
	})
	want := "a.txt-context\n"
	if string(got) != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}

func TestFormatLineNullFilenameSepOnlyAffectsFirstSeparator(t *testing.T) {
	f := NewTextFormatter(nil)
	got := f.FormatLine(nil, LineOpts{
		ShowFilename:    true,
		Filename:        "a.txt",
		NullFilenameSep: true,
		ShowLineNum:     true,
		LineNum:         1,
		Line:            []byte("x"),
		EOLByte:         '\n',
	})
	want := "a.txt\x001:x\n"
	if string(got) != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}

func TestFormatLineByteOffset(t *testing.T) {
	f := NewTextFormatter(nil)
	got := f.FormatLine(nil, LineOpts{
		ShowByteOffset: true,
		ByteOffset:     42,
		Line:           []byte("x"),
		EOLByte:        '\n',
	})
	want := "42:x\n"
	if string(got) != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}

func TestFormatLineNullDataEOL(t *testing.T) {
	f := NewTextFormatter(nil)
	got := f.FormatLine(nil, LineOpts{Line: []byte("x"), EOLByte: 0})
	want := "x\x00"
	if string(got) != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}

func TestSeparator(t *testing.T) {
	f := NewTextFormatter(nil)
	if got := string(f.Separator(nil)); got != "--\n" {
		t.Errorf("Separator() = %q, want %q", got, "--\n")
	}
}

func TestBinaryMatch(t *testing.T) {
	f := NewTextFormatter(nil)
	got := string(f.BinaryMatch(nil, "data.bin"))
	want := "Binary file data.bin matches\n"
	if got != want {
		t.Errorf("BinaryMatch() = %q, want %q", got, want)
	}
}

func TestFileCount(t *testing.T) {
	f := NewTextFormatter(nil)
	tests := []struct {
		name         string
		showFilename bool
		nullSep      bool
		want         string
	}{
		{"with filename", true, false, "a.txt:5\n"},
		{"without filename", false, false, "5\n"},
		{"null separator", true, true, "a.txt\x005\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(f.FileCount(nil, "a.txt", 5, tt.showFilename, tt.nullSep))
			if got != tt.want {
				t.Errorf("FileCount() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileNameOnly(t *testing.T) {
	f := NewTextFormatter(nil)
	if got := string(f.FileNameOnly(nil, "a.txt", false)); got != "a.txt\n" {
		t.Errorf("FileNameOnly() = %q, want %q", got, "a.txt\n")
	}
	if got := string(f.FileNameOnly(nil, "a.txt", true)); got != "a.txt\x00" {
		t.Errorf("FileNameOnly() with nullSep = %q, want %q", got, "a.txt\x00")
	}
}
