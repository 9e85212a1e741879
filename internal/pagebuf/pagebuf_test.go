package pagebuf

import (
	"os"
	"testing"
)

func tempFile(t *testing.T, content []byte) *os.File {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), "pagebuf")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	if _, err := f.Write(content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFillReadsWholeSmallFile(t *testing.T) {
	content := []byte("line one\nline two\nline three\n")
	f := tempFile(t, content)

	b := NewBuffer()
	if err := b.Reset(int(f.Fd()), true, int64(len(content)), 0, false); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, err := b.Fill(0); !ok || err != nil {
		t.Fatalf("Fill: ok=%v err=%v", ok, err)
	}
	if got := string(b.Window()); got != string(content) {
		t.Fatalf("Window() = %q, want %q", got, content)
	}
}

func TestFillRetainsSaveBytes(t *testing.T) {
	content := []byte("abcdefghij")
	f := tempFile(t, content)

	b := NewBuffer()
	if err := b.Reset(int(f.Fd()), true, int64(len(content)), 0, false); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, err := b.Fill(0); !ok || err != nil {
		t.Fatalf("Fill: ok=%v err=%v", ok, err)
	}
	// Pretend the scanner wants to keep the final 3 bytes ("hij") as
	// context going into the next fill.
	save := 3
	beforeTail := string(b.Window()[len(b.Window())-save:])

	if ok, err := b.Fill(save); !ok || err != nil {
		t.Fatalf("second Fill: ok=%v err=%v", ok, err)
	}
	got := string(b.Window()[:save])
	if got != beforeTail {
		t.Fatalf("retained save bytes = %q, want %q", got, beforeTail)
	}
}

func TestSentinelEOL(t *testing.T) {
	content := []byte("no trailing newline")
	f := tempFile(t, content)

	b := NewBuffer()
	if err := b.Reset(int(f.Fd()), true, int64(len(content)), 0, false); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, err := b.Fill(0); !ok || err != nil {
		t.Fatalf("Fill: ok=%v err=%v", ok, err)
	}
	end := b.End()
	b.SentinelEOL('\n')
	if b.End() != end+1 {
		t.Fatalf("End() after sentinel = %d, want %d", b.End(), end+1)
	}
	if b.Bytes()[end] != '\n' {
		t.Fatalf("sentinel byte = %q, want \\n", b.Bytes()[end])
	}
}

func TestUndossify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no cr", "abc\ndef\n", "abc\ndef\n"},
		{"cr before lf stripped", "abc\r\ndef\r\n", "abc\ndef\n"},
		{"lone cr kept", "abc\rdef\n", "abc\rdef\n"},
		{"cr not before lf kept", "abc\r\rdef\n", "abc\r\rdef\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []byte(tt.in)
			n := undossify(buf)
			if got := string(buf[:n]); got != tt.want {
				t.Errorf("undossify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGrowSatisfiesLargeSave(t *testing.T) {
	content := make([]byte, 200000)
	for i := range content {
		content[i] = 'x'
	}
	f := tempFile(t, content)

	b := NewBuffer()
	if err := b.Reset(int(f.Fd()), true, int64(len(content)), 0, false); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ok, err := b.Fill(0); !ok || err != nil {
		t.Fatalf("Fill: ok=%v err=%v", ok, err)
	}

	save := b.saveRegionSize * 10
	if ok, err := b.Fill(save); !ok || err != nil {
		t.Fatalf("Fill with large save: ok=%v err=%v", ok, err)
	}
	if b.saveRegionSize < save {
		t.Fatalf("saveRegionSize = %d, want >= %d", b.saveRegionSize, save)
	}
}
