package matcher

import "testing"

func TestRegexMatcherExecute(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		opts       Options
		input      string
		wantOffset int
		wantLength int
		wantOK     bool
	}{
		{"simple match", "hello", Options{}, "say hello there", 4, 5, true},
		{"no match", "xyz", Options{}, "hello world", 0, 0, false},
		{"case insensitive", "hello", Options{IgnoreCase: true}, "HELLO", 0, 5, true},
		{"word match rejects substring", "cat", Options{WordMatch: true}, "concatenate", 0, 0, false},
		{"word match accepts whole word", "cat", Options{WordMatch: true}, "a cat sat", 2, 3, true},
		{"line match rejects partial", "cat", Options{LineMatch: true}, "cats", 0, 0, false},
		{"line match accepts exact", "cat", Options{LineMatch: true}, "cat", 0, 3, true},
		{"multi-pattern alternation", "foo\nbar", Options{}, "xbarx", 1, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile("default", []byte(tt.pattern), tt.opts)
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			offset, length, ok := m.Execute([]byte(tt.input))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if offset != tt.wantOffset || length != tt.wantLength {
				t.Errorf("Execute() = (%d,%d), want (%d,%d)", offset, length, tt.wantOffset, tt.wantLength)
			}
		})
	}
}

func TestFixedMatcherExecute(t *testing.T) {
	tests := []struct {
		name       string
		patterns   string
		opts       Options
		input      string
		wantOffset int
		wantLength int
		wantOK     bool
	}{
		{"simple match", "hello", Options{}, "say hello there", 4, 5, true},
		{"no match", "xyz", Options{}, "hello world", 0, 0, false},
		{"case insensitive", "hello", Options{IgnoreCase: true}, "HELLO", 0, 5, true},
		{"multi-pattern picks earliest", "cherry\napple", Options{}, "apple and cherry", 0, 5, true},
		{"word match", "cat", Options{WordMatch: true}, "concatenate a cat", 14, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Compile("fixed", []byte(tt.patterns), tt.opts)
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			offset, length, ok := m.Execute([]byte(tt.input))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if offset != tt.wantOffset || length != tt.wantLength {
				t.Errorf("Execute() = (%d,%d), want (%d,%d)", offset, length, tt.wantOffset, tt.wantLength)
			}
		})
	}
}

func TestEmptyPatternMatchesEverything(t *testing.T) {
	m, err := Compile("default", []byte(""), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	offset, length, ok := m.Execute([]byte("anything"))
	if !ok || offset != 0 || length != 0 {
		t.Errorf("Execute() = (%d,%d,%v), want (0,0,true)", offset, length, ok)
	}
	if _, _, ok := m.Execute(nil); ok {
		t.Error("Execute(nil) should not match")
	}
}

func TestCompileUnknownEngineFallsBackToDefault(t *testing.T) {
	m, err := Compile("not-a-real-engine", []byte("abc"), Options{})
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if _, _, ok := m.Execute([]byte("xabcx")); !ok {
		t.Error("expected fallback default engine to match")
	}
}
