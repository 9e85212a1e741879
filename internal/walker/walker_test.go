package walker

import "testing"

func TestHasLoop(t *testing.T) {
	root := &Ancestry{Device: 1, Inode: 100}
	mid := &Ancestry{Device: 1, Inode: 200, Parent: root}

	tests := []struct {
		name          string
		device, inode uint64
		want          bool
	}{
		{"matches root", 1, 100, true},
		{"matches mid", 1, 200, true},
		{"no match", 1, 300, false},
		{"matching inode wrong device", 2, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasLoop(mid, tt.device, tt.inode); got != tt.want {
				t.Errorf("hasLoop() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasLoopNilChain(t *testing.T) {
	if hasLoop(nil, 1, 1) {
		t.Error("hasLoop(nil, ...) should always be false")
	}
}

func TestCombine(t *testing.T) {
	tests := []struct {
		name          string
		running, child, want Status
	}{
		{"no-match then match", StatusNoMatch, StatusMatch, StatusMatch},
		{"match stays match", StatusMatch, StatusNoMatch, StatusMatch},
		{"error dominates match", StatusMatch, StatusError, StatusError},
		{"error dominates no-match", StatusNoMatch, StatusError, StatusError},
		{"no-match then no-match", StatusNoMatch, StatusNoMatch, StatusNoMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := combine(tt.running, tt.child); got != tt.want {
				t.Errorf("combine(%v, %v) = %v, want %v", tt.running, tt.child, got, tt.want)
			}
		})
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct {
		dir, name, want string
	}{
		{"/tmp", "foo", "/tmp/foo"},
		{"/", "foo", "/foo"},
		{"", "foo", "foo"},
		{"/tmp/", "foo", "/tmp/foo"},
	}
	for _, tt := range tests {
		if got := joinPath(tt.dir, tt.name); got != tt.want {
			t.Errorf("joinPath(%q, %q) = %q, want %q", tt.dir, tt.name, got, tt.want)
		}
	}
}

func TestWalkDetectsLoopWithoutVisiting(t *testing.T) {
	warned := false
	w := &Walker{
		Visit: func(string, *Ancestry) Status {
			t.Fatal("Visit should not be called for a looped directory")
			return StatusError
		},
		Warn: func(path string) { warned = true },
	}

	// A directory whose own (device, inode) matches its parent frame
	// simulates a symlink loop back to an ancestor.
	parent := &Ancestry{Device: 1, Inode: 42}
	got := w.Walk("/loop", 1, 42, parent)

	if !warned {
		t.Error("expected Warn to be called")
	}
	if got != StatusNoMatch {
		t.Errorf("Walk() = %v, want StatusNoMatch", got)
	}
}
