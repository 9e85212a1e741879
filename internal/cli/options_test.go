package cli

import (
	"testing"

	"github.com/oss-mirror/ggrep/internal/scanner"
)

func TestParseArgsBasicPattern(t *testing.T) {
	res, err := ParseArgs("ggrep", []string{"foo", "a.txt", "b.txt"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if res.Positional != "foo" {
		t.Errorf("Positional = %q, want foo", res.Positional)
	}
	if len(res.Config.Paths) != 2 || res.Config.Paths[0] != "a.txt" || res.Config.Paths[1] != "b.txt" {
		t.Errorf("Paths = %v", res.Config.Paths)
	}
}

func TestParseArgsPatternAfterFiles(t *testing.T) {
	// -e appearing after positional-looking tokens still wins over
	// treating the first token as the pattern.
	res, err := ParseArgs("ggrep", []string{"a.txt", "-e", "foo"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if res.HasPositional {
		t.Errorf("HasPositional = true, want false (an -e source was given)")
	}
	if len(res.PatternArgs) != 1 || res.PatternArgs[0] != "foo" {
		t.Errorf("PatternArgs = %v", res.PatternArgs)
	}
	if len(res.Config.Paths) != 1 || res.Config.Paths[0] != "a.txt" {
		t.Errorf("Paths = %v", res.Config.Paths)
	}
}

func TestParseArgsBundledShortFlags(t *testing.T) {
	res, err := ParseArgs("ggrep", []string{"-in", "foo"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if !res.Config.IgnoreCase || !res.Config.ShowLineNumber {
		t.Errorf("Config = %+v, want IgnoreCase and ShowLineNumber set", res.Config)
	}
}

func TestParseArgsNumericContextShorthand(t *testing.T) {
	res, err := ParseArgs("ggrep", []string{"-3", "foo"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if res.Config.BeforeContext != 3 || res.Config.AfterContext != 3 {
		t.Errorf("context = %d/%d, want 3/3", res.Config.BeforeContext, res.Config.AfterContext)
	}
}

func TestParseArgsContextFlagWithValue(t *testing.T) {
	res, err := ParseArgs("ggrep", []string{"-A", "2", "-B3", "foo"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if res.Config.AfterContext != 2 {
		t.Errorf("AfterContext = %d, want 2", res.Config.AfterContext)
	}
	if res.Config.BeforeContext != 3 {
		t.Errorf("BeforeContext = %d, want 3", res.Config.BeforeContext)
	}
}

func TestParseArgsLongOptionWithEquals(t *testing.T) {
	res, err := ParseArgs("ggrep", []string{"--max-count=5", "foo"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if res.Config.MaxCount != 5 {
		t.Errorf("MaxCount = %d, want 5", res.Config.MaxCount)
	}
}

func TestParseArgsConflictingMatchersIsError(t *testing.T) {
	_, err := ParseArgs("ggrep", []string{"-E", "-F", "foo"})
	if err == nil {
		t.Fatalf("expected an error for conflicting matchers")
	}
}

// TestDirPolicyOrderDependence locks down the decision that flags are
// applied strictly left-to-right, so whichever of -r / -d comes last on
// the command line wins, even though -r implies recurse as a side
// effect at the point it's parsed.
func TestDirPolicyOrderDependence(t *testing.T) {
	t.Run("-r before -d read", func(t *testing.T) {
		res, err := ParseArgs("ggrep", []string{"-r", "-d", "read", "foo"})
		if err != nil {
			t.Fatalf("ParseArgs: %v", err)
		}
		if res.Config.DirPolicy != DirRead {
			t.Errorf("DirPolicy = %v, want DirRead (the later -d wins)", res.Config.DirPolicy)
		}
	})
	t.Run("-d read before -r", func(t *testing.T) {
		res, err := ParseArgs("ggrep", []string{"-d", "read", "-r", "foo"})
		if err != nil {
			t.Fatalf("ParseArgs: %v", err)
		}
		if res.Config.DirPolicy != DirRecurse {
			t.Errorf("DirPolicy = %v, want DirRecurse (the later -r wins)", res.Config.DirPolicy)
		}
	})
}

func TestParseArgsEnvOptionsPrepended(t *testing.T) {
	t.Setenv("GREP_OPTIONS", "-i")
	t.Setenv("GGREP_CONFIG_PATH", "/nonexistent-ggreprc-for-test")
	res, err := ParseArgs("ggrep", []string{"foo"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if !res.Config.IgnoreCase {
		t.Errorf("expected GREP_OPTIONS=-i to set IgnoreCase")
	}
}

func TestSplitEnvOptions(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"-i -n", []string{"-i", "-n"}},
		{`-e foo\ bar`, []string{"-e", "foo bar"}},
		{`\\`, []string{`\`}},
	}
	for _, tt := range tests {
		got := splitEnvOptions(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("splitEnvOptions(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("splitEnvOptions(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseArgsOutModeFlags(t *testing.T) {
	res, err := ParseArgs("ggrep", []string{"-c", "foo"})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if res.Config.OutMode != scanner.OutCountOnly {
		t.Errorf("OutMode = %v, want OutCountOnly", res.Config.OutMode)
	}
}

func TestDefaultMatcherFromArgv0(t *testing.T) {
	tests := []struct {
		argv0 string
		want  string
	}{
		{"egrep", "extended"},
		{"/usr/bin/fgrep", "fixed"},
		{"FGREP.EXE", "fixed"},
		{"ggrep", ""},
	}
	for _, tt := range tests {
		if got := DefaultMatcherFromArgv0(tt.argv0); got != tt.want {
			t.Errorf("DefaultMatcherFromArgv0(%q) = %q, want %q", tt.argv0, got, tt.want)
		}
	}
}
