package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oss-mirror/ggrep/internal/scanner"
)

// ParseResult carries everything ParseArgs produces beyond the Config
// itself: the patterns/files sources (so the caller can read -f files
// and resolve the positional pattern), and the early-exit requests
// --help/--version make.
type ParseResult struct {
	Config        Config
	PatternArgs   []string // from -e
	FileArgs      []string // from -f
	Positional    string   // the positional PATTERN, if no -e/-f given
	HasPositional bool
	ShowHelp      bool
	ShowVersion   bool
}

// ParseArgs prepends GREP_OPTIONS and .ggreprc tokens, then walks the
// combined argument vector applying grep's flag grammar. argv0 is the
// invocation name, used for egrep/fgrep defaulting; args is argv[1:].
func ParseArgs(argv0 string, args []string) (ParseResult, error) {
	combined := append(append(splitEnvOptions(os.Getenv("GREP_OPTIONS")), LoadConfigArgs()...), args...)

	cfg := NewConfig()
	if def := DefaultMatcherFromArgv0(argv0); def != "" {
		cfg.MatcherName = def
	}

	res := ParseResult{Config: cfg}
	matcherExplicit := false

	setMatcher := func(name string) error {
		if matcherExplicit && res.Config.MatcherName != name {
			return fmt.Errorf("conflicting matchers specified")
		}
		res.Config.MatcherName = name
		matcherExplicit = true
		return nil
	}

	digitValue := 0
	digitActive := false
	applyDigits := func() error {
		if !digitActive {
			return nil
		}
		if digitValue > 1_000_000_000 {
			return fmt.Errorf("invalid context length argument")
		}
		res.Config.BeforeContext = digitValue
		res.Config.AfterContext = digitValue
		digitActive = false
		digitValue = 0
		return nil
	}

	var positionals []string

	onlyPositional := false
	i := 0
	for i < len(combined) {
		arg := combined[i]

		if onlyPositional || arg == "-" || !strings.HasPrefix(arg, "-") || arg == "" {
			if err := applyDigits(); err != nil {
				return res, err
			}
			positionals = append(positionals, arg)
			i++
			continue
		}

		if arg == "--" {
			onlyPositional = true
			i++
			continue
		}

		if strings.HasPrefix(arg, "--") {
			if err := applyDigits(); err != nil {
				return res, err
			}
			consumed, err := parseLongOption(arg, combined, i, &res, setMatcher)
			if err != nil {
				return res, err
			}
			i += consumed
			continue
		}

		// Short option cluster: "-rn3" etc. Only the last flag in a
		// cluster may consume a following argv entry as its value.
		rest := arg[1:]
		for len(rest) > 0 {
			c := rest[0]
			rest = rest[1:]

			if c >= '0' && c <= '9' {
				digitActive = true
				digitValue = digitValue*10 + int(c-'0')
				continue
			}
			if err := applyDigits(); err != nil {
				return res, err
			}

			takesValue, needsInlineOrNext := shortOptionArity(c)
			var value string
			haveValue := false
			if takesValue {
				if len(rest) > 0 {
					value, haveValue = rest, true
					rest = ""
				} else if needsInlineOrNext {
					i++
					if i >= len(combined) {
						return res, fmt.Errorf("option requires an argument -- '%c'", c)
					}
					value, haveValue = combined[i], true
				}
			}
			if err := applyShortOption(c, value, haveValue, &res, setMatcher); err != nil {
				return res, err
			}
		}
		i++
	}
	if err := applyDigits(); err != nil {
		return res, err
	}

	if len(res.PatternArgs) == 0 && len(res.FileArgs) == 0 && len(positionals) > 0 {
		res.Positional = positionals[0]
		res.HasPositional = true
		positionals = positionals[1:]
	}
	res.Config.Paths = positionals

	return res, nil
}

// shortOptionArity reports whether short flag c takes a value, and
// whether that value may come from the next argv entry when none is
// bundled inline (all of grep's value-taking short flags do).
func shortOptionArity(c byte) (takesValue, next bool) {
	switch c {
	case 'e', 'f', 'm', 'A', 'B', 'C', 'd', 'X':
		return true, true
	default:
		return false, false
	}
}

func applyShortOption(c byte, value string, haveValue bool, res *ParseResult, setMatcher func(string) error) error {
	cfg := &res.Config
	switch c {
	case 'E':
		return setMatcher("extended")
	case 'F':
		return setMatcher("fixed")
	case 'G':
		return setMatcher("basic")
	case 'P':
		return setMatcher("perl")
	case 'X':
		return setMatcher(value)
	case 'e':
		res.PatternArgs = append(res.PatternArgs, value)
	case 'f':
		res.FileArgs = append(res.FileArgs, value)
	case 'i', 'y':
		cfg.IgnoreCase = true
	case 'w':
		cfg.WordMatch = true
	case 'x':
		cfg.LineMatch = true
	case 'z':
		cfg.EOLByte = 0
	case 'm':
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid max-count argument %q", value)
		}
		cfg.MaxCount = n
	case 'b':
		cfg.ShowByteOffset = true
	case 'n':
		cfg.ShowLineNumber = true
	case 'H':
		cfg.ForceFilenames = true
	case 'h':
		cfg.SuppressFilenames = true
	case 'q':
		cfg.OutMode = scanner.OutQuiet
	case 'a':
		cfg.BinaryPolicy = scanner.BinaryAsText
	case 'I':
		cfg.BinaryPolicy = scanner.BinaryWithoutMatch
	case 'd':
		dp, err := parseDirPolicy(value)
		if err != nil {
			return err
		}
		cfg.DirPolicy = dp
	case 'r':
		cfg.DirPolicy = DirRecurse
	case 'L':
		cfg.OutMode = scanner.OutListNonMatching
	case 'l':
		cfg.OutMode = scanner.OutListMatching
	case 'c':
		cfg.OutMode = scanner.OutCountOnly
	case 'Z':
		cfg.NullAfterFilename = true
	case 'A':
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid context length argument")
		}
		cfg.AfterContext = n
	case 'B':
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid context length argument")
		}
		cfg.BeforeContext = n
	case 'C':
		n := 2
		if haveValue {
			var err error
			n, err = strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid context length argument")
			}
		}
		cfg.BeforeContext = n
		cfg.AfterContext = n
	case 'U':
		cfg.PreserveCR = true
	case 'u':
		cfg.UnixOffsets = true
	case 's':
		cfg.SuppressErrors = true
	case 'v':
		cfg.InvertMatch = true
	case 'V':
		res.ShowVersion = true
	default:
		return fmt.Errorf("unknown option -- '%c'", c)
	}
	return nil
}

func parseLongOption(arg string, combined []string, i int, res *ParseResult, setMatcher func(string) error) (consumed int, err error) {
	cfg := &res.Config
	name := arg[2:]
	value := ""
	haveValue := false
	if eq := strings.IndexByte(name, '='); eq >= 0 {
		value = name[eq+1:]
		name = name[:eq]
		haveValue = true
	}

	needValue := func() (string, error) {
		if haveValue {
			return value, nil
		}
		if i+1 >= len(combined) {
			return "", fmt.Errorf("option '--%s' requires an argument", name)
		}
		consumed++
		return combined[i+1], nil
	}

	consumed = 1
	switch name {
	case "extended-regexp":
		return consumed, setMatcher("extended")
	case "fixed-strings":
		return consumed, setMatcher("fixed")
	case "basic-regexp":
		return consumed, setMatcher("basic")
	case "perl-regexp":
		return consumed, setMatcher("perl")
	case "regexp":
		v, err := needValue()
		if err != nil {
			return consumed, err
		}
		res.PatternArgs = append(res.PatternArgs, v)
	case "file":
		v, err := needValue()
		if err != nil {
			return consumed, err
		}
		res.FileArgs = append(res.FileArgs, v)
	case "ignore-case":
		cfg.IgnoreCase = true
	case "word-regexp":
		cfg.WordMatch = true
	case "line-regexp":
		cfg.LineMatch = true
	case "null-data":
		cfg.EOLByte = 0
	case "max-count":
		v, err := needValue()
		if err != nil {
			return consumed, err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return consumed, fmt.Errorf("invalid max-count argument %q", v)
		}
		cfg.MaxCount = n
	case "byte-offset":
		cfg.ShowByteOffset = true
	case "line-number":
		cfg.ShowLineNumber = true
	case "with-filename":
		cfg.ForceFilenames = true
	case "no-filename":
		cfg.SuppressFilenames = true
	case "quiet", "silent":
		cfg.OutMode = scanner.OutQuiet
	case "binary-files":
		v, err := needValue()
		if err != nil {
			return consumed, err
		}
		switch v {
		case "binary":
			cfg.BinaryPolicy = scanner.BinaryReport
		case "text":
			cfg.BinaryPolicy = scanner.BinaryAsText
		case "without-match":
			cfg.BinaryPolicy = scanner.BinaryWithoutMatch
		default:
			return consumed, fmt.Errorf("unknown binary-files value %q", v)
		}
	case "directories":
		v, err := needValue()
		if err != nil {
			return consumed, err
		}
		dp, err := parseDirPolicy(v)
		if err != nil {
			return consumed, err
		}
		cfg.DirPolicy = dp
	case "recursive":
		cfg.DirPolicy = DirRecurse
	case "files-without-match":
		cfg.OutMode = scanner.OutListNonMatching
	case "files-with-matches":
		cfg.OutMode = scanner.OutListMatching
	case "count":
		cfg.OutMode = scanner.OutCountOnly
	case "null":
		cfg.NullAfterFilename = true
	case "binary":
		cfg.PreserveCR = true
	case "unix-byte-offsets":
		cfg.UnixOffsets = true
	case "no-messages":
		cfg.SuppressErrors = true
	case "invert-match":
		cfg.InvertMatch = true
	case "mmap":
		cfg.UseMmap = true
	case "debug":
		cfg.Debug = true
	case "color", "colour":
		v := "auto"
		if haveValue {
			v = value
		}
		switch v {
		case "always":
			cfg.Color = ColorAlways
		case "never":
			cfg.Color = ColorNever
		default:
			cfg.Color = ColorAuto
		}
	case "version":
		res.ShowVersion = true
	case "help":
		res.ShowHelp = true
	default:
		return consumed, fmt.Errorf("unknown option '--%s'", name)
	}
	return consumed, nil
}

func parseDirPolicy(v string) (DirPolicy, error) {
	switch v {
	case "read":
		return DirRead, nil
	case "skip":
		return DirSkip, nil
	case "recurse":
		return DirRecurse, nil
	default:
		return DirRead, fmt.Errorf("unknown directories value %q", v)
	}
}

// splitEnvOptions splits a GREP_OPTIONS-style string on whitespace,
// honoring backslash escapes of whitespace and backslash itself.
func splitEnvOptions(s string) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	var cur strings.Builder
	inToken := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			next := s[i+1]
			if next == ' ' || next == '\t' || next == '\\' {
				cur.WriteByte(next)
				inToken = true
				i++
				continue
			}
		}
		if c == ' ' || c == '\t' {
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
			continue
		}
		cur.WriteByte(c)
		inToken = true
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
