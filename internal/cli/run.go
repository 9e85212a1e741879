package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/oss-mirror/ggrep/internal/matcher"
	"github.com/oss-mirror/ggrep/internal/output"
	"github.com/oss-mirror/ggrep/internal/pagebuf"
	"github.com/oss-mirror/ggrep/internal/scanner"
	"github.com/oss-mirror/ggrep/internal/walker"
)

const (
	progName    = "ggrep"
	versionText = progName + " (ggrep) 1.0\n"
)

// Run parses argv, builds the matcher/formatter/buffer stack once, and
// drives every input path through it. It returns the process exit
// status; the caller (cmd/ggrep) is responsible for calling os.Exit
// with it.
func Run(argv []string) int {
	argv0 := "ggrep"
	if len(argv) > 0 {
		argv0 = argv[0]
	}
	var rest []string
	if len(argv) > 1 {
		rest = argv[1:]
	}

	res, err := ParseArgs(argv0, rest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err)
		fmt.Fprint(os.Stderr, usageText())
		return 2
	}
	cfg := res.Config

	if res.ShowHelp {
		fmt.Fprint(os.Stdout, usageText())
		return 0
	}
	if res.ShowVersion {
		fmt.Fprint(os.Stdout, versionText)
		return 0
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	if cfg.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	patterns, err := resolvePatterns(res, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err)
		return 2
	}
	cfg.Patterns = patterns

	if cfg.MaxCount == 0 {
		return 1 // -m 0: exit without scanning
	}

	m, err := matcher.Compile(cfg.MatcherName, cfg.Patterns, matcher.Options{
		IgnoreCase: cfg.IgnoreCase,
		WordMatch:  cfg.WordMatch,
		LineMatch:  cfg.LineMatch,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", progName, err)
		return 2
	}
	if closer, ok := m.(matcher.Closer); ok {
		defer closer.Close()
	}

	reporter := NewReporter(os.Stderr, progName, cfg.SuppressErrors)

	useColor := cfg.Color == ColorAlways || (cfg.Color == ColorAuto && output.StdoutIsTerminal())
	var styles *output.Styles
	if useColor {
		styles = output.NewStyles()
	}
	fmtr := output.NewTextFormatter(styles)
	writer := output.NewWriter(int(os.Stdout.Fd()))

	buf := pagebuf.NewBuffer()
	defer buf.Close()
	buf.SetDOSTranslate(!cfg.PreserveCR)

	sc := scanner.New(buf, m, fmtr, writer, scannerOptions(cfg))

	multiFile := len(cfg.Paths) > 1 || cfg.ForceFilenames
	if cfg.SuppressFilenames {
		multiFile = false
	}

	run := &runner{
		cfg:       cfg,
		scanner:   sc,
		reporter:  reporter,
		multiFile: multiFile,
		logger:    logger,
		earlyExit: cfg.OutMode == scanner.OutQuiet || cfg.OutMode == scanner.OutListMatching || cfg.OutMode == scanner.OutListNonMatching || cfg.OutMode == scanner.OutCountOnly,
	}

	status := walker.StatusNoMatch
	if len(cfg.Paths) == 0 {
		status = run.scanPath("", nil)
	} else {
		for _, p := range cfg.Paths {
			status = walker.Status(combineExit(int(status), int(run.scanPath(p, nil))))
			if cfg.OutMode == scanner.OutQuiet && status == walker.StatusMatch {
				break
			}
		}
	}

	if reporter.ErrSeen || status == walker.StatusError {
		return 2
	}
	if status == walker.StatusMatch {
		return 0
	}
	return 1
}

// runner threads the shared, process-lifetime collaborators through
// every file and directory visited during one Run.
type runner struct {
	cfg       Config
	scanner   *scanner.Scanner
	reporter  *Reporter
	multiFile bool
	logger    *log.Logger
	earlyExit bool
}

// scanPath opens and classifies one path, then either scans it as a
// file or hands it to the directory walker. frame is the ancestry of
// path's parent directory, nil at the top level.
func (r *runner) scanPath(path string, frame *walker.Ancestry) walker.Status {
	display := path
	if display == "" {
		display = "(standard input)"
	}

	or, err := openInput(path)
	if err != nil {
		r.reporter.Error(display, err)
		return walker.StatusError
	}

	if or.isDir {
		switch r.cfg.DirPolicy {
		case DirSkip:
			unix.Close(or.fd)
			return walker.StatusNoMatch
		case DirRecurse:
			unix.Close(or.fd)
			return r.walkDir(path, or.device, or.inode, frame)
		default: // DirRead
			unix.Close(or.fd)
			r.reporter.Error(display, fmt.Errorf("Is a directory"))
			return walker.StatusError
		}
	}

	defer unix.Close(or.fd)

	showName := r.multiFile && !r.cfg.SuppressFilenames
	opts := r.scanner.OptionsRef()
	opts.ShowFilename = showName
	useMmap := r.cfg.UseMmap

	result, err := r.scanner.ScanFile(or.fd, display, or.isRegular, or.fileSize, or.initialOffset, useMmap)
	if err != nil {
		r.reporter.Error(display, err)
		return walker.StatusError
	}

	if (path == "" || path == "-") && or.isRegular {
		if err := repositionStdin(or.fd, result.FinalOffset, result.AfterLastMatch, r.earlyExit); err != nil {
			r.reporter.Error(display, err)
		}
	}

	if r.cfg.OutMode == scanner.OutQuiet && result.Matched {
		return walker.StatusMatch
	}
	if result.Matched {
		return walker.StatusMatch
	}
	return walker.StatusNoMatch
}

// walkDir wires walker.Walker into scanPath: filename display is forced
// on during recursion, unless explicitly suppressed.
func (r *runner) walkDir(path string, device, inode uint64, frame *walker.Ancestry) walker.Status {
	savedMulti := r.multiFile
	if !r.cfg.SuppressFilenames {
		r.multiFile = true
	}
	defer func() { r.multiFile = savedMulti }()

	w := &walker.Walker{
		Warn: func(p string) { r.reporter.Warn(p) },
	}
	w.Visit = func(childPath string, dirFrame *walker.Ancestry) walker.Status {
		return r.scanPath(childPath, dirFrame)
	}
	return w.Walk(path, device, inode, frame)
}

// resolvePatterns concatenates -e and -f sources with '\n', falling
// back to the positional pattern argument when neither was given.
func resolvePatterns(res ParseResult, logger *log.Logger) ([]byte, error) {
	var parts [][]byte
	for _, p := range res.PatternArgs {
		parts = append(parts, []byte(p))
	}
	for _, f := range res.FileArgs {
		data, err := readPatternFile(f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, data)
	}
	if len(parts) == 0 {
		if !res.HasPositional {
			return nil, fmt.Errorf("no pattern specified")
		}
		parts = append(parts, []byte(res.Positional))
	}
	logger.Debug("resolved patterns", "count", len(parts))
	return bytes.Join(parts, []byte("\n")), nil
}

func readPatternFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bytes.TrimSuffix(data, []byte("\n")), nil
}

func scannerOptions(cfg Config) scanner.Options {
	return scanner.Options{
		EOLByte:        cfg.EOLByte,
		Invert:         cfg.InvertMatch,
		MaxCount:       cfg.MaxCount,
		BeforeContext:  cfg.BeforeContext,
		AfterContext:   cfg.AfterContext,
		ShowByteOffset: cfg.ShowByteOffset,
		ShowLineNumber: cfg.ShowLineNumber,
		NullFilename:   cfg.NullAfterFilename,
		OutMode:        cfg.OutMode,
		BinaryPolicy:   cfg.BinaryPolicy,
		StopOnFirst:    cfg.OutMode == scanner.OutListMatching || cfg.OutMode == scanner.OutListNonMatching || cfg.OutMode == scanner.OutQuiet,
		ExitOnMatch:    cfg.OutMode == scanner.OutQuiet,
	}
}

// combineExit folds per-path exit-status numbers the same way
// directory-walk statuses combine: error beats everything, match beats
// no-match.
func combineExit(running, child int) int {
	if running == int(walker.StatusError) || child == int(walker.StatusError) {
		return int(walker.StatusError)
	}
	if running == int(walker.StatusMatch) || child == int(walker.StatusMatch) {
		return int(walker.StatusMatch)
	}
	return int(walker.StatusNoMatch)
}

func usageText() string {
	return `Usage: ggrep [OPTION]... PATTERN [FILE]...
Search for PATTERN in each FILE or standard input.

  -E, --extended-regexp     PATTERN is an extended regular expression
  -F, --fixed-strings       PATTERN is a set of newline-separated strings
  -G, --basic-regexp        PATTERN is a basic regular expression
  -P, --perl-regexp         PATTERN is a Perl-compatible regular expression
  -e, --regexp=PATTERN      use PATTERN for matching
  -f, --file=FILE           take PATTERN from FILE
  -i, --ignore-case         ignore case distinctions
  -w, --word-regexp         match only whole words
  -x, --line-regexp         match only whole lines
  -z, --null-data           lines are NUL-separated
  -v, --invert-match        select non-matching lines
  -m, --max-count=NUM       stop after NUM matches
  -b, --byte-offset         print byte offset of each line
  -n, --line-number         print line number of each line
  -H, --with-filename       print filename for each match
  -h, --no-filename         suppress filename prefix
  -q, --quiet, --silent     suppress output, exit on first match
  -r, --recursive           search directories recursively
  -d, --directories=WHEN    read|skip|recurse on directories
  -l, --files-with-matches  print only filenames with matches
  -L, --files-without-match print only filenames without matches
  -c, --count               print only a count of matching lines
  -Z, --null                print NUL after filename
  -A NUM                    print NUM lines of trailing context
  -B NUM                    print NUM lines of leading context
  -C NUM                    print NUM lines of context
  -U, --binary              do not strip CR characters
  -u, --unix-byte-offsets   report offsets as if CRs were not stripped
  -s, --no-messages         suppress error messages
  -V, --version             print version information
      --help                display this help
`
}
