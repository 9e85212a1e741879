// Package cli turns argv plus environment defaults into a Config, then
// drives the scanner/walker/output stack per file.
package cli

import "github.com/oss-mirror/ggrep/internal/scanner"

// DirPolicy controls what happens when a search target turns out to be
// a directory.
type DirPolicy int

const (
	DirRead DirPolicy = iota // default: treat as an error
	DirSkip
	DirRecurse
)

// ColorMode controls when --color highlighting is applied. grep.c
// itself has no notion of color; kept off the byte-exact default
// output path until the user asks for it.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// Config is the immutable record argument parsing produces.
type Config struct {
	MatcherName string // basic, extended, fixed, perl, default
	Patterns    []byte // -e/-f sources joined with '\n'

	IgnoreCase  bool
	WordMatch   bool
	LineMatch   bool
	InvertMatch bool

	EOLByte  byte
	MaxCount int // -1 = unlimited, 0 = exit immediately without scanning

	BeforeContext int
	AfterContext  int

	OutMode scanner.OutMode

	ShowByteOffset    bool
	ShowLineNumber    bool
	ForceFilenames    bool
	SuppressFilenames bool
	NullAfterFilename bool

	BinaryPolicy scanner.BinaryPolicy
	DirPolicy    DirPolicy

	UseMmap        bool
	SuppressErrors bool // -s/--no-messages

	PreserveCR  bool // -U
	UnixOffsets bool // -u

	Color ColorMode
	Debug bool

	Paths []string
}

// NewConfig returns a Config with grep's own defaults: unlimited max
// count, normal output mode, default matcher, newline eol.
func NewConfig() Config {
	return Config{
		MatcherName: "default",
		EOLByte:     '\n',
		MaxCount:    -1,
		OutMode:     scanner.OutNormal,
		UseMmap:     true,
		Color:       ColorNever,
	}
}
