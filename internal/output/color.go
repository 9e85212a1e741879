package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"
)

// Styles holds the lipgloss styles used by --color. Left unused (nil
// TextFormatter.Styles) by default so the byte-exact output path never pays
// for it — plain output must match grep's own output byte-for-byte.
type Styles struct {
	Filename lipgloss.Style
	LineNum  lipgloss.Style
	Match    lipgloss.Style
}

// NewStyles returns the default --color palette (magenta filenames,
// green line numbers, bold red matches) expressed through lipgloss
// instead of raw escape codes.
func NewStyles() *Styles {
	return &Styles{
		Filename: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		LineNum:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Match:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// IsTerminal checks if the given file descriptor is a terminal via ioctl,
// used for --color auto-detection.
func IsTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}

// StdoutIsTerminal returns true if stdout is a terminal.
func StdoutIsTerminal() bool {
	return IsTerminal(os.Stdout.Fd())
}
