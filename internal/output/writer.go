package output

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Writer writes formatted output to a file descriptor using writev, a
// scatter-gather primitive that avoids an extra copy per write. There is
// no output-ordering layer here: this program scans one file at a time
// on a single goroutine, so output is never produced out of order.
type Writer struct {
	fd int

	// failed is set once a write error has been reported, so repeated
	// failures on the same descriptor are reported only once per spec
	// §4.3 ("I/O errors on the output stream are reported once but do
	// not abort the scan of remaining files").
	failed bool
}

// NewWriter creates a Writer for the given file descriptor (typically
// os.Stdout.Fd()).
func NewWriter(fd int) *Writer {
	return &Writer{fd: fd}
}

// Write writes data in full, retrying short writev calls. It returns an
// error only the first time a write fails; subsequent calls after a
// failure are no-ops that silently drop their bytes, matching grep.c's
// best-effort ferror(stdout) handling.
func (w *Writer) Write(data []byte) error {
	if w.failed || len(data) == 0 {
		return nil
	}
	for len(data) > 0 {
		n, err := unix.Writev(w.fd, [][]byte{data})
		if err != nil {
			w.failed = true
			return fmt.Errorf("writing output: %w", err)
		}
		data = data[n:]
	}
	return nil
}
