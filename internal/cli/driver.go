package cli

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// openResult is what opening one input produces: an open descriptor
// plus enough stat information for the Scanner and PageBuffer to
// classify it.
type openResult struct {
	fd            int
	isRegular     bool
	isDir         bool
	fileSize      int64
	initialOffset int64
	device, inode uint64
}

// openInput opens path (the literal string "-" or "" means standard
// input) with EINTR retry, matching grep.c's grepfile/grepdesc split.
func openInput(path string) (openResult, error) {
	if path == "" || path == "-" {
		return statDescriptor(unix.Stdin)
	}

	var fd int
	for {
		f, err := unix.Open(path, unix.O_RDONLY, 0)
		if err == nil {
			fd = f
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return openResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := statDescriptor(fd)
	if err != nil {
		unix.Close(fd)
		return openResult{}, err
	}
	return r, nil
}

func statDescriptor(fd int) (openResult, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return openResult{}, fmt.Errorf("fstat: %w", err)
	}
	off, err := unix.Seek(fd, 0, unix.SEEK_CUR)
	if err != nil {
		off = 0 // not seekable (pipe, terminal) — treated as offset 0
	}
	return openResult{
		fd:            fd,
		isRegular:     st.Mode&unix.S_IFMT == unix.S_IFREG,
		isDir:         st.Mode&unix.S_IFMT == unix.S_IFDIR,
		fileSize:      st.Size,
		initialOffset: off,
		device:        uint64(st.Dev),
		inode:         st.Ino,
	}, nil
}

// repositionStdin implements the supplemented stdin-reposition feature,
// modelled on the lseek at the tail of grep.c's grepfile. The target is
// chosen by out mode rather than by remaining max count: earlyExit is
// true for the quiet, list and count modes, which seek to
// afterLastMatch; every other mode seeks to finalOffset, the offset
// just past the last buffer read (EOF unless -m stopped the scan).
func repositionStdin(fd int, finalOffset, afterLastMatch int64, earlyExit bool) error {
	target := finalOffset
	if earlyExit {
		target = afterLastMatch
	}
	if _, err := unix.Seek(fd, target, unix.SEEK_SET); err != nil {
		return fmt.Errorf("lseek: %w", err)
	}
	return nil
}
