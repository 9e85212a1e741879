// Package walker implements directory recursion with ancestor-chain
// loop detection. Enumeration goes through the getdents64 syscall
// directly, driven single-threaded one directory at a time.
package walker

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux dirent64 structure layout:
//
//	struct linux_dirent64 {
//	    ino64_t        d_ino;    /* 64-bit inode number */
//	    off64_t        d_off;    /* 64-bit offset to next structure */
//	    unsigned short d_reclen; /* Size of this dirent */
//	    unsigned char  d_type;   /* File type */
//	    char           d_name[]; /* Filename (null-terminated) */
//	};

// File type constants from dirent.h
const (
	DT_UNKNOWN = 0
	DT_FIFO    = 1
	DT_CHR     = 2
	DT_DIR     = 4
	DT_BLK     = 6
	DT_REG     = 8
	DT_LNK     = 10
	DT_SOCK    = 12
)

// Dirent represents a parsed Linux directory entry.
type Dirent struct {
	Name string
	Type uint8
}

// ParseDirents parses raw getdents64 output into Dirent structs.
// buf must contain the raw bytes returned by unix.Getdents.
// dst is reused to avoid per-call slice allocation; pass nil on first call.
func ParseDirents(buf []byte, n int, dst []Dirent) []Dirent {
	entries := dst[:0]
	offset := 0

	for offset < n {
		if offset+19 > n {
			break
		}

		reclen := *(*uint16)(unsafe.Pointer(&buf[offset+16]))
		dtype := buf[offset+18]

		if reclen == 0 {
			break
		}

		nameStart := offset + 19
		nameEnd := offset + int(reclen)
		if nameEnd > n {
			nameEnd = n
		}

		nameBytes := buf[nameStart:nameEnd]
		nameLen := 0
		for nameLen < len(nameBytes) && nameBytes[nameLen] != 0 {
			nameLen++
		}
		name := string(nameBytes[:nameLen])

		if name != "." && name != ".." {
			entries = append(entries, Dirent{Name: name, Type: dtype})
		}

		offset += int(reclen)
	}

	return entries
}

// enumerateDir returns the child names of path: every entry except "."
// and "..", in the order the kernel's getdents64 buffer returns them.
func enumerateDir(path string) ([]Dirent, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_DIRECTORY, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer unix.Close(fd)

	var all []Dirent
	buf := make([]byte, 32*1024)
	var scratch []Dirent
	for {
		n, err := unix.Getdents(fd, buf)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return nil, fmt.Errorf("getdents %s: %w", path, err)
		}
		if n == 0 {
			break
		}
		scratch = ParseDirents(buf, n, scratch)
		all = append(all, scratch...)
	}
	return all, nil
}
