//go:build linux

package pagebuf

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mmapFixed maps length bytes of fd at the given file offset directly onto
// addr, which must already lie inside an existing mapping obtained from
// this package's own anonymous allocate call. The x/sys/unix Mmap wrapper
// has no way to request a caller-chosen address, so this goes straight to
// the raw syscall instead.
func mmapFixed(addr uintptr, length int, fd int, offset int64) error {
	_, _, errno := unix.Syscall6(
		unix.SYS_MMAP,
		addr,
		uintptr(length),
		uintptr(unix.PROT_READ|unix.PROT_WRITE),
		uintptr(unix.MAP_PRIVATE|unix.MAP_FIXED),
		uintptr(fd),
		uintptr(offset),
	)
	if errno != 0 {
		return fmt.Errorf("mmap MAP_FIXED: %w", errno)
	}
	return nil
}
