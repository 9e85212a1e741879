// Package pagebuf implements the page-aligned sliding-window buffer that
// feeds the scanner. It mirrors the buffer management in GNU grep's
// reset()/fillbuf(): a single allocation is reused across files, the save
// region (front of the buffer reserved for retained context) grows to fit
// whatever residue or context window the scanner asks it to keep, and a
// fresh read either lands directly via mmap or falls back to read(2).
//
// The backing array itself is obtained from an anonymous mmap rather than
// make([]byte, ...): a Go-heap slice can't be safely handed to a later
// MAP_FIXED call (the GC doesn't know about kernel page mappings layered
// over heap memory), but an mmap'd region is ordinary address space the
// kernel already owns, so remapping file-backed pages directly into the
// middle of it is the same trick grep.c relies on.
package pagebuf

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// preferredSaveFactor is the ratio between the total buffer size and the
// save region reserved at its front. Fixed policy, not a tunable.
const preferredSaveFactor = 5

// minSaveRegion is the minimum save region size before page alignment,
// matching grep.c's MAX(8192, pagesize).
const minSaveRegion = 8192

// Buffer is a page-aligned, growable read window reused across files in
// one process. The zero value is not usable; call NewBuffer.
type Buffer struct {
	pageSize int

	saveRegionSize int // bufsalloc
	totalSize      int // bufalloc, excludes the reserved sentinel byte

	base []byte // anonymous mmap backing storage, length totalSize+1

	begin int // bufbeg, offset into base
	end   int // buflim, offset into base

	fd         int
	isRegular  bool
	fileSize   int64 // stat size for regular files, used to cap growth
	fileOffset int64 // bufoffset; meaningful only for regular files

	useMmap       bool
	mmapped       bool // true if the current fill used mmap
	initialOffset int64

	dosTranslate bool // strip trailing \r before \n on refill (-U controls this)
}

// NewBuffer creates a Buffer. The underlying allocation is made lazily on
// the first Reset call, matching grep.c's "discover pagesize on first use"
// behavior.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Begin and End expose the visible window [Begin():End()) into Bytes().
func (b *Buffer) Begin() int { return b.begin }
func (b *Buffer) End() int   { return b.end }

// Bytes returns the full backing array; callers index it with Begin/End.
func (b *Buffer) Bytes() []byte { return b.base }

// Window returns the currently visible slice, base[begin:end).
func (b *Buffer) Window() []byte { return b.base[b.begin:b.end] }

// SetDOSTranslate enables or disables CR-before-LF stripping on refill.
// Stripping only ever actually runs where hasDOSFileContents is true;
// on this Linux build requesting it is a silent no-op, matching
// grep.c's own `#if HAVE_DOS_FILE_CONTENTS` guard around
// undossify_input.
func (b *Buffer) SetDOSTranslate(on bool) { b.dosTranslate = on && hasDOSFileContents }

// Close releases the backing allocation. Safe to call once at process
// exit; the Buffer must not be reused afterward.
func (b *Buffer) Close() error {
	if b.base == nil {
		return nil
	}
	err := unix.Munmap(b.base)
	b.base = nil
	return err
}

// Reset prepares the buffer for a new file. fd is the open descriptor;
// isRegular and fileSize come from an fstat the caller has already
// performed. initialOffset is the descriptor's current seek position —
// 0 when the driver itself opened the path, or the current stdin offset
// when resuming a regular file opened by someone else.
func (b *Buffer) Reset(fd int, isRegular bool, fileSize int64, initialOffset int64, useMmap bool) error {
	if b.pageSize == 0 {
		b.pageSize = unix.Getpagesize()
		if b.pageSize <= 0 {
			return errors.New("pagebuf: could not determine page size")
		}
		saveRegion := alignUp(minSaveRegion, b.pageSize)
		if err := b.allocate(preferredSaveFactor * saveRegion); err != nil {
			return err
		}
		b.saveRegionSize = saveRegion
	} else {
		b.saveRegionSize = alignUp(b.totalSize/preferredSaveFactor, b.pageSize)
	}

	b.fd = fd
	b.isRegular = isRegular
	b.fileSize = fileSize
	b.begin, b.end = 0, 0

	if isRegular {
		b.fileOffset = initialOffset
		b.initialOffset = initialOffset
		b.useMmap = useMmap && initialOffset%int64(b.pageSize) == 0
	} else {
		b.fileOffset = 0
		b.useMmap = false
	}
	b.mmapped = false
	return nil
}

// FileOffset returns the offset at which the next raw read will occur.
// Only meaningful for regular files.
func (b *Buffer) FileOffset() int64 { return b.fileOffset }

// Mmapped reports whether the most recent Fill used mmap.
func (b *Buffer) Mmapped() bool { return b.mmapped }

// allocate replaces base with a fresh anonymous mapping of size+1 bytes
// (the extra byte is the sentinel EOL slot), preserving no content — callers
// that need to keep retained bytes copy them in after allocate returns.
func (b *Buffer) allocate(size int) error {
	region, err := unix.Mmap(-1, 0, size+1, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return fmt.Errorf("pagebuf: anonymous mmap of %d bytes: %w", size, err)
	}
	b.base = region
	b.totalSize = size
	return nil
}

// Fill retains the last save bytes of the current window at the front of
// the buffer and reads fresh data after them. On return, Begin() points
// to the start of the retained region and End() points one past the
// freshly read data. Returns false (with err set) on I/O error.
func (b *Buffer) Fill(save int) (bool, error) {
	if b.saveRegionSize < save {
		if err := b.grow(save); err != nil {
			return false, err
		}
	}

	newBegin := b.saveRegionSize - save
	if save > 0 {
		copy(b.base[newBegin:newBegin+save], b.base[b.end-save:b.end])
	}
	b.begin = newBegin
	b.end = newBegin + save

	readSize := b.totalSize - b.saveRegionSize
	n, mmapped, err := b.fillRemainder(readSize)
	if err != nil {
		return false, err
	}
	b.mmapped = mmapped

	if b.dosTranslate && n > 0 {
		n = undossify(b.base[b.end : b.end+n])
	}

	b.fileOffset += int64(n)
	b.end += n
	return true, nil
}

// grow expands the save region (and, proportionally, the total buffer) to
// accommodate at least `save` bytes of retained context, following
// grep.c's fillbuf growth policy: double until it fits, cap total size at
// (aligned save + aligned remaining file size + one page) for regular
// files so a single huge line doesn't balloon the allocation past the
// file's own size.
func (b *Buffer) grow(save int) error {
	alignedSave := alignUp(save, b.pageSize)

	maxAlloc := int(^uint(0) >> 1) // no cap for non-regular files
	if b.isRegular {
		toRead := b.fileSize - b.fileOffset
		if toRead < 0 {
			toRead = 0
		}
		alignedToRead := alignUp64(toRead, int64(b.pageSize))
		cap64 := int64(alignedSave) + alignedToRead + int64(b.pageSize)
		if cap64 > 0 && cap64 == int64(int(cap64)) {
			maxAlloc = int(cap64)
		}
	}

	newSave := b.saveRegionSize
	for newSave < save {
		if newSave < newSave*2 {
			newSave *= 2
		} else {
			newSave = alignedSave
			break
		}
	}

	newTotal := preferredSaveFactor * newSave
	if maxAlloc < newTotal {
		newTotal = maxAlloc
		newSave = alignedSave
	}

	if newSave < save || newTotal < save {
		return fmt.Errorf("pagebuf: buffer growth could not satisfy save region of %d bytes", save)
	}

	if newTotal > b.totalSize {
		old := b.base
		oldEnd := b.end
		if err := b.allocate(newTotal); err != nil {
			return err
		}
		copy(b.base, old[:oldEnd])
		unix.Munmap(old)
	}
	b.saveRegionSize = newSave
	return nil
}

// fillRemainder attempts mmap first (if eligible), falling back to a
// read(2) loop that retries on EINTR. Returns bytes obtained.
func (b *Buffer) fillRemainder(readSize int) (int, bool, error) {
	if b.useMmap {
		n, ok := b.tryMmap(readSize)
		if ok {
			return n, true, nil
		}
		// mmap failed or returned short: disable it for this file and
		// resynchronize the descriptor if it has drifted. mmap failure
		// is advisory, not fatal — some hosts refuse it merely because
		// another process holds an advisory lock on the file.
		b.useMmap = false
		if b.fileOffset != b.initialOffset {
			if _, err := unix.Seek(b.fd, b.fileOffset, unix.SEEK_SET); err != nil {
				return 0, false, fmt.Errorf("lseek: %w", err)
			}
		}
	}
	n, err := b.readLoop(readSize)
	if err != nil {
		return 0, false, err
	}
	return n, false, nil
}

// tryMmap maps the remainder of the file directly at base[saveRegionSize:],
// truncated so it neither crosses the file end nor exceeds a page
// multiple. Returns ok=false (no error) on any mmap failure.
func (b *Buffer) tryMmap(readSize int) (int, bool) {
	mmapSize := readSize
	if b.isRegular {
		remaining := b.fileSize - b.fileOffset
		if remaining < int64(mmapSize) {
			mmapSize = int(remaining)
			mmapSize -= mmapSize % b.pageSize
		}
	}
	if mmapSize <= 0 {
		return 0, false
	}

	addr := uintptr(unsafe.Pointer(&b.base[b.saveRegionSize]))
	err := mmapFixed(addr, mmapSize, b.fd, b.fileOffset)
	if err != nil {
		return 0, false
	}
	return mmapSize, true
}

// readLoop performs a retrying read(2) into base[end:end+readSize].
func (b *Buffer) readLoop(readSize int) (int, error) {
	total := 0
	for total < readSize {
		n, err := unix.Read(b.fd, b.base[b.end+total:b.end+readSize])
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return total, fmt.Errorf("read: %w", err)
		}
		if n == 0 {
			break // EOF
		}
		total += n
	}
	return total, nil
}

// SentinelEOL appends a single eol byte after End() to synthesize a final
// complete line out of trailing residue. The buffer always reserves one
// byte past totalSize for exactly this purpose.
func (b *Buffer) SentinelEOL(eol byte) {
	b.base[b.end] = eol
	b.end++
}

func alignUp(v, alignment int) int {
	if v%alignment == 0 {
		return v
	}
	return v + (alignment - v%alignment)
}

func alignUp64(v, alignment int64) int64 {
	if v%alignment == 0 {
		return v
	}
	return v + (alignment - v%alignment)
}
