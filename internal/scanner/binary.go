package scanner

import "bytes"

// looksBinary classifies data, the whole first window of a file (grep.c
// likewise scans the whole first buffer): with a '\n' eol byte, any NUL
// byte marks the input binary; with a '\0' eol byte (--null-data), grep
// instead treats any byte with the high bit set as the binary signal,
// since NUL is now a legitimate record separator.
func looksBinary(data []byte, eol byte) bool {
	window := data

	if eol != 0 {
		return bytes.IndexByte(window, 0) >= 0
	}
	for _, b := range window {
		if b&0x80 != 0 {
			return true
		}
	}
	return false
}
