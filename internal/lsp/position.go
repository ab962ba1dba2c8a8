package lsp

import "unicode/utf16"

// LSP positions count UTF-16 code units, not bytes.

// utf16Len returns the length of s in UTF-16 code units.
func utf16Len(s string) uint32 {
	var n uint32
	for _, r := range s {
		n += uint32(utf16.RuneLen(r))
	}
	return n
}

// byteOffset converts a UTF-16 character offset on line into a byte offset,
// clamped to the length of the line.
func byteOffset(line string, character uint32) int {
	var n uint32
	for i, r := range line {
		if n >= character {
			return i
		}
		n += uint32(utf16.RuneLen(r))
	}
	return len(line)
}
