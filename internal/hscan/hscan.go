// Package hscan provides bounds-checked scanning helpers for CRLF-delimited
// HTTP header blocks.
package hscan

import "bytes"

var crlf = []byte("\r\n")

// CountLines returns the number of CRLF-terminated lines in b.
func CountLines(b []byte) int {
	n := 0
	for {
		i := bytes.Index(b, crlf)
		if i == -1 {
			return n
		}
		n++
		b = b[i+2:]
	}
}

// NextLine splits b at the first CRLF. line excludes the terminator and
// rest starts just past it. ok is false when b holds no complete line.
func NextLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.Index(b, crlf)
	if i == -1 {
		return nil, b, false
	}
	return b[:i], b[i+2:], true
}

// FirstSpace returns the index of the first space in b, or -1.
func FirstSpace(b []byte) int {
	return bytes.IndexByte(b, ' ')
}

// LastSpace returns the index of the last space in b, or -1.
func LastSpace(b []byte) int {
	return bytes.LastIndexByte(b, ' ')
}

// CutColon splits a header line around the first colon. ok is false when
// the line has no colon.
func CutColon(line []byte) (name, value []byte, ok bool) {
	i := bytes.IndexByte(line, ':')
	if i == -1 {
		return nil, nil, false
	}
	return line[:i], line[i+1:], true
}

// TrimLeadingOWS drops leading spaces and horizontal tabs.
func TrimLeadingOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}
	return b
}
