package vquic

import (
	"log"

	"github.com/lapakiosstore/curl/internal/hscan"
)

// Field is one entry of an HTTP/3 request header list. Name and Value
// alias the header block buffer handed to the transcoder; they stay
// valid only while that buffer does. No copies are made.
type Field struct {
	Name  []byte
	Value []byte
}

// authorityIndex is where :authority must sit in the finished list,
// right after the :method/:path/:scheme triad.
const authorityIndex = 3

// maxHeaderAccounting is the soft budget for the summed name+value
// lengths. Exceeding it risks the peer rejecting the stream, so it is
// warned about but the request still proceeds.
const maxHeaderAccounting = 60000

var (
	pseudoMethod    = []byte(":method")
	pseudoPath      = []byte(":path")
	pseudoScheme    = []byte(":scheme")
	pseudoAuthority = []byte(":authority")

	schemeHTTPS = []byte("https")
	schemeHTTP  = []byte("http")
)

// requestHead is the transcoded form of one request header block, plus
// the request-line facts the stream adapter needs to plan the upload.
type requestHead struct {
	fields []Field
	method []byte
	// contentLength is the declared body size, or -1 when no
	// Content-Length header was present.
	contentLength int64
}

// TranscodeHeaderBlock parses a raw CRLF-delimited request header block
// into the ordered pseudo-header list the engine's request API expects.
// secure selects the :scheme value. The returned fields alias block.
func TranscodeHeaderBlock(block []byte, secure bool) ([]Field, error) {
	head, err := transcodeHeaderBlock(block, secure, newSilentLogger())
	if err != nil {
		return nil, err
	}
	return head.fields, nil
}

// transcodeHeaderBlock builds the pseudo-header list. The block must
// hold at least a request line and the terminating blank line; folded
// continuation lines are not supported.
func transcodeHeaderBlock(block []byte, secure bool, lg *log.Logger) (*requestHead, error) {
	lines := hscan.CountLines(block)
	if lines < 2 {
		return nil, &HeaderError{Reason: "fewer than two CRLF-terminated lines"}
	}

	// One extra slot for the synthesized :method/:path/:scheme triad;
	// a host header is renamed in place rather than appended.
	fields := make([]Field, 0, lines+1)

	reqLine, rest, ok := hscan.NextLine(block)
	if !ok {
		return nil, &HeaderError{Reason: "missing request line"}
	}

	// The method never contains spaces; the path may, so it is split
	// off the protocol version by the last space on the line.
	sp := hscan.FirstSpace(reqLine)
	if sp <= 0 {
		return nil, &HeaderError{Reason: "malformed request line"}
	}
	method := reqLine[:sp]
	tail := reqLine[sp+1:]
	last := hscan.LastSpace(tail)
	if last <= 0 {
		return nil, &HeaderError{Reason: "malformed request line"}
	}
	path := tail[:last]

	scheme := schemeHTTP
	if secure {
		scheme = schemeHTTPS
	}
	fields = append(fields,
		Field{Name: pseudoMethod, Value: method},
		Field{Name: pseudoPath, Value: path},
		Field{Name: pseudoScheme, Value: scheme},
	)

	head := &requestHead{method: method, contentLength: -1}

	authorityIdx := 0
	for {
		line, next, ok := hscan.NextLine(rest)
		if !ok {
			return nil, &HeaderError{Reason: "missing terminating blank line"}
		}
		rest = next
		if len(line) == 0 {
			break
		}
		if line[0] == ' ' || line[0] == '\t' {
			return nil, &HeaderError{Reason: "header continuation lines are not supported"}
		}
		name, value, ok := hscan.CutColon(line)
		if !ok || len(name) == 0 {
			return nil, &HeaderError{Reason: "malformed header line"}
		}
		value = hscan.TrimLeadingOWS(value)

		switch {
		case asciiEqualFold(name, "host"):
			authorityIdx = len(fields)
			fields = append(fields, Field{Name: pseudoAuthority, Value: value})
		case asciiEqualFold(name, "content-length"):
			if n, ok := parseInt64Bytes(value); ok {
				head.contentLength = n
			}
			fields = append(fields, Field{Name: name, Value: value})
		default:
			fields = append(fields, Field{Name: name, Value: value})
		}
	}

	// :authority must precede the non-pseudo fields. Rotate it into
	// place so every intervening header shifts by one and keeps its
	// relative order.
	if authorityIdx != 0 && authorityIdx != authorityIndex {
		authority := fields[authorityIdx]
		copy(fields[authorityIndex+1:authorityIdx+1], fields[authorityIndex:authorityIdx])
		fields[authorityIndex] = authority
	}

	acc := 0
	for _, f := range fields {
		acc += len(f.Name) + len(f.Value)
	}
	if acc > maxHeaderAccounting {
		oversizedHeaderBlocks.Inc()
		lg.Printf("vquic: cumulative header length %d exceeds %d bytes, the stream may be rejected", acc, maxHeaderAccounting)
	}

	head.fields = fields
	return head, nil
}

// methodHasBody reports whether the request method carries a payload
// that will arrive on subsequent send calls.
func methodHasBody(method []byte) bool {
	return asciiEqualFold(method, "POST") ||
		asciiEqualFold(method, "PUT") ||
		asciiEqualFold(method, "PATCH")
}

// asciiEqualFold reports whether b equals s under ASCII case-insensitive comparison
func asciiEqualFold(b []byte, s string) bool {
	if len(b) != len(s) {
		return false
	}
	for i := 0; i < len(b); i++ {
		cb := b[i]
		cs := s[i]
		// to lower ASCII
		if 'A' <= cb && cb <= 'Z' {
			cb |= 0x20
		}
		if 'A' <= cs && cs <= 'Z' {
			cs |= 0x20
		}
		if cb != cs {
			return false
		}
	}
	return true
}

// parseInt64Bytes parses a base-10 int64 from ASCII bytes, returning ok=false on error
func parseInt64Bytes(b []byte) (int64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	var n int64
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	return n, true
}
