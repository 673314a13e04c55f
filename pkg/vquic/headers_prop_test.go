package vquic

import (
	"fmt"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// buildBlock assembles a request header block with n generic headers
// and, when hostPos >= 0, a Host header inserted at that position.
func buildBlock(n, hostPos int) string {
	var b strings.Builder
	b.WriteString("GET /prop HTTP/1.1\r\n")
	pos := 0
	for i := 0; i < n; i++ {
		if pos == hostPos {
			b.WriteString("Host: example.com\r\n")
			pos++
		}
		fmt.Fprintf(&b, "X-H%d: v%d\r\n", i, i)
		pos++
	}
	if hostPos >= 0 && hostPos >= n {
		b.WriteString("Host: example.com\r\n")
	}
	b.WriteString("\r\n")
	return b.String()
}

func TestProperty_TranscodeEntryCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(42) // Reproducible

	properties := gopter.NewProperties(parameters)

	// Property: n generic header lines without a host header always
	// produce n+3 entries, led by :method, :path, :scheme.
	properties.Property("entry count without host is n+3", prop.ForAll(
		func(n int) bool {
			fields, err := TranscodeHeaderBlock([]byte(buildBlock(n, -1)), true)
			if err != nil {
				return false
			}
			if len(fields) != n+3 {
				return false
			}
			return string(fields[0].Name) == ":method" &&
				string(fields[1].Name) == ":path" &&
				string(fields[2].Name) == ":scheme"
		},
		gen.IntRange(0, 30),
	))

	// Property: a host header at any position is renamed in place, so
	// the total stays lines+3 and :authority always lands at index 3.
	properties.Property("authority is rotated to index 3", prop.ForAll(
		func(n, hostPos int) bool {
			hostPos = hostPos % (n + 1)
			fields, err := TranscodeHeaderBlock([]byte(buildBlock(n, hostPos)), true)
			if err != nil {
				return false
			}
			if len(fields) != n+4 {
				return false
			}
			if string(fields[authorityIndex].Name) != ":authority" {
				return false
			}
			return string(fields[authorityIndex].Value) == "example.com"
		},
		gen.IntRange(0, 30),
		gen.IntRange(0, 30),
	))

	// Property: rotating :authority into place preserves the relative
	// order of every other header.
	properties.Property("non-authority header order is preserved", prop.ForAll(
		func(n, hostPos int) bool {
			hostPos = hostPos % (n + 1)
			fields, err := TranscodeHeaderBlock([]byte(buildBlock(n, hostPos)), true)
			if err != nil {
				return false
			}
			next := 0
			for _, f := range fields[3:] {
				if string(f.Name) == ":authority" {
					continue
				}
				if string(f.Name) != fmt.Sprintf("X-H%d", next) {
					return false
				}
				next++
			}
			return next == n
		},
		gen.IntRange(0, 30),
		gen.IntRange(0, 30),
	))

	properties.TestingRun(t)
}
