package saslclient

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// SASLprep prepares a username or password per the RFC 4013 profile of
// stringprep, as applied by a querying client: non-ASCII space characters
// are mapped to space, the "commonly mapped to nothing" characters are
// removed, and the result is normalized to NFKC.
//
// Prohibited-output and bidi checks are not performed, and unassigned code
// points pass through unchanged (the querying profile of RFC 3454).
func SASLprep(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case isNonASCIISpace(r):
			return ' '
		case isMappedToNothing(r):
			return -1
		}
		return r
	}, s)
	return norm.NFKC.String(mapped)
}

// RFC 3454 table C.1.2.
func isNonASCIISpace(r rune) bool {
	switch {
	case r == 0x00A0, r == 0x1680:
		return true
	case r >= 0x2000 && r <= 0x200B:
		return true
	case r == 0x202F, r == 0x205F, r == 0x3000:
		return true
	}
	return false
}

// RFC 3454 table B.1, minus U+200B which table C.1.2 already maps to space.
func isMappedToNothing(r rune) bool {
	switch {
	case r == 0x00AD, r == 0x034F, r == 0x1806:
		return true
	case r >= 0x180B && r <= 0x180D:
		return true
	case r == 0x200C, r == 0x200D, r == 0x2060:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r == 0xFEFF:
		return true
	}
	return false
}
