package common

import (
	"strings"
	"unicode/utf8"
)

// isControlRune reports whether r is a C0/C1 control character other
// than the common whitespace characters tab, newline and carriage return.
func isControlRune(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f)
}

// HasControlChars reports whether s contains C0/C1 control characters
// other than tab, newline and carriage return.
func HasControlChars(s string) bool {
	for _, r := range s {
		if isControlRune(r) {
			return true
		}
	}
	return false
}

// StripControlChars removes C0/C1 control characters (other than tab,
// newline and carriage return) from s.
func StripControlChars(s string) string {
	if !HasControlChars(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !isControlRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeText strips control characters and replaces invalid UTF-8
// sequences, for text that may not have passed through provider repair.
func SanitizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return StripControlChars(s)
}
