// Package sanitize folds synthesized text into a field's character set.
package sanitize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Clean converts s into a value that uses only characters from allowed.
// It NFD-normalizes, strips combining marks, optionally uppercases, drops
// characters outside allowed, collapses runs of spaces, and trims.
func Clean(s, allowed string, upper bool) string {
	// NFD normalize to decompose accented characters.
	s = norm.NFD.String(s)

	var b strings.Builder
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
		}
		if unicode.IsSpace(r) {
			r = ' '
		}
		if !strings.ContainsRune(allowed, r) {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	// Collapse consecutive spaces.
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}

	return strings.TrimSpace(s)
}

// Fit truncates s to max characters and pads it to min characters. Left
// padding is used for numeric values, right padding otherwise.
func Fit(s string, min, max int, pad rune, left bool) string {
	if max >= 0 && len(s) > max {
		s = strings.TrimRight(s[:max], " ")
	}
	if len(s) < min {
		fill := strings.Repeat(string(pad), min-len(s))
		if left {
			return fill + s
		}
		return s + fill
	}
	return s
}

// StripDelimiters removes every character of delimiters from s.
func StripDelimiters(s, delimiters string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(delimiters, r) {
			return -1
		}
		return r
	}, s)
}
