// Package whitespace normalizes keys and inline values.
package whitespace

import (
	"strings"
	"unicode"
)

// Collapse replaces every run of whitespace with a single space.
func Collapse(s string) string {
	if !strings.ContainsFunc(s, unicode.IsSpace) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// MapSpaces replaces each whitespace character with a single space.
func MapSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, s)
}

// TrimLeft removes leading whitespace.
func TrimLeft(s string) string { return strings.TrimLeftFunc(s, unicode.IsSpace) }

// TrimRight removes trailing whitespace.
func TrimRight(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }

// IsBlank reports whether s consists of whitespace only. The empty string is blank.
func IsBlank(s string) bool { return strings.TrimFunc(s, unicode.IsSpace) == "" }

// HasOther reports whether s contains whitespace other than the plain space.
func HasOther(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r != ' ' && unicode.IsSpace(r) })
}
