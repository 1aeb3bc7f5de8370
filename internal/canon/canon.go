// Package canon folds Unicode look-alike punctuation so that text typed by a
// model compares equal to the text in a source file. The result is only ever
// used for comparison; callers keep the original bytes for output.
package canon

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// punctuation maps look-alike runes to their ASCII counterpart.
var punctuation = map[rune]rune{
	// dashes
	'\u2010': '-',
	'\u2011': '-',
	'\u2012': '-',
	'\u2013': '-',
	'\u2014': '-',
	'\u2212': '-',

	// double quotes
	'\u201C': '"',
	'\u201D': '"',
	'\u201E': '"',
	'\u00AB': '"',
	'\u00BB': '"',

	// single quotes
	'\u2018': '\'',
	'\u2019': '\'',
	'\u201B': '\'',

	// spaces
	'\u00A0': ' ',
	'\u202F': ' ',
}

// String returns the NFC form of s with look-alike punctuation folded to ASCII.
func String(s string) string {
	s = norm.NFC.String(s)
	if isASCII(s) {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if mapped, ok := punctuation[r]; ok {
			r = mapped
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Lines canonicalizes every element of lines into a new slice.
func Lines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = String(line)
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
