// Package matcher locates a block of context lines inside a file, tolerating
// the drift that model-written context usually has: look-alike punctuation,
// trailing whitespace and re-indentation.
//
// A search runs through three tiers, cheapest first, and reports how relaxed
// the successful tier was as a fuzz cost:
//
//	FuzzExact     canonical text equal line by line
//	FuzzTrailing  equal after trimming trailing whitespace
//	FuzzTrimmed   equal after trimming both ends
//
// EOF-anchored searches try the tail of the file first and pay FuzzEOFMiss on
// top of the tier cost when they have to fall back to a forward search.
package matcher

import (
	"strings"

	"github.com/sokinpui/apatch/internal/canon"
)

const (
	FuzzExact    = 0
	FuzzTrailing = 1
	FuzzTrimmed  = 100
	FuzzEOFMiss  = 10000
)

// NotFound is the position returned when no tier matched.
const NotFound = -1

type tier struct {
	cost int
	norm func(string) string
}

var tiers = []tier{
	{cost: FuzzExact, norm: func(s string) string { return s }},
	{cost: FuzzTrailing, norm: func(s string) string { return strings.TrimRight(s, " \t\r\n\v\f") }},
	{cost: FuzzTrimmed, norm: strings.TrimSpace},
}

// Matcher searches one file. It caches the normalized forms of the file's
// lines so repeated searches over the same file stay linear per tier.
type Matcher struct {
	lines []string
	forms [][]string // per tier, built on first use
}

// New returns a Matcher over lines. lines is not copied and must not change.
func New(lines []string) *Matcher {
	return &Matcher{lines: lines, forms: make([][]string, len(tiers))}
}

// Len reports the number of lines in the file.
func (m *Matcher) Len() int {
	return len(m.lines)
}

// Find returns the first position at or after start where context matches,
// together with its fuzz cost, or NotFound.
func (m *Matcher) Find(context []string, start int, eof bool) (int, int) {
	if eof {
		tail := len(m.lines) - len(context)
		if tail < 0 {
			tail = 0
		}
		if pos, fuzz := m.find(context, tail); pos != NotFound {
			return pos, fuzz
		}
		pos, fuzz := m.find(context, start)
		if pos == NotFound {
			return NotFound, 0
		}
		return pos, fuzz + FuzzEOFMiss
	}
	return m.find(context, start)
}

// Contains reports whether line occurs (at any tier) among the first n lines.
func (m *Matcher) Contains(line string, n int) bool {
	if n > len(m.lines) {
		n = len(m.lines)
	}
	for t := range tiers {
		want := tiers[t].norm(canon.String(line))
		form := m.form(t)
		for i := 0; i < n; i++ {
			if form[i] == want {
				return true
			}
		}
	}
	return false
}

func (m *Matcher) find(context []string, start int) (int, int) {
	if start < 0 {
		start = 0
	}
	if len(context) == 0 {
		return start, FuzzExact
	}

	for t, tr := range tiers {
		want := make([]string, len(context))
		for i, line := range context {
			want[i] = tr.norm(canon.String(line))
		}
		form := m.form(t)
		for i := start; i+len(want) <= len(form); i++ {
			if window(form[i:i+len(want)], want) {
				return i, tr.cost
			}
		}
	}
	return NotFound, 0
}

func (m *Matcher) form(t int) []string {
	if m.forms[t] == nil {
		f := make([]string, len(m.lines))
		for i, line := range m.lines {
			f[i] = tiers[t].norm(canon.String(line))
		}
		m.forms[t] = f
	}
	return m.forms[t]
}

func window(got, want []string) bool {
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// Find is a one-shot search of context in lines. See Matcher.Find.
func Find(lines, context []string, start int, eof bool) (int, int) {
	return New(lines).Find(context, start, eof)
}
