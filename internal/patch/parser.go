package patch

import (
	"strings"

	"github.com/sokinpui/apatch/internal/matcher"
)

// Lookup returns the original content of path, if it is known.
type Lookup func(path string) (string, bool)

// Originals holds original file contents keyed by patch path.
type Originals map[string]string

// Lookup implements the Lookup signature over the map.
func (o Originals) Lookup(path string) (string, bool) {
	content, ok := o[path]
	return content, ok
}

// Parse parses a single envelope. Update hunks are positioned while parsing,
// so lookup must know every path NeededFiles reports for text.
func Parse(text string, lookup Lookup) (*Envelope, error) {
	lines := strings.Split(strings.TrimSpace(normalize(text)), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], BeginMarker) || lines[len(lines)-1] != EndMarker {
		return nil, newError(KindStructure, "",
			"invalid patch text: a patch must start with %q and end with %q", BeginMarker, EndMarker)
	}

	if lookup == nil {
		lookup = Originals(nil).Lookup
	}
	p := &parser{
		lines:  lines,
		index:  1,
		lookup: lookup,
		env:    &Envelope{Actions: make(map[string]Action)},
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.env, nil
}

type parser struct {
	lines  []string
	index  int
	lookup Lookup
	env    *Envelope
}

// section is the run of hunk lines between two markers.
type section struct {
	context []string // keep and delete lines, as they should appear in the file
	chunks  []Chunk  // OrigIndex relative to the start of context
	end     int
	eof     bool
}

func (p *parser) parse() error {
	for !p.done(EndMarker) {
		if path, ok, err := p.readDirective(UpdatePrefix); err != nil {
			return err
		} else if ok {
			if err := p.parseUpdate(path); err != nil {
				return err
			}
			continue
		}

		if path, ok, err := p.readDirective(DeletePrefix); err != nil {
			return err
		} else if ok {
			p.env.add(path, NewDelete())
			continue
		}

		if path, ok, err := p.readDirective(AddPrefix); err != nil {
			return err
		} else if ok {
			if _, exists := p.lookup(path); exists {
				return newError(KindStructure, path,
					"file already exists: use %q instead of %q to modify it", UpdatePrefix+path, AddPrefix+path)
			}
			content, err := p.parseAdd(path)
			if err != nil {
				return err
			}
			p.env.add(path, NewAdd(content))
			continue
		}

		return newError(KindStructure, "",
			"unknown line %q: expected %q, %q or %q", p.lines[p.index],
			strings.TrimSpace(UpdatePrefix), strings.TrimSpace(DeletePrefix), strings.TrimSpace(AddPrefix))
	}

	if p.index >= len(p.lines) || !strings.HasPrefix(p.lines[p.index], EndMarker) {
		return newError(KindStructure, "", "missing %q: the patch is not terminated", EndMarker)
	}
	p.index++
	return nil
}

// readDirective consumes a directive line with the given prefix and returns
// its path. Repeating a path within one envelope is an error.
func (p *parser) readDirective(prefix string) (string, bool, error) {
	line := p.lines[p.index]
	if !strings.HasPrefix(line, prefix) {
		return "", false, nil
	}
	path := strings.TrimSpace(line[len(prefix):])
	if path == "" {
		return "", false, newError(KindStructure, "", "directive %q has no path", strings.TrimSpace(prefix))
	}
	if _, dup := p.env.Actions[path]; dup {
		return "", false, newError(KindStructure, path,
			"duplicate path: remove the repeated %q entry", prefix+path)
	}
	p.index++
	return path, true, nil
}

func (p *parser) parseUpdate(path string) error {
	var movePath string
	if p.index < len(p.lines) {
		for _, prefix := range []string{MovePrefix, LegacyMove} {
			if line := p.lines[p.index]; strings.HasPrefix(line, prefix) {
				movePath = strings.TrimSpace(line[len(prefix):])
				p.index++
				break
			}
		}
	}

	original, ok := p.lookup(path)
	if !ok {
		return newError(KindIO, path, "original content was not loaded")
	}

	chunks, err := p.parseHunks(path, original)
	if err != nil {
		return err
	}
	p.env.add(path, NewUpdate(chunks, movePath))
	return nil
}

func (p *parser) parseHunks(path, original string) ([]Chunk, error) {
	file := matcher.New(strings.Split(original, "\n"))
	cursor := 0
	var chunks []Chunk

	for !p.done(EndMarker, UpdatePrefix, DeletePrefix, AddPrefix, EOFMarker) {
		anchor, opened := p.readHunkOpener()
		if !opened && cursor != 0 && !p.atHunkLine() {
			return nil, newError(KindStructure, path,
				"invalid hunk line %q: hunks start with %q and lines with '+', '-' or ' '", p.lines[p.index], HunkMarker)
		}

		if anchor != "" {
			next, err := p.seekAnchor(path, file, anchor, cursor)
			if err != nil {
				return nil, err
			}
			cursor = next
		}

		sec, err := p.peekSection(path)
		if err != nil {
			return nil, err
		}
		if !opened && sec.end == p.index {
			return nil, newError(KindStructure, path, "invalid hunk line %q", p.lines[p.index])
		}

		pos, fuzz := file.Find(sec.context, cursor, sec.eof)
		if pos == matcher.NotFound {
			return nil, contextError(path, sec.context, cursor, sec.eof)
		}
		p.env.Fuzz += fuzz

		for _, ch := range sec.chunks {
			ch.OrigIndex += pos
			chunks = append(chunks, ch)
		}
		cursor = pos + len(sec.context)
		p.index = sec.end
	}
	return chunks, nil
}

// readHunkOpener consumes an "@@" line and returns its trimmed anchor text.
func (p *parser) readHunkOpener() (string, bool) {
	line := p.lines[p.index]
	switch {
	case strings.HasPrefix(line, hunkOpenerSpace):
		p.index++
		return strings.TrimSpace(line[len(hunkOpenerSpace):]), true
	case line == HunkMarker:
		p.index++
		return "", true
	}
	return "", false
}

// seekAnchor moves the cursor past the "@@" anchor line. An anchor that was
// already passed keeps the cursor where it is, so several hunks can share one
// enclosing scope.
func (p *parser) seekAnchor(path string, file *matcher.Matcher, anchor string, cursor int) (int, error) {
	if file.Contains(anchor, cursor) {
		return cursor, nil
	}
	pos, fuzz := file.Find([]string{anchor}, cursor, false)
	if pos == matcher.NotFound {
		return 0, contextError(path, []string{anchor}, cursor, false)
	}
	p.env.Fuzz += fuzz
	return pos + 1, nil
}

func (p *parser) atHunkLine() bool {
	line := p.lines[p.index]
	if line == EOFMarker {
		return true
	}
	return line != "" && (line[0] == insertPrefix || line[0] == deletePrefix || line[0] == keepPrefix)
}

// peekSection reads hunk lines from the cursor up to the next marker without
// moving the cursor.
func (p *parser) peekSection(path string) (section, error) {
	var (
		old      []string
		del, ins []string
		chunks   []Chunk
		mode     byte = keepPrefix
	)
	flush := func() {
		if len(del) > 0 || len(ins) > 0 {
			chunks = append(chunks, Chunk{OrigIndex: len(old) - len(del), DelLines: del, InsLines: ins})
		}
		del, ins = nil, nil
	}

	i := p.index
	for ; i < len(p.lines); i++ {
		s := p.lines[i]
		if hasAnyPrefix(s, HunkMarker, EndMarker, UpdatePrefix, DeletePrefix, AddPrefix, EOFMarker) || s == sectionBreak {
			break
		}
		if strings.HasPrefix(s, sectionBreak) {
			return section{}, newError(KindStructure, path,
				"invalid line %q: not a known patch directive", s)
		}

		last := mode
		line := s
		if s != "" && (s[0] == insertPrefix || s[0] == deletePrefix || s[0] == keepPrefix) {
			mode = s[0]
			line = s[1:]
		} else {
			mode = keepPrefix
		}

		if mode == keepPrefix && last != mode {
			flush()
		}
		switch mode {
		case deletePrefix:
			del = append(del, line)
			old = append(old, line)
		case insertPrefix:
			ins = append(ins, line)
		default:
			old = append(old, line)
		}
	}
	flush()

	sec := section{context: old, chunks: chunks, end: i}
	if i < len(p.lines) && p.lines[i] == EOFMarker {
		sec.end++
		sec.eof = true
	}
	return sec, nil
}

func (p *parser) parseAdd(path string) (string, error) {
	var lines []string
	for !p.done(EndMarker, UpdatePrefix, DeletePrefix, AddPrefix) {
		line := p.lines[p.index]
		if !strings.HasPrefix(line, addLinePrefix) {
			return "", newError(KindStructure, path,
				"invalid add file line %q: every line of an added file must start with '+'", line)
		}
		lines = append(lines, line[len(addLinePrefix):])
		p.index++
	}
	return strings.Join(lines, "\n"), nil
}

// done reports whether the cursor is past the end or at a line starting with
// one of the given markers.
func (p *parser) done(markers ...string) bool {
	if p.index >= len(p.lines) {
		return true
	}
	return hasAnyPrefix(p.lines[p.index], markers...)
}

// hasAnyPrefix matches prefixes with their trailing space trimmed so that
// "*** Update File:" without a path still stops a section.
func hasAnyPrefix(line string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(line, strings.TrimSpace(prefix)) {
			return true
		}
	}
	return false
}

func contextError(path string, context []string, cursor int, eof bool) *Error {
	kind := "context"
	hint := "make sure the context lines exist and are spelled and punctuated exactly as in the file"
	if eof {
		kind = "EOF context"
		hint = "make sure the context lines match the last lines of the file (EOF anchoring was tried)"
	}
	return newError(KindContext, path, "invalid %s starting at line %d:\n%s\nhint: %s",
		kind, cursor, strings.Join(context, "\n"), hint)
}
