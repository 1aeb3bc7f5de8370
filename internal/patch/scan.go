package patch

import "strings"

// normalize converts CRLF to LF so directive matching does not depend on the
// line endings of whatever produced the text.
func normalize(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// Split returns every "*** Begin Patch" ... "*** End Patch" span in text, in
// order. Text between spans is ignored.
func Split(text string) []string {
	text = normalize(text)
	begin := BeginMarker + "\n"
	end := "\n" + EndMarker

	var blocks []string
	start := strings.Index(text, begin)
	for start != -1 {
		stop := strings.Index(text[start+len(begin):], end)
		if stop == -1 {
			break
		}
		stop += start + len(begin) + len(end)
		blocks = append(blocks, text[start:stop])

		next := strings.Index(text[stop:], begin)
		if next == -1 {
			break
		}
		start = stop + next
	}
	return blocks
}

// NeededFiles lists the paths of Update and Delete directives in text: the
// originals that must be loaded before the text can be parsed.
func NeededFiles(text string) []string {
	return scanPaths(text, UpdatePrefix, DeletePrefix)
}

// AddedFiles lists the paths of Add directives in text.
func AddedFiles(text string) []string {
	return scanPaths(text, AddPrefix)
}

func scanPaths(text string, prefixes ...string) []string {
	seen := make(map[string]struct{})
	var paths []string
	for _, line := range strings.Split(strings.TrimSpace(normalize(text)), "\n") {
		for _, prefix := range prefixes {
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			path := strings.TrimSpace(line[len(prefix):])
			if _, ok := seen[path]; !ok && path != "" {
				seen[path] = struct{}{}
				paths = append(paths, path)
			}
		}
	}
	return paths
}

// checkDuplicates reports a path named by two directives of one envelope. It
// runs on raw text so the error surfaces before any original is opened.
func checkDuplicates(text string) error {
	seen := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimSpace(normalize(text)), "\n") {
		for _, prefix := range []string{UpdatePrefix, DeletePrefix, AddPrefix} {
			if !strings.HasPrefix(line, prefix) {
				continue
			}
			path := strings.TrimSpace(line[len(prefix):])
			if path == "" {
				continue
			}
			if _, dup := seen[path]; dup {
				return newError(KindStructure, path, "duplicate path: remove the repeated %q entry", prefix+path)
			}
			seen[path] = struct{}{}
		}
	}
	return nil
}
