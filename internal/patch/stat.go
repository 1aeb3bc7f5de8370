package patch

import "strings"

// FileStat is a preview row for one directive of a patch.
type FileStat struct {
	Op       ActionType
	Path     string
	MovePath string
	Added    int
	Deleted  int
}

// Stat summarizes every envelope in text without reading any file. It only
// checks the envelope markers and that body lines follow a directive.
func Stat(text string) ([]FileStat, error) {
	blocks := Split(text)
	if len(blocks) == 0 {
		return nil, newError(KindStructure, "", "no patch found: a patch must start with %q", BeginMarker)
	}

	var stats []FileStat
	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		// Split guarantees the first and last lines are the markers.
		body := lines[1 : len(lines)-1]

		var cur *FileStat
		for _, line := range body {
			switch {
			case strings.HasPrefix(line, EOFMarker):
				continue
			case strings.HasPrefix(line, AddPrefix):
				stats = append(stats, FileStat{Op: ActionAdd, Path: strings.TrimSpace(line[len(AddPrefix):])})
			case strings.HasPrefix(line, DeletePrefix):
				stats = append(stats, FileStat{Op: ActionDelete, Path: strings.TrimSpace(line[len(DeletePrefix):])})
			case strings.HasPrefix(line, UpdatePrefix):
				stats = append(stats, FileStat{Op: ActionUpdate, Path: strings.TrimSpace(line[len(UpdatePrefix):])})
			default:
				if cur == nil {
					return nil, newError(KindStructure, "", "line %q appears before any file directive", line)
				}
				countLine(cur, line)
				continue
			}
			cur = &stats[len(stats)-1]
		}
	}
	return stats, nil
}

func countLine(st *FileStat, line string) {
	switch st.Op {
	case ActionAdd:
		st.Added++
	case ActionUpdate:
		switch {
		case strings.HasPrefix(line, MovePrefix):
			st.MovePath = strings.TrimSpace(line[len(MovePrefix):])
		case strings.HasPrefix(line, LegacyMove):
			st.MovePath = strings.TrimSpace(line[len(LegacyMove):])
		case strings.HasPrefix(line, addLinePrefix):
			st.Added++
		case strings.HasPrefix(line, "-"):
			st.Deleted++
		}
	}
}
