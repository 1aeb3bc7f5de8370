package patch

import "strings"

// BuildCommit resolves every action of env against the original contents.
func BuildCommit(env *Envelope, originals Originals) (*Commit, error) {
	commit := &Commit{Changes: make([]Change, 0, len(env.Paths))}
	for _, path := range env.Paths {
		action := env.Actions[path]
		switch action.Type {
		case ActionDelete:
			commit.Changes = append(commit.Changes, Change{
				Type:       ActionDelete,
				Path:       path,
				OldContent: originals[path],
			})
		case ActionAdd:
			commit.Changes = append(commit.Changes, Change{
				Type:       ActionAdd,
				Path:       path,
				NewContent: action.Content,
			})
		case ActionUpdate:
			old := originals[path]
			updated, err := applyChunks(path, old, action.Chunks)
			if err != nil {
				return nil, err
			}
			commit.Changes = append(commit.Changes, Change{
				Type:       ActionUpdate,
				Path:       path,
				OldContent: old,
				NewContent: updated,
				MovePath:   action.MovePath,
			})
		default:
			return nil, newError(KindStructure, path, "unknown action type %q", action.Type)
		}
	}
	return commit, nil
}

// applyChunks splices chunks into text. Chunks must be ordered by OrigIndex
// and must not reach past the end of the file.
func applyChunks(path, text string, chunks []Chunk) (string, error) {
	orig := strings.Split(text, "\n")
	dest := make([]string, 0, len(orig))
	consumed := 0

	for _, ch := range chunks {
		if ch.OrigIndex > len(orig) {
			return "", newError(KindReconstruct, path,
				"chunk index %d exceeds file length %d: make sure the patch lines apply within the file",
				ch.OrigIndex, len(orig))
		}
		if consumed > ch.OrigIndex {
			return "", newError(KindReconstruct, path,
				"chunk index out of order: current index %d > chunk index %d; check the hunk positions",
				consumed, ch.OrigIndex)
		}
		dest = append(dest, orig[consumed:ch.OrigIndex]...)
		dest = append(dest, ch.InsLines...)
		consumed = ch.OrigIndex + len(ch.DelLines)
		if consumed > len(orig) {
			consumed = len(orig)
		}
	}
	dest = append(dest, orig[consumed:]...)
	return strings.Join(dest, "\n"), nil
}
