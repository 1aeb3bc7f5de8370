// Package patch parses and applies patch envelopes, the line-oriented edit
// format models produce:
//
//	*** Begin Patch
//	*** Add File: <path>
//	+<line>
//	*** Update File: <path>
//	*** Move to: <new path>
//	@@ <context text>
//	 <context line>
//	-<deleted line>
//	+<inserted line>
//	*** End of File
//	*** Delete File: <path>
//	*** End Patch
//
// Text is parsed into an Envelope of per-path Actions, resolved against the
// original file contents into a Commit, and the Commit is applied through an
// IO. Nothing is written for an envelope until its Commit has been built.
package patch

// Directive and marker lines of the envelope grammar.
const (
	BeginMarker     = "*** Begin Patch"
	EndMarker       = "*** End Patch"
	AddPrefix       = "*** Add File: "
	DeletePrefix    = "*** Delete File: "
	UpdatePrefix    = "*** Update File: "
	MovePrefix      = "*** Move to: "
	LegacyMove      = "*** Move File To: "
	EOFMarker       = "*** End of File"
	HunkMarker      = "@@"
	sectionBreak    = "***"
	insertPrefix    = '+'
	deletePrefix    = '-'
	keepPrefix      = ' '
	addLinePrefix   = "+"
	hunkOpenerSpace = "@@ "
)

// ActionType tags an Action.
type ActionType string

const (
	ActionAdd    ActionType = "add"
	ActionDelete ActionType = "delete"
	ActionUpdate ActionType = "update"
)

// Chunk is one contiguous replace-in-place region of a file.
type Chunk struct {
	// OrigIndex is the line offset in the original file where DelLines start.
	OrigIndex int
	DelLines  []string
	InsLines  []string
}

// Action is the parsed intent for one path. Use the constructors; the fields
// that matter depend on Type.
type Action struct {
	Type ActionType

	// Content is the new file body of an Add.
	Content string

	// Chunks and MovePath belong to an Update.
	Chunks   []Chunk
	MovePath string
}

func NewAdd(content string) Action {
	return Action{Type: ActionAdd, Content: content}
}

func NewDelete() Action {
	return Action{Type: ActionDelete}
}

func NewUpdate(chunks []Chunk, movePath string) Action {
	return Action{Type: ActionUpdate, Chunks: chunks, MovePath: movePath}
}

// Envelope is one parsed Begin/End Patch block.
type Envelope struct {
	// Paths lists the action paths in the order they appeared.
	Paths   []string
	Actions map[string]Action
	// Fuzz is the summed fuzz cost of every context match in the envelope.
	Fuzz int
}

func (e *Envelope) add(path string, a Action) {
	if e.Actions == nil {
		e.Actions = make(map[string]Action)
	}
	e.Paths = append(e.Paths, path)
	e.Actions[path] = a
}

// Change is the resolved effect on one path.
type Change struct {
	Type       ActionType
	Path       string
	OldContent string // Delete and Update
	NewContent string // Add and Update
	MovePath   string // Update only, optional
}

// Commit is the resolved change set of one envelope, in envelope order.
type Commit struct {
	Changes []Change
}

// Get returns the change for path.
func (c *Commit) Get(path string) (Change, bool) {
	for _, ch := range c.Changes {
		if ch.Path == path {
			return ch, true
		}
	}
	return Change{}, false
}
