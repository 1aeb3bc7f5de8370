package patch

import "fmt"

// IO is the set of primitives a patch is applied through. Open must fail for
// a missing file; Write must create missing parent directories.
type IO interface {
	Open(path string) (string, error)
	Write(path, content string) error
	Remove(path string) error
}

// Funcs adapts three plain functions to IO.
type Funcs struct {
	OpenFn   func(path string) (string, error)
	WriteFn  func(path, content string) error
	RemoveFn func(path string) error
}

func (f Funcs) Open(path string) (string, error) { return f.OpenFn(path) }
func (f Funcs) Write(path, content string) error { return f.WriteFn(path, content) }
func (f Funcs) Remove(path string) error         { return f.RemoveFn(path) }

// EnvelopeReport describes one applied envelope.
type EnvelopeReport struct {
	Commit *Commit
	Fuzz   int
}

// Report is the outcome of Process. On error it still lists the envelopes
// that were applied before the failing one.
type Report struct {
	Envelopes []EnvelopeReport
}

// Fuzz sums the fuzz cost over all applied envelopes.
func (r *Report) Fuzz() int {
	total := 0
	for _, e := range r.Envelopes {
		total += e.Fuzz
	}
	return total
}

// Process applies every envelope found in text, in order. Each envelope is
// loaded, parsed and resolved before anything is written, so a failing
// envelope leaves no partial writes. Envelopes applied before a failure are
// not rolled back.
func Process(text string, io IO) (*Report, error) {
	return ProcessWithProgress(text, io, nil)
}

// ProcessWithProgress is Process with a callback invoked after each envelope
// is applied, with the count done so far and the total.
func ProcessWithProgress(text string, io IO, progress func(done, total int)) (*Report, error) {
	blocks := Split(text)
	if len(blocks) == 0 {
		return nil, newError(KindStructure, "", "no patch found: a patch must start with %q", BeginMarker)
	}

	report := &Report{}
	for i, block := range blocks {
		env, commit, err := Resolve(block, io)
		if err != nil {
			return report, envelopeError(i, len(blocks), err)
		}
		if err := Apply(commit, io); err != nil {
			return report, envelopeError(i, len(blocks), err)
		}
		report.Envelopes = append(report.Envelopes, EnvelopeReport{Commit: commit, Fuzz: env.Fuzz})
		if progress != nil {
			progress(i+1, len(blocks))
		}
	}
	return report, nil
}

// Resolve loads the originals one envelope needs, parses it and builds its
// Commit. It only reads through io.
func Resolve(block string, io IO) (*Envelope, *Commit, error) {
	if err := checkDuplicates(block); err != nil {
		return nil, nil, err
	}
	originals, err := Load(NeededFiles(block), io)
	if err != nil {
		return nil, nil, err
	}
	env, err := Parse(block, originals.Lookup)
	if err != nil {
		return nil, nil, err
	}
	commit, err := BuildCommit(env, originals)
	if err != nil {
		return nil, nil, err
	}
	return env, commit, nil
}

// Load opens every path. The first failure aborts with a KindIO error.
func Load(paths []string, io IO) (Originals, error) {
	originals := make(Originals, len(paths))
	for _, path := range paths {
		content, err := io.Open(path)
		if err != nil {
			return nil, &Error{
				Kind: KindIO,
				Path: path,
				Msg:  "file not found: make sure it exists and is readable before applying the patch",
				Err:  err,
			}
		}
		originals[path] = content
	}
	return originals, nil
}

// Apply performs the changes of commit through io, in order.
func Apply(commit *Commit, io IO) error {
	for _, ch := range commit.Changes {
		var err error
		target := ch.Path
		switch ch.Type {
		case ActionDelete:
			err = io.Remove(ch.Path)
		case ActionAdd:
			err = io.Write(ch.Path, ch.NewContent)
		case ActionUpdate:
			if ch.MovePath == "" {
				err = io.Write(ch.Path, ch.NewContent)
				break
			}
			target = ch.MovePath
			if err = io.Write(ch.MovePath, ch.NewContent); err == nil {
				target = ch.Path
				err = io.Remove(ch.Path)
			}
		}
		if err != nil {
			return &Error{Kind: KindIO, Path: target, Msg: fmt.Sprintf("%s failed: %v", ch.Type, err), Err: err}
		}
	}
	return nil
}

// envelopeError keeps the *Error intact for a single envelope and otherwise
// prefixes which envelope failed.
func envelopeError(i, total int, err error) error {
	if total == 1 {
		return err
	}
	return fmt.Errorf("patch %d of %d: %w", i+1, total, err)
}
