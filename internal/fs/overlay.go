package fs

import (
	"fmt"
	"sort"
)

// Reader is the read half of patch.IO.
type Reader interface {
	Open(path string) (string, error)
}

// Overlay records writes and removals in memory on top of a base Reader.
// Reads see earlier writes, so several envelopes can be dry-run in sequence.
type Overlay struct {
	base    Reader
	written map[string]string
	removed map[string]struct{}
}

// NewOverlay returns an empty Overlay over base.
func NewOverlay(base Reader) *Overlay {
	return &Overlay{
		base:    base,
		written: make(map[string]string),
		removed: make(map[string]struct{}),
	}
}

func (o *Overlay) Open(path string) (string, error) {
	if _, gone := o.removed[path]; gone {
		return "", fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if content, ok := o.written[path]; ok {
		return content, nil
	}
	return o.base.Open(path)
}

func (o *Overlay) Write(path, content string) error {
	if err := ValidateRelPath(path); err != nil {
		return err
	}
	delete(o.removed, path)
	o.written[path] = content
	return nil
}

func (o *Overlay) Remove(path string) error {
	if _, err := o.Open(path); err != nil {
		return err
	}
	delete(o.written, path)
	o.removed[path] = struct{}{}
	return nil
}

// Written returns the pending content of every written path.
func (o *Overlay) Written() map[string]string {
	out := make(map[string]string, len(o.written))
	for path, content := range o.written {
		out[path] = content
	}
	return out
}

// Removed lists the paths pending removal, sorted.
func (o *Overlay) Removed() []string {
	paths := make([]string, 0, len(o.removed))
	for path := range o.removed {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
