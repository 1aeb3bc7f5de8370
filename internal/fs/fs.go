// Package fs provides the file primitives patches are applied through: a
// Workspace rooted at a project directory, and an in-memory Overlay for dry
// runs. Both implement patch.IO.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is wrapped by Open when the file does not exist.
var ErrNotFound = errors.New("file not found")

// Workspace resolves patch paths against a root directory.
type Workspace struct {
	root        string
	createdDirs map[string]struct{}
}

// NewWorkspace creates a Workspace rooted at dir, or at the current working
// directory when dir is empty.
func NewWorkspace(dir string) (*Workspace, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace directory '%s': %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace directory '%s': %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid workspace directory '%s': not a directory", dir)
	}
	return &Workspace{root: abs, createdDirs: make(map[string]struct{})}, nil
}

// Root returns the absolute workspace directory.
func (w *Workspace) Root() string {
	return w.root
}

// Resolve returns the absolute path of a patch path. Absolute paths and paths
// escaping the root are rejected.
func (w *Workspace) Resolve(rel string) (string, error) {
	if err := ValidateRelPath(rel); err != nil {
		return "", err
	}
	return filepath.Join(w.root, filepath.FromSlash(rel)), nil
}

// Open reads a file under the root.
func (w *Workspace) Open(rel string) (string, error) {
	abs, err := w.Resolve(rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s: %w", rel, ErrNotFound)
		}
		return "", fmt.Errorf("failed to read %s: %w", rel, err)
	}
	return string(data), nil
}

// Write replaces a file under the root atomically, creating parent
// directories as needed. An existing file keeps its permissions.
func (w *Workspace) Write(rel, content string) error {
	abs, err := w.MkdirParent(rel)
	if err != nil {
		return err
	}

	perm := os.FileMode(0644)
	if info, err := os.Stat(abs); err == nil {
		perm = info.Mode().Perm()
	}
	return atomicWrite(abs, []byte(content), perm)
}

// Remove deletes a file under the root.
func (w *Workspace) Remove(rel string) error {
	abs, err := w.Resolve(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("failed to remove %s: %w", rel, err)
	}
	return nil
}

// CreatedDirs lists the directories Write had to create, relative to the
// root and sorted.
func (w *Workspace) CreatedDirs() []string {
	if len(w.createdDirs) == 0 {
		return nil
	}
	dirs := make([]string, 0, len(w.createdDirs))
	for dir := range w.createdDirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// MkdirParent resolves rel and creates its missing parent directories,
// recording them for CreatedDirs. It returns the absolute path.
func (w *Workspace) MkdirParent(rel string) (string, error) {
	abs, err := w.Resolve(rel)
	if err != nil {
		return "", err
	}
	return abs, w.mkdirAll(filepath.Dir(abs))
}

func (w *Workspace) mkdirAll(dir string) error {
	var missing []string
	for d := dir; d != w.root && d != filepath.Dir(d); d = filepath.Dir(d) {
		if _, err := os.Stat(d); err == nil {
			break
		}
		missing = append(missing, d)
	}
	if len(missing) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory '%s': %w", dir, err)
	}
	for _, d := range missing {
		if rel, err := filepath.Rel(w.root, d); err == nil {
			w.createdDirs[filepath.ToSlash(rel)] = struct{}{}
		}
	}
	return nil
}

// atomicWrite writes data to a temp file next to path and renames it over
// path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".apatch-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// ValidateRelPath rejects empty, absolute and root-escaping patch paths.
func ValidateRelPath(rel string) error {
	if strings.TrimSpace(rel) == "" {
		return fmt.Errorf("invalid path: empty")
	}
	if filepath.IsAbs(rel) || strings.HasPrefix(rel, "/") {
		return fmt.Errorf("invalid path %q: absolute paths are not supported", rel)
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if cleaned == "." {
		return fmt.Errorf("invalid path %q: refers to the workspace root", rel)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid path %q: path traversal not allowed", rel)
	}
	return nil
}
