package model

// Summary holds the results of an apply run for display.
type Summary struct {
	Added   []string
	Updated []string
	// Moved entries read "old -> new".
	Moved   []string
	Deleted []string
	// CreatedDirs lists parent directories made for new files.
	CreatedDirs []string
	// Fuzz is the total context looseness across all envelopes.
	Fuzz      int
	Envelopes int
	DryRun    bool
	Message   string
}

// Empty reports whether the run touched no file.
func (s Summary) Empty() bool {
	return len(s.Added) == 0 && len(s.Updated) == 0 && len(s.Moved) == 0 && len(s.Deleted) == 0
}

// Files returns the number of file operations in the summary.
func (s Summary) Files() int {
	return len(s.Added) + len(s.Updated) + len(s.Moved) + len(s.Deleted)
}
