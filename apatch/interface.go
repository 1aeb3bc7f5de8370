package apatch

import (
	"fmt"

	"github.com/sokinpui/apatch/cli"
	"github.com/sokinpui/apatch/model"
)

// Config for using apatch as a library.
type Config struct {
	// Project root patch paths are resolved against. Empty means the
	// current working directory.
	Dir string
	// Check that every envelope applies without touching the disk.
	DryRun bool
	// Apply through Neovim buffers.
	Buffer bool
	// Only take envelopes from fenced markdown code blocks.
	Markdown bool
}

// Apply applies every envelope in content and returns what changed.
func Apply(content string, config Config) (model.Summary, error) {
	app, err := New(&cli.Config{
		Dir:      config.Dir,
		DryRun:   config.DryRun,
		Buffer:   config.Buffer,
		Markdown: config.Markdown,
	})
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to initialize apatch: %w", err)
	}
	return app.Process(content)
}
