// Package source reads the text to apply: piped stdin, a file, or the
// clipboard.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sokinpui/apatch/internal/ui"
)

// SourceProvider determines and retrieves the source content.
type SourceProvider struct {
	stdin     *os.File
	readClip  func() (string, error)
	inputFile string
}

// New creates a SourceProvider. A non-empty inputFile ("-" meaning stdin)
// takes precedence over detection.
func New(inputFile string) *SourceProvider {
	return &SourceProvider{
		stdin:     os.Stdin,
		readClip:  clipboard.ReadAll,
		inputFile: inputFile,
	}
}

// GetContent retrieves content from the input file, stdin (if piped) or the
// clipboard. Empty input yields an empty string and no error.
func (sp *SourceProvider) GetContent() (string, error) {
	switch {
	case sp.inputFile == "-":
		return sp.readStdin()
	case sp.inputFile != "":
		ui.Header("--- Reading from %s ---", sp.inputFile)
		data, err := os.ReadFile(sp.inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}

	if sp.isPiped() {
		return sp.readStdin()
	}

	ui.Header("--- Reading from clipboard ---")
	content, err := sp.readClip()
	if err != nil {
		return "", fmt.Errorf("failed to read from clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		ui.Warning("Clipboard is empty. Nothing to process.")
		return "", nil
	}
	return content, nil
}

func (sp *SourceProvider) isPiped() bool {
	stat, err := sp.stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func (sp *SourceProvider) readStdin() (string, error) {
	ui.Header("--- Reading from stdin ---")
	content, err := io.ReadAll(sp.stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(content), nil
}
