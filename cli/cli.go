package cli

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	Dir       string
	InputFile string
	DryRun    bool
	Stat      bool
	Buffer    bool
	Markdown  bool
	Plain     bool
}

// ParseFlags parses the process arguments.
func ParseFlags() (*Config, error) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs defines and parses command-line flags using pflag.
func ParseArgs(args []string) (*Config, error) {
	cfg := &Config{}
	fs := pflag.NewFlagSet("apatch", pflag.ContinueOnError)

	fs.StringVarP(&cfg.Dir, "dir", "d", "", "Project root that patch paths are resolved against (default: current directory).")
	fs.StringVarP(&cfg.InputFile, "file", "f", "", "Read the patch from a file ('-' for stdin) instead of stdin or the clipboard.")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Check that every envelope applies without touching the disk.")
	fs.BoolVarP(&cfg.Stat, "stat", "s", false, "Print the files each envelope touches with added/deleted line counts, then exit.")
	fs.BoolVarP(&cfg.Buffer, "buffer", "b", false, "Apply through Neovim buffers ($NVIM_LISTEN_ADDRESS or a headless instance).")
	fs.BoolVarP(&cfg.Markdown, "markdown", "m", false, "Only take envelopes from fenced markdown code blocks.")
	fs.BoolVar(&cfg.Plain, "plain", false, "Print 'Done!' or the error instead of the interactive summary.")

	fs.Usage = func() {
		fmt.Println("Usage: apatch [flags]")
		fmt.Println("\nApply '*** Begin Patch' envelopes from stdin (pipe), a file or the clipboard.")
		fmt.Println("\nExample: pbpaste | apatch -d ~/src/project")
		fmt.Println("\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.Buffer && cfg.DryRun {
		return nil, fmt.Errorf("error: --buffer and --dry-run are mutually exclusive")
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("error: unexpected arguments: %v", fs.Args())
	}

	return cfg, nil
}
