package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/sokinpui/apatch/apatch"
	"github.com/sokinpui/apatch/cli"
	"github.com/sokinpui/apatch/internal/tui"
	"github.com/sokinpui/apatch/internal/ui"
)

func main() {
	cfg, err := cli.ParseFlags()
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	app, err := apatch.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Modes that print to stdout or must stay scriptable skip the TUI.
	if cfg.Plain || cfg.Stat {
		os.Exit(runPlain(app, cfg))
	}

	model := tui.New(app)
	p := tea.NewProgram(model)
	model.SetProgram(p)
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		os.Exit(1)
	}
}

func runPlain(app *apatch.App, cfg *cli.Config) int {
	var bar *ui.ProgressBar
	if !cfg.Stat {
		bar = ui.NewProgressBar(0, "Applying")
		app.SetProgressCallback(bar.Set)
	}

	summary, err := app.Execute()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		var detailed *apatch.DetailedError
		if errors.As(err, &detailed) {
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		if !summary.Empty() {
			ui.PrintSummary(summary)
		}
		fmt.Println(err)
		return 1
	}

	if cfg.Stat {
		ui.Info("%s", summary.Message)
		return 0
	}
	ui.PrintSummary(summary)
	fmt.Println("Done!")
	return 0
}
