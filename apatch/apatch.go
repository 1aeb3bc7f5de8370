// Package apatch applies "*** Begin Patch" envelopes to a project tree. App
// drives a full run from flags; Apply is the one-call library entry point.
package apatch

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/sokinpui/apatch/cli"
	"github.com/sokinpui/apatch/internal/fs"
	"github.com/sokinpui/apatch/internal/markdown"
	"github.com/sokinpui/apatch/internal/nvim"
	"github.com/sokinpui/apatch/internal/patch"
	"github.com/sokinpui/apatch/internal/source"
	"github.com/sokinpui/apatch/internal/ui"
	"github.com/sokinpui/apatch/model"
)

const fence = "```"

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	workspace        *fs.Workspace
	sourceProvider   *source.SourceProvider
	progressCallback func(current, total int)
	stdout           io.Writer
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	if cfg.Buffer && cfg.DryRun {
		return nil, fmt.Errorf("buffer and dry-run modes are mutually exclusive")
	}
	workspace, err := fs.NewWorkspace(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	return &App{
		cfg:            cfg,
		workspace:      workspace,
		sourceProvider: source.New(cfg.InputFile),
		stdout:         os.Stdout,
	}, nil
}

// SetProgressCallback sets a function called with the number of envelopes
// applied so far and the total.
func (a *App) SetProgressCallback(cb func(current, total int)) {
	a.progressCallback = cb
}

// SetOutput redirects the --stat table, which goes to stdout by default.
func (a *App) SetOutput(w io.Writer) {
	a.stdout = w
}

// Execute reads the source and applies it according to the parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	content, err := a.sourceProvider.GetContent()
	if err != nil {
		return model.Summary{}, err
	}
	if strings.TrimSpace(content) == "" {
		return model.Summary{Message: "Source is empty. Nothing to process."}, nil
	}

	if a.cfg.Stat {
		return a.Stat(content)
	}
	return a.Process(content)
}

// Stat prints one line per file directive in content and applies nothing.
func (a *App) Stat(content string) (model.Summary, error) {
	text, err := a.envelopes(content)
	if err != nil {
		return model.Summary{}, err
	}
	stats, err := patch.Stat(text)
	if err != nil {
		return model.Summary{}, fmt.Errorf("failed to read patch: %w", err)
	}
	ui.PrintStat(a.stdout, stats)
	return model.Summary{
		Envelopes: len(patch.Split(text)),
		Message:   fmt.Sprintf("%d file operation(s) in %d patch(es).", len(stats), len(patch.Split(text))),
	}, nil
}

// Process applies every envelope in content. Envelopes are applied in order
// and independently: on error the summary still lists what earlier
// envelopes changed.
func (a *App) Process(content string) (model.Summary, error) {
	text, err := a.envelopes(content)
	if err != nil {
		return model.Summary{}, err
	}

	target, closeTarget, err := a.target()
	if err != nil {
		return model.Summary{}, err
	}
	defer closeTarget()

	total := len(patch.Split(text))
	if total > 0 {
		ui.Info("Found %d patch envelope(s).", total)
	}
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	report, err := patch.ProcessWithProgress(text, target, a.progressCallback)
	summary := a.summarize(report)
	summary.Envelopes = total
	if err != nil {
		return summary, fmt.Errorf("failed to apply patch: %w", err)
	}

	for i, env := range report.Envelopes {
		if env.Fuzz > 0 {
			ui.Warning("Patch %d of %d matched with fuzz %d.", i+1, total, env.Fuzz)
		}
	}
	summary.Message = fmt.Sprintf("Applied %d patch(es).", total)
	if a.cfg.DryRun {
		summary.Message = fmt.Sprintf("Checked %d patch(es). Nothing was written.", total)
	}
	return summary, nil
}

// envelopes returns the patch text to apply. Markdown fences are unwrapped
// when forced, or when the raw text holds no envelope but has fences.
func (a *App) envelopes(content string) (string, error) {
	if !a.cfg.Markdown && (len(patch.Split(content)) > 0 || !strings.Contains(content, fence)) {
		return content, nil
	}
	text, err := markdown.ExtractPatches(content)
	if err != nil {
		return "", fmt.Errorf("failed to parse markdown: %w", err)
	}
	return text, nil
}

// target picks the IO patches are applied through.
func (a *App) target() (patch.IO, func(), error) {
	switch {
	case a.cfg.DryRun:
		return fs.NewOverlay(a.workspace), func() {}, nil
	case a.cfg.Buffer:
		manager, err := nvim.New(a.workspace)
		if err != nil {
			return nil, nil, err
		}
		return manager, manager.Close, nil
	default:
		return a.workspace, func() {}, nil
	}
}

func (a *App) summarize(report *patch.Report) model.Summary {
	summary := model.Summary{DryRun: a.cfg.DryRun}
	if report == nil {
		return summary
	}

	seen := make(map[string]struct{})
	addOnce := func(list *[]string, entry string) {
		if _, ok := seen[entry]; ok {
			return
		}
		seen[entry] = struct{}{}
		*list = append(*list, entry)
	}

	for _, env := range report.Envelopes {
		summary.Fuzz += env.Fuzz
		for _, ch := range env.Commit.Changes {
			switch {
			case ch.Type == patch.ActionAdd:
				addOnce(&summary.Added, ch.Path)
			case ch.Type == patch.ActionDelete:
				addOnce(&summary.Deleted, ch.Path)
			case ch.MovePath != "":
				addOnce(&summary.Moved, ch.Path+" -> "+ch.MovePath)
			default:
				addOnce(&summary.Updated, ch.Path)
			}
		}
	}
	if !a.cfg.DryRun {
		summary.CreatedDirs = a.workspace.CreatedDirs()
	}
	return summary
}
