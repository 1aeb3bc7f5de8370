// Package ui prints colored status lines on stderr and renders patch
// summaries for plain (non-TUI) runs.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/sokinpui/apatch/internal/patch"
	"github.com/sokinpui/apatch/model"
)

// Out receives every status line. Tests swap it for a buffer.
var Out io.Writer = os.Stderr

var (
	HeaderColor  = color.New(color.FgBlue, color.Bold)
	InfoColor    = color.New(color.FgCyan)
	SuccessColor = color.New(color.FgGreen)
	WarningColor = color.New(color.FgYellow)
	ErrorColor   = color.New(color.FgRed)
	PathColor    = color.New(color.FgYellow)
	AddedColor   = color.New(color.FgGreen)
	DeletedColor = color.New(color.FgRed)
)

func Header(format string, a ...interface{}) {
	HeaderColor.Fprintf(Out, format+"\n", a...)
}

func Info(format string, a ...interface{}) {
	InfoColor.Fprintf(Out, format+"\n", a...)
}

func Success(format string, a ...interface{}) {
	SuccessColor.Fprintf(Out, format+"\n", a...)
}

func Warning(format string, a ...interface{}) {
	WarningColor.Fprintf(Out, format+"\n", a...)
}

func Error(format string, a ...interface{}) {
	ErrorColor.Fprintf(Out, format+"\n", a...)
}

func Path(format string, a ...interface{}) {
	PathColor.Fprintf(Out, "  "+format+"\n", a...)
}

// --- Summaries ---

func PrintSummary(s model.Summary) {
	title := "--- Patch Summary ---"
	if s.DryRun {
		title = "--- Patch Summary (dry run) ---"
	}
	Header("\n%s", title)

	if s.Message != "" {
		Info("%s", s.Message)
	}
	if s.Empty() {
		if s.Message == "" {
			Info("No files were changed.")
		}
		return
	}

	printGroup("Added %d file(s):", s.Added)
	printGroup("Updated %d file(s):", s.Updated)
	printGroup("Moved %d file(s):", s.Moved)
	printGroup("Deleted %d file(s):", s.Deleted)
	if len(s.CreatedDirs) > 0 {
		Info("Created %d director(ies):", len(s.CreatedDirs))
		for _, d := range s.CreatedDirs {
			fmt.Fprintf(Out, "  - %s\n", d)
		}
	}
	if s.Fuzz > 0 {
		Warning("Context matched loosely (fuzz %d). Review the result.", s.Fuzz)
	}
}

func printGroup(format string, paths []string) {
	if len(paths) == 0 {
		return
	}
	Success(format, len(paths))
	for _, p := range paths {
		fmt.Fprintf(Out, "  - %s\n", p)
	}
}

// PrintStat writes one line per file directive: the operation letter, the
// path and the added/deleted line counts.
func PrintStat(w io.Writer, stats []patch.FileStat) {
	for _, st := range stats {
		var letter string
		switch st.Op {
		case patch.ActionAdd:
			letter = AddedColor.Sprint("A")
		case patch.ActionDelete:
			letter = DeletedColor.Sprint("D")
		default:
			letter = InfoColor.Sprint("M")
		}

		path := st.Path
		if st.MovePath != "" {
			path += " -> " + st.MovePath
		}

		var counts []string
		if st.Added > 0 {
			counts = append(counts, AddedColor.Sprintf("+%d", st.Added))
		}
		if st.Deleted > 0 {
			counts = append(counts, DeletedColor.Sprintf("-%d", st.Deleted))
		}

		line := letter + " " + path
		if len(counts) > 0 {
			line += " " + strings.Join(counts, " ")
		}
		fmt.Fprintln(w, line)
	}
}

// --- Progress Bar ---

type ProgressBar struct {
	total   int
	prefix  string
	current int
}

func NewProgressBar(total int, prefix string) *ProgressBar {
	return &ProgressBar{total: total, prefix: prefix}
}

func (p *ProgressBar) Start() {
	p.draw()
}

// Set moves the bar to current, for callers that report absolute progress.
func (p *ProgressBar) Set(current, total int) {
	p.current, p.total = current, total
	p.draw()
}

func (p *ProgressBar) Increment() {
	p.current++
	p.draw()
}

func (p *ProgressBar) Finish() {
	if p.total == 0 {
		return
	}
	fmt.Fprintln(Out)
}

func (p *ProgressBar) draw() {
	if p.total == 0 {
		return
	}
	const barLength = 40
	percent := float64(p.current) / float64(p.total)
	filledLength := int(percent * barLength)
	bar := strings.Repeat("█", filledLength) + strings.Repeat("-", barLength-filledLength)

	percentStr := fmt.Sprintf("%.1f%%", percent*100)
	countStr := fmt.Sprintf("[%d/%d]", p.current, p.total)

	fmt.Fprintf(Out, "\r%s |%s| %s %s", p.prefix, bar, countStr, percentStr)
}
