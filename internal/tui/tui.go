// Package tui shows a spinner with per-envelope progress while patches are
// applied, then the summary or the error.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/apatch/apatch"
	"github.com/sokinpui/apatch/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// Runner is the part of apatch.App the TUI drives.
type Runner interface {
	Execute() (model.Summary, error)
	SetProgressCallback(cb func(current, total int))
}

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type progressMsg struct {
	current, total int
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

// --- Model ---

// sink is shared by every copy of Model so SetProgram reaches the copy the
// program runs.
type sink struct {
	program *tea.Program
}

type Model struct {
	runner   Runner
	spinner  spinner.Model
	state    state
	summary  summaryMsg
	progress progressMsg
	err      error
	sink     *sink
}

type state int

const (
	stateProcessing state = iota
	stateSummary
	stateError
)

func New(runner Runner) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		runner:  runner,
		spinner: s,
		state:   stateProcessing,
		sink:    &sink{},
	}
}

// SetProgram lets the model forward progress updates to p.
func (m Model) SetProgram(p *tea.Program) {
	m.sink.program = p
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case progressMsg:
		m.progress = msg
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	default:
		var cmd tea.Cmd
		if m.state == stateProcessing {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	switch m.state {
	case stateProcessing:
		if m.progress.total > 1 {
			return fmt.Sprintf("%s Applying patch %d of %d...", m.spinner.View(), m.progress.current+1, m.progress.total)
		}
		return fmt.Sprintf("%s Processing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: "+m.err.Error()) + "\n"
	case stateSummary:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	writeGroup := func(title string, paths []string) {
		if len(paths) == 0 {
			return
		}
		b.WriteString(successStyle.Render(title))
		b.WriteString("\n")
		for _, f := range paths {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	writeGroup("Added:", m.summary.Added)
	writeGroup("Updated:", m.summary.Updated)
	writeGroup("Moved:", m.summary.Moved)
	writeGroup("Deleted:", m.summary.Deleted)

	if m.summary.Fuzz > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Context matched loosely (fuzz %d).", m.summary.Fuzz)))
		b.WriteString("\n")
	}
	if m.summary.DryRun && !m.summary.Empty() {
		b.WriteString(faintStyle.Render("Dry run: nothing was written."))
		b.WriteString("\n")
	}
	if m.summary.Empty() && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
	}

	return b.String()
}

func (m Model) runApp() tea.Msg {
	m.runner.SetProgressCallback(func(current, total int) {
		if m.sink.program != nil {
			m.sink.program.Send(progressMsg{current: current, total: total})
		}
	})

	summary, err := m.runner.Execute()
	if err != nil {
		var detailed *apatch.DetailedError
		if errors.As(err, &detailed) {
			// The TUI will exit, so the stack goes straight to stderr.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{Summary: summary}
}
