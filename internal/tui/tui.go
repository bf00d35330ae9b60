// Package tui runs the interactive confirmation and progress display.
package tui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/commentize/commentize"
	"github.com/sokinpui/commentize/model"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	pathStyle    = lipgloss.NewStyle()
	faintStyle   = lipgloss.NewStyle().Faint(true)
)

// --- Messages ---
type summaryMsg struct {
	model.Summary
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

type progressMsg struct {
	current, total int
}

// confirmMsg asks the user a question; the answer goes to reply.
type confirmMsg struct {
	prompt string
	reply  chan bool
}

// --- Model ---
type Model struct {
	app      *commentize.App
	spinner  spinner.Model
	state    state
	summary  summaryMsg
	err      error
	progress progressMsg
	question confirmMsg
}

type state int

const (
	stateProcessing state = iota
	stateConfirm
	stateSummary
	stateError
)

func New(app *commentize.App) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:     app,
		spinner: s,
		state:   stateProcessing,
	}
}

// SetProgram routes the app's confirmation prompts and progress reports
// through the running program.
func (m *Model) SetProgram(p *tea.Program) {
	m.app.SetConfirm(func(prompt string) bool {
		reply := make(chan bool, 1)
		p.Send(confirmMsg{prompt: prompt, reply: reply})
		return <-reply
	})
	m.app.SetProgressCallback(func(current, total int) {
		p.Send(progressMsg{current: current, total: total})
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runApp)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.state == stateConfirm {
			return m.answer(msg.String())
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case confirmMsg:
		m.state = stateConfirm
		m.question = msg
		return m, nil

	case progressMsg:
		m.progress = msg
		return m, nil

	case summaryMsg:
		m.state = stateSummary
		m.summary = msg
		return m, tea.Quit

	case errorMsg:
		m.state = stateError
		m.err = msg
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

// answer resolves a pending confirmation. Anything but y/n is ignored.
func (m Model) answer(key string) (tea.Model, tea.Cmd) {
	var ok bool
	switch key {
	case "y", "Y", "enter":
		ok = true
	case "n", "N", "q", "esc", "ctrl+c":
		ok = false
	default:
		return m, nil
	}
	m.question.reply <- ok
	m.question = confirmMsg{}
	m.state = stateProcessing
	return m, m.spinner.Tick
}

func (m Model) View() string {
	switch m.state {
	case stateConfirm:
		return promptStyle.Render(m.question.prompt) + faintStyle.Render(" [y/n]")
	case stateProcessing:
		if m.progress.total > 0 {
			return fmt.Sprintf("%s Commentizing... %d/%d", m.spinner.View(), m.progress.current, m.progress.total)
		}
		return fmt.Sprintf("%s Commentizing...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: ", m.err.Error()) + "\n"
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

	hasContent := false
	if len(m.summary.Modified) > 0 {
		hasContent = true
		b.WriteString(successStyle.Render("Commentized:"))
		b.WriteString("\n")
		for _, f := range m.summary.Modified {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(m.summary.Unchanged) > 0 {
		hasContent = true
		b.WriteString(faintStyle.Render("Already commentized:"))
		b.WriteString("\n")
		for _, f := range m.summary.Unchanged {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}
	if len(m.summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", pathStyle.Render(f)))
		}
	}

	if !hasContent && m.summary.Message == "" {
		b.WriteString(faintStyle.Render("Nothing to do."))
		b.WriteString("\n")
	}

	return b.String()
}

// Err returns the error the run ended with, if any.
func (m Model) Err() error {
	return m.err
}

func (m *Model) runApp() tea.Msg {
	summary, err := m.app.Execute()
	if err != nil {
		// Check for detailed error to print stack
		var detailed *commentize.DetailedError
		if errors.As(err, &detailed) {
			// The TUI will exit, so we can print to stderr here for the stack trace.
			fmt.Fprintf(os.Stderr, "\n--- Stack Trace ---\n%s\n", detailed.Stack)
		}
		return errorMsg{err}
	}
	return summaryMsg{
		Summary: summary,
	}
}
