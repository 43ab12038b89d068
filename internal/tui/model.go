// Package tui renders live run progress for the `specrun run --tui` mode.
// Events arrive as tea.Msg values pumped from a reporting.TUIReporter.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"specrun/internal/reporting"
)

const maxVisibleLines = 200

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	doneStyle    = lipgloss.NewStyle().Bold(true)
)

type model struct {
	spinner  spinner.Model
	lines    []string
	running  string
	counts   map[reporting.EventType]int
	done     bool
	failed   bool
	doneLine string
	quitting bool
	width    int
	height   int
}

// InitialModel builds the run progress model.
func InitialModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return model{
		spinner: s,
		counts:  make(map[reporting.EventType]int),
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case reporting.EventMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case reporting.RunDoneMsg:
		m.done = true
		m.running = ""
		if msg.Err != nil {
			m.failed = true
			m.doneLine = failedStyle.Render(fmt.Sprintf("run aborted: %v", msg.Err))
		} else if msg.Succeeded {
			m.doneLine = okStyle.Render("run finished")
		} else {
			m.failed = true
			m.doneLine = failedStyle.Render("run finished with failures")
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m *model) applyEvent(event reporting.Event) {
	switch e := event.(type) {
	case *reporting.ScopeEvent:
		if e.EventType == reporting.EventTypeScopeOpened {
			m.appendLine(titleStyle.Render(e.FormattedText()))
		}
	case *reporting.TestEvent:
		switch e.EventType {
		case reporting.EventTypeTestStarting:
			m.running = e.TestName
		case reporting.EventTypeTestSucceeded:
			m.finishTest(e, okStyle, "✓")
		case reporting.EventTypeTestFailed:
			m.finishTest(e, failedStyle, "✗")
		case reporting.EventTypeTestPending:
			m.finishTest(e, skippedStyle, "…")
		case reporting.EventTypeTestCanceled:
			m.finishTest(e, skippedStyle, "∅")
		case reporting.EventTypeTestIgnored:
			m.finishTest(e, skippedStyle, "-")
		}
	}
	if reporting.IsTerminal(event.Type()) {
		m.counts[event.Type()]++
	}
}

func (m *model) finishTest(e *reporting.TestEvent, style lipgloss.Style, symbol string) {
	m.running = ""
	line := strings.Repeat("  ", e.Depth) + symbol + " " + e.Text
	m.appendLine(style.Render(line))
	if e.Cause != nil && e.EventType == reporting.EventTypeTestFailed {
		m.appendLine(failedStyle.Render(strings.Repeat("  ", e.Depth+1) + e.Cause.Error()))
	}
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxVisibleLines {
		m.lines = m.lines[len(m.lines)-maxVisibleLines:]
	}
}

// View implements tea.Model.
func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.done {
		b.WriteString("\n")
		b.WriteString(doneStyle.Render(m.summaryLine()))
		b.WriteString("\n")
		b.WriteString(m.doneLine)
		b.WriteString("\n")
	} else if m.running != "" {
		b.WriteString(fmt.Sprintf("\n%s %s\n", m.spinner.View(), m.running))
	} else {
		b.WriteString(fmt.Sprintf("\n%s waiting for tests...\n", m.spinner.View()))
	}

	return b.String()
}

func (m model) summaryLine() string {
	return fmt.Sprintf("%d succeeded, %d failed, %d pending, %d canceled, %d ignored",
		m.counts[reporting.EventTypeTestSucceeded],
		m.counts[reporting.EventTypeTestFailed],
		m.counts[reporting.EventTypeTestPending],
		m.counts[reporting.EventTypeTestCanceled],
		m.counts[reporting.EventTypeTestIgnored])
}

// Run starts the TUI program over the reporter's buffer and blocks until
// the run completes or the user quits. Returns true when the run failed.
func Run(reporter *reporting.TUIReporter) (bool, error) {
	p := tea.NewProgram(InitialModel())

	go reporter.Forward(p)

	finalModel, err := p.Run()
	if err != nil {
		return true, fmt.Errorf("TUI terminated: %w", err)
	}
	if m, ok := finalModel.(model); ok {
		return m.failed, nil
	}
	return false, nil
}
