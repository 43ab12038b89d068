package reporting

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"specrun/pkg/logging"
)

var (
	scopeStyle    = lipgloss.NewStyle().Bold(true)
	succeedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	canceledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	ignoredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Italic(true)
	causeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Faint(true)
)

// durationColumn is the display width reserved for the test text before the
// duration is appended, so durations line up across a run.
const durationColumn = 60

// ConsoleReporter is an EventSink that renders lifecycle events as an
// indented, styled test report.
type ConsoleReporter struct {
	out     io.Writer
	verbose bool
}

// NewConsoleReporter creates a reporter writing to stdout.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	return &ConsoleReporter{out: os.Stdout, verbose: verbose}
}

// NewConsoleReporterWithWriter creates a reporter writing to w.
func NewConsoleReporterWithWriter(w io.Writer, verbose bool) *ConsoleReporter {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleReporter{out: w, verbose: verbose}
}

// Emit implements EventSink.
func (c *ConsoleReporter) Emit(event Event) {
	switch e := event.(type) {
	case *ScopeEvent:
		c.emitScope(e)
	case *TestEvent:
		c.emitTest(e)
	default:
		logging.Debug("console-reporter", "unrendered event: %s", event)
	}
}

func (c *ConsoleReporter) emitScope(e *ScopeEvent) {
	if e.EventType == EventTypeScopeClosed {
		// Closing a scope produces no output line; the indentation of the
		// following lines already shows the structure.
		return
	}
	fmt.Fprintln(c.out, scopeStyle.Render(e.FormattedText()))
}

func (c *ConsoleReporter) emitTest(e *TestEvent) {
	switch e.EventType {
	case EventTypeTestStarting:
		if c.verbose {
			fmt.Fprintln(c.out, ignoredStyle.Render(e.FormattedText()+" ..."))
		}
		return
	case EventTypeTestSucceeded:
		c.printResult(e, succeedStyle, "✓")
	case EventTypeTestFailed:
		c.printResult(e, failStyle, "✗")
	case EventTypeTestPending:
		c.printResult(e, pendingStyle, "…")
	case EventTypeTestCanceled:
		c.printResult(e, canceledStyle, "∅")
	case EventTypeTestIgnored:
		c.printResult(e, ignoredStyle, "-")
	default:
		logging.Debug("console-reporter", "unrendered test event: %s", e)
	}
}

func (c *ConsoleReporter) printResult(e *TestEvent, style lipgloss.Style, symbol string) {
	line := strings.Repeat("  ", e.Depth) + symbol + " " + e.Text

	if e.Duration > 0 {
		// Pad on display width so wide runes do not skew the column.
		pad := durationColumn - runewidth.StringWidth(line)
		if pad < 1 {
			pad = 1
		}
		line += strings.Repeat(" ", pad) + e.Duration.Round(time.Millisecond).String()
	}
	fmt.Fprintln(c.out, style.Render(line))

	indent := strings.Repeat("  ", e.Depth+1)
	for _, note := range e.Notes {
		fmt.Fprintln(c.out, noteStyle.Render(indent+"+ "+note))
	}
	if e.Cause != nil && e.EventType != EventTypeTestPending {
		causeLine := indent + "cause: " + e.Cause.Error()
		if e.Location != "" {
			causeLine += " (" + e.Location + ")"
		}
		fmt.Fprintln(c.out, causeStyle.Render(causeLine))
	}
}

// PrintSummary renders aggregate counters after a run.
func (c *ConsoleReporter) PrintSummary(suite string, succeeded, failed, pending, canceled, ignored int) {
	total := succeeded + failed + pending + canceled + ignored
	summary := fmt.Sprintf("%s: %d tests, %d succeeded, %d failed, %d pending, %d canceled, %d ignored",
		suite, total, succeeded, failed, pending, canceled, ignored)
	if failed > 0 {
		fmt.Fprintln(c.out, failStyle.Render(summary))
		return
	}
	fmt.Fprintln(c.out, succeedStyle.Render(summary))
}
