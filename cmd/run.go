package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"specrun/internal/config"
	"specrun/internal/reporting"
	"specrun/internal/spec"
	"specrun/internal/tui"
	"specrun/pkg/logging"
)

var (
	runSuite       string
	runIncludeTags []string
	runExcludeTags []string
	runTestName    string
	runPattern     string
	runVerbose     bool
	runTUI         bool
	runReportPath  string
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute registered test suites",
		Long: `Execute the registered test suites and report their outcomes.

Selection flags narrow what runs:
  --suite          run a single suite instead of all of them
  --name           run exactly one test by its full name (requires --suite);
                   this runs the body even for an ignored test
  --pattern        run only tests whose full names match the glob pattern
  --include-tags   run only tests carrying at least one of these tags
  --exclude-tags   never run tests carrying any of these tags

Each suite executes exactly once per process. The command exits non-zero
when any test fails or a suite aborts.`,
		RunE: runRun,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if runTestName != "" && runSuite == "" {
				return fmt.Errorf("--name requires --suite to identify the suite")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runSuite, "suite", "", "Run only the named suite")
	cmd.Flags().StringSliceVar(&runIncludeTags, "include-tags", nil, "Run only tests with at least one of these tags")
	cmd.Flags().StringSliceVar(&runExcludeTags, "exclude-tags", nil, "Skip tests with any of these tags")
	cmd.Flags().StringVar(&runTestName, "name", "", "Run exactly one test by full name")
	cmd.Flags().StringVar(&runPattern, "pattern", "", "Run only tests whose full names match this glob")
	cmd.Flags().BoolVar(&runVerbose, "verbose", false, "Print per-test starting lines")
	cmd.Flags().BoolVar(&runTUI, "tui", false, "Show live progress in a TUI")
	cmd.Flags().StringVar(&runReportPath, "report", "", "Write a JSON run report to this path")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	include := runIncludeTags
	if include == nil {
		include = cfg.Defaults.IncludeTags
	}
	exclude := runExcludeTags
	if exclude == nil {
		exclude = cfg.Defaults.ExcludeTags
	}
	pattern := runPattern
	if pattern == "" {
		pattern = cfg.Defaults.Pattern
	}
	verbose := runVerbose || cfg.Defaults.Verbose
	reportPath := runReportPath
	if reportPath == "" {
		reportPath = cfg.Defaults.ReportPath
	}
	useTUI := runTUI || cfg.TUI.Enabled

	registry := spec.Default()
	names := registry.Names()
	if runSuite != "" {
		if _, ok := registry.Get(runSuite); !ok {
			return fmt.Errorf("no suite registered as %q (known: %v)", runSuite, names)
		}
		names = []string{runSuite}
	}
	if len(names) == 0 {
		return fmt.Errorf("no suites registered")
	}

	suites := make([]*spec.Suite, 0, len(names))
	for _, name := range names {
		s, err := registry.Build(name)
		if err != nil {
			return fmt.Errorf("building suite %q: %w", name, err)
		}
		suites = append(suites, s)
	}

	opts := spec.RunOptions{
		Name:    runTestName,
		Pattern: pattern,
		Filter:  spec.NewTagFilter(include, exclude),
	}

	var statuses []*spec.RunStatus
	var runErr error
	if useTUI {
		statuses, runErr = runSuitesTUI(suites, opts, cfg.TUI.EventBuffer, parseLogLevel(cfg.Logging.Level))
	} else {
		logging.InitForCLI(parseLogLevel(cfg.Logging.Level), os.Stderr)
		statuses, runErr = runSuitesConsole(suites, opts, verbose)
	}

	if reportPath != "" {
		reports := make([]reporting.SuiteReport, 0, len(suites))
		for _, s := range suites {
			reports = append(reports, reporting.BuildSuiteReport(s.Name(), s.Records()))
		}
		if werr := reporting.WriteReportFile(reportPath, reports); werr != nil {
			return fmt.Errorf("writing report: %w", werr)
		}
	}

	if runErr != nil {
		return runErr
	}

	failed := 0
	for _, st := range statuses {
		failed += st.Failed
	}
	if failed > 0 {
		return fmt.Errorf("%d test(s) failed", failed)
	}
	return nil
}

// consoleSink fans run events out through an event bus: every event reaches
// the console reporter, failures additionally reach the debug log. The
// returned closer shuts the bus down.
func consoleSink(console *reporting.ConsoleReporter) (reporting.EventSink, func()) {
	bus := reporting.NewEventBus()
	bus.Subscribe(nil, console.Emit)
	bus.Subscribe(reporting.FilterByType(reporting.EventTypeTestFailed), func(e reporting.Event) {
		if te, ok := e.(*reporting.TestEvent); ok {
			logging.Debug("cmd-run", "test failed: %s", te.TestName)
		}
	})
	return reporting.NewBusSink(bus), bus.Close
}

// runSuitesConsole runs the suites one after another, printing results as
// they happen. A fatal error stops the remaining suites.
func runSuitesConsole(suites []*spec.Suite, opts spec.RunOptions, verbose bool) ([]*spec.RunStatus, error) {
	console := reporting.NewConsoleReporter(verbose)
	sink, closeBus := consoleSink(console)
	defer closeBus()
	opts.Sink = sink

	var statuses []*spec.RunStatus
	for _, s := range suites {
		fmt.Println(s.Name())
		status, err := s.Run(opts)
		if status != nil {
			statuses = append(statuses, status)
		}
		if err != nil {
			return statuses, fmt.Errorf("suite %q aborted: %w", s.Name(), err)
		}
		console.PrintSummary(s.Name(), status.Succeeded, status.Failed, status.Pending, status.Canceled, status.Ignored)
		fmt.Println()
	}
	return statuses, nil
}

// runSuitesTUI runs the suites behind a live bubbletea display. Suites run
// sequentially on a worker goroutine so the event stream stays ordered.
func runSuitesTUI(suites []*spec.Suite, opts spec.RunOptions, eventBuffer int, level logging.LogLevel) ([]*spec.RunStatus, error) {
	if eventBuffer <= 0 {
		eventBuffer = 256
	}
	logCh := logging.InitForTUI(level)
	// Drain log entries for the lifetime of the process; the display has no
	// log pane and a full channel would stall the run.
	go func() {
		for range logCh {
		}
	}()

	buffer := reporting.NewBufferedChannel(eventBuffer, reporting.NewTerminalFirstStrategy(reporting.BufferActionDrop))
	reporter := reporting.NewTUIReporter(buffer)
	opts.Sink = reporter

	// The user can quit the TUI while suites are still running, so the
	// collected statuses stay behind a mutex.
	var mu sync.Mutex
	var statuses []*spec.RunStatus
	go func() {
		var runErr error
		failed := 0
		for _, s := range suites {
			status, err := s.Run(opts)
			if status != nil {
				mu.Lock()
				statuses = append(statuses, status)
				mu.Unlock()
				failed += status.Failed
			}
			if err != nil {
				runErr = fmt.Errorf("suite %q aborted: %w", s.Name(), err)
				break
			}
		}
		reporter.Done("", failed == 0 && runErr == nil, runErr)
	}()

	failed, err := tui.Run(reporter)
	mu.Lock()
	out := make([]*spec.RunStatus, len(statuses))
	copy(out, statuses)
	mu.Unlock()
	if err != nil {
		return out, err
	}
	if failed {
		// The per-test failures already determine the exit code; nothing
		// extra to surface here.
		logging.Debug("cmd-run", "TUI reported failures")
	}
	return out, nil
}

// parseLogLevel maps a config level string onto a LogLevel, defaulting to
// info for unknown values.
func parseLogLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}
