package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// TestReport is the serialized record of one test in a report file.
type TestReport struct {
	Name     string        `json:"name"`
	Result   ResultKind    `json:"result"`
	Cause    string        `json:"cause,omitempty"`
	Location string        `json:"location,omitempty"`
	Notes    []string      `json:"notes,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// SuiteReport is the serialized result of one suite run.
type SuiteReport struct {
	Suite       string       `json:"suite"`
	GeneratedAt time.Time    `json:"generated_at"`
	Succeeded   int          `json:"succeeded"`
	Failed      int          `json:"failed"`
	Pending     int          `json:"pending"`
	Canceled    int          `json:"canceled"`
	Ignored     int          `json:"ignored"`
	Tests       []TestReport `json:"tests"`
}

// BuildSuiteReport assembles a report from a suite's record store. Tests
// appear in recording order.
func BuildSuiteReport(suite string, store RunRecordStore) SuiteReport {
	report := SuiteReport{
		Suite:       suite,
		GeneratedAt: time.Now(),
	}

	for _, name := range store.Names() {
		rec, ok := store.Get(name)
		if !ok {
			continue
		}
		tr := TestReport{
			Name:     rec.Name,
			Result:   rec.Result,
			Location: rec.Location,
			Notes:    rec.Notes,
			Duration: rec.Duration,
		}
		if rec.Cause != nil {
			tr.Cause = rec.Cause.Error()
		}
		report.Tests = append(report.Tests, tr)

		switch rec.Result {
		case ResultSucceeded:
			report.Succeeded++
		case ResultFailed:
			report.Failed++
		case ResultPending:
			report.Pending++
		case ResultCanceled:
			report.Canceled++
		case ResultIgnored:
			report.Ignored++
		}
	}
	return report
}

// WriteReportFile marshals the reports to indented JSON at path, creating
// parent directories as needed. Reports are sorted by suite name so output
// is stable across runs.
func WriteReportFile(path string, reports []SuiteReport) error {
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Suite < reports[j].Suite
	})

	jsonData, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}
