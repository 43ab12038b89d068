// Package config loads specrun's layered configuration: built-in defaults,
// then the user file, then the project file, later layers overriding
// earlier ones.
package config

// Config is the full specrun configuration.
type Config struct {
	// Defaults seed the run command's flags.
	Defaults RunDefaults `yaml:"defaults"`
	// TUI configures the live progress display.
	TUI TUISettings `yaml:"tui"`
	// Logging configures log output.
	Logging LoggingSettings `yaml:"logging"`
}

// RunDefaults are the default selection settings for a run.
type RunDefaults struct {
	// IncludeTags is the tag inclusion set; empty means include everything.
	IncludeTags []string `yaml:"include_tags,omitempty"`
	// ExcludeTags is the tag exclusion set; always wins over inclusion.
	ExcludeTags []string `yaml:"exclude_tags,omitempty"`
	// Pattern restricts runs to test names matching this glob.
	Pattern string `yaml:"pattern,omitempty"`
	// Verbose enables per-test starting lines in console output.
	Verbose bool `yaml:"verbose"`
	// ReportPath, when set, receives the JSON run report.
	ReportPath string `yaml:"report_path,omitempty"`
}

// TUISettings configure the bubbletea progress display.
type TUISettings struct {
	// Enabled turns the TUI on by default; the --tui flag overrides.
	Enabled bool `yaml:"enabled"`
	// EventBuffer is the buffered event channel size.
	EventBuffer int `yaml:"event_buffer,omitempty"`
}

// LoggingSettings configure log output.
type LoggingSettings struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level,omitempty"`
}
