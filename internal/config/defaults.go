package config

// GetDefaultConfig returns the built-in configuration used when no user or
// project file overrides it.
func GetDefaultConfig() Config {
	return Config{
		Defaults: RunDefaults{
			IncludeTags: nil,
			ExcludeTags: nil,
			Pattern:     "",
			Verbose:     false,
			ReportPath:  "",
		},
		TUI: TUISettings{
			Enabled:     false,
			EventBuffer: 256,
		},
		Logging: LoggingSettings{
			Level: "info",
		},
	}
}
