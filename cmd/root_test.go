package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"specrun/pkg/logging"
)

func TestSetVersion(t *testing.T) {
	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "specrun", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)

	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "run")
	assert.Contains(t, names, "list")
	assert.Contains(t, names, "version")
}

func TestRunCommandFlags(t *testing.T) {
	run := newRunCmd()
	for _, flag := range []string{"suite", "include-tags", "exclude-tags", "name", "pattern", "verbose", "tui", "report"} {
		assert.NotNil(t, run.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestRunCommandNameRequiresSuite(t *testing.T) {
	run := newRunCmd()
	runTestName = "A Stack when empty should be empty"
	runSuite = ""
	defer func() { runTestName = "" }()

	err := run.PreRunE(run, nil)
	assert.ErrorContains(t, err, "--name requires --suite")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logging.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, logging.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, logging.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, logging.LevelError, parseLogLevel("error"))
	assert.Equal(t, logging.LevelInfo, parseLogLevel("bogus"))
}
