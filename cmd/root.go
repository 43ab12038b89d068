package cmd

import (
	"os"

	"github.com/spf13/cobra"

	// Registers the built-in suites with the default registry.
	_ "specrun/internal/suites"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "specrun",
	Short: "Run behavioral test specifications",
	Long: `specrun registers behavioral test specifications as a tree of scope
and test clauses, then executes them exactly once, reporting an ordered
stream of lifecycle events to the console, a TUI, or a JSON report.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid flags, failed runs)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "specrun version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())
}
