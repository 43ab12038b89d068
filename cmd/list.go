package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"specrun/internal/spec"
)

var (
	listSuite    string
	listShowTags bool
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered suites and their tests",
		Long: `List the registered suites and the full names of their tests, in
registration order. With --tags, each test's effective tags are shown,
including the implicit Ignore tag on ignored tests.`,
		RunE: runList,
	}

	cmd.Flags().StringVar(&listSuite, "suite", "", "List only the named suite")
	cmd.Flags().BoolVar(&listShowTags, "tags", false, "Show effective tags per test")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	registry := spec.Default()
	names := registry.Names()
	if listSuite != "" {
		if _, ok := registry.Get(listSuite); !ok {
			return fmt.Errorf("no suite registered as %q (known: %v)", listSuite, names)
		}
		names = []string{listSuite}
	}
	if len(names) == 0 {
		return fmt.Errorf("no suites registered")
	}

	for _, name := range names {
		suite, err := registry.Build(name)
		if err != nil {
			return fmt.Errorf("building suite %q: %w", name, err)
		}

		fmt.Println(suite.Name())
		tags := suite.Tags()
		for _, test := range suite.TestNames() {
			if listShowTags && len(tags[test]) > 0 {
				fmt.Printf("  %s [%s]\n", test, strings.Join(tags[test], ", "))
			} else {
				fmt.Printf("  %s\n", test)
			}
		}
		fmt.Println()
	}
	return nil
}
