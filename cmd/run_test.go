package cmd

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"specrun/internal/reporting"
	"specrun/internal/spec"
	"specrun/pkg/logging"
)

func TestConsoleSinkFansOutThroughBus(t *testing.T) {
	logging.InitForCLI(logging.LevelError, io.Discard)

	var buf bytes.Buffer
	console := reporting.NewConsoleReporterWithWriter(&buf, false)
	sink, closeBus := consoleSink(console)
	defer closeBus()

	s := spec.NewSuite("wiring")
	require.NoError(t, s.Describe("A widget", func() error {
		if err := s.Should("assemble", func() error { return nil }); err != nil {
			return err
		}
		return s.Should("reject bad parts", func() error {
			return spec.Fail("part out of tolerance")
		})
	}))

	status, err := s.Run(spec.RunOptions{Sink: sink})
	require.NoError(t, err)
	assert.Equal(t, 1, status.Succeeded)
	assert.Equal(t, 1, status.Failed)

	out := buf.String()
	assert.Contains(t, out, "A widget")
	assert.Contains(t, out, "✓ should assemble")
	assert.Contains(t, out, "✗ should reject bad parts")
}
