package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/mannubhai1/jinja2visualiser/internal/output"
	"github.com/spf13/cobra"
)

func withTestContext(t *testing.T, format output.Format, quiet bool) (*bytes.Buffer, *bytes.Buffer, func()) {
	t.Helper()
	in := &bytes.Buffer{}
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	ctx := withIO(context.Background(), in, out, errBuf)
	ctx = output.WithFormat(ctx, format)
	ctx = output.WithQuiet(ctx, quiet)
	rootCmd.SetContext(ctx)

	prevType := outputType
	prevFmt := outputFmt
	outputType = format
	outputFmt = string(format)

	return out, errBuf, func() {
		outputType = prevType
		outputFmt = prevFmt
		rootCmd.SetContext(context.Background())
	}
}

func setCmdContext(cmd *cobra.Command) {
	if cmd == nil {
		return
	}
	cmd.SetContext(rootCmd.Context())
}
