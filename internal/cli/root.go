// Package cli implements the palette command line using Cobra.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand returns the palette command tree writing results to out
// and diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "palette",
		Short: "Extract the colour palette and font of web pages",
		Long: `palette reports a page's background colour, primary and secondary font
and button colours, and font family as JSON.

Usage:
  palette analyze <url>... [flags]
  palette analyze --html page.html [--url https://example.com]
  palette analyze --snapshot render.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.AddCommand(newAnalyzeCommand())
	return root
}

// Execute runs the root command against the process's stdio.
func Execute() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
