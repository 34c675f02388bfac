package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/pyfront/codebase"
	"github.com/dhamidi/pyfront/python/diag"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var warningsAsErrors bool

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Report syntax errors in Python files and directories",
		Long: `Report syntax errors in Python files and directories.

Directories are searched for files matching the configured extensions,
skipping excluded directories. The exit status is non-zero when any
error is found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, path := range args {
				c := codebase.New(path, opts.cfg)
				info, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat %s: %w", path, err)
				}
				if info.IsDir() {
					err = c.ScanAll(cmd.Context())
				} else {
					_, err = c.ScanFile(cmd.Context(), path)
				}
				if err != nil {
					return fmt.Errorf("check %s: %w", path, err)
				}
				for _, file := range c.Files() {
					if reportFile(os.Stdout, c.GetFile(file), warningsAsErrors) {
						failed = true
					}
				}
			}
			if failed {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&warningsAsErrors, "strict", "s", false, "treat warnings as errors")

	return cmd
}

// reportFile prints the diagnostics of f in file:line:column form and
// reports whether any of them counts as an error.
func reportFile(w io.Writer, f *codebase.FileInfo, warningsAsErrors bool) bool {
	failed := false
	for _, d := range f.Diagnostics() {
		if d.Severity == diag.Ignore {
			continue
		}
		if d.Severity >= diag.Error || warningsAsErrors {
			failed = true
		}
		if d.Span.IsNone() {
			fmt.Fprintf(w, "%s: %s: %s\n", f.Path, d.Severity, d.Message)
			continue
		}
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", f.Path, d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message)
	}
	return failed
}
