package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tjc/format"
	"github.com/dhamidi/tjc/java/codebase"
	"github.com/dhamidi/tjc/java/compile"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <file|dir>...",
		Short: "Parse and type-check source files",
		Long: `Parse and type-check source files and report their diagnostics.

Directories are searched recursively for .java files. The exit status is 1
if any file has diagnostics.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := compileAll(args, opts.compileOptions())
			if err != nil {
				return err
			}

			reporter, err := format.NewReporter(opts.cfg.Format, cmd.OutOrStdout(), opts.cfg.Color)
			if err != nil {
				return err
			}
			if err := reporter.Report(results); err != nil {
				return fmt.Errorf("report: %w", err)
			}

			for _, result := range results {
				if !result.OK {
					return compile.ErrDiagnostics
				}
			}
			return nil
		},
	}
}

// compileAll compiles each file argument and every source file below each
// directory argument, in argument order.
func compileAll(paths []string, opts []compile.Option) ([]*compile.Result, error) {
	var results []*compile.Result
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			cb := codebase.New(path, opts...)
			if err := cb.ScanAll(); err != nil {
				return nil, fmt.Errorf("scan %s: %w", path, err)
			}
			results = append(results, cb.Results()...)
			continue
		}
		result, err := compile.File(path, opts...)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
