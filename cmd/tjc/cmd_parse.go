package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tjc/format"
	"github.com/dhamidi/tjc/java/compile"
)

func newParseCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Compile a source file and dump its syntax tree",
		Long: `Compile a source file and dump its syntax tree.

The tree is written even when compilation fails, so partial trees of broken
files can be inspected. Diagnostics go to stderr, except with --output json
where they are part of the document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := compile.File(args[0], opts.compileOptions()...)
			if err != nil {
				return err
			}
			return encode(cmd, opts, output, result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", format.FormatTree,
		"output format: "+strings.Join(format.Encoders(), ", "))

	return cmd
}

func newTokensCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "List the tokens of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := compile.File(args[0], opts.compileOptions()...)
			if err != nil {
				return err
			}
			return format.NewLineTokenEncoder(cmd.OutOrStdout()).Encode(result)
		},
	}
}

func encode(cmd *cobra.Command, opts *rootOptions, output string, result *compile.Result) error {
	enc, err := format.NewEncoder(output, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if err := enc.Encode(result); err != nil && !errors.Is(err, compile.ErrDiagnostics) {
		return fmt.Errorf("encode: %w", err)
	}
	if result.OK {
		return nil
	}
	if output != format.FormatJSON {
		reporter := format.NewTextReporter(cmd.ErrOrStderr(),
			format.NewStyles(format.IsColorEnabled(opts.cfg.Color, cmd.ErrOrStderr())))
		if err := reporter.Report([]*compile.Result{result}); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	return result.Err()
}
