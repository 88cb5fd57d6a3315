package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tjc/format"
	"github.com/dhamidi/tjc/java/compile"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var fmtList bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print a .java file in canonical form",
		Long: `Print a .java file in canonical form to stdout.

If no file is provided, reads source from stdin. Comments are not preserved.

Use -w to overwrite the file in place and -l to only list the file when its
formatting differs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			filename := "<stdin>"

			if len(args) == 0 {
				if fmtOverwrite || fmtList {
					return fmt.Errorf("-w and -l require a file argument")
				}
				source, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				if ext := filepath.Ext(filename); ext != ".java" {
					return fmt.Errorf("expected .java file, got %q", ext)
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			output, err := format.PrettyPrint(source)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%v\n", filename, err)
				return compile.ErrDiagnostics
			}

			switch {
			case fmtList:
				if !bytes.Equal(source, output) {
					fmt.Fprintln(cmd.OutOrStdout(), filename)
				}
				return nil
			case fmtOverwrite:
				return os.WriteFile(filename, output, 0644)
			default:
				_, err = cmd.OutOrStdout().Write(output)
				return err
			}
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().BoolVarP(&fmtList, "list", "l", false, "list the file if its formatting differs")

	return cmd
}
