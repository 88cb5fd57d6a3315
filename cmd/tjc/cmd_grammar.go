package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tjc/java/compile"
	"github.com/dhamidi/tjc/java/grammar"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Inspect the language grammar",
	}

	cmd.AddCommand(newGrammarShowCmd())
	cmd.AddCommand(newGrammarVerifyCmd())
	cmd.AddCommand(newGrammarRecognizeCmd())

	return cmd
}

func newGrammarShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the EBNF grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), grammar.Source())
			return err
		},
	}
}

func newGrammarVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every production is defined and reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := grammar.Verify(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return compile.ErrDiagnostics
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d productions, start %s: ok\n", len(grammar.Productions()), grammar.Start)
			return nil
		},
	}
}

func newGrammarRecognizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recognize <file>",
		Short: "Match a source file against the grammar instead of the parser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			err = grammar.Recognize(args[0], src)
			var syntaxErr *grammar.SyntaxError
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
				return nil
			case errors.As(err, &syntaxErr):
				fmt.Fprintln(cmd.ErrOrStderr(), syntaxErr)
				if len(syntaxErr.Expected) > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "  expected one of %v\n", syntaxErr.Expected)
				}
				return compile.ErrDiagnostics
			default:
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return compile.ErrDiagnostics
			}
		},
	}
}
