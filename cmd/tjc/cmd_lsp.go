package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/tjc/java/codebase"
)

func newLSPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, opts.compileOptions()...)
			return server.RunStdio()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("tjc %s\n", version)
		},
	}
}
