package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tjc/format"
	"github.com/dhamidi/tjc/java/codebase"
	"github.com/dhamidi/tjc/java/compile"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Recompile source files as they change",
		Long: `Watch a directory and recompile .java files as they change.

Diagnostics are reported for every file that is added or modified. Stop with
Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if _, err := os.Stat(root); err != nil {
				return err
			}

			reporter, err := format.NewReporter(opts.cfg.Format, cmd.OutOrStdout(), opts.cfg.Color)
			if err != nil {
				return err
			}

			cb := codebase.New(root, opts.compileOptions()...)
			watcher := codebase.NewFileWatcher(cb,
				codebase.WithPollInterval(interval),
				codebase.OnChange(func(path string, info *codebase.FileInfo) {
					if info == nil {
						cmd.Printf("removed %s\n", path)
						return
					}
					reporter.Report([]*compile.Result{info.Result})
				}),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			watcher.Start()
			<-ctx.Done()
			watcher.Stop()

			if err := context.Cause(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", codebase.DefaultPollInterval, "polling interval")

	return cmd
}
