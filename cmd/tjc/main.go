package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/tjc/config"
	"github.com/dhamidi/tjc/internal/logging"
	"github.com/dhamidi/tjc/java/compile"
)

var version = "0.1.0"

// rootOptions carries the persistent flags and the configuration resolved
// from them into every subcommand.
type rootOptions struct {
	configPath string
	color      string
	format     string
	logLevel   string
	logFile    string
	maxDepth   int
	nodeLimit  int
	maxLocals  int

	cfg *config.Config
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "tjc",
		Short:         "A front end for a tiny Java subset",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to tjc.yaml (default: search upward from the working directory)")
	flags.StringVar(&opts.color, "color", "", "colorize output: auto, always or never")
	flags.StringVar(&opts.format, "format", "", "diagnostics format: text or json")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: error, warn, info or debug")
	flags.StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.IntVar(&opts.maxDepth, "max-depth", 0, "maximum expression and block nesting")
	flags.IntVar(&opts.nodeLimit, "node-limit", 0, "maximum number of AST nodes per file")
	flags.IntVar(&opts.maxLocals, "max-locals", 0, "maximum number of locals per method")

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newLSPCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// load resolves the configuration file and environment, then lets flags
// that were set explicitly win.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(config.LoadOptions{ExplicitPath: o.configPath})
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		cfg.Color = o.color
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if flags.Changed("node-limit") {
		cfg.NodeLimit = o.nodeLimit
	}
	if flags.Changed("max-locals") {
		cfg.MaxLocals = o.maxLocals
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Configure(cfg.LogLevel, cfg.LogFile)
	o.cfg = cfg
	return nil
}

func (o *rootOptions) compileOptions() []compile.Option {
	return o.cfg.CompileOptions()
}

// run executes the command line and returns the process exit code: 0 on
// success, 1 when diagnostics were reported, 2 on any other failure.
func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, compile.ErrDiagnostics):
		return 1
	default:
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
