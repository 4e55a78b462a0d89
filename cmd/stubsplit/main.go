package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stubsplit/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	stubRoot   string
	docRoot    string
	dbPath     string
	logLevel   string
	logFile    string
	since      string
	keepGoing  bool
	noStrict   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "stubsplit",
		Short:         "Split docstrings out of Python stub files and merge them back",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to the config file")
	pf.StringVar(&opts.stubRoot, "stub-root", "", "Root directory of the stub files (overrides config)")
	pf.StringVar(&opts.docRoot, "doc-root", "", "Root directory of the .ds docstring files (overrides config)")
	pf.StringVarP(&opts.dbPath, "db", "d", "", "Path to the operation journal database (SQLite)")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFile, "log-file", "", "Also write JSON logs to this file")
	pf.StringVar(&opts.since, "since", "", "Only process stubs changed since this git ref")

	rootCmd.AddCommand(newSplitCmd(opts))
	rootCmd.AddCommand(newCombineCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	return rootCmd
}
