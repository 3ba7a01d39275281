package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Zuo-Peng/history-analyser/internal/config"
	"github.com/Zuo-Peng/history-analyser/internal/logger"
	"github.com/Zuo-Peng/history-analyser/internal/output"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfgPath  string
	format   string
	logLevel string

	cfg *config.Config
	log *slog.Logger
	out *output.Writer
}

// exitError ends the process with code after the command already reported
// the failure on stdout.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type errorReport struct {
	Error string `json:"error" yaml:"error"`
}

func (r errorReport) WriteText(w *output.Writer) error {
	w.PrintLine("error: %s", r.Error)
	return nil
}

// fail reports err as {"error": ...} and makes the process exit 1.
func (a *app) fail(err error) error {
	if werr := a.out.Write(errorReport{Error: err.Error()}); werr != nil {
		return werr
	}
	return &exitError{code: 1}
}

func (a *app) setup(cmd *cobra.Command) error {
	format, err := output.ParseFormat(a.format)
	if err != nil {
		return err
	}
	a.out = output.NewWriter(cmd.OutOrStdout(), format)

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.log = logger.New(level, cmd.ErrOrStderr())
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "hist",
		Short:         "Query Claude conversation transcripts: date ranges, regex search, summaries",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.format, "format", "json", "Output format: json, yaml or text")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	pf.StringVar(&a.cfgPath, "config", "", "Config file (default ~/.config/hist/config.toml)")

	rootCmd.AddCommand(datesCmd(a))
	rootCmd.AddCommand(searchCmd(a))
	rootCmd.AddCommand(summariseCmd(a))
	rootCmd.AddCommand(mergeCmd(a))
	rootCmd.AddCommand(filesCmd(a))
	rootCmd.AddCommand(previewCmd(a))
	rootCmd.AddCommand(openCmd(a))
	rootCmd.AddCommand(doctorCmd(a))

	return rootCmd
}

func run(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
