package main

import (
	"errors"
	"os"
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/search"
	"github.com/Zuo-Peng/history-analyser/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func searchCmd(a *app) *cobra.Command {
	var sel selection
	var query string
	var interactive bool

	cmd := &cobra.Command{
		Use:   "search --query <regex>",
		Short: "Regex search across transcript files",
		Long: `Search transcripts with a case-insensitive regular expression. The pattern
is matched anywhere in each record's extracted text: message text, tool
names and inputs, and tool results.

At most 100 matches are listed; total_matches counts them all. A file that
cannot be read shows up as an {"error": ...} entry.

With -i on a terminal, matches are browsed interactively and Enter copies
the command that resumes the selected session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if query == "" {
				return a.fail(errors.New("Missing --query"))
			}
			re, err := search.Compile(query)
			if err != nil {
				return a.fail(err)
			}
			window, err := sel.window(time.Now())
			if err != nil {
				return a.fail(err)
			}
			files, err := sel.resolveFiles(a)
			if err != nil {
				return a.fail(err)
			}

			opts := search.Options{
				Query:   query,
				Window:  window,
				Workers: sel.workerCount(a),
				Logger:  a.log,
			}

			if interactive {
				if term.IsTerminal(int(os.Stdout.Fd())) {
					return tui.Run(files, query, opts, cmd.OutOrStdout())
				}
				a.log.Warn("stdout is not a terminal, ignoring -i")
			}

			report, err := search.Search(files, opts)
			if err != nil {
				return a.fail(err)
			}
			return a.out.Write(reportText{report: report, re: re, color: isTerminal(cmd)})
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVar(&query, "query", "", "Regular expression to search for (case-insensitive)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse matches in a terminal UI")

	return cmd
}

// isTerminal reports whether the command writes to a terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
