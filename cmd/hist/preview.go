package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/Zuo-Peng/history-analyser/internal/render"
	"github.com/Zuo-Peng/history-analyser/internal/search"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func previewCmd(a *app) *cobra.Command {
	var line, context, width int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show a transcript around a line with matches highlighted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var re *regexp.Regexp
			if query != "" {
				var err error
				if re, err = search.Compile(query); err != nil {
					return a.fail(err)
				}
			}

			if width == 0 && isTerminal(cmd) {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}

			out, _, err := render.RenderFile(args[0], render.Options{
				Line:    line,
				Context: context,
				Width:   width,
				Pattern: re,
			})
			if err != nil {
				return a.fail(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().IntVar(&line, "line", 0, "Line of the record to centre on")
	cmd.Flags().IntVar(&context, "context", 10, "Records before/after the line to show (-1 = all)")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (default: terminal width, 0 = no wrap)")
	cmd.Flags().StringVar(&query, "query", "", "Regex to highlight")

	return cmd
}
