package main

import (
	"time"

	"github.com/Zuo-Peng/history-analyser/internal/summary"
	"github.com/spf13/cobra"
)

func summariseCmd(a *app) *cobra.Command {
	var sel selection
	var perFile bool

	cmd := &cobra.Command{
		Use:     "summarise",
		Aliases: []string{"summarize"},
		Short:   "Summarise transcripts: projects, tools, queries and message counts",
		Long: `Summarise each transcript and merge the results. Only user and assistant
records inside the window count.

With --per-file the per-file summaries are printed instead; they can be
merged later with "hist merge", so large archives can be summarised in
chunks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := sel.window(time.Now())
			if err != nil {
				return a.fail(err)
			}
			files, err := sel.resolveFiles(a)
			if err != nil {
				return a.fail(err)
			}

			results := summary.Summarise(files, summary.Options{
				Window:  window,
				Workers: sel.workerCount(a),
				Logger:  a.log,
			})
			if perFile {
				return a.out.Write(resultsText(results))
			}
			return a.out.Write(mergedText(*summary.Merge(results)))
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVar(&perFile, "per-file", false, "Print one summary per file instead of the merged one")

	return cmd
}
