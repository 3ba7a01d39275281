package main

import (
	"github.com/Zuo-Peng/history-analyser/internal/open"
	"github.com/spf13/cobra"
)

func openCmd(a *app) *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <file>",
		Short: "Open a transcript in the editor at a line",
		Long:  "Open a transcript in the configured editor, $EDITOR, or less.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return open.OpenFile(a.cfg.EditorCommand(), args[0], line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 1, "Line to jump to")

	return cmd
}
