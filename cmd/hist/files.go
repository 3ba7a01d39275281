package main

import (
	"github.com/Zuo-Peng/history-analyser/internal/scan"
	"github.com/spf13/cobra"
)

func filesCmd(a *app) *cobra.Command {
	var root, project string

	cmd := &cobra.Command{
		Use:   "files",
		Short: "List transcripts under the configured roots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			claudeRoot, history := a.cfg.ClaudeRoot, a.cfg.HistoryFile
			if root != "" {
				claudeRoot, history = root, ""
			}
			files, err := scan.ScanRoots(claudeRoot, history)
			if err != nil {
				return a.fail(err)
			}
			files = scan.FilterProject(files, project)
			if files == nil {
				files = []scan.FileInfo{}
			}
			return a.out.Write(filesText(files))
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Scan this directory instead of claude_root")
	cmd.Flags().StringVar(&project, "project", "", "Only transcripts whose project fuzzy-matches this")

	return cmd
}
